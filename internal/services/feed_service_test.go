package services

import (
	"context"
	"errors"
	"testing"

	"care-dispatch/internal/models"
)

// memFeed реализует FeedStore в памяти
type memFeed struct {
	users         map[int64]*models.User
	posts         map[int64]*models.Post
	comments      []*models.Comment
	likes         map[int64]map[int64]bool
	notifications []*models.Notification
	nextID        int64
}

func newMemFeed() *memFeed {
	return &memFeed{
		users: map[int64]*models.User{
			100: {UserID: 100, Name: "Alice"},
			101: {UserID: 101, Name: "Carol"},
		},
		posts:  make(map[int64]*models.Post),
		likes:  make(map[int64]map[int64]bool),
		nextID: 1,
	}
}

func (m *memFeed) UserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memFeed) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = post
	return nil
}

func (m *memFeed) PostByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *memFeed) PostWithAuthor(_ context.Context, id int64) (*models.PostView, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return &models.PostView{
		PostID:    p.ID,
		UserID:    p.UserID,
		UserName:  m.users[p.UserID].Name,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (m *memFeed) AllPosts(ctx context.Context) ([]models.PostView, error) {
	out := []models.PostView{}
	for id := range m.posts {
		view, _ := m.PostWithAuthor(ctx, id)
		out = append(out, *view)
	}
	return out, nil
}

func (m *memFeed) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = m.nextID
	m.nextID++
	m.comments = append(m.comments, comment)
	return nil
}

func (m *memFeed) CommentsByPost(_ context.Context, postID int64) ([]models.CommentView, error) {
	out := []models.CommentView{}
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		out = append(out, models.CommentView{
			CommentID: c.ID,
			UserID:    c.UserID,
			UserName:  m.users[c.UserID].Name,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

func (m *memFeed) LikeCount(_ context.Context, postID int64) (int, error) {
	return len(m.likes[postID]), nil
}

func (m *memFeed) HasLiked(_ context.Context, postID, userID int64) (bool, error) {
	return m.likes[postID][userID], nil
}

func (m *memFeed) AddLike(_ context.Context, postID, userID int64) error {
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[int64]bool)
	}
	m.likes[postID][userID] = true
	return nil
}

func (m *memFeed) RemoveLike(_ context.Context, postID, userID int64) error {
	delete(m.likes[postID], userID)
	return nil
}

func (m *memFeed) CreateNotification(_ context.Context, notification *models.Notification) error {
	notification.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *memFeed) UnreadNotifications(_ context.Context, userID int64) ([]models.NotificationView, error) {
	out := []models.NotificationView{}
	for _, n := range m.notifications {
		if n.UserID != userID || n.IsRead {
			continue
		}
		n.IsRead = true
		out = append(out, models.NotificationView{
			NotificationID: n.ID,
			Content:        n.Content,
			CreatedAt:      n.CreatedAt,
			PostID:         n.PostID,
		})
	}
	return out, nil
}

func newFeedFixture(t *testing.T) (*memFeed, *FeedService, *models.Post) {
	t.Helper()
	store := newMemFeed()
	svc := NewFeedService(store, newTestLogger())

	post, err := svc.CreatePost(context.Background(), &models.CreatePostRequest{
		UserID: 100, Content: "hello",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return store, svc, post
}

func TestCreatePostRequiresContent(t *testing.T) {
	svc := NewFeedService(newMemFeed(), newTestLogger())

	_, err := svc.CreatePost(context.Background(), &models.CreatePostRequest{UserID: 100})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCommentNotifiesAuthor(t *testing.T) {
	store, svc, post := newFeedFixture(t)

	_, err := svc.AddComment(context.Background(), &models.CreateCommentRequest{
		UserID: 101, PostID: post.ID, Content: "nice",
	})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	if len(store.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.notifications))
	}
	n := store.notifications[0]
	if n.UserID != 100 {
		t.Fatalf("notification must go to the author, got %d", n.UserID)
	}
	if n.Content != "Carol commented on your post" {
		t.Fatalf("unexpected notification text %q", n.Content)
	}
}

func TestCommentUnknownPost(t *testing.T) {
	_, svc, _ := newFeedFixture(t)

	_, err := svc.AddComment(context.Background(), &models.CreateCommentRequest{
		UserID: 101, PostID: 999, Content: "nice",
	})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	store, svc, post := newFeedFixture(t)

	req := &models.LikeRequest{UserID: 101, PostID: post.ID}
	if err := svc.ToggleLike(context.Background(), req); err != nil {
		t.Fatalf("like: %v", err)
	}
	if !store.likes[post.ID][101] {
		t.Fatalf("like must be recorded")
	}
	if len(store.notifications) != 1 {
		t.Fatalf("like must notify author")
	}

	// Повторный вызов снимает лайк и не шлет уведомление
	if err := svc.ToggleLike(context.Background(), req); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if store.likes[post.ID][101] {
		t.Fatalf("like must be removed")
	}
	if len(store.notifications) != 1 {
		t.Fatalf("unlike must not notify")
	}
}

func TestFeedAnnotatesViewer(t *testing.T) {
	_, svc, post := newFeedFixture(t)

	if err := svc.ToggleLike(context.Background(), &models.LikeRequest{UserID: 101, PostID: post.ID}); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.AddComment(context.Background(), &models.CreateCommentRequest{
		UserID: 101, PostID: post.ID, Content: "nice",
	}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	feed, err := svc.Feed(context.Background(), 101)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 post, got %d", len(feed))
	}
	if feed[0].Likes != 1 || !feed[0].Liked {
		t.Fatalf("expected liked post with 1 like: %+v", feed[0])
	}
	if len(feed[0].Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(feed[0].Comments))
	}

	other, err := svc.Feed(context.Background(), 100)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if other[0].Liked {
		t.Fatalf("author did not like own post")
	}
}

func TestUnreadNotificationsDrain(t *testing.T) {
	_, svc, post := newFeedFixture(t)

	if _, err := svc.AddComment(context.Background(), &models.CreateCommentRequest{
		UserID: 101, PostID: post.ID, Content: "nice",
	}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	first, err := svc.UnreadNotifications(context.Background(), 100)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(first))
	}

	second, err := svc.UnreadNotifications(context.Background(), 100)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("notifications must be marked read, got %d", len(second))
	}
}
