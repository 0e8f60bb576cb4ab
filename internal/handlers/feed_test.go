package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/config"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/middleware"
	"care-dispatch/internal/models"
	"care-dispatch/internal/services"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.LoggerConfig{Level: "panic", Format: "text"})
}

// feedStoreStub реализует services.FeedStore в памяти
type feedStoreStub struct {
	users  map[int64]*models.User
	posts  []*models.Post
	nextID int64
}

func newFeedStoreStub() *feedStoreStub {
	return &feedStoreStub{
		users: map[int64]*models.User{
			100: {UserID: 100, Name: "Alice"},
		},
		nextID: 1,
	}
}

func (s *feedStoreStub) UserByID(_ context.Context, userID int64) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *feedStoreStub) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = s.nextID
	s.nextID++
	copied := *post
	s.posts = append(s.posts, &copied)
	return nil
}

func (s *feedStoreStub) PostByID(_ context.Context, postID int64) (*models.Post, error) {
	for _, p := range s.posts {
		if p.ID == postID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *feedStoreStub) PostWithAuthor(_ context.Context, postID int64) (*models.PostView, error) {
	return nil, nil
}

func (s *feedStoreStub) AllPosts(_ context.Context) ([]models.PostView, error) {
	return []models.PostView{}, nil
}

func (s *feedStoreStub) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = s.nextID
	s.nextID++
	return nil
}

func (s *feedStoreStub) CommentsByPost(_ context.Context, postID int64) ([]models.CommentView, error) {
	return []models.CommentView{}, nil
}

func (s *feedStoreStub) LikeCount(_ context.Context, postID int64) (int, error) { return 0, nil }

func (s *feedStoreStub) HasLiked(_ context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (s *feedStoreStub) AddLike(_ context.Context, postID, userID int64) error    { return nil }
func (s *feedStoreStub) RemoveLike(_ context.Context, postID, userID int64) error { return nil }

func (s *feedStoreStub) CreateNotification(_ context.Context, notification *models.Notification) error {
	return nil
}

func (s *feedStoreStub) UnreadNotifications(_ context.Context, userID int64) ([]models.NotificationView, error) {
	return []models.NotificationView{}, nil
}

func newFeedHandlerFixture() (*feedStoreStub, *FeedHandler) {
	store := newFeedStoreStub()
	svc := services.NewFeedService(store, newTestLogger())
	return store, NewFeedHandler(svc, newTestLogger())
}

func requestWithClaims(method, path, body string, claims *auth.Claims) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if claims != nil {
		r = r.WithContext(middleware.ContextWithClaims(r.Context(), *claims))
	}
	return r
}

func userClaims(accountID int64) *auth.Claims {
	return &auth.Claims{AccountID: accountID, Role: auth.RoleUser}
}

func TestCreatePostWithMatchingToken(t *testing.T) {
	store, handler := newFeedHandlerFixture()

	r := requestWithClaims(http.MethodPost, "/user/feed/post",
		`{"user_id": 100, "content": "hello"}`, userClaims(100))
	w := httptest.NewRecorder()

	handler.CreatePost(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.posts) != 1 || store.posts[0].UserID != 100 {
		t.Fatalf("post must be stored for user 100")
	}
}

func TestCreatePostForAnotherUserForbidden(t *testing.T) {
	store, handler := newFeedHandlerFixture()
	store.users[101] = &models.User{UserID: 101, Name: "Carol"}

	r := requestWithClaims(http.MethodPost, "/user/feed/post",
		`{"user_id": 100, "content": "hello"}`, userClaims(101))
	w := httptest.NewRecorder()

	handler.CreatePost(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if len(store.posts) != 0 {
		t.Fatalf("post must not be stored")
	}
}

func TestCreatePostWithoutClaims(t *testing.T) {
	store, handler := newFeedHandlerFixture()

	r := requestWithClaims(http.MethodPost, "/user/feed/post",
		`{"user_id": 100, "content": "hello"}`, nil)
	w := httptest.NewRecorder()

	handler.CreatePost(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(store.posts) != 0 {
		t.Fatalf("post must not be stored")
	}
}

func TestToggleLikeForAnotherUserForbidden(t *testing.T) {
	_, handler := newFeedHandlerFixture()

	r := requestWithClaims(http.MethodPost, "/user/feed/like",
		`{"user_id": 100, "post_id": 1}`, userClaims(101))
	w := httptest.NewRecorder()

	handler.ToggleLike(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestNotificationsRejectNonUserToken(t *testing.T) {
	_, handler := newFeedHandlerFixture()

	claims := &auth.Claims{AccountID: 100, Role: auth.RoleAssistant}
	r := requestWithClaims(http.MethodGet, "/user/notifications/all/100", "", claims)
	w := httptest.NewRecorder()

	handler.Notifications(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestFeedBoundToTokenIdentity(t *testing.T) {
	_, handler := newFeedHandlerFixture()

	r := requestWithClaims(http.MethodGet, "/user/feed/all/100", "", userClaims(100))
	w := httptest.NewRecorder()

	handler.Feed(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	r = requestWithClaims(http.MethodGet, "/user/feed/all/100", "", userClaims(999))
	w = httptest.NewRecorder()

	handler.Feed(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
