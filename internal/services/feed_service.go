package services

import (
	"context"
	"fmt"
	"time"

	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"
)

// FeedStore определяет операции хранилища для социальной ленты.
// Методы чтения возвращают (nil, nil), если записи нет.
type FeedStore interface {
	UserByID(ctx context.Context, userID int64) (*models.User, error)

	CreatePost(ctx context.Context, post *models.Post) error
	PostByID(ctx context.Context, postID int64) (*models.Post, error)
	// PostWithAuthor возвращает публикацию с данными автора, без
	// комментариев и лайков.
	PostWithAuthor(ctx context.Context, postID int64) (*models.PostView, error)
	AllPosts(ctx context.Context) ([]models.PostView, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByPost(ctx context.Context, postID int64) ([]models.CommentView, error)

	LikeCount(ctx context.Context, postID int64) (int, error)
	HasLiked(ctx context.Context, postID, userID int64) (bool, error)
	AddLike(ctx context.Context, postID, userID int64) error
	RemoveLike(ctx context.Context, postID, userID int64) error

	CreateNotification(ctx context.Context, notification *models.Notification) error
	UnreadNotifications(ctx context.Context, userID int64) ([]models.NotificationView, error)
}

// FeedService представляет сервис социальной ленты
type FeedService struct {
	store FeedStore
	log   *logger.Logger
}

// NewFeedService создает новый сервис ленты
func NewFeedService(store FeedStore, log *logger.Logger) *FeedService {
	return &FeedService{
		store: store,
		log:   log,
	}
}

// CreatePost создает публикацию
func (s *FeedService) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	user, err := s.store.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	post := &models.Post{
		UserID:    user.UserID,
		Content:   req.Content,
		Media:     req.Media,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"post_id": post.ID,
		"user_id": user.UserID,
	}).Info("Post created")

	return post, nil
}

// AddComment добавляет комментарий и уведомляет автора публикации
func (s *FeedService) AddComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	user, err := s.store.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	post, err := s.store.PostByID(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    user.UserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	notification := &models.Notification{
		UserID:    post.UserID,
		Content:   fmt.Sprintf("%s commented on your post", user.Name),
		IsRead:    false,
		PostID:    &post.ID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, notification); err != nil {
		// Комментарий уже сохранен, уведомление не критично
		s.log.WithError(err).Error("Failed to create comment notification")
	}

	return comment, nil
}

// ToggleLike ставит лайк или снимает уже поставленный
func (s *FeedService) ToggleLike(ctx context.Context, req *models.LikeRequest) error {
	user, err := s.store.UserByID(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	post, err := s.store.PostByID(ctx, req.PostID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	liked, err := s.store.HasLiked(ctx, post.ID, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}

	if liked {
		if err := s.store.RemoveLike(ctx, post.ID, user.UserID); err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}
		return nil
	}

	if err := s.store.AddLike(ctx, post.ID, user.UserID); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}

	notification := &models.Notification{
		UserID:    post.UserID,
		Content:   fmt.Sprintf("%s liked your post", user.Name),
		IsRead:    false,
		PostID:    &post.ID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, notification); err != nil {
		s.log.WithError(err).Error("Failed to create like notification")
	}

	return nil
}

// Post возвращает публикацию с комментариями
func (s *FeedService) Post(ctx context.Context, postID int64) (*models.PostView, error) {
	view, err := s.store.PostWithAuthor(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if view == nil {
		return nil, ErrPostNotFound
	}

	comments, err := s.store.CommentsByPost(ctx, view.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	view.Comments = comments

	likes, err := s.store.LikeCount(ctx, view.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	view.Likes = likes

	return view, nil
}

// Feed возвращает ленту целиком, от новых публикаций к старым, с числом
// лайков и пометкой, лайкнул ли запрашивающий
func (s *FeedService) Feed(ctx context.Context, viewerID int64) ([]models.PostView, error) {
	posts, err := s.store.AllPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	for i := range posts {
		comments, err := s.store.CommentsByPost(ctx, posts[i].PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		posts[i].Comments = comments

		likes, err := s.store.LikeCount(ctx, posts[i].PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to count likes: %w", err)
		}
		posts[i].Likes = likes

		liked, err := s.store.HasLiked(ctx, posts[i].PostID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check like: %w", err)
		}
		posts[i].Liked = liked
	}

	return posts, nil
}

// UnreadNotifications возвращает непрочитанные уведомления ленты
func (s *FeedService) UnreadNotifications(ctx context.Context, userID int64) ([]models.NotificationView, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	notifications, err := s.store.UnreadNotifications(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
