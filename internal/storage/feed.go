package storage

import (
	"context"
	"database/sql"
	"fmt"

	"care-dispatch/internal/models"
)

// CreatePost создает публикацию
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_ref, content, media, created_at)
		VALUES ((SELECT id FROM users WHERE user_id = $1), $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, post.UserID, post.Content, post.Media, post.CreatedAt).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// PostByID получает публикацию по идентификатору
func (s *Store) PostByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `
		SELECT p.id, u.user_id, p.content, p.media, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_ref
		WHERE p.id = $1
	`

	post := &models.Post{}
	err := s.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.UserID, &post.Content, &post.Media, &post.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// PostWithAuthor получает публикацию вместе с данными автора
func (s *Store) PostWithAuthor(ctx context.Context, postID int64) (*models.PostView, error) {
	query := `
		SELECT p.id, u.user_id, u.name, u.profile_picture, p.content, p.media, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_ref
		WHERE p.id = $1
	`

	view := &models.PostView{}
	err := s.db.QueryRowContext(ctx, query, postID).Scan(
		&view.PostID, &view.UserID, &view.UserName, &view.UserImage,
		&view.Content, &view.Image, &view.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return view, nil
}

// AllPosts получает все публикации, от новых к старым
func (s *Store) AllPosts(ctx context.Context) ([]models.PostView, error) {
	query := `
		SELECT p.id, u.user_id, u.name, u.profile_picture, p.content, p.media, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_ref
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.PostView{}
	for rows.Next() {
		var view models.PostView
		if err := rows.Scan(&view.PostID, &view.UserID, &view.UserName, &view.UserImage,
			&view.Content, &view.Image, &view.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, view)
	}

	return posts, rows.Err()
}

// CreateComment создает комментарий к публикации
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_ref, user_ref, content, created_at)
		VALUES ($1, (SELECT id FROM users WHERE user_id = $2), $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, comment.PostID, comment.UserID,
		comment.Content, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// CommentsByPost получает комментарии публикации, от старых к новым
func (s *Store) CommentsByPost(ctx context.Context, postID int64) ([]models.CommentView, error) {
	query := `
		SELECT c.id, u.user_id, u.name, u.profile_picture, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_ref
		WHERE c.post_ref = $1
		ORDER BY c.created_at
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.CommentView{}
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.CommentID, &c.UserID, &c.UserName, &c.UserImage,
			&c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// LikeCount возвращает число лайков публикации
func (s *Store) LikeCount(ctx context.Context, postID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post_likes WHERE post_ref = $1", postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// HasLiked проверяет, лайкнул ли пользователь публикацию
func (s *Store) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM post_likes pl
			JOIN users u ON u.id = pl.user_ref
			WHERE pl.post_ref = $1 AND u.user_id = $2
		)
	`

	var liked bool
	if err := s.db.QueryRowContext(ctx, query, postID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// AddLike ставит лайк, повторный лайк не дублируется
func (s *Store) AddLike(ctx context.Context, postID, userID int64) error {
	query := `
		INSERT INTO post_likes (post_ref, user_ref)
		VALUES ($1, (SELECT id FROM users WHERE user_id = $2))
		ON CONFLICT DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

// RemoveLike снимает лайк
func (s *Store) RemoveLike(ctx context.Context, postID, userID int64) error {
	query := `
		DELETE FROM post_likes
		WHERE post_ref = $1 AND user_ref = (SELECT id FROM users WHERE user_id = $2)
	`

	if _, err := s.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// CreateNotification создает уведомление ленты
func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_ref, content, is_read, post_ref, created_at)
		VALUES ((SELECT id FROM users WHERE user_id = $1), $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, notification.UserID, notification.Content,
		notification.IsRead, notification.PostID, notification.CreatedAt).Scan(&notification.ID)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// UnreadNotifications получает непрочитанные уведомления и помечает их
// прочитанными за один запрос
func (s *Store) UnreadNotifications(ctx context.Context, userID int64) ([]models.NotificationView, error) {
	query := `
		UPDATE notifications n SET is_read = true
		FROM users u
		WHERE u.id = n.user_ref AND u.user_id = $1 AND n.is_read = false
		RETURNING n.id, n.content, n.created_at, n.post_ref
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.NotificationView{}
	for rows.Next() {
		var n models.NotificationView
		if err := rows.Scan(&n.NotificationID, &n.Content, &n.CreatedAt, &n.PostID); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
