package models

import "time"

// Post представляет публикацию в ленте
type Post struct {
	ID        int64     `json:"post_id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Media     *string   `json:"media,omitempty" db:"media"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment представляет комментарий к публикации
type Comment struct {
	ID        int64     `json:"comment_id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification представляет уведомление ленты для пользователя
type Notification struct {
	ID        int64     `json:"notification_id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	PostID    *int64    `json:"post_id,omitempty" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreatePostRequest представляет запрос на создание публикации
type CreatePostRequest struct {
	UserID  int64   `json:"user_id"`
	Content string  `json:"content"`
	Media   *string `json:"media,omitempty"`
}

// CreateCommentRequest представляет запрос на создание комментария
type CreateCommentRequest struct {
	UserID  int64  `json:"user_id"`
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

// LikeRequest представляет запрос на лайк/снятие лайка
type LikeRequest struct {
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}

// CommentView представляет комментарий в ответах ленты
type CommentView struct {
	CommentID int64     `json:"comment_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserImage *string   `json:"user_image,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView представляет публикацию с комментариями и лайками
type PostView struct {
	PostID    int64         `json:"post_id"`
	UserID    int64         `json:"user_id"`
	UserName  string        `json:"user_name"`
	UserImage *string       `json:"user_image,omitempty"`
	Content   string        `json:"content"`
	Image     *string       `json:"image,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Comments  []CommentView `json:"comments"`
	Likes     int           `json:"likes"`
	Liked     bool          `json:"liked"`
}

// NotificationView представляет непрочитанное уведомление в ответе API
type NotificationView struct {
	NotificationID int64     `json:"notification_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	PostID         *int64    `json:"post_id,omitempty"`
}
