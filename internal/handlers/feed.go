package handlers

import (
	"encoding/json"
	"net/http"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/middleware"
	"care-dispatch/internal/models"
	"care-dispatch/internal/services"
)

// FeedHandler представляет обработчик социальной ленты
type FeedHandler struct {
	feedService *services.FeedService
	log         *logger.Logger
}

// NewFeedHandler создает новый обработчик ленты
func NewFeedHandler(feedService *services.FeedService, log *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		log:         log,
	}
}

// CreatePost создает публикацию
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.authorizeUser(w, r, req.UserID) {
		return
	}

	post, err := h.feedService.CreatePost(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create post")
		return
	}

	writeJSONResponse(w, http.StatusCreated, post)
}

// AddComment добавляет комментарий к публикации
func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.authorizeUser(w, r, req.UserID) {
		return
	}

	comment, err := h.feedService.AddComment(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to add comment")
		return
	}

	writeJSONResponse(w, http.StatusCreated, comment)
}

// ToggleLike ставит или снимает лайк
func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.authorizeUser(w, r, req.UserID) {
		return
	}

	if err := h.feedService.ToggleLike(r.Context(), &req); err != nil {
		h.writeError(w, err, "Failed to toggle like")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "like toggled"})
}

// Feed возвращает ленту целиком для пользователя
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/user/feed/all/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !h.authorizeUser(w, r, userID) {
		return
	}

	posts, err := h.feedService.Feed(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "Failed to get feed")
		return
	}

	writeJSONResponse(w, http.StatusOK, posts)
}

// Post возвращает одну публикацию с комментариями
func (h *FeedHandler) Post(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	postID, err := extractIDFromPath(r.URL.Path, "/user/feed/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.feedService.Post(r.Context(), postID)
	if err != nil {
		h.writeError(w, err, "Failed to get post")
		return
	}

	writeJSONResponse(w, http.StatusOK, post)
}

// Notifications возвращает непрочитанные уведомления ленты
func (h *FeedHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/user/notifications/all/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !h.authorizeUser(w, r, userID) {
		return
	}

	notifications, err := h.feedService.UnreadNotifications(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "Failed to get notifications")
		return
	}

	writeJSONResponse(w, http.StatusOK, notifications)
}

// authorizeUser сверяет личность из токена с user_id запроса: писать в ленту
// и читать свои уведомления можно только от собственного имени
func (h *FeedHandler) authorizeUser(w http.ResponseWriter, r *http.Request, userID int64) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Missing token")
		return false
	}
	if claims.Role != auth.RoleUser || claims.AccountID != userID {
		writeErrorResponse(w, http.StatusForbidden, "Token does not match user")
		return false
	}
	return true
}

func (h *FeedHandler) writeError(w http.ResponseWriter, err error, message string) {
	if statusForError(err) == http.StatusInternalServerError {
		h.log.WithError(err).Error(message)
		writeErrorResponse(w, http.StatusInternalServerError, message)
		return
	}
	writeServiceError(w, err)
}
