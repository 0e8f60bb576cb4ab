package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"care-dispatch/internal/services"
)

// ErrorResponse представляет структуру ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSONResponse отправляет JSON ответ
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse отправляет ответ с ошибкой
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	writeJSONResponse(w, statusCode, response)
}

// writeServiceError отображает ошибку сервиса в HTTP статус
func writeServiceError(w http.ResponseWriter, err error) {
	writeErrorResponse(w, statusForError(err), err.Error())
}

// statusForError возвращает HTTP статус для ошибки сервиса
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAssistantNotFound),
		errors.Is(err, services.ErrDoctorNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAssistantUnavailable),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrRequestNotAccepted),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotRequestOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// extractIDFromPath извлекает числовой идентификатор из пути URL
func extractIDFromPath(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, fmt.Errorf("invalid path format")
	}

	idStr := strings.TrimPrefix(path, prefix)

	// Убираем возможный суффикс
	parts := strings.Split(idStr, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("missing ID in path")
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID format: %w", err)
	}

	return id, nil
}

// parseOptionalFloat разбирает необязательный числовой параметр запроса
func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return &f, nil
}

// enableCORS включает CORS заголовки
func enableCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// CORSMiddleware добавляет CORS заголовки
func CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enableCORS(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// LoggingMiddleware логирует HTTP запросы
func LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next(w, r)

		duration := time.Since(start)
		fmt.Printf("[%s] %s %s - %v\n",
			start.Format("2006-01-02 15:04:05"),
			r.Method,
			r.URL.Path,
			duration)
	}
}
