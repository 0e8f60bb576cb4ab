package handlers

import (
	"encoding/json"
	"net/http"

	"care-dispatch/internal/kafka"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"
	"care-dispatch/internal/services"
)

// DispatchHandler представляет обработчик заявок на помощь
type DispatchHandler struct {
	dispatchService *services.DispatchService
	producer        *kafka.Producer
	log             *logger.Logger
}

// NewDispatchHandler создает новый обработчик заявок
func NewDispatchHandler(dispatchService *services.DispatchService, producer *kafka.Producer, log *logger.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
		producer:        producer,
		log:             log,
	}
}

// SendRequest создает заявку для выбранного помощника
func (h *DispatchHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.dispatchService.Send(r.Context(), &req)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to send request")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to send request")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.producer.PublishRequestSent(request); err != nil {
		h.log.WithError(err).Error("Failed to publish request sent event")
		// Заявка уже создана, клиенту ошибку не возвращаем
	}

	writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message":   "request sent successfully",
		"requestId": request.RequestID,
	})
}

// ConfirmRequest подтверждает заявку от имени помощника
func (h *DispatchHandler) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.dispatchService.Confirm(r.Context(), req.RequestID, req.AssistantID); err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to confirm request")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to confirm request")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.producer.PublishRequestConfirmed(req.RequestID, req.AssistantID); err != nil {
		h.log.WithError(err).Error("Failed to publish request confirmed event")
	}
	if err := h.producer.PublishAssistantStatusChanged(req.AssistantID,
		models.AssistantStatusAvailable, models.AssistantStatusBusy); err != nil {
		h.log.WithError(err).Error("Failed to publish assistant status event")
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"message": "request confirmed successfully",
	})
}

// CompleteRequest завершает принятую заявку
func (h *DispatchHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.dispatchService.Complete(r.Context(), req.RequestID, req.AssistantID)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to complete request")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to complete request")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.producer.PublishRequestCompleted(req.RequestID, req.AssistantID); err != nil {
		h.log.WithError(err).Error("Failed to publish request completed event")
	}
	// При расхождении статусов помощник уже был свободен, и события нет
	if result.AssistantReleased {
		if err := h.producer.PublishAssistantStatusChanged(req.AssistantID,
			models.AssistantStatusBusy, result.AssistantStatus); err != nil {
			h.log.WithError(err).Error("Failed to publish assistant status event")
		}
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":          "request completed successfully",
		"request_status":   result.RequestStatus,
		"assistant_status": result.AssistantStatus,
	})
}

// UserRequests возвращает все заявки пользователя
func (h *DispatchHandler) UserRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/pending/requests/user/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	requests, err := h.dispatchService.RequestsForUser(r.Context(), userID)
	if err != nil {
		h.writeListError(w, err, "Failed to list requests")
		return
	}

	writeJSONResponse(w, http.StatusOK, requests)
}

// AssistantRequests возвращает все заявки, назначенные помощнику
func (h *DispatchHandler) AssistantRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	assistantID, err := extractIDFromPath(r.URL.Path, "/pending/requests/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid assistant ID")
		return
	}

	requests, err := h.dispatchService.RequestsForAssistant(r.Context(), assistantID)
	if err != nil {
		h.writeListError(w, err, "Failed to list requests")
		return
	}

	writeJSONResponse(w, http.StatusOK, requests)
}

// Notifications отдает принятые и еще не показанные заявки пользователя.
// Повторный запрос вернет пустой список: уведомление одноразовое.
func (h *DispatchHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/pending/notification/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	notifications, err := h.dispatchService.DequeueNotifications(r.Context(), userID)
	if err != nil {
		h.writeListError(w, err, "Failed to get notifications")
		return
	}

	writeJSONResponse(w, http.StatusOK, notifications)
}

// CheckStatus возвращает статусы всех заявок пользователя
func (h *DispatchHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/pending/check/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	items, err := h.dispatchService.CheckStatus(r.Context(), userID)
	if err != nil {
		h.writeListError(w, err, "Failed to check status")
		return
	}

	writeJSONResponse(w, http.StatusOK, items)
}

func (h *DispatchHandler) writeListError(w http.ResponseWriter, err error, message string) {
	if statusForError(err) == http.StatusInternalServerError {
		h.log.WithError(err).Error(message)
		writeErrorResponse(w, http.StatusInternalServerError, message)
		return
	}
	writeServiceError(w, err)
}
