package handlers

import (
	"encoding/json"
	"net/http"

	"care-dispatch/internal/kafka"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"
	"care-dispatch/internal/services"
)

// AppointmentHandler представляет обработчик записей к врачу
type AppointmentHandler struct {
	appointmentService *services.AppointmentService
	producer           *kafka.Producer
	log                *logger.Logger
}

// NewAppointmentHandler создает новый обработчик записей
func NewAppointmentHandler(appointmentService *services.AppointmentService, producer *kafka.Producer, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		producer:           producer,
		log:                log,
	}
}

// AddAppointment создает запись к врачу
func (h *AppointmentHandler) AddAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.AddAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.Add(r.Context(), &req)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to add appointment")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to add appointment")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.producer.PublishAppointmentCreated(appointment); err != nil {
		h.log.WithError(err).Error("Failed to publish appointment created event")
	}

	writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message":        "appointment added successfully",
		"appointment_id": appointment.AppointmentID,
	})
}

// ConfirmAppointment подтверждает запись от имени врача
func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.ConfirmAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.appointmentService.Confirm(r.Context(), req.AppointmentID, req.DoctorID); err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to confirm appointment")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to confirm appointment")
			return
		}
		writeServiceError(w, err)
		return
	}

	if err := h.producer.PublishAppointmentConfirmed(req.AppointmentID, req.DoctorID); err != nil {
		h.log.WithError(err).Error("Failed to publish appointment confirmed event")
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"message": "appointment confirmed successfully",
	})
}

// UserAppointments возвращает записи пользователя
func (h *AppointmentHandler) UserAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, err := extractIDFromPath(r.URL.Path, "/doctor/appointment/user/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	appointments, err := h.appointmentService.ForUser(r.Context(), userID)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to list appointments")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to list appointments")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, appointments)
}

// DoctorAppointments возвращает записи врача
func (h *AppointmentHandler) DoctorAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	doctorID, err := extractIDFromPath(r.URL.Path, "/doctor/appointment/doctor/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	appointments, err := h.appointmentService.ForDoctor(r.Context(), doctorID)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.log.WithError(err).Error("Failed to list appointments")
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to list appointments")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, appointments)
}
