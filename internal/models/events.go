package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType представляет тип события
type EventType string

const (
	EventTypeRequestSent            EventType = "request.sent"
	EventTypeRequestConfirmed       EventType = "request.confirmed"
	EventTypeRequestCompleted       EventType = "request.completed"
	EventTypeAssistantStatusChanged EventType = "assistant.status_changed"
	EventTypeAppointmentCreated     EventType = "appointment.created"
	EventTypeAppointmentConfirmed   EventType = "appointment.confirmed"
)

// Event представляет базовое событие
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RequestSentEvent представляет событие создания заявки
type RequestSentEvent struct {
	RequestID   int64    `json:"request_id"`
	UserID      int64    `json:"user_id"`
	AssistantID int64    `json:"assistant_id"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// RequestConfirmedEvent представляет событие подтверждения заявки
type RequestConfirmedEvent struct {
	RequestID   int64     `json:"request_id"`
	AssistantID int64     `json:"assistant_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// RequestCompletedEvent представляет событие завершения заявки
type RequestCompletedEvent struct {
	RequestID   int64     `json:"request_id"`
	AssistantID int64     `json:"assistant_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// AssistantStatusChangedEvent представляет событие изменения статуса помощника
type AssistantStatusChangedEvent struct {
	AssistantID int64           `json:"assistant_id"`
	OldStatus   AssistantStatus `json:"old_status"`
	NewStatus   AssistantStatus `json:"new_status"`
	Timestamp   time.Time       `json:"timestamp"`
}

// AppointmentCreatedEvent представляет событие создания записи к врачу
type AppointmentCreatedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	UserID        int64     `json:"user_id"`
	DoctorID      int64     `json:"doctor_id"`
	Time          time.Time `json:"appointment_time"`
}

// AppointmentConfirmedEvent представляет событие подтверждения записи
type AppointmentConfirmedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	DoctorID      int64     `json:"doctor_id"`
	Timestamp     time.Time `json:"timestamp"`
}
