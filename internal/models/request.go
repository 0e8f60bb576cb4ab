package models

import "time"

// RequestStatus представляет статус заявки на помощь
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
)

// PendingRequest представляет заявку пользователя на выезд помощника.
// AssistantID содержит публичный идентификатор назначенного помощника
// и может быть переназначен при подтверждении.
type PendingRequest struct {
	ID          int64         `json:"-" db:"id"`
	RequestID   int64         `json:"request_id" db:"request_id"`
	UserID      int64         `json:"user_id" db:"user_id"`
	AssistantID *int64        `json:"assistant_id,omitempty" db:"assistant_id"`
	Category    string        `json:"category" db:"category"`
	Description string        `json:"description,omitempty" db:"description"`
	Latitude    *float64      `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64      `json:"longitude,omitempty" db:"longitude"`
	Status      RequestStatus `json:"status" db:"status"`
	Notified    bool          `json:"notified" db:"notified"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// SendRequest представляет запрос на отправку заявки помощнику
type SendRequest struct {
	UserID      int64    `json:"userId"`
	AssistantID int64    `json:"assistantId"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// ConfirmRequest представляет запрос помощника на подтверждение заявки
type ConfirmRequest struct {
	RequestID   int64 `json:"requestId"`
	AssistantID int64 `json:"assistantId"`
}

// CompleteRequest представляет запрос помощника на завершение заявки
type CompleteRequest struct {
	RequestID   int64 `json:"requestId"`
	AssistantID int64 `json:"assistantId"`
}

// CompleteResult представляет итог завершения заявки. AssistantReleased
// показывает, был ли помощник действительно переведен из busy в available:
// при расхождении статусов он уже значился свободным, и перехода не было.
type CompleteResult struct {
	RequestStatus     RequestStatus   `json:"request_status"`
	AssistantStatus   AssistantStatus `json:"assistant_status"`
	AssistantReleased bool            `json:"-"`
}

// RequestSummary представляет заявку в списках пользователя и помощника
type RequestSummary struct {
	RequestID   int64         `json:"requestId"`
	UserID      int64         `json:"userId"`
	UserName    string        `json:"userName"`
	Category    string        `json:"category"`
	Description string        `json:"description,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Status      RequestStatus `json:"status"`
}

// RequestNotification представляет одноразовое уведомление о принятой заявке
type RequestNotification struct {
	RequestID     int64    `json:"requestId"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	AssistantID   *int64   `json:"assistantId"`
	AssistantName *string  `json:"assistantName"`
}

// RequestStatusItem представляет заявку в ответе на запрос статуса
type RequestStatusItem struct {
	RequestID     int64         `json:"requestId"`
	Status        RequestStatus `json:"status"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	AssistantID   *int64        `json:"assistantId"`
	AssistantName *string       `json:"assistantName"`
}
