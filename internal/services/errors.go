package services

import "errors"

// Ошибки сервисного слоя. Обработчики сопоставляют их с HTTP статусами
// через errors.Is; хранилище наружу свои ошибки не отдает.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAssistantNotFound   = errors.New("assistant not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrRequestNotFound     = errors.New("request not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPostNotFound        = errors.New("post not found")

	ErrAssistantUnavailable = errors.New("assistant is not available")
	ErrRequestNotPending    = errors.New("request is not pending")
	ErrRequestNotAccepted   = errors.New("request is not accepted")
	ErrAlreadyCompleted     = errors.New("request is already completed")
	ErrNotRequestOwner      = errors.New("request does not belong to this assistant")

	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid input")
)
