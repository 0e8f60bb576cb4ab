package models

import "time"

// AppointmentStatus представляет статус записи к врачу
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
)

// Appointment представляет запись пользователя к врачу
type Appointment struct {
	ID            int64             `json:"-" db:"id"`
	AppointmentID int64             `json:"appointment_id" db:"appointment_id"`
	UserID        int64             `json:"user_id" db:"user_id"`
	DoctorID      int64             `json:"doctor_id" db:"doctor_id"`
	Time          time.Time         `json:"appointment_time" db:"appointment_time"`
	Status        AppointmentStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// AddAppointmentRequest представляет запрос на создание записи
type AddAppointmentRequest struct {
	UserID   int64  `json:"user_id"`
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// ConfirmAppointmentRequest представляет запрос врача на подтверждение записи
type ConfirmAppointmentRequest struct {
	AppointmentID int64 `json:"appointment_id"`
	DoctorID      int64 `json:"doctor_id"`
}

// UserAppointment представляет запись в списке пользователя
type UserAppointment struct {
	AppointmentID int64             `json:"appointment_id"`
	DoctorID      int64             `json:"doctor_id"`
	DoctorName    string            `json:"doctor_name"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
}

// DoctorAppointment представляет запись в списке врача
type DoctorAppointment struct {
	AppointmentID int64             `json:"appointment_id"`
	UserID        int64             `json:"user_id"`
	UserName      string            `json:"user_name"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
}
