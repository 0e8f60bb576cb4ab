package services

import (
	"context"
	"fmt"
	"time"

	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"
)

// AppointmentStore определяет операции хранилища для записей к врачу.
// Методы чтения возвращают (nil, nil), если записи нет.
type AppointmentStore interface {
	UserByID(ctx context.Context, userID int64) (*models.User, error)
	DoctorByID(ctx context.Context, doctorID int64) (*models.Doctor, error)
	AppointmentByID(ctx context.Context, appointmentID int64) (*models.Appointment, error)
	AppointmentIDTaken(ctx context.Context, appointmentID int64) (bool, error)
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	SetAppointmentStatus(ctx context.Context, appointmentID int64, status models.AppointmentStatus) error
	AppointmentsByUser(ctx context.Context, userID int64) ([]models.UserAppointment, error)
	AppointmentsByDoctor(ctx context.Context, doctorID int64) ([]models.DoctorAppointment, error)
}

// AppointmentService представляет сервис записи к врачу. Жизненный цикл
// проще диспетчеризации: pending -> confirmed, без занятости врача.
type AppointmentService struct {
	store AppointmentStore
	log   *logger.Logger
}

// NewAppointmentService создает новый сервис записей
func NewAppointmentService(store AppointmentStore, log *logger.Logger) *AppointmentService {
	return &AppointmentService{
		store: store,
		log:   log,
	}
}

// Add создает запись пользователя к врачу
func (s *AppointmentService) Add(ctx context.Context, req *models.AddAppointmentRequest) (*models.Appointment, error) {
	when, err := time.Parse("2006-01-02T15:04", fmt.Sprintf("%sT%s", req.Date, req.Time))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date or time", ErrValidation)
	}

	user, err := s.store.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	doctor, err := s.store.DoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointmentID, err := NewPublicID(ctx, s.store.AppointmentIDTaken)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		AppointmentID: appointmentID,
		UserID:        user.UserID,
		DoctorID:      doctor.DoctorID,
		Time:          when,
		Status:        models.AppointmentStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"appointment_id": appointment.AppointmentID,
		"user_id":        user.UserID,
		"doctor_id":      doctor.DoctorID,
	}).Info("Appointment added")

	return appointment, nil
}

// Confirm подтверждает запись от имени врача
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID, doctorID int64) error {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := s.store.SetAppointmentStatus(ctx, appointment.AppointmentID, models.AppointmentStatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm appointment: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"appointment_id": appointmentID,
		"doctor_id":      doctorID,
	}).Info("Appointment confirmed")

	return nil
}

// ForUser возвращает записи пользователя
func (s *AppointmentService) ForUser(ctx context.Context, userID int64) ([]models.UserAppointment, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	appointments, err := s.store.AppointmentsByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ForDoctor возвращает записи врача
func (s *AppointmentService) ForDoctor(ctx context.Context, doctorID int64) ([]models.DoctorAppointment, error) {
	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointments, err := s.store.AppointmentsByDoctor(ctx, doctor.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
