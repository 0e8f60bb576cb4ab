package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"care-dispatch/internal/models"
)

// AppointmentByID получает запись по публичному идентификатору
func (s *Store) AppointmentByID(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	query := `
		SELECT ap.id, ap.appointment_id, u.user_id, d.doctor_id, ap.appointment_time, ap.status, ap.created_at
		FROM appointments ap
		JOIN users u ON u.id = ap.user_ref
		JOIN doctors d ON d.id = ap.doctor_ref
		WHERE ap.appointment_id = $1
	`

	appointment := &models.Appointment{}
	err := s.db.QueryRowContext(ctx, query, appointmentID).Scan(
		&appointment.ID, &appointment.AppointmentID, &appointment.UserID, &appointment.DoctorID,
		&appointment.Time, &appointment.Status, &appointment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return appointment, nil
}

// AppointmentIDTaken проверяет занятость публичного идентификатора записи
func (s *Store) AppointmentIDTaken(ctx context.Context, appointmentID int64) (bool, error) {
	return idTaken(ctx, s.db, "SELECT EXISTS(SELECT 1 FROM appointments WHERE appointment_id = $1)", appointmentID)
}

// CreateAppointment создает запись к врачу
func (s *Store) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (appointment_id, user_ref, doctor_ref, appointment_time, status, created_at)
		VALUES ($1,
		        (SELECT id FROM users WHERE user_id = $2),
		        (SELECT id FROM doctors WHERE doctor_id = $3),
		        $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, appointment.AppointmentID, appointment.UserID,
		appointment.DoctorID, appointment.Time, appointment.Status, appointment.CreatedAt).Scan(&appointment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	return nil
}

// SetAppointmentStatus обновляет статус записи
func (s *Store) SetAppointmentStatus(ctx context.Context, appointmentID int64, status models.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1 WHERE appointment_id = $2`

	result, err := s.db.ExecContext(ctx, query, status, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("appointment %d not found", appointmentID)
	}

	return nil
}

// AppointmentsByUser получает записи пользователя
func (s *Store) AppointmentsByUser(ctx context.Context, userID int64) ([]models.UserAppointment, error) {
	query := `
		SELECT ap.appointment_id, d.doctor_id, d.name, ap.appointment_time, ap.status
		FROM appointments ap
		JOIN users u ON u.id = ap.user_ref
		JOIN doctors d ON d.id = ap.doctor_ref
		WHERE u.user_id = $1
		ORDER BY ap.appointment_time
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []models.UserAppointment{}
	for rows.Next() {
		var a models.UserAppointment
		var when time.Time
		if err := rows.Scan(&a.AppointmentID, &a.DoctorID, &a.DoctorName, &when, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.Date = when.Format("2006-01-02")
		a.Time = when.Format("15:04")
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

// AppointmentsByDoctor получает записи врача
func (s *Store) AppointmentsByDoctor(ctx context.Context, doctorID int64) ([]models.DoctorAppointment, error) {
	query := `
		SELECT ap.appointment_id, u.user_id, u.name, ap.appointment_time, ap.status
		FROM appointments ap
		JOIN users u ON u.id = ap.user_ref
		JOIN doctors d ON d.id = ap.doctor_ref
		WHERE d.doctor_id = $1
		ORDER BY ap.appointment_time
	`

	rows, err := s.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []models.DoctorAppointment{}
	for rows.Next() {
		var a models.DoctorAppointment
		var when time.Time
		if err := rows.Scan(&a.AppointmentID, &a.UserID, &a.UserName, &when, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.Date = when.Format("2006-01-02")
		a.Time = when.Format("15:04")
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}
