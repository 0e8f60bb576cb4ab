package services

import (
	"context"
	"errors"
	"testing"

	"care-dispatch/internal/models"
)

// memAppointments реализует AppointmentStore в памяти
type memAppointments struct {
	users        map[int64]*models.User
	doctors      map[int64]*models.Doctor
	appointments map[int64]*models.Appointment
}

func newMemAppointments() *memAppointments {
	m := &memAppointments{
		users:        map[int64]*models.User{100: {UserID: 100, Name: "Alice"}},
		doctors:      map[int64]*models.Doctor{300: {DoctorID: 300, Name: "Dr. Smith"}},
		appointments: make(map[int64]*models.Appointment),
	}
	return m
}

func (m *memAppointments) UserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memAppointments) DoctorByID(_ context.Context, id int64) (*models.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (m *memAppointments) AppointmentByID(_ context.Context, id int64) (*models.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (m *memAppointments) AppointmentIDTaken(_ context.Context, id int64) (bool, error) {
	_, ok := m.appointments[id]
	return ok, nil
}

func (m *memAppointments) CreateAppointment(_ context.Context, appointment *models.Appointment) error {
	m.appointments[appointment.AppointmentID] = appointment
	return nil
}

func (m *memAppointments) SetAppointmentStatus(_ context.Context, id int64, status models.AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return errors.New("appointment not found")
	}
	a.Status = status
	return nil
}

func (m *memAppointments) AppointmentsByUser(_ context.Context, userID int64) ([]models.UserAppointment, error) {
	out := []models.UserAppointment{}
	for _, a := range m.appointments {
		if a.UserID != userID {
			continue
		}
		out = append(out, models.UserAppointment{
			AppointmentID: a.AppointmentID,
			DoctorID:      a.DoctorID,
			DoctorName:    m.doctors[a.DoctorID].Name,
			Date:          a.Time.Format("2006-01-02"),
			Time:          a.Time.Format("15:04"),
			Status:        a.Status,
		})
	}
	return out, nil
}

func (m *memAppointments) AppointmentsByDoctor(_ context.Context, doctorID int64) ([]models.DoctorAppointment, error) {
	out := []models.DoctorAppointment{}
	for _, a := range m.appointments {
		if a.DoctorID != doctorID {
			continue
		}
		out = append(out, models.DoctorAppointment{
			AppointmentID: a.AppointmentID,
			UserID:        a.UserID,
			UserName:      m.users[a.UserID].Name,
			Date:          a.Time.Format("2006-01-02"),
			Time:          a.Time.Format("15:04"),
			Status:        a.Status,
		})
	}
	return out, nil
}

func TestAddAppointment(t *testing.T) {
	store := newMemAppointments()
	svc := NewAppointmentService(store, newTestLogger())

	appointment, err := svc.Add(context.Background(), &models.AddAppointmentRequest{
		UserID: 100, DoctorID: 300, Date: "2026-09-15", Time: "14:30",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if appointment.Status != models.AppointmentStatusPending {
		t.Fatalf("new appointment must be pending, got %s", appointment.Status)
	}
	if got := appointment.Time.Format("2006-01-02 15:04"); got != "2026-09-15 14:30" {
		t.Fatalf("unexpected appointment time %q", got)
	}
}

func TestAddAppointmentBadTime(t *testing.T) {
	svc := NewAppointmentService(newMemAppointments(), newTestLogger())

	_, err := svc.Add(context.Background(), &models.AddAppointmentRequest{
		UserID: 100, DoctorID: 300, Date: "2026-09-15", Time: "half past two",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddAppointmentUnknownDoctor(t *testing.T) {
	svc := NewAppointmentService(newMemAppointments(), newTestLogger())

	_, err := svc.Add(context.Background(), &models.AddAppointmentRequest{
		UserID: 100, DoctorID: 999, Date: "2026-09-15", Time: "14:30",
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestConfirmAppointment(t *testing.T) {
	store := newMemAppointments()
	svc := NewAppointmentService(store, newTestLogger())

	appointment, err := svc.Add(context.Background(), &models.AddAppointmentRequest{
		UserID: 100, DoctorID: 300, Date: "2026-09-15", Time: "14:30",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Confirm(context.Background(), appointment.AppointmentID, 300); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if store.appointments[appointment.AppointmentID].Status != models.AppointmentStatusConfirmed {
		t.Fatalf("appointment must be confirmed")
	}
}

func TestConfirmUnknownAppointment(t *testing.T) {
	svc := NewAppointmentService(newMemAppointments(), newTestLogger())

	err := svc.Confirm(context.Background(), 999, 300)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestAppointmentLists(t *testing.T) {
	store := newMemAppointments()
	svc := NewAppointmentService(store, newTestLogger())

	if _, err := svc.Add(context.Background(), &models.AddAppointmentRequest{
		UserID: 100, DoctorID: 300, Date: "2026-09-15", Time: "14:30",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	forUser, err := svc.ForUser(context.Background(), 100)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if len(forUser) != 1 || forUser[0].DoctorName != "Dr. Smith" {
		t.Fatalf("unexpected user list: %+v", forUser)
	}

	forDoctor, err := svc.ForDoctor(context.Background(), 300)
	if err != nil {
		t.Fatalf("for doctor: %v", err)
	}
	if len(forDoctor) != 1 || forDoctor[0].UserName != "Alice" {
		t.Fatalf("unexpected doctor list: %+v", forDoctor)
	}

	if _, err := svc.ForUser(context.Background(), 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
