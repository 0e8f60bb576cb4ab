package services

import (
	"context"
	"errors"
	"testing"

	"care-dispatch/internal/models"
)

// memAccounts реализует AccountStore в памяти
type memAccounts struct {
	users      map[string]*models.User
	assistants map[string]*models.Assistant
	doctors    map[string]*models.Doctor
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		users:      make(map[string]*models.User),
		assistants: make(map[string]*models.Assistant),
		doctors:    make(map[string]*models.Doctor),
	}
}

func (m *memAccounts) UserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.users[email], nil
}

func (m *memAccounts) AssistantByEmail(_ context.Context, email string) (*models.Assistant, error) {
	return m.assistants[email], nil
}

func (m *memAccounts) DoctorByEmail(_ context.Context, email string) (*models.Doctor, error) {
	return m.doctors[email], nil
}

func (m *memAccounts) UserIDTaken(_ context.Context, id int64) (bool, error) {
	for _, u := range m.users {
		if u.UserID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAccounts) AssistantIDTaken(_ context.Context, id int64) (bool, error) {
	for _, a := range m.assistants {
		if a.AssistantID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAccounts) DoctorIDTaken(_ context.Context, id int64) (bool, error) {
	for _, d := range m.doctors {
		if d.DoctorID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAccounts) CreateUser(_ context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memAccounts) CreateAssistant(_ context.Context, assistant *models.Assistant) error {
	m.assistants[assistant.Email] = assistant
	return nil
}

func (m *memAccounts) CreateDoctor(_ context.Context, doctor *models.Doctor) error {
	m.doctors[doctor.Email] = doctor
	return nil
}

func (m *memAccounts) AvailableAssistants(_ context.Context) ([]models.Assistant, error) {
	out := []models.Assistant{}
	for _, a := range m.assistants {
		if a.Status == models.AssistantStatusAvailable {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAccounts) Doctors(_ context.Context) ([]models.Doctor, error) {
	out := []models.Doctor{}
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	return out, nil
}

type staticTokens struct{}

func (staticTokens) Issue(int64, string, string) (string, error) { return "token-123", nil }

func newAccountFixture() (*memAccounts, *AccountService) {
	store := newMemAccounts()
	// Минимальная стоимость bcrypt, чтобы тесты не тормозили
	return store, NewAccountService(store, staticTokens{}, 4, newTestLogger())
}

func TestRegisterAndLoginUser(t *testing.T) {
	_, svc := newAccountFixture()

	user, err := svc.RegisterUser(context.Background(), &models.RegisterUserRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.UserID < 1 || user.UserID >= publicIDMax {
		t.Fatalf("public id %d outside range", user.UserID)
	}
	if user.PasswordHash == "secret" {
		t.Fatalf("password must be hashed")
	}

	resp, err := svc.LoginUser(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "token-123" {
		t.Fatalf("expected issued token, got %q", resp.Token)
	}
	if resp.AccountID != user.UserID {
		t.Fatalf("login must return public id")
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	_, svc := newAccountFixture()

	req := &models.RegisterUserRequest{Name: "Alice", Email: "a@b.c", Password: "secret"}
	if _, err := svc.RegisterUser(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.RegisterUser(context.Background(), req)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLoginUserWrongPassword(t *testing.T) {
	_, svc := newAccountFixture()

	if _, err := svc.RegisterUser(context.Background(), &models.RegisterUserRequest{
		Name: "Alice", Email: "a@b.c", Password: "secret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.LoginUser(context.Background(), "a@b.c", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	_, svc := newAccountFixture()

	_, err := svc.LoginUser(context.Background(), "nobody@b.c", "secret")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegisterAssistantRequiresCoordinates(t *testing.T) {
	_, svc := newAccountFixture()

	_, err := svc.RegisterAssistant(context.Background(), &models.RegisterAssistantRequest{
		Name: "Bob", Email: "b@b.c", Password: "secret",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegisterAssistantStartsAvailable(t *testing.T) {
	_, svc := newAccountFixture()
	lat, lon := 41.3, 69.2

	assistant, err := svc.RegisterAssistant(context.Background(), &models.RegisterAssistantRequest{
		Name: "Bob", Email: "b@b.c", Password: "secret",
		Latitude: &lat, Longitude: &lon,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if assistant.Status != models.AssistantStatusAvailable {
		t.Fatalf("new assistant must be available, got %s", assistant.Status)
	}
}

func TestRegisterDoctorRequiredFields(t *testing.T) {
	_, svc := newAccountFixture()

	_, err := svc.RegisterDoctor(context.Background(), &models.RegisterDoctorRequest{
		Name: "Dr", Email: "d@b.c", Password: "secret",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAvailableAssistantsDistanceAnnotation(t *testing.T) {
	_, svc := newAccountFixture()
	lat, lon := 41.3, 69.2

	if _, err := svc.RegisterAssistant(context.Background(), &models.RegisterAssistantRequest{
		Name: "Bob", Email: "b@b.c", Password: "secret",
		Latitude: &lat, Longitude: &lon,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	plain, err := svc.AvailableAssistants(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plain) != 1 || plain[0].DistanceMeters != nil {
		t.Fatalf("expected 1 assistant without distance")
	}

	annotated, err := svc.AvailableAssistants(context.Background(), &lat, &lon)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if annotated[0].DistanceMeters == nil {
		t.Fatalf("expected distance annotation")
	}
	if *annotated[0].DistanceMeters > 1 {
		t.Fatalf("distance to self must be ~0, got %f", *annotated[0].DistanceMeters)
	}
}

func TestRegisterUserBadDate(t *testing.T) {
	_, svc := newAccountFixture()
	dob := "31-12-1990"

	_, err := svc.RegisterUser(context.Background(), &models.RegisterUserRequest{
		Name: "Alice", Email: "a@b.c", Password: "secret", DOB: &dob,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
