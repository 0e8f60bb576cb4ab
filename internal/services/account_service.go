package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/geo"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// AccountStore определяет операции хранилища для учетных записей.
// Методы чтения возвращают (nil, nil), если записи нет.
type AccountStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	AssistantByEmail(ctx context.Context, email string) (*models.Assistant, error)
	DoctorByEmail(ctx context.Context, email string) (*models.Doctor, error)

	UserIDTaken(ctx context.Context, userID int64) (bool, error)
	AssistantIDTaken(ctx context.Context, assistantID int64) (bool, error)
	DoctorIDTaken(ctx context.Context, doctorID int64) (bool, error)

	CreateUser(ctx context.Context, user *models.User) error
	CreateAssistant(ctx context.Context, assistant *models.Assistant) error
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error

	AvailableAssistants(ctx context.Context) ([]models.Assistant, error)
	Doctors(ctx context.Context) ([]models.Doctor, error)
}

// TokenIssuer выпускает токены доступа для учетных записей
type TokenIssuer interface {
	Issue(accountID int64, role, email string) (string, error)
}

// AccountService представляет сервис регистрации и входа для всех ролей
type AccountService struct {
	store      AccountStore
	tokens     TokenIssuer
	bcryptCost int
	log        *logger.Logger
}

// NewAccountService создает новый сервис учетных записей
func NewAccountService(store AccountStore, tokens TokenIssuer, bcryptCost int, log *logger.Logger) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// RegisterUser регистрирует нового пользователя
func (s *AccountService) RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := NewPublicID(ctx, s.store.UserIDTaken)
	if err != nil {
		return nil, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:         userID,
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Address:        req.Address,
		DOB:            dob,
		Gender:         req.Gender,
		Number:         req.Number,
		ProfilePicture: req.ProfilePicture,
		CreatedAt:      time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"user_id": user.UserID,
		"email":   user.Email,
	}).Info("User registered")

	return user, nil
}

// LoginUser проверяет учетные данные пользователя и выдает токен
func (s *AccountService) LoginUser(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, auth.RoleUser, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		AccountID: user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Token:     token,
	}, nil
}

// RegisterAssistant регистрирует нового помощника. Координаты обязательны:
// живых обновлений местоположения нет, точка задается один раз.
func (s *AccountService) RegisterAssistant(ctx context.Context, req *models.RegisterAssistantRequest) (*models.Assistant, error) {
	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrValidation)
	}

	existing, err := s.store.AssistantByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	assistantID, err := NewPublicID(ctx, s.store.AssistantIDTaken)
	if err != nil {
		return nil, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	assistant := &models.Assistant{
		AssistantID:    assistantID,
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Status:         models.AssistantStatusAvailable,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		DOB:            dob,
		Gender:         req.Gender,
		Number:         req.Number,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
		IDProof:        req.IDProof,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateAssistant(ctx, assistant); err != nil {
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"assistant_id": assistant.AssistantID,
		"email":        assistant.Email,
	}).Info("Assistant registered")

	return assistant, nil
}

// LoginAssistant проверяет учетные данные помощника и выдает токен
func (s *AccountService) LoginAssistant(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	assistant, err := s.store.AssistantByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(assistant.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(assistant.AssistantID, auth.RoleAssistant, assistant.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		AccountID: assistant.AssistantID,
		Name:      assistant.Name,
		Email:     assistant.Email,
		Token:     token,
	}, nil
}

// RegisterDoctor регистрирует нового врача
func (s *AccountService) RegisterDoctor(ctx context.Context, req *models.RegisterDoctorRequest) (*models.Doctor, error) {
	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if req.Gender == "" || req.RegNo == "" || req.Specialization == "" || req.Address == "" {
		return nil, fmt.Errorf("%w: gender, reg_no, specialization and address are required", ErrValidation)
	}

	existing, err := s.store.DoctorByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doctorID, err := NewPublicID(ctx, s.store.DoctorIDTaken)
	if err != nil {
		return nil, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		DoctorID:       doctorID,
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Gender:         req.Gender,
		DOB:            dob,
		RegNo:          req.RegNo,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
		IDProof:        req.IDProof,
		CreatedAt:      time.Now(),
	}

	if err := s.store.CreateDoctor(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"doctor_id": doctor.DoctorID,
		"email":     doctor.Email,
	}).Info("Doctor registered")

	return doctor, nil
}

// LoginDoctor проверяет учетные данные врача и выдает токен
func (s *AccountService) LoginDoctor(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	doctor, err := s.store.DoctorByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(doctor.DoctorID, auth.RoleDoctor, doctor.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		AccountID: doctor.DoctorID,
		Name:      doctor.Name,
		Email:     doctor.Email,
		Token:     token,
	}, nil
}

// AvailableAssistants возвращает справочник свободных помощников. Если
// клиент передал свои координаты, каждый помощник аннотируется расстоянием
// до него; подбор по близости остается на стороне клиента.
func (s *AccountService) AvailableAssistants(ctx context.Context, lat, lon *float64) ([]models.AssistantSummary, error) {
	assistants, err := s.store.AvailableAssistants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}

	summaries := make([]models.AssistantSummary, 0, len(assistants))
	for _, a := range assistants {
		summary := models.AssistantSummary{
			AssistantID:    a.AssistantID,
			Name:           a.Name,
			Latitude:       a.Latitude,
			Longitude:      a.Longitude,
			ProfilePicture: a.ProfilePicture,
			Number:         a.Number,
		}
		if lat != nil && lon != nil {
			d := geo.Distance(*lat, *lon, a.Latitude, a.Longitude)
			summary.DistanceMeters = &d
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Doctors возвращает справочник врачей
func (s *AccountService) Doctors(ctx context.Context) ([]models.DoctorSummary, error) {
	doctors, err := s.store.Doctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	summaries := make([]models.DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		summaries = append(summaries, models.DoctorSummary{
			DoctorID:       d.DoctorID,
			Name:           d.Name,
			ProfilePicture: d.ProfilePicture,
			Gender:         d.Gender,
			Specialization: d.Specialization,
			Experience:     d.Experience,
			Address:        d.Address,
		})
	}

	return summaries, nil
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseDate разбирает необязательную дату в формате YYYY-MM-DD
func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, *value)
	}
	return &t, nil
}
