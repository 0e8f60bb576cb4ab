package storage

import (
	"context"
	"database/sql"
	"fmt"

	"care-dispatch/internal/models"
)

const userColumns = `id, user_id, name, email, password_hash, address, dob, gender, number, profile_picture, created_at`

const assistantColumns = `id, assistant_id, name, email, password_hash, status, latitude, longitude,
       dob, gender, number, address, profile_picture, id_proof, created_at, updated_at`

const doctorColumns = `id, doctor_id, name, email, password_hash, gender, dob, reg_no,
       specialization, experience, address, profile_picture, id_proof, created_at`

// UserByID получает пользователя по публичному идентификатору
func (s *Store) UserByID(ctx context.Context, userID int64) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

// UserByEmail получает пользователя по email
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UserIDTaken проверяет занятость публичного идентификатора пользователя
func (s *Store) UserIDTaken(ctx context.Context, userID int64) (bool, error) {
	return idTaken(ctx, s.db, "SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)", userID)
}

// CreateUser создает пользователя
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, address, dob, gender, number, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, user.UserID, user.Name, user.Email, user.PasswordHash,
		user.Address, user.DOB, user.Gender, user.Number, user.ProfilePicture, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// AssistantByID получает помощника по публичному идентификатору
func (s *Store) AssistantByID(ctx context.Context, assistantID int64) (*models.Assistant, error) {
	return assistantByID(ctx, s.db, assistantID)
}

// AssistantByEmail получает помощника по email
func (s *Store) AssistantByEmail(ctx context.Context, email string) (*models.Assistant, error) {
	return scanAssistant(s.db.QueryRowContext(ctx,
		`SELECT `+assistantColumns+` FROM assistants WHERE email = $1`, email))
}

// AssistantIDTaken проверяет занятость публичного идентификатора помощника
func (s *Store) AssistantIDTaken(ctx context.Context, assistantID int64) (bool, error) {
	return idTaken(ctx, s.db, "SELECT EXISTS(SELECT 1 FROM assistants WHERE assistant_id = $1)", assistantID)
}

// CreateAssistant создает помощника
func (s *Store) CreateAssistant(ctx context.Context, assistant *models.Assistant) error {
	query := `
		INSERT INTO assistants (assistant_id, name, email, password_hash, status, latitude, longitude,
		                        dob, gender, number, address, profile_picture, id_proof, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, assistant.AssistantID, assistant.Name, assistant.Email,
		assistant.PasswordHash, assistant.Status, assistant.Latitude, assistant.Longitude,
		assistant.DOB, assistant.Gender, assistant.Number, assistant.Address,
		assistant.ProfilePicture, assistant.IDProof, assistant.CreatedAt, assistant.UpdatedAt).Scan(&assistant.ID)
	if err != nil {
		return fmt.Errorf("failed to insert assistant: %w", err)
	}

	return nil
}

// AvailableAssistants получает список свободных помощников
func (s *Store) AvailableAssistants(ctx context.Context) ([]models.Assistant, error) {
	query := `SELECT ` + assistantColumns + ` FROM assistants WHERE status = 'available' ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assistants: %w", err)
	}
	defer rows.Close()

	assistants := []models.Assistant{}
	for rows.Next() {
		assistant, err := scanAssistantRow(rows)
		if err != nil {
			return nil, err
		}
		assistants = append(assistants, *assistant)
	}

	return assistants, rows.Err()
}

// DoctorByID получает врача по публичному идентификатору
func (s *Store) DoctorByID(ctx context.Context, doctorID int64) (*models.Doctor, error) {
	return scanDoctor(s.db.QueryRowContext(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE doctor_id = $1`, doctorID))
}

// DoctorByEmail получает врача по email
func (s *Store) DoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return scanDoctor(s.db.QueryRowContext(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE email = $1`, email))
}

// DoctorIDTaken проверяет занятость публичного идентификатора врача
func (s *Store) DoctorIDTaken(ctx context.Context, doctorID int64) (bool, error) {
	return idTaken(ctx, s.db, "SELECT EXISTS(SELECT 1 FROM doctors WHERE doctor_id = $1)", doctorID)
}

// CreateDoctor создает врача
func (s *Store) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	query := `
		INSERT INTO doctors (doctor_id, name, email, password_hash, gender, dob, reg_no,
		                     specialization, experience, address, profile_picture, id_proof, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, doctor.DoctorID, doctor.Name, doctor.Email,
		doctor.PasswordHash, doctor.Gender, doctor.DOB, doctor.RegNo, doctor.Specialization,
		doctor.Experience, doctor.Address, doctor.ProfilePicture, doctor.IDProof, doctor.CreatedAt).Scan(&doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}

	return nil
}

// Doctors получает список всех врачей
func (s *Store) Doctors(ctx context.Context) ([]models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	doctors := []models.Doctor{}
	for rows.Next() {
		var d models.Doctor
		if err := rows.Scan(&d.ID, &d.DoctorID, &d.Name, &d.Email, &d.PasswordHash, &d.Gender,
			&d.DOB, &d.RegNo, &d.Specialization, &d.Experience, &d.Address,
			&d.ProfilePicture, &d.IDProof, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	return doctors, rows.Err()
}

func assistantByID(ctx context.Context, q queryer, assistantID int64) (*models.Assistant, error) {
	return scanAssistant(q.QueryRowContext(ctx,
		`SELECT `+assistantColumns+` FROM assistants WHERE assistant_id = $1`, assistantID))
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.UserID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Address, &user.DOB, &user.Gender, &user.Number, &user.ProfilePicture, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanAssistant(row *sql.Row) (*models.Assistant, error) {
	assistant := &models.Assistant{}
	err := row.Scan(&assistant.ID, &assistant.AssistantID, &assistant.Name, &assistant.Email,
		&assistant.PasswordHash, &assistant.Status, &assistant.Latitude, &assistant.Longitude,
		&assistant.DOB, &assistant.Gender, &assistant.Number, &assistant.Address,
		&assistant.ProfilePicture, &assistant.IDProof, &assistant.CreatedAt, &assistant.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	return assistant, nil
}

func scanAssistantRow(rows *sql.Rows) (*models.Assistant, error) {
	assistant := &models.Assistant{}
	err := rows.Scan(&assistant.ID, &assistant.AssistantID, &assistant.Name, &assistant.Email,
		&assistant.PasswordHash, &assistant.Status, &assistant.Latitude, &assistant.Longitude,
		&assistant.DOB, &assistant.Gender, &assistant.Number, &assistant.Address,
		&assistant.ProfilePicture, &assistant.IDProof, &assistant.CreatedAt, &assistant.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assistant: %w", err)
	}
	return assistant, nil
}

func scanDoctor(row *sql.Row) (*models.Doctor, error) {
	doctor := &models.Doctor{}
	err := row.Scan(&doctor.ID, &doctor.DoctorID, &doctor.Name, &doctor.Email, &doctor.PasswordHash,
		&doctor.Gender, &doctor.DOB, &doctor.RegNo, &doctor.Specialization, &doctor.Experience,
		&doctor.Address, &doctor.ProfilePicture, &doctor.IDProof, &doctor.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}
