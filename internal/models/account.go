package models

import "time"

// User представляет конечного пользователя системы
type User struct {
	ID             int64      `json:"-" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Address        *string    `json:"address,omitempty" db:"address"`
	DOB            *time.Time `json:"dob,omitempty" db:"dob"`
	Gender         *string    `json:"gender,omitempty" db:"gender"`
	Number         *string    `json:"number,omitempty" db:"number"`
	ProfilePicture *string    `json:"profile_picture,omitempty" db:"profile_picture"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// AssistantStatus представляет статус помощника
type AssistantStatus string

const (
	AssistantStatusAvailable AssistantStatus = "available"
	AssistantStatusBusy      AssistantStatus = "busy"
)

// Assistant представляет выездного помощника
type Assistant struct {
	ID             int64           `json:"-" db:"id"`
	AssistantID    int64           `json:"assistant_id" db:"assistant_id"`
	Name           string          `json:"name" db:"name"`
	Email          string          `json:"email" db:"email"`
	PasswordHash   string          `json:"-" db:"password_hash"`
	Status         AssistantStatus `json:"status" db:"status"`
	Latitude       float64         `json:"latitude" db:"latitude"`
	Longitude      float64         `json:"longitude" db:"longitude"`
	DOB            *time.Time      `json:"dob,omitempty" db:"dob"`
	Gender         *string         `json:"gender,omitempty" db:"gender"`
	Number         *string         `json:"number,omitempty" db:"number"`
	Address        *string         `json:"address,omitempty" db:"address"`
	ProfilePicture *string         `json:"profile_picture,omitempty" db:"profile_picture"`
	IDProof        *string         `json:"id_proof,omitempty" db:"id_proof"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Doctor представляет врача
type Doctor struct {
	ID             int64      `json:"-" db:"id"`
	DoctorID       int64      `json:"doctor_id" db:"doctor_id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Gender         string     `json:"gender" db:"gender"`
	DOB            *time.Time `json:"dob,omitempty" db:"dob"`
	RegNo          string     `json:"reg_no" db:"reg_no"`
	Specialization string     `json:"specialization" db:"specialization"`
	Experience     int        `json:"experience" db:"experience"`
	Address        string     `json:"address" db:"address"`
	ProfilePicture *string    `json:"profile_picture,omitempty" db:"profile_picture"`
	IDProof        *string    `json:"id_proof,omitempty" db:"id_proof"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// RegisterUserRequest представляет запрос на регистрацию пользователя
type RegisterUserRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Address        *string `json:"address,omitempty"`
	DOB            *string `json:"dob,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	Number         *string `json:"number,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// RegisterAssistantRequest представляет запрос на регистрацию помощника
type RegisterAssistantRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	DOB            *string  `json:"dob,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	Number         *string  `json:"number,omitempty"`
	Address        *string  `json:"address,omitempty"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	IDProof        *string  `json:"id_proof,omitempty"`
}

// RegisterDoctorRequest представляет запрос на регистрацию врача
type RegisterDoctorRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Gender         string  `json:"gender"`
	DOB            *string `json:"dob,omitempty"`
	RegNo          string  `json:"reg_no"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Address        string  `json:"address"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	IDProof        *string `json:"id_proof,omitempty"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на успешный вход
type LoginResponse struct {
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// AssistantSummary представляет помощника в справочнике доступных
type AssistantSummary struct {
	AssistantID    int64    `json:"assistant_id"`
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Number         *string  `json:"number,omitempty"`
	DistanceMeters *float64 `json:"distance_m,omitempty"`
}

// DoctorSummary представляет врача в справочнике
type DoctorSummary struct {
	DoctorID       int64   `json:"doctor_id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Gender         string  `json:"gender"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Address        string  `json:"address"`
}
