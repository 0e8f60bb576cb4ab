package database

import (
	"fmt"

	"care-dispatch/internal/logger"
)

// schema описывает все таблицы приложения. Публичные идентификаторы
// (user_id, assistant_id и т.д.) хранятся отдельно от внутренних ключей.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	address TEXT,
	dob DATE,
	gender VARCHAR(50),
	number VARCHAR(20),
	profile_picture TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assistants (
	id BIGSERIAL PRIMARY KEY,
	assistant_id BIGINT NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'available',
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	dob DATE,
	gender VARCHAR(50),
	number VARCHAR(20),
	address TEXT,
	profile_picture TEXT,
	id_proof TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS doctors (
	id BIGSERIAL PRIMARY KEY,
	doctor_id BIGINT NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	gender VARCHAR(50) NOT NULL,
	dob DATE,
	reg_no VARCHAR(100) NOT NULL,
	specialization VARCHAR(255) NOT NULL,
	experience INT NOT NULL,
	address TEXT NOT NULL,
	profile_picture TEXT,
	id_proof TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pending_requests (
	id BIGSERIAL PRIMARY KEY,
	request_id BIGINT NOT NULL UNIQUE,
	user_ref BIGINT NOT NULL REFERENCES users(id),
	assistant_ref BIGINT REFERENCES assistants(id),
	category VARCHAR(100) NOT NULL,
	description TEXT,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	status VARCHAR(20) NOT NULL,
	notified BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pending_requests_user ON pending_requests(user_ref);
CREATE INDEX IF NOT EXISTS idx_pending_requests_assistant ON pending_requests(assistant_ref);
CREATE INDEX IF NOT EXISTS idx_pending_requests_notify ON pending_requests(user_ref, status, notified);

CREATE TABLE IF NOT EXISTS appointments (
	id BIGSERIAL PRIMARY KEY,
	appointment_id BIGINT NOT NULL UNIQUE,
	user_ref BIGINT NOT NULL REFERENCES users(id),
	doctor_ref BIGINT NOT NULL REFERENCES doctors(id),
	appointment_time TIMESTAMPTZ NOT NULL,
	status VARCHAR(20) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	user_ref BIGINT NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	media TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS post_likes (
	post_ref BIGINT NOT NULL REFERENCES posts(id),
	user_ref BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (post_ref, user_ref)
);

CREATE TABLE IF NOT EXISTS comments (
	id BIGSERIAL PRIMARY KEY,
	post_ref BIGINT NOT NULL REFERENCES posts(id),
	user_ref BIGINT NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	user_ref BIGINT NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT false,
	post_ref BIGINT REFERENCES posts(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_ref, is_read);
`

// Migrate создает схему базы данных, если она еще не создана
func Migrate(db *DB, log *logger.Logger) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("Database schema is up to date")
	return nil
}
