// Package storage реализует хранилище приложения поверх PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"care-dispatch/internal/database"
	"care-dispatch/internal/services"
)

// queryer объединяет *sql.DB и *sql.Tx, чтобы одни и те же запросы
// работали и вне, и внутри транзакции.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store представляет хранилище всех сущностей приложения
type Store struct {
	db *database.DB
}

// New создает новое хранилище
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Transact выполняет fn в одной транзакции
func (s *Store) Transact(ctx context.Context, fn func(tx services.DispatchTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&dispatchTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
