package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"care-dispatch/internal/models"
)

// dispatchTx реализует services.DispatchTx поверх *sql.Tx
type dispatchTx struct {
	q queryer
}

func (t *dispatchTx) RequestByID(ctx context.Context, requestID int64) (*models.PendingRequest, error) {
	return requestByID(ctx, t.q, requestID)
}

func (t *dispatchTx) AssistantByID(ctx context.Context, assistantID int64) (*models.Assistant, error) {
	return assistantByID(ctx, t.q, assistantID)
}

func (t *dispatchTx) SetRequestStatus(ctx context.Context, requestID int64, from, to models.RequestStatus, assistantID *int64) (bool, error) {
	var result sql.Result
	var err error

	// Условный переход: строка меняется, только если текущий статус
	// равен ожидаемому.
	if assistantID != nil {
		query := `
			UPDATE pending_requests
			SET status = $1, assistant_ref = (SELECT id FROM assistants WHERE assistant_id = $2), updated_at = $3
			WHERE request_id = $4 AND status = $5
		`
		result, err = t.q.ExecContext(ctx, query, to, *assistantID, time.Now(), requestID, from)
	} else {
		query := `
			UPDATE pending_requests
			SET status = $1, updated_at = $2
			WHERE request_id = $3 AND status = $4
		`
		result, err = t.q.ExecContext(ctx, query, to, time.Now(), requestID, from)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (t *dispatchTx) SetAssistantStatus(ctx context.Context, assistantID int64, from, to models.AssistantStatus) (bool, error) {
	query := `
		UPDATE assistants
		SET status = $1, updated_at = $2
		WHERE assistant_id = $3 AND status = $4
	`

	result, err := t.q.ExecContext(ctx, query, to, time.Now(), assistantID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update assistant status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// RequestByID получает заявку по публичному идентификатору
func (s *Store) RequestByID(ctx context.Context, requestID int64) (*models.PendingRequest, error) {
	return requestByID(ctx, s.db, requestID)
}

// RequestIDTaken проверяет занятость публичного идентификатора заявки
func (s *Store) RequestIDTaken(ctx context.Context, requestID int64) (bool, error) {
	return idTaken(ctx, s.db, "SELECT EXISTS(SELECT 1 FROM pending_requests WHERE request_id = $1)", requestID)
}

// CreateRequest создает заявку
func (s *Store) CreateRequest(ctx context.Context, req *models.PendingRequest) error {
	query := `
		INSERT INTO pending_requests (request_id, user_ref, assistant_ref, category, description,
		                              latitude, longitude, status, notified, created_at, updated_at)
		VALUES ($1,
		        (SELECT id FROM users WHERE user_id = $2),
		        (SELECT id FROM assistants WHERE assistant_id = $3),
		        $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, req.RequestID, req.UserID, req.AssistantID,
		req.Category, req.Description, req.Latitude, req.Longitude,
		req.Status, req.Notified, req.CreatedAt, req.UpdatedAt).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	return nil
}

// RequestsByUser получает все заявки пользователя
func (s *Store) RequestsByUser(ctx context.Context, userID int64) ([]models.RequestSummary, error) {
	query := `
		SELECT r.request_id, u.user_id, u.name, r.category, COALESCE(r.description, ''),
		       r.latitude, r.longitude, r.created_at, r.status
		FROM pending_requests r
		JOIN users u ON u.id = r.user_ref
		WHERE u.user_id = $1
		ORDER BY r.created_at DESC
	`

	return scanRequestSummaries(ctx, s.db, query, userID)
}

// RequestsByAssistant получает все заявки, назначенные помощнику
func (s *Store) RequestsByAssistant(ctx context.Context, assistantID int64) ([]models.RequestSummary, error) {
	query := `
		SELECT r.request_id, u.user_id, u.name, r.category, COALESCE(r.description, ''),
		       r.latitude, r.longitude, r.created_at, r.status
		FROM pending_requests r
		JOIN users u ON u.id = r.user_ref
		JOIN assistants a ON a.id = r.assistant_ref
		WHERE a.assistant_id = $1
		ORDER BY r.created_at DESC
	`

	return scanRequestSummaries(ctx, s.db, query, assistantID)
}

// StatusByUser получает статусы всех заявок пользователя
func (s *Store) StatusByUser(ctx context.Context, userID int64) ([]models.RequestStatusItem, error) {
	query := `
		SELECT r.request_id, r.status, r.latitude, r.longitude, a.assistant_id, a.name
		FROM pending_requests r
		JOIN users u ON u.id = r.user_ref
		LEFT JOIN assistants a ON a.id = r.assistant_ref
		WHERE u.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query request status: %w", err)
	}
	defer rows.Close()

	items := []models.RequestStatusItem{}
	for rows.Next() {
		var item models.RequestStatusItem
		var assistantID sql.NullInt64
		var assistantName sql.NullString
		if err := rows.Scan(&item.RequestID, &item.Status, &item.Latitude, &item.Longitude,
			&assistantID, &assistantName); err != nil {
			return nil, fmt.Errorf("failed to scan request status: %w", err)
		}
		if assistantID.Valid {
			item.AssistantID = &assistantID.Int64
		}
		if assistantName.Valid {
			item.AssistantName = &assistantName.String
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DequeueNotifications помечает принятые недоставленные заявки пользователя
// доставленными и возвращает их. Один UPDATE ... RETURNING, поэтому каждая
// заявка отдается ровно один раз даже при конкурентных опросах.
func (s *Store) DequeueNotifications(ctx context.Context, userID int64) ([]models.RequestNotification, error) {
	query := `
		UPDATE pending_requests r
		SET notified = true, updated_at = $2
		FROM users u
		WHERE r.user_ref = u.id
		  AND u.user_id = $1
		  AND r.status = 'accepted'
		  AND r.notified = false
		RETURNING r.request_id, r.latitude, r.longitude,
		          (SELECT a.assistant_id FROM assistants a WHERE a.id = r.assistant_ref),
		          (SELECT a.name FROM assistants a WHERE a.id = r.assistant_ref)
	`

	rows, err := s.db.QueryContext(ctx, query, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.RequestNotification{}
	for rows.Next() {
		var n models.RequestNotification
		var assistantID sql.NullInt64
		var assistantName sql.NullString
		if err := rows.Scan(&n.RequestID, &n.Latitude, &n.Longitude, &assistantID, &assistantName); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if assistantID.Valid {
			n.AssistantID = &assistantID.Int64
		}
		if assistantName.Valid {
			n.AssistantName = &assistantName.String
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func requestByID(ctx context.Context, q queryer, requestID int64) (*models.PendingRequest, error) {
	query := `
		SELECT r.id, r.request_id, u.user_id, a.assistant_id, r.category, COALESCE(r.description, ''),
		       r.latitude, r.longitude, r.status, r.notified, r.created_at, r.updated_at
		FROM pending_requests r
		JOIN users u ON u.id = r.user_ref
		LEFT JOIN assistants a ON a.id = r.assistant_ref
		WHERE r.request_id = $1
	`

	req := &models.PendingRequest{}
	var assistantID sql.NullInt64
	err := q.QueryRowContext(ctx, query, requestID).Scan(
		&req.ID, &req.RequestID, &req.UserID, &assistantID, &req.Category, &req.Description,
		&req.Latitude, &req.Longitude, &req.Status, &req.Notified, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if assistantID.Valid {
		req.AssistantID = &assistantID.Int64
	}

	return req, nil
}

func scanRequestSummaries(ctx context.Context, q queryer, query string, arg interface{}) ([]models.RequestSummary, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	summaries := []models.RequestSummary{}
	for rows.Next() {
		var s models.RequestSummary
		if err := rows.Scan(&s.RequestID, &s.UserID, &s.UserName, &s.Category, &s.Description,
			&s.Latitude, &s.Longitude, &s.CreatedAt, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func idTaken(ctx context.Context, q queryer, query string, id int64) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check id: %w", err)
	}
	return exists, nil
}
