package services

import (
	"context"
	"fmt"
	"time"

	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"
)

// DispatchStore определяет операции хранилища для диспетчеризации заявок.
// Методы чтения возвращают (nil, nil), если записи нет.
type DispatchStore interface {
	UserByID(ctx context.Context, userID int64) (*models.User, error)
	AssistantByID(ctx context.Context, assistantID int64) (*models.Assistant, error)
	RequestByID(ctx context.Context, requestID int64) (*models.PendingRequest, error)
	RequestIDTaken(ctx context.Context, requestID int64) (bool, error)
	CreateRequest(ctx context.Context, req *models.PendingRequest) error
	RequestsByUser(ctx context.Context, userID int64) ([]models.RequestSummary, error)
	RequestsByAssistant(ctx context.Context, assistantID int64) ([]models.RequestSummary, error)
	StatusByUser(ctx context.Context, userID int64) ([]models.RequestStatusItem, error)

	// DequeueNotifications возвращает принятые, но еще не доставленные
	// заявки пользователя и помечает их доставленными той же транзакцией.
	// Каждая заявка отдается ровно один раз.
	DequeueNotifications(ctx context.Context, userID int64) ([]models.RequestNotification, error)

	// Transact выполняет fn в одной транзакции: применяются либо все
	// изменения, либо ни одно.
	Transact(ctx context.Context, fn func(tx DispatchTx) error) error
}

// DispatchTx определяет примитивы переходов внутри транзакции.
type DispatchTx interface {
	RequestByID(ctx context.Context, requestID int64) (*models.PendingRequest, error)
	AssistantByID(ctx context.Context, assistantID int64) (*models.Assistant, error)

	// SetRequestStatus переводит заявку из from в to и, если assistantID
	// задан, переназначает ее этому помощнику. Возвращает false, если
	// текущий статус заявки не равен from.
	SetRequestStatus(ctx context.Context, requestID int64, from, to models.RequestStatus, assistantID *int64) (bool, error)

	// SetAssistantStatus переводит помощника из from в to. Возвращает
	// false, если текущий статус помощника не равен from.
	SetAssistantStatus(ctx context.Context, assistantID int64, from, to models.AssistantStatus) (bool, error)
}

// DispatchService реализует жизненный цикл заявки: pending -> accepted ->
// completed. Статус помощника меняется только вместе со статусом заявки,
// в одной транзакции, поэтому busy-помощник всегда владеет ровно одной
// принятой заявкой.
type DispatchService struct {
	store DispatchStore
	log   *logger.Logger
}

// NewDispatchService создает новый сервис диспетчеризации
func NewDispatchService(store DispatchStore, log *logger.Logger) *DispatchService {
	return &DispatchService{
		store: store,
		log:   log,
	}
}

// Send создает заявку для выбранного клиентом помощника. Помощник при этом
// не резервируется: заявка - лишь предложение, и несколько пользователей
// могут одновременно предлагать работу одному доступному помощнику.
func (s *DispatchService) Send(ctx context.Context, req *models.SendRequest) (*models.PendingRequest, error) {
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}

	assistant, err := s.store.AssistantByID(ctx, req.AssistantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	if assistant == nil || assistant.Status != models.AssistantStatusAvailable {
		return nil, ErrAssistantUnavailable
	}

	user, err := s.store.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	requestID, err := NewPublicID(ctx, s.store.RequestIDTaken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &models.PendingRequest{
		RequestID:   requestID,
		UserID:      user.UserID,
		AssistantID: &assistant.AssistantID,
		Category:    req.Category,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      models.RequestStatusPending,
		Notified:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"request_id":   request.RequestID,
		"user_id":      user.UserID,
		"assistant_id": assistant.AssistantID,
		"category":     request.Category,
	}).Info("Request sent")

	return request, nil
}

// Confirm переводит заявку в accepted и занимает подтверждающего помощника.
// Заявка переназначается ему, даже если изначально была адресована другому.
// Оба перехода условные: подтвердить можно только pending-заявку, занять -
// только свободного помощника, поэтому из гонки подтверждений выходит
// победителем ровно одно.
func (s *DispatchService) Confirm(ctx context.Context, requestID, assistantID int64) error {
	err := s.store.Transact(ctx, func(tx DispatchTx) error {
		request, err := tx.RequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get request: %w", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}

		assistant, err := tx.AssistantByID(ctx, assistantID)
		if err != nil {
			return fmt.Errorf("failed to get assistant: %w", err)
		}
		if assistant == nil {
			return ErrAssistantNotFound
		}

		ok, err := tx.SetAssistantStatus(ctx, assistant.AssistantID,
			models.AssistantStatusAvailable, models.AssistantStatusBusy)
		if err != nil {
			return fmt.Errorf("failed to mark assistant busy: %w", err)
		}
		if !ok {
			return ErrAssistantUnavailable
		}

		ok, err = tx.SetRequestStatus(ctx, request.RequestID,
			models.RequestStatusPending, models.RequestStatusAccepted, &assistant.AssistantID)
		if err != nil {
			return fmt.Errorf("failed to accept request: %w", err)
		}
		if !ok {
			return ErrRequestNotPending
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"request_id":   requestID,
		"assistant_id": assistantID,
	}).Info("Request confirmed")

	return nil
}

// Complete завершает принятую заявку и освобождает помощника. Завершить
// заявку может только назначенный на нее помощник; повторное завершение
// отклоняется.
func (s *DispatchService) Complete(ctx context.Context, requestID, assistantID int64) (*models.CompleteResult, error) {
	released := false
	err := s.store.Transact(ctx, func(tx DispatchTx) error {
		assistant, err := tx.AssistantByID(ctx, assistantID)
		if err != nil {
			return fmt.Errorf("failed to get assistant: %w", err)
		}
		if assistant == nil {
			return ErrAssistantNotFound
		}

		request, err := tx.RequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get request: %w", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}

		if request.Status == models.RequestStatusCompleted {
			return ErrAlreadyCompleted
		}
		if request.AssistantID == nil || *request.AssistantID != assistant.AssistantID {
			return ErrNotRequestOwner
		}
		if request.Status != models.RequestStatusAccepted {
			return ErrRequestNotAccepted
		}

		ok, err := tx.SetRequestStatus(ctx, request.RequestID,
			models.RequestStatusAccepted, models.RequestStatusCompleted, nil)
		if err != nil {
			return fmt.Errorf("failed to complete request: %w", err)
		}
		if !ok {
			return ErrAlreadyCompleted
		}

		ok, err = tx.SetAssistantStatus(ctx, assistant.AssistantID,
			models.AssistantStatusBusy, models.AssistantStatusAvailable)
		if err != nil {
			return fmt.Errorf("failed to release assistant: %w", err)
		}
		if !ok {
			// Помощник уже значился свободным: статус разошелся с
			// заявками. Завершение не откатываем.
			s.log.WithField("assistant_id", assistant.AssistantID).
				Warn("Assistant was not busy while completing its request")
		}
		released = ok

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"request_id":   requestID,
		"assistant_id": assistantID,
	}).Info("Request completed")

	return &models.CompleteResult{
		RequestStatus:     models.RequestStatusCompleted,
		AssistantStatus:   models.AssistantStatusAvailable,
		AssistantReleased: released,
	}, nil
}

// RequestsForUser возвращает все заявки пользователя без фильтрации по
// статусу или доставленности
func (s *DispatchService) RequestsForUser(ctx context.Context, userID int64) ([]models.RequestSummary, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	requests, err := s.store.RequestsByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// RequestsForAssistant возвращает все заявки, когда-либо назначенные помощнику
func (s *DispatchService) RequestsForAssistant(ctx context.Context, assistantID int64) ([]models.RequestSummary, error) {
	assistant, err := s.store.AssistantByID(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}

	requests, err := s.store.RequestsByAssistant(ctx, assistant.AssistantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// DequeueNotifications отдает принятые и еще не показанные пользователю
// заявки, помечая их доставленными. Это дочитывающая очередь, а не журнал:
// каждая заявка возвращается не более одного раза.
func (s *DispatchService) DequeueNotifications(ctx context.Context, userID int64) ([]models.RequestNotification, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	notifications, err := s.store.DequeueNotifications(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue notifications: %w", err)
	}

	if len(notifications) > 0 {
		s.log.WithFields(map[string]interface{}{
			"user_id": userID,
			"count":   len(notifications),
		}).Debug("Request notifications delivered")
	}

	return notifications, nil
}

// CheckStatus возвращает все заявки пользователя для клиентской сверки,
// независимо от доставленности уведомлений
func (s *DispatchService) CheckStatus(ctx context.Context, userID int64) ([]models.RequestStatusItem, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	items, err := s.store.StatusByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check status: %w", err)
	}
	return items, nil
}
