package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"care-dispatch/internal/config"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/models"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer представляет Kafka producer
type Producer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
	topics   *config.Topics
}

// NewProducer создает новый Kafka producer
func NewProducer(cfg *config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll       // Ждем подтверждения от всех реплик
	config.Producer.Retry.Max = 3                          // Максимум 3 попытки
	config.Producer.Return.Successes = true                // Возвращаем успешные результаты
	config.Producer.Compression = sarama.CompressionSnappy // Сжатие данных

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka producer created successfully")

	return &Producer{
		producer: producer,
		log:      log,
		topics:   &cfg.Topics,
	}, nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	return p.producer.Close()
}

// PublishRequestSent публикует событие создания заявки
func (p *Producer) PublishRequestSent(request *models.PendingRequest) error {
	var assistantID int64
	if request.AssistantID != nil {
		assistantID = *request.AssistantID
	}

	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeRequestSent,
		Timestamp: time.Now(),
		Data: models.RequestSentEvent{
			RequestID:   request.RequestID,
			UserID:      request.UserID,
			AssistantID: assistantID,
			Category:    request.Category,
			Latitude:    request.Latitude,
			Longitude:   request.Longitude,
		},
	}

	return p.publishEvent(p.topics.Requests, event)
}

// PublishRequestConfirmed публикует событие подтверждения заявки
func (p *Producer) PublishRequestConfirmed(requestID, assistantID int64) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeRequestConfirmed,
		Timestamp: time.Now(),
		Data: models.RequestConfirmedEvent{
			RequestID:   requestID,
			AssistantID: assistantID,
			Timestamp:   time.Now(),
		},
	}

	return p.publishEvent(p.topics.Requests, event)
}

// PublishRequestCompleted публикует событие завершения заявки
func (p *Producer) PublishRequestCompleted(requestID, assistantID int64) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeRequestCompleted,
		Timestamp: time.Now(),
		Data: models.RequestCompletedEvent{
			RequestID:   requestID,
			AssistantID: assistantID,
			Timestamp:   time.Now(),
		},
	}

	return p.publishEvent(p.topics.Requests, event)
}

// PublishAssistantStatusChanged публикует событие изменения статуса помощника
func (p *Producer) PublishAssistantStatusChanged(assistantID int64, oldStatus, newStatus models.AssistantStatus) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeAssistantStatusChanged,
		Timestamp: time.Now(),
		Data: models.AssistantStatusChangedEvent{
			AssistantID: assistantID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			Timestamp:   time.Now(),
		},
	}

	return p.publishEvent(p.topics.Assistants, event)
}

// PublishAppointmentCreated публикует событие создания записи к врачу
func (p *Producer) PublishAppointmentCreated(appointment *models.Appointment) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeAppointmentCreated,
		Timestamp: time.Now(),
		Data: models.AppointmentCreatedEvent{
			AppointmentID: appointment.AppointmentID,
			UserID:        appointment.UserID,
			DoctorID:      appointment.DoctorID,
			Time:          appointment.Time,
		},
	}

	return p.publishEvent(p.topics.Appointments, event)
}

// PublishAppointmentConfirmed публикует событие подтверждения записи
func (p *Producer) PublishAppointmentConfirmed(appointmentID, doctorID int64) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeAppointmentConfirmed,
		Timestamp: time.Now(),
		Data: models.AppointmentConfirmedEvent{
			AppointmentID: appointmentID,
			DoctorID:      doctorID,
			Timestamp:     time.Now(),
		},
	}

	return p.publishEvent(p.topics.Appointments, event)
}

// publishEvent публикует событие в указанный топик
func (p *Producer) publishEvent(topic string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.ID.String()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(event.Type),
			},
			{
				Key:   []byte("timestamp"),
				Value: []byte(event.Timestamp.Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	p.log.WithField("topic", topic).
		WithField("partition", partition).
		WithField("offset", offset).
		WithField("event_type", event.Type).
		WithField("event_id", event.ID).
		Debug("Event published successfully")

	return nil
}
