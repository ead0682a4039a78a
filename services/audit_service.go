package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Audit event types published on order lifecycle changes.
const (
	EventOrderApproved  = "order.approved"
	EventOrderRejected  = "order.rejected"
	EventStageRecorded  = "production.stage_recorded"
	EventOrderCompleted = "order.completed"
)

// AuditEvent is the payload published to the audit topic for every
// lifecycle change. Publishing is best-effort: a failed publish is logged
// and never fails the originating request.
type AuditEvent struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	Actor       string    `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditPublisher defines the interface for publishing lifecycle audit events
type AuditPublisher interface {
	Publish(event AuditEvent) error
	Close() error
}

var auditPublisherInstance AuditPublisher = &NoopAuditPublisher{}

// GetAuditPublisher returns the configured audit publisher instance
func GetAuditPublisher() AuditPublisher {
	return auditPublisherInstance
}

// SetAuditPublisher sets the audit publisher instance (primarily for testing)
func SetAuditPublisher(p AuditPublisher) {
	auditPublisherInstance = p
}

// KafkaAuditPublisher publishes audit events to a Kafka topic using a
// synchronous producer.
type KafkaAuditPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// InitKafkaAuditPublisher connects a sync producer to the given brokers and
// installs it as the process-wide audit publisher.
func InitKafkaAuditPublisher(brokers []string, topic string) (*KafkaAuditPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	publisher := &KafkaAuditPublisher{producer: producer, topic: topic}
	auditPublisherInstance = publisher
	return publisher, nil
}

// Publish sends the event to the audit topic as JSON.
func (p *KafkaAuditPublisher) Publish(event AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("order-%d", event.OrderID)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send audit event: %w", err)
	}

	log.WithFields(log.Fields{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
		"type":      event.Type,
	}).Debug("Audit event published")
	return nil
}

// Close shuts down the underlying producer.
func (p *KafkaAuditPublisher) Close() error {
	return p.producer.Close()
}

// NoopAuditPublisher discards events. Used when no brokers are configured.
type NoopAuditPublisher struct{}

// Publish discards the event.
func (p *NoopAuditPublisher) Publish(event AuditEvent) error {
	return nil
}

// Close is a no-op.
func (p *NoopAuditPublisher) Close() error {
	return nil
}
