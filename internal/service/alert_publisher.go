package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"growthcheck/internal/models"
)

// AlertPublisher publishes screening alerts to a Kafka topic, keyed by child
// so every alert for a child lands on the same partition
type AlertPublisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	debug   bool
}

// NewAlertPublisher creates a publisher. With no brokers it is disabled and
// drops alerts.
func NewAlertPublisher(brokers []string, topic string, debug bool) *AlertPublisher {
	if len(brokers) == 0 {
		log.Println("Alert publisher disabled: KAFKA_BROKERS not configured")
		return &AlertPublisher{topic: topic, debug: debug}
	}

	log.Printf("Alert publisher enabled: topic=%s, brokers=%v", topic, brokers)
	return &AlertPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		topic:   topic,
		enabled: true,
		debug:   debug,
	}
}

// IsEnabled returns whether alerts are published
func (p *AlertPublisher) IsEnabled() bool {
	return p.enabled
}

// NotifyScreening publishes the alert as JSON
func (p *AlertPublisher) NotifyScreening(ctx context.Context, _ *models.Caregiver, alert models.ScreeningAlert) error {
	if !p.enabled {
		if p.debug {
			log.Printf("[DEBUG] Alert publisher disabled, dropping alert for child %s", alert.ChildID)
		}
		return nil
	}

	msg, err := alertMessage(alert)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish screening alert: %w", err)
	}

	if p.debug {
		log.Printf("[DEBUG] Published screening alert: topic=%s, child=%s, bytes=%d", p.topic, alert.ChildID, len(msg.Value))
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *AlertPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func alertMessage(alert models.ScreeningAlert) (kafka.Message, error) {
	value, err := json.Marshal(alert)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode screening alert: %w", err)
	}
	return kafka.Message{
		Key:   []byte(alert.ChildID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("screening_alert")},
		},
	}, nil
}
