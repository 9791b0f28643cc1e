// Package events emits reservation outcome events for downstream
// consumers (housekeeping boards, revenue reporting). Publishing is
// best effort: a broker outage never fails the notification that
// triggered the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"otabridge/pkg/config"
	"otabridge/pkg/kafka"
	"otabridge/pkg/logger"
	"otabridge/pkg/model"
)

type Publisher interface {
	ReservationReconciled(ctx context.Context, result *model.ReconcileResult)
	Close() error
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured so single-property deployments run without a
// broker.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, reservation events disabled")
		return &noopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}

	return &kafkaPublisher{producer: producer, log: cfg.Log}, nil
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// ReservationReconciled publishes one event per reconciled record,
// keyed by the channel booking id so events for one booking stay
// ordered within a partition.
func (p *kafkaPublisher) ReservationReconciled(ctx context.Context, result *model.ReconcileResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		p.log.Error("Failed to encode reservation event", "siteminder_id", result.SiteminderID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   result.SiteminderID,
		Value: payload,
		Headers: map[string]string{
			"event": "reservation." + result.Action,
		},
		Timestamp: time.Now().UTC(),
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish reservation event",
			"siteminder_id", result.SiteminderID,
			"action", result.Action,
			"error", err,
		)
		return
	}

	p.log.Debug("Published reservation event", "siteminder_id", result.SiteminderID, "action", result.Action)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func (*noopPublisher) ReservationReconciled(context.Context, *model.ReconcileResult) {}

func (*noopPublisher) Close() error { return nil }
