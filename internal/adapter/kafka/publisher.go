// Package kafka publishes no-match diagnostics to a Kafka topic for offline
// review. Wiring it is optional; when unconfigured the pipelines log the
// diagnostics and move on.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/domain"
)

// Publisher writes region no-match diagnostics to the configured topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the diagnostics topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaDiagnosticsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one no-match diagnostic and writes it, keyed by state
// so one state's misses land on one partition.
func (p *Publisher) Publish(ctx context.Context, d domain.NoMatch) error {
	msg, err := serializeToMessage(d)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(d domain.NoMatch) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize no-match diagnostic: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(d.State),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}
