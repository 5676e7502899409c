package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/home-data-enrichment/internal/config"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Writer produces enriched property messages to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes a batch of enriched messages in a single
// WriteMessages call. Messages are keyed by request ID.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.EnrichedPropertyMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		m, err := serializeToMessage(msgs[i])
		if err != nil {
			return err
		}
		out[i] = m
	}
	return w.writer.WriteMessages(ctx, out...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(msg domain.EnrichedPropertyMessage) (kafkago.Message, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize enriched property: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(msg.RequestID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "found", Value: []byte(strconv.FormatBool(msg.Profile.Found))},
			{Key: "enriched_at", Value: []byte(msg.EnrichedAt.Format(time.RFC3339))},
		},
	}, nil
}
