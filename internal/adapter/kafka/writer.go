package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes page-view events to a Kafka topic. Writes are async:
// Publish returns once the event is queued and delivery outcomes are
// reported through the completion callback.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates an async Kafka producer for the page-view topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &Writer{logger: logger, metrics: metrics}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaPageViewTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion:   w.completed,
	}
	return w
}

// Publish queues one page-view event.
func (w *Writer) Publish(ctx context.Context, view domain.PageView) error {
	msg, err := serializeToMessage(view)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) completed(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.PageViewsPublished.WithLabelValues("error").Add(float64(len(messages)))
		w.logger.Warn("page-view delivery failed", "count", len(messages), "error", err)
		return
	}
	w.metrics.PageViewsPublished.WithLabelValues("success").Add(float64(len(messages)))
}

// Close flushes queued events and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PageView into a Kafka message keyed by its id.
func serializeToMessage(view domain.PageView) (kafkago.Message, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize page view: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(view.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "page", Value: []byte(view.Page)},
			{Key: "rendered_at", Value: []byte(view.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}
