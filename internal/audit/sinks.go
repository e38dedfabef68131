package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Publisher is the slice of the messaging producer the Kafka sink needs.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// KafkaSink publishes audit events keyed by customer id, so all events for
// one customer land on the same partition.
type KafkaSink struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewKafkaSink(publisher Publisher, logger *slog.Logger) *KafkaSink {
	return &KafkaSink{publisher: publisher, logger: logger}
}

func (s *KafkaSink) Record(ctx context.Context, ev Event) {
	if err := s.publisher.Publish(ctx, ev.CustomerID, ev); err != nil {
		s.logger.Error("failed to publish audit event", "error", err, "stage", ev.Stage, "event_id", ev.ID)
	}
}

// LogSink writes audit events to the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, ev Event) {
	s.logger.Info("audit",
		"stage", ev.Stage,
		"event_id", ev.ID,
		"customer_id", ev.CustomerID,
		"order_id", ev.OrderID,
		"reason", ev.Reason,
	)
}

// WebhookSink posts each event as JSON to an external collector.
type WebhookSink struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhookSink(url string, client *http.Client, logger *slog.Logger) *WebhookSink {
	return &WebhookSink{url: url, client: client, logger: logger}
}

func (s *WebhookSink) Record(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to marshal audit event", "error", err, "event_id", ev.ID)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to create audit request", "error", err, "event_id", ev.ID)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("failed to deliver audit event", "error", err, "event_id", ev.ID)
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Error("audit collector rejected event", "status", resp.StatusCode, "event_id", ev.ID)
	}
}
