// Package events reacts to upstream reference-data changes published on
// Kafka by dropping the cached catalogue.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"absences/internal/platform/kafka/consumer"
	"absences/pkg/domain"
)

// EventTypeChanged is the event type published when reference data or its
// links change.
const EventTypeChanged = "reference-data.changed"

// TriggerEvent labels invalidations caused by change events.
const TriggerEvent = "event"

// ChangeEvent is the payload of a reference-data change message.
type ChangeEvent struct {
	EventType string `json:"eventType"`
	Domain    string `json:"domain,omitempty"`
	Code      string `json:"code,omitempty"`
}

// Invalidator drops the cached catalogue.
type Invalidator interface {
	Invalidate(ctx context.Context, trigger string) error
}

// ChangeHandler invalidates the catalogue for every message on the change
// topic. The payload is only inspected for logging: an unreadable payload
// still means something changed.
type ChangeHandler struct {
	invalidator Invalidator
	logger      *slog.Logger
}

var _ consumer.Handler = (*ChangeHandler)(nil)

// NewChangeHandler creates a change handler.
func NewChangeHandler(invalidator Invalidator, logger *slog.Logger) *ChangeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeHandler{invalidator: invalidator, logger: logger}
}

// Handle invalidates the catalogue. An invalidation failure is returned so
// the consumer retries the message.
func (h *ChangeHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	attrs := []any{
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	}

	var event ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.WarnContext(ctx, "malformed reference data change event",
			append(attrs, "error", err)...,
		)
	} else {
		if event.EventType != "" && event.EventType != EventTypeChanged {
			h.logger.WarnContext(ctx, "unexpected reference data event type",
				append(attrs, "event_type", event.EventType)...,
			)
		}
		if event.Domain != "" {
			if _, err := domain.ParseDomainCode(event.Domain); err != nil {
				h.logger.WarnContext(ctx, "reference data change for unknown domain",
					append(attrs, "domain", event.Domain)...,
				)
			}
		}
		attrs = append(attrs, "domain", event.Domain, "code", event.Code)
	}

	if err := h.invalidator.Invalidate(ctx, TriggerEvent); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "reference data changed", attrs...)
	return nil
}
