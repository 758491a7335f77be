package service

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// publish fires a domain event without affecting the outcome of the
// operation that produced it.
func publish(ctx context.Context, producer events.Producer, topic, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
