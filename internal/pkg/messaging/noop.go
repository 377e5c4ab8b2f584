package messaging

import (
	"context"
	"log/slog"
	"time"
)

// Noop logs and drops every message.
type Noop struct{}

// NewNoop returns a Noop publisher.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	slog.DebugContext(ctx, "messaging disabled, dropping message", "destination", destination, "bytes", len(msg.Body))
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (*Noop) Close() error {
	return nil
}
