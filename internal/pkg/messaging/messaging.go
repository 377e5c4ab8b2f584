package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("messaging: publisher is closed")

// Publisher publishes messages to a destination (topic or subject).
//
// Implementations are safe for concurrent use.
type Publisher interface {
	io.Closer
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	Body []byte

	// Key selects the Kafka partition; NATS ignores it.
	Key []byte

	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries broker metadata about an accepted message.
type PublishResult struct {
	Topic     string
	Timestamp time.Time
}
