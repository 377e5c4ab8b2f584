package messaging

import (
	"context"
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
		noop    bool
	}{
		{name: "none", driver: "none", noop: true},
		{name: "empty driver is none", driver: "", noop: true},
		{name: "case and space insensitive", driver: "  NONE ", noop: true},
		{name: "kafka without brokers", driver: "kafka", wantErr: ErrKafkaBrokersRequired},
		{name: "nats without url", driver: "nats", wantErr: ErrNATSURLRequired},
		{name: "unknown", driver: "rabbitmq", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			pub, err := NewFromDriver(tt.driver, tt.opts)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := pub.(*Noop); ok != tt.noop {
				t.Fatalf("publisher = %T", pub)
			}
		})
	}
}

func TestNoop_Publish(t *testing.T) {
	// Arrange
	pub := NewNoop()

	// Act
	res, err := pub.Publish(context.Background(), "identity.user.registered", OutgoingMessage{Body: []byte(`{}`)})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Topic != "identity.user.registered" {
		t.Fatalf("topic = %q", res.Topic)
	}
	if res.Timestamp.IsZero() {
		t.Fatal("timestamp is zero")
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestKafka_Publish(t *testing.T) {
	t.Run("empty topic", func(t *testing.T) {
		// Arrange
		k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
		if err != nil {
			t.Fatalf("new kafka: %v", err)
		}
		t.Cleanup(func() { _ = k.Close() })

		// Act
		_, err = k.Publish(context.Background(), "", OutgoingMessage{})

		// Assert
		if !errors.Is(err, ErrKafkaTopicRequired) {
			t.Fatalf("err = %v, want %v", err, ErrKafkaTopicRequired)
		}
	})

	t.Run("after close", func(t *testing.T) {
		// Arrange
		k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
		if err != nil {
			t.Fatalf("new kafka: %v", err)
		}
		if err := k.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		// Act
		_, err = k.Publish(context.Background(), "topic", OutgoingMessage{})

		// Assert
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("err = %v, want %v", err, ErrClosed)
		}
		if err := k.Close(); err != nil {
			t.Fatalf("second close: %v", err)
		}
	})
}
