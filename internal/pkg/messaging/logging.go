package messaging

import (
	"log/slog"

	"github.com/nats-io/nats.go"
)

func logNATSDisconnect(nc *nats.Conn, err error) {
	if err != nil {
		slog.Warn("nats disconnected", "url", nc.ConnectedUrlRedacted(), "error", err)
	}
}

func logNATSReconnect(nc *nats.Conn) {
	slog.Info("nats reconnected", "url", nc.ConnectedUrlRedacted())
}
