package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, extra ...string) *slog.Logger {
	return slog.New(newHandler(buf, &Config{ServiceName: "medibook-test", LogLevel: "debug", MaskFields: extra}, nil))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestLoggingMasksCredentials(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf, "email")

	// Act
	logger.Info("login attempt",
		"password", "hunter2",
		"email", "a@b.c",
		"body", `{"email":"a@b.c","password":"hunter2","nested":{"new_password":"x"}}`,
		slog.Group("req", slog.String("authorization", "Bearer abc")),
	)

	// Assert
	line := buf.String()
	if strings.Contains(line, "hunter2") || strings.Contains(line, "Bearer abc") || strings.Contains(line, "a@b.c") {
		t.Fatalf("expected secrets to be masked: %s", line)
	}

	out := decodeLine(t, buf)
	if out["password"] != masked {
		t.Fatalf("password = %v", out["password"])
	}
	if out["severity"] != "INFO" {
		t.Fatalf("severity = %v", out["severity"])
	}
	if _, ok := out["ts"]; !ok {
		t.Fatalf("expected ts key: %v", out)
	}
}

func TestLoggingMasksWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf).With("refresh_token", "tok")

	logger.Info("issued")

	if strings.Contains(buf.String(), `"tok"`) {
		t.Fatalf("expected refresh_token masked: %s", buf.String())
	}
}

func TestLoggingCorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)
	ctx := SetCorrelationID(context.Background(), "cid-123")

	logger.InfoContext(ctx, "hello")

	out := decodeLine(t, buf)
	if out["_cID"] != "cid-123" {
		t.Fatalf("_cID = %v", out["_cID"])
	}
	if out["service"] != "medibook-test" {
		t.Fatalf("service = %v", out["service"])
	}
	if GetCorrelationID(context.Background()) != "" {
		t.Fatalf("expected empty correlation id")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"nope":  slog.LevelInfo,
	}

	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
