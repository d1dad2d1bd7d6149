package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, JSON: true, Output: buf})
}

func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)
	logger.Info("hello")

	entry := decodeLast(t, &buf)
	if entry[FieldComponent] != ComponentHTTP {
		t.Errorf("component = %v, want %s", entry[FieldComponent], ComponentHTTP)
	}
	if logger.Component() != ComponentHTTP {
		t.Errorf("Component() = %q", logger.Component())
	}

	sub := logger.WithComponent(ComponentStorage)
	if sub.Component() != ComponentStorage {
		t.Errorf("WithComponent().Component() = %q", sub.Component())
	}
}

func TestFields(t *testing.T) {
	f := NewFields().
		WithTransaction("id-1", "expense", "12.50", "Food").
		WithError(nil).
		WithOperation(OpCreate)

	if _, ok := f[FieldError]; ok {
		t.Error("WithError(nil) should not add an error field")
	}
	if f[FieldAmount] != "12.50" || f[FieldTransactionID] != "id-1" {
		t.Errorf("fields = %v", f)
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Errorf("ToSlice() length = %d, want %d", got, 2*len(f))
	}

	f.WithError(errors.New("boom"))
	if f[FieldError] != "boom" {
		t.Errorf("error field = %v, want boom", f[FieldError])
	}
}

func TestLogHTTPEnd_Levels(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{503, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			sl := NewStructuredLogger(newBufferLogger(&buf))
			r := httptest.NewRequest(http.MethodGet, "/api/summary?x=1", nil)

			sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "10.0.0.1")

			entry := decodeLast(t, &buf)
			if entry["level"] != tt.want {
				t.Errorf("level = %v, want %s", entry["level"], tt.want)
			}
			if entry[FieldPath] != "/api/summary" || entry[FieldQuery] != "x=1" {
				t.Errorf("request fields = %v", entry)
			}
		})
	}
}

func TestMiddlewareAndFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	var got *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req-42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil {
		t.Fatal("logger not found in context")
	}
	got.Info("inside")
	if entry := decodeLast(t, &buf); entry[FieldRequestID] != "req-42" {
		t.Errorf("request_id = %v, want req-42", entry[FieldRequestID])
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("FromContext without logger should fall back to the default")
	}
}
