// Package logging provides a custom slog handler that mirrors WARN and ERROR
// records into the events collection for auditing.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"trafficwatch/internal/model"
	"trafficwatch/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the event store.
type EventLogHandler struct {
	inner  slog.Handler
	events store.EventStore
	level  slog.Level

	// writeTimeout bounds the event store write so logging can never hang
	// a request.
	writeTimeout time.Duration
}

// NewEventLogHandler creates an EventLogHandler that wraps the given handler.
// Logs at WARN level and above are written to both the wrapped handler and
// the event store.
func NewEventLogHandler(inner slog.Handler, events store.EventStore) *EventLogHandler {
	return &EventLogHandler{
		inner:        inner,
		events:       events,
		level:        slog.LevelWarn,
		writeTimeout: 5 * time.Second,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:        h.inner.WithAttrs(attrs),
		events:       h.events,
		level:        h.level,
		writeTimeout: h.writeTimeout,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:        h.inner.WithGroup(name),
		events:       h.events,
		level:        h.level,
		writeTimeout: h.writeTimeout,
	}
}

func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	metadata := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		metadata[a.Key] = a.Value.String()
		return true
	})
	if len(metadata) == 0 {
		metadata = nil
	}

	// A background context is used so the event is persisted even when the
	// request context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), h.writeTimeout)
	defer cancel()

	_ = h.events.Create(ctx, &model.Event{
		Level:     levelToEventLevel(r.Level),
		Category:  categoryFor(r.Message),
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func levelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// categoryFor derives a coarse event category from the log message.
func categoryFor(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login"), strings.Contains(msg, "register"),
		strings.Contains(msg, "session"), strings.Contains(msg, "password"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "upload"), strings.Contains(msg, "ingest"),
		strings.Contains(msg, "csv"):
		return model.EventCategoryIngest
	default:
		return model.EventCategorySystem
	}
}
