// File path: internal/common/log.go
package common

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultLogHistory = 512

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	buffer     *logBuffer
)

// LogEntry is a captured record emitted through the shared logger. The
// serve command exposes the buffered entries over the logs endpoint.
type LogEntry struct {
	Time       time.Time              `json:"time"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Logger returns the process-wide slog logger. The level comes from
// LOG_LEVEL and the capture depth from FLOWLANG_LOG_HISTORY.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		history := defaultLogHistory
		if raw := strings.TrimSpace(os.Getenv("FLOWLANG_LOG_HISTORY")); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				history = parsed
			}
		}
		buffer = newLogBuffer(history)
		base := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(&capturingHandler{handler: base, buffer: buffer})
	})
	return logger
}

// LogEntries returns a copy of the captured log history, oldest first.
func LogEntries() []LogEntry {
	Logger()
	return buffer.entries()
}

type capturingHandler struct {
	handler slog.Handler
	buffer  *logBuffer
}

func (h *capturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *capturingHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if h.buffer != nil {
		h.buffer.capture(record)
	}
	return err
}

func (h *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &capturingHandler{handler: h.handler.WithAttrs(attrs), buffer: h.buffer}
}

func (h *capturingHandler) WithGroup(name string) slog.Handler {
	return &capturingHandler{handler: h.handler.WithGroup(name), buffer: h.buffer}
}

type logBuffer struct {
	mu      sync.RWMutex
	max     int
	history []LogEntry
}

func newLogBuffer(max int) *logBuffer {
	if max <= 0 {
		max = defaultLogHistory
	}
	return &logBuffer{max: max}
}

func (b *logBuffer) capture(record slog.Record) {
	entry := buildLogEntry(record)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, entry)
	if len(b.history) > b.max {
		b.history = b.history[len(b.history)-b.max:]
	}
}

func (b *logBuffer) entries() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.history) == 0 {
		return nil
	}
	out := make([]LogEntry, len(b.history))
	copy(out, b.history)
	return out
}

func buildLogEntry(record slog.Record) LogEntry {
	rec := record.Clone()
	entry := LogEntry{
		Time:    rec.Time,
		Level:   strings.ToLower(rec.Level.String()),
		Message: rec.Message,
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	entry.Time = entry.Time.In(time.UTC)

	var attrs map[string]interface{}
	rec.Attrs(func(a slog.Attr) bool {
		value := valueToAny(a.Value)
		if a.Key == "component" {
			if str, ok := value.(string); ok {
				entry.Component = strings.TrimSpace(str)
			}
			return true
		}
		if attrs == nil {
			attrs = make(map[string]interface{})
		}
		attrs[a.Key] = value
		return true
	})
	if len(attrs) > 0 {
		entry.Attributes = attrs
	}
	return entry
}

func valueToAny(v slog.Value) interface{} {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().In(time.UTC)
	case slog.KindAny:
		return v.Any()
	default:
		return v.String()
	}
}
