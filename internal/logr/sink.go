package logr

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-logr/logr"
)

var _ logr.LogSink = (*logSink)(nil)

// logSink is a logr sink that hands records to a slog handler.
type logSink struct {
	handler slog.Handler
}

func newLogSink(h slog.Handler) *logSink {
	return &logSink{handler: h}
}

func (s *logSink) Init(logr.RuntimeInfo) {}

func (s *logSink) Enabled(level int) bool {
	return s.handler.Enabled(context.Background(), toSlogLevel(level))
}

func (s *logSink) Info(level int, msg string, keysAndValues ...any) {
	s.log(toSlogLevel(level), msg, keysAndValues...)
}

func (s *logSink) Error(err error, msg string, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append([]any{"error", err}, keysAndValues...)
	}
	s.log(slog.LevelError, msg, keysAndValues...)
}

func (s *logSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &logSink{handler: s.handler.WithAttrs(toAttrs(keysAndValues))}
}

func (s *logSink) WithName(name string) logr.LogSink {
	return &logSink{handler: s.handler.WithAttrs([]slog.Attr{slog.String("logger", name)})}
}

func (s *logSink) log(level slog.Level, msg string, keysAndValues ...any) {
	ctx := context.Background()
	if !s.handler.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(keysAndValues...)
	_ = s.handler.Handle(ctx, r)
}

func toAttrs(keysAndValues []any) []slog.Attr {
	var r slog.Record
	r.Add(keysAndValues...)
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

// LevelHandler wraps a slog handler, discarding records below a minimum
// level.
type LevelHandler struct {
	level   slog.Leveler
	handler slog.Handler
}

// NewLevelHandler returns a LevelHandler with the given level. All methods
// except Enabled delegate to h.
func NewLevelHandler(level slog.Leveler, h slog.Handler) *LevelHandler {
	// Optimization: avoid chains of LevelHandlers.
	if lh, ok := h.(*LevelHandler); ok {
		h = lh.handler
	}
	return &LevelHandler{level, h}
}

func (h *LevelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LevelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewLevelHandler(h.level, h.handler.WithAttrs(attrs))
}

func (h *LevelHandler) WithGroup(name string) slog.Handler {
	return NewLevelHandler(h.level, h.handler.WithGroup(name))
}
