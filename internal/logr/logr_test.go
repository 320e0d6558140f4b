package logr

import (
	"bytes"
	"errors"
	"testing"

	"log/slog"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name string
		min  slog.Leveler
		log  func(logger logr.Logger)
		want string
	}{
		{
			"info",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Info("something", "foo", "bar")
			},
			"level=INFO msg=something foo=bar\n",
		},
		{
			"error",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Error(errors.New("woops"), "spilt me beer", "foo", "bar")
			},
			"level=ERROR msg=\"spilt me beer\" error=woops foo=bar\n",
		},
		{
			"debug",
			slog.LevelDebug,
			func(logger logr.Logger) {
				logger.V(1).Info("something", "foo", "bar")
			},
			"level=DEBUG msg=something foo=bar\n",
		},
		{
			"debug",
			slog.Level(-5),
			func(logger logr.Logger) {
				logger.V(1).Info("something", "foo", "bar")
			},
			"level=DEBUG msg=something foo=bar\n",
		},
		{
			"hide debug",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.V(1).Info("should not see this", "foo", "bar")
			},
			"",
		},
		{
			"with values",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.WithValues("workspace", "dev").Info("something", "foo", "bar")
			},
			"level=INFO msg=something workspace=dev foo=bar\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bytes.Buffer
			logger := logr.New(newLogSink(slog.NewTextHandler(&got, newTestOptions(tt.min))))
			tt.log(logger)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	var got bytes.Buffer
	logger := FromHandler(slog.NewTextHandler(&got, newTestOptions(slog.LevelInfo)), TextFormat)

	logger.WithValues("run", "run-123").Warn("negative queue time", "seconds", -5)

	assert.Equal(t, "level=WARN msg=\"negative queue time\" run=run-123 seconds=-5\n", got.String())
}

func TestLogger_WarnNoop(t *testing.T) {
	// must not panic
	Discard().Warn("nothing to see")
	Discard().V(2).Warn("nothing to see")
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var got bytes.Buffer
		logger, err := NewWithWriter(&Config{Format: "json"}, &got)
		require.NoError(t, err)
		logger.Info("hello")
		assert.Contains(t, got.String(), `"msg":"hello"`)
	})

	t.Run("verbosity", func(t *testing.T) {
		var got bytes.Buffer
		logger, err := NewWithWriter(&Config{Format: "text", Verbosity: 1}, &got)
		require.NoError(t, err)
		logger.V(1).Info("debugging")
		assert.Contains(t, got.String(), "level=DEBUG")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := New(&Config{Format: "xml"})
		assert.EqualError(t, err, "unrecognised logging format: xml")
	})
}

func newTestOptions(min slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: min,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
}
