package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/specscope/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelInfo, "information message\n"},
		{slog.LevelWarn, "! information message\n"},
		{slog.LevelError, "✗ information message\n"},
		{slog.LevelDebug, ""},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, "information message")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).With("run", "r1").WithGroup("cache")
	lg.Info("lookup", "level", "graph")

	assert.Equal(t, "lookup run=r1 cache.level=graph\n", buf.String())
}

func TestPrettyHandler_QuotesAndFlattens(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Warn("discarding chain",
		"anchor", "GET /orders/{id}",
		slog.Group("stage", "name", "deep", "attempt", 2),
		"empty", "",
	)

	assert.Equal(t, "! discarding chain anchor=\"GET /orders/{id}\" stage.name=deep stage.attempt=2 empty=\"\"\n", buf.String())
}
