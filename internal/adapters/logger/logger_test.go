package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger sets NO_COLOR so output is free of escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info with attributes",
			log:        func(l *logger.Logger) { l.Info("analysis complete", "score", 85, "level", "spec") },
			goldenName: "info_attrs",
		},
		{
			name:       "warning",
			log:        func(l *logger.Logger) { l.Warn("spec model built with errors") },
			goldenName: "warn_basic",
		},
		{
			name: "error chain",
			log: func(l *logger.Logger) {
				cause := errors.New("open spec.yaml: no such file or directory")
				l.Error(zerr.Wrap(zerr.Wrap(cause, "failed to read spec file"), "analyze failed"))
			},
			goldenName: "error_chain",
		},
		{
			name:       "multiline error",
			log:        func(l *logger.Logger) { l.Error(errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal")) },
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("span finished", "span", "analysis")
	assert.Empty(t, buf.String(), "debug is off by default")

	lg.SetVerbose(true)
	lg.Debug("span finished", "span", "analysis")
	assert.Equal(t, "span finished span=analysis\n", buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.Wrap(errors.New("connection refused"), "engine unavailable"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "engine unavailable: connection refused", record["error"])
}

func TestLogger_SetOutputKeepsMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hello")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestLogger_NilError(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}
