package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/app"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T) (*app.Components, *mocks.MockLogger, *mocks.MockConfigLoader) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockSpecs := mocks.NewMockSpecLoader(ctrl)
	mockFindings := mocks.NewMockFindingSource(ctrl)

	application := app.New(mockLoader, mockSpecs, mockFindings, mockLogger)
	return &app.Components{App: application, Logger: mockLogger, ConfigLoader: mockLoader}, mockLogger, mockLoader
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newComponents(t)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that a failing command is logged and exits with 1.
func TestRun_ExecutionError(t *testing.T) {
	components, mockLogger, mockLoader := newComponents(t)
	mockLoader.EXPECT().Load(gomock.Any(), "").Return(domain.Config{}, domain.ErrConfigParseFailed)

	var logged error
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err })

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	spec := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(spec, []byte("openapi: 3.0.3\n"), domain.FilePerm))

	exitCode := run(context.Background(), []string{"graph", spec}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
	assert.ErrorIs(t, logged, domain.ErrConfigParseFailed)
	assert.True(t, cleaned)
}

// TestRun_AppOptions verifies that options are applied to the app before execution.
func TestRun_AppOptions(t *testing.T) {
	components, _, _ := newComponents(t)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	var applied *app.App
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), provider, func(a *app.App) {
		applied = a
	})
	assert.Equal(t, 0, exitCode)
	assert.Same(t, components.App, applied)
}
