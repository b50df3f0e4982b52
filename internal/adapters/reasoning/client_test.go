package reasoning_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/adapters/reasoning"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/specscope/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var fastRetry = reasoning.RetryConfig{MaxAttempts: 3, BackoffBase: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

func newClient(t *testing.T, url string, opts ...reasoning.Option) *reasoning.Client {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig().Engine
	cfg.Endpoint = url
	cfg.APIKeyEnv = "SPECSCOPE_TEST_ENGINE_KEY"
	cfg.RateLimit = 0

	c, err := reasoning.NewClient(cfg, log, append([]reasoning.Option{reasoning.WithRetry(fastRetry)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestTriage_Success(t *testing.T) {
	t.Setenv("SPECSCOPE_TEST_ENGINE_KEY", "secret")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/triage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		var req ports.TriageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Findings, 2)

		_, _ = io.WriteString(w, `{"ids": ["a"]}`)
	}))
	defer server.Close()

	resp, err := newClient(t, server.URL).Triage(t.Context(), ports.TriageRequest{
		RequestID: "req-1",
		Findings: []ports.TriageItem{
			{ID: "a", Category: "bola", Severity: domain.SeverityHigh},
			{ID: "b", Category: "info", Severity: domain.SeverityLow},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, resp.IDs)
}

func TestTriage_EmptyIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	resp, err := newClient(t, server.URL).Triage(t.Context(), ports.TriageRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.IDs)
	assert.Empty(t, resp.IDs)
}

func TestDeep_TolerantExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "Here are the chains:\n```json\n{\"chains\": [{\"severity\": \"high\", \"findingRefs\": [\"a\"],},]}\n```\n")
	}))
	defer server.Close()

	resp, err := newClient(t, server.URL).Deep(t.Context(), ports.DeepRequest{RequestID: "r"})
	require.NoError(t, err)
	require.Len(t, resp.Chains, 1)
	assert.JSONEq(t, `{"severity": "high", "findingRefs": ["a"]}`, string(resp.Chains[0]))
}

func TestDeep_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"no object":  "I could not find any chains.",
		"wrong type": `{"chains": "none"}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer server.Close()

			_, err := newClient(t, server.URL).Deep(t.Context(), ports.DeepRequest{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrOrchestrationMalformedResponse))
			assert.False(t, reasoning.IsTransient(err))
		})
	}
}

func TestCall_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"ids": []}`)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Triage(t.Context(), ports.TriageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCall_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Triage(t.Context(), ports.TriageRequest{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEngineStatus.Error())
	assert.True(t, reasoning.IsTransient(err))
	assert.Equal(t, int32(fastRetry.MaxAttempts), calls.Load())
}

func TestCall_FatalStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request body", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Triage(t.Context(), ports.TriageRequest{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "400 bad request body")
	assert.Equal(t, int32(1), calls.Load())
}

func TestCall_HonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newClient(t, server.URL).Deep(ctx, ports.DeepRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	cfg := domain.DefaultConfig().Engine
	cfg.Endpoint = "not a url"
	_, err := reasoning.NewClient(cfg, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}
