package cache_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/cache"
)

func TestKey_IndependentOfFieldOrder(t *testing.T) {
	type request struct {
		Method string `json:"method"`
		Path   string `json:"path"`
	}

	fromStruct, err := cache.Key(request{Method: "GET", Path: "/users"})
	require.NoError(t, err)

	fromMap, err := cache.Key(map[string]any{"path": "/users", "method": "GET"})
	require.NoError(t, err)

	assert.Equal(t, fromStruct, fromMap)
	assert.Len(t, fromStruct, 16)
}

func TestKey_MapIterationOrder(t *testing.T) {
	a := map[string]int{}
	b := map[string]int{}
	for i, k := range []string{"x", "y", "z", "w"} {
		a[k] = i
	}
	for i, k := range []string{"w", "z", "y", "x"} {
		b[k] = 3 - i
	}

	ka, err := cache.Key(a)
	require.NoError(t, err)
	kb, err := cache.Key(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}

func TestKey_DistinguishesInputs(t *testing.T) {
	k1, err := cache.Key("a", "bc")
	require.NoError(t, err)
	k2, err := cache.Key("ab", "c")
	require.NoError(t, err)
	k3, err := cache.Key([]string{"b", "a"})
	require.NoError(t, err)
	k4, err := cache.Key([]string{"a", "b"})
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k3, k4, "slice order is significant")
}

func TestKey_SerializationFailure(t *testing.T) {
	for name, v := range map[string]any{
		"channel": make(chan int),
		"nan":     math.NaN(),
		"func":    func() {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cache.Key("ok", v)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrCacheSerialization.Error())
		})
	}
}

func TestCanonical_SortsKeys(t *testing.T) {
	out, err := cache.Canonical(map[string]any{"b": 1, "a": map[string]any{"d": 2, "c": 3}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":3,"d":2},"b":1}`, string(out))
}
