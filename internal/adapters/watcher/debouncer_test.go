package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/adapters/watcher"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			defer mu.Unlock()
			batches = append(batches, paths)
		})

		d.Add("/api/spec.yaml")
		time.Sleep(50 * time.Millisecond)
		d.Add("/api/findings.json")
		d.Add("/api/spec.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, batches, 1, "a burst within the window fires once")
		assert.Equal(t, []string{"/api/findings.json", "/api/spec.yaml"}, batches[0])
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var calls int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			defer mu.Unlock()
			calls++
		})

		d.Add("/a")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Add("/a")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, calls)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got []string
		d := watcher.NewDebouncer(time.Hour, func(paths []string) { got = paths })

		d.Add("/b")
		d.Add("/a")
		d.Flush()
		assert.Equal(t, []string{"/a", "/b"}, got, "flush delivers synchronously")

		got = nil
		d.Flush()
		assert.Nil(t, got, "nothing pending means no callback")
	})
}
