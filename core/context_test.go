package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(withSuppressHeader(ctx)))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))

	// A value of the wrong type is ignored
	assert.False(t, shouldSuppressHeader(context.WithValue(ctx, suppressHeaderKey, "yes")))
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	_, ok := getRunID(ctx)
	assert.False(t, ok)

	id, ok := getRunID(withRunID(ctx, 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = getRunID(context.WithValue(ctx, runIDKey, 42))
	assert.False(t, ok, "an untyped int is not a run ID")
}

// TestContextIsolation tests that derived contexts do not leak into their parents.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	first := withRunID(base, 1)
	second := withSuppressHeader(withRunID(base, 2))

	id, _ := getRunID(first)
	assert.Equal(t, int64(1), id)
	assert.False(t, shouldSuppressHeader(first))

	id, _ = getRunID(second)
	assert.Equal(t, int64(2), id)
	assert.True(t, shouldSuppressHeader(second))

	_, ok := getRunID(base)
	assert.False(t, ok)
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(withSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID, ok := getRunID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", id)
			assert.Equal(t, int64(12345), runID, "Goroutine %d", id)
		}(i)
	}
	wg.Wait()
}
