package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func countingReader(t *testing.T, calls *atomic.Int32) *BatchReader[string, string] {
	t.Helper()
	return newReader(t, options(1, 0), func(ctx context.Context, keys []string) (map[string]string, error) {
		calls.Add(1)
		result := make(map[string]string)
		for _, key := range keys {
			if key != "missing" {
				result[key] = "value-" + key
			}
		}
		return result, nil
	})
}

func TestCachedReader_Hit(t *testing.T) {
	var calls atomic.Int32
	cached, err := NewCachedReader(countingReader(t, &calls), 10, 0)
	if err != nil {
		t.Fatalf("NewCachedReader failed: %v", err)
	}
	defer cached.Close()

	for i := 0; i < 3; i++ {
		value, err := cached.Get(context.Background(), "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "value-a" {
			t.Errorf("expected value-a, got %s", value)
		}
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 read, got %d", n)
	}
	if cached.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cached.Len())
	}
}

func TestCachedReader_MissNotCached(t *testing.T) {
	var calls atomic.Int32
	cached, err := NewCachedReader(countingReader(t, &calls), 10, 0)
	if err != nil {
		t.Fatalf("NewCachedReader failed: %v", err)
	}
	defer cached.Close()

	for i := 0; i < 2; i++ {
		if _, err := cached.Get(context.Background(), "missing"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	}

	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 reads, got %d", n)
	}
}

func TestCachedReader_Expiry(t *testing.T) {
	var calls atomic.Int32
	cached, err := NewCachedReader(countingReader(t, &calls), 10, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCachedReader failed: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	_, _ = cached.Get(ctx, "a")
	_, _ = cached.Get(ctx, "a")
	time.Sleep(40 * time.Millisecond)
	_, _ = cached.Get(ctx, "a")

	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 reads, got %d", n)
	}
}

func TestCachedReader_Invalidate(t *testing.T) {
	var calls atomic.Int32
	cached, err := NewCachedReader(countingReader(t, &calls), 10, 0)
	if err != nil {
		t.Fatalf("NewCachedReader failed: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	_, _ = cached.Get(ctx, "a")
	cached.Invalidate("a")
	_, _ = cached.Get(ctx, "a")

	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 reads, got %d", n)
	}
}

func TestCachedReader_Eviction(t *testing.T) {
	var calls atomic.Int32
	cached, err := NewCachedReader(countingReader(t, &calls), 2, 0)
	if err != nil {
		t.Fatalf("NewCachedReader failed: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		_, _ = cached.Get(ctx, key)
	}
	if cached.Len() != 2 {
		t.Errorf("expected 2 cached entries, got %d", cached.Len())
	}

	// "a" was the least recently used, so it has to be read again.
	_, _ = cached.Get(ctx, "a")
	if n := calls.Load(); n != 4 {
		t.Errorf("expected 4 reads, got %d", n)
	}
}

func TestNewCachedReader_InvalidSize(t *testing.T) {
	var calls atomic.Int32
	reader := countingReader(t, &calls)
	defer reader.Close()

	if _, err := NewCachedReader(reader, 0, 0); err == nil {
		t.Error("expected error for zero size")
	}
}
