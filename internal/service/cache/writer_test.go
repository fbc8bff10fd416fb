package cache

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/constants"
)

func TestWriterStoresWithTTL(t *testing.T) {
	store := newMemoryStore()
	w := NewWriter(store, WriterConfig{Workers: 2, QueueSize: 8}, zap.NewNop())

	if !w.Enqueue("v1/cbt2/en/items", []byte(`[]`)) {
		t.Fatalf("expected write to be accepted")
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, ok, _ := store.Get(context.Background(), "v1/cbt2/en/items")
	if !ok || string(got) != `[]` {
		t.Fatalf("expected stored payload, got %q %v", got, ok)
	}
	if store.ttls["v1/cbt2/en/items"] != constants.CacheTTL.Payload {
		t.Fatalf("expected 30 day TTL, got %s", store.ttls["v1/cbt2/en/items"])
	}
}

func TestWriterEnqueueDoesNotWaitForStore(t *testing.T) {
	store := newMemoryStore()
	store.block = make(chan struct{})
	w := NewWriter(store, WriterConfig{Workers: 1, QueueSize: 1, WriteTimeout: time.Minute}, zap.NewNop())

	start := time.Now()
	accepted := 0
	for i := 0; i < 5; i++ {
		if w.Enqueue("k", []byte("v")) {
			accepted++
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Enqueue blocked for %s", elapsed)
	}
	// One write held by the worker at most, one in the queue.
	if accepted < 1 || accepted > 2 {
		t.Fatalf("expected 1 or 2 accepted writes, got %d", accepted)
	}

	close(store.block)
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestWriterSwallowsStoreFailures(t *testing.T) {
	store := newMemoryStore()
	store.setErr = stderrors.New("redis down")
	w := NewWriter(store, WriterConfig{Workers: 1, QueueSize: 4}, zap.NewNop())

	w.Enqueue("a", []byte("1"))
	w.Enqueue("b", []byte("2"))
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if store.sets != 2 {
		t.Fatalf("expected both writes attempted, got %d", store.sets)
	}
}

func TestWriterRejectsAfterClose(t *testing.T) {
	w := NewWriter(newMemoryStore(), WriterConfig{Workers: 1, QueueSize: 1}, zap.NewNop())
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Enqueue("k", []byte("v")) {
		t.Fatalf("closed writer must reject writes")
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWriterCloseHonoursDeadline(t *testing.T) {
	store := newMemoryStore()
	store.block = make(chan struct{})
	defer close(store.block)
	w := NewWriter(store, WriterConfig{Workers: 1, QueueSize: 1, WriteTimeout: time.Minute}, zap.NewNop())
	w.Enqueue("k", []byte("v"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := w.Close(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
