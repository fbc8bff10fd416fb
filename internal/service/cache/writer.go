package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/constants"
)

type WriterConfig struct {
	Workers      int
	QueueSize    int
	TTL          time.Duration
	WriteTimeout time.Duration
}

type writeJob struct {
	key     string
	payload []byte
}

// Writer performs cache writes in the background. Enqueue never waits: the
// caller hands over the payload and moves on, and a write that fails is only
// logged. Each write runs under its own timeout, independent of the request
// that produced it.
type Writer struct {
	store        Store
	ttl          time.Duration
	writeTimeout time.Duration
	queue        chan writeJob
	logger       *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     conc.WaitGroup
}

func NewWriter(store Store, cfg WriterConfig, logger *zap.Logger) *Writer {
	if cfg.Workers <= 0 {
		cfg.Workers = constants.CacheWriterConfig.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = constants.CacheWriterConfig.QueueSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = constants.CacheTTL.Payload
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = constants.CacheWriterConfig.WriteTimeout
	}

	w := &Writer{
		store:        store,
		ttl:          cfg.TTL,
		writeTimeout: cfg.WriteTimeout,
		queue:        make(chan writeJob, cfg.QueueSize),
		logger:       logger,
	}
	for i := 0; i < cfg.Workers; i++ {
		w.wg.Go(w.run)
	}
	return w
}

// Enqueue schedules a write and reports whether it was accepted. A full queue
// or a closed writer drops the write.
func (w *Writer) Enqueue(key string, payload []byte) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.logger.Warn("Cache writer closed, dropping write", zap.String("key", key))
		return false
	}

	select {
	case w.queue <- writeJob{key: key, payload: payload}:
		return true
	default:
		w.logger.Warn("Cache write queue full, dropping write",
			zap.String("key", key),
			zap.Int("queue_size", cap(w.queue)),
		)
		return false
	}
}

// Close stops accepting writes and waits until queued writes finish or ctx
// ends.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if recovered := w.wg.WaitAndRecover(); recovered != nil {
			w.logger.Error("Cache writer worker panicked", zap.String("panic", recovered.String()))
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cache writer drain: %w", ctx.Err())
	}
}

func (w *Writer) run() {
	for job := range w.queue {
		var catcher panics.Catcher
		catcher.Try(func() { w.write(job) })
		if recovered := catcher.Recovered(); recovered != nil {
			w.logger.Error("Cache write panicked",
				zap.String("key", job.key),
				zap.String("panic", recovered.String()),
			)
		}
	}
}

func (w *Writer) write(job writeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()

	start := time.Now()
	if err := w.store.Set(ctx, job.key, job.payload, w.ttl); err != nil {
		w.logger.Warn("Background cache write failed", zap.String("key", job.key), zap.Error(err))
		return
	}
	w.logger.Debug("Cache entry stored",
		zap.String("key", job.key),
		zap.Int("bytes", len(job.payload)),
		zap.Duration("took", time.Since(start)),
	)
}
