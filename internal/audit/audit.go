// Package audit records write operations performed by admins.
// Entries are queued and flushed in batches to a Sink by a small worker pool.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"go.uber.org/zap"
)

// Audit actions
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
)

// Audit resources
const (
	ResourcePerson  = "person"
	ResourceSession = "session"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 100 * time.Millisecond
	syncWriteTimeout     = 5 * time.Second
)

// Entry is one audited operation
type Entry struct {
	Action     string            `json:"action"`
	Resource   string            `json:"resource"`
	ResourceID string            `json:"resource_id,omitempty"`
	UserEmail  string            `json:"user_email,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	IPAddress  string            `json:"ip_address,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Status     int               `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Sink persists batches of entries
type Sink interface {
	Write(ctx context.Context, entries []Entry) error
}

// Worker queues entries and flushes them to a sink
type Worker struct {
	sink          Sink
	logger        *logging.SafeLogger
	batchSize     int
	flushInterval time.Duration

	mu      sync.RWMutex
	entries chan Entry
	closed  bool
	wg      sync.WaitGroup
}

// NewWorker starts workers goroutines draining a queue of bufferSize entries
func NewWorker(sink Sink, workers, bufferSize int, logger *logging.SafeLogger) *Worker {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	if logger == nil {
		logger = logging.Logger
	}

	w := &Worker{
		sink:          sink,
		logger:        logger.Named("audit"),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		entries:       make(chan Entry, bufferSize),
	}

	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer w.wg.Done()
			w.process()
		}()
	}

	w.logger.Info("audit worker started",
		zap.Int("workers", workers),
		zap.Int("buffer_size", bufferSize))
	return w
}

// Record queues e without blocking. When the queue is full the entry is
// written synchronously. Entries recorded after Stop are dropped.
func (w *Worker) Record(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		observability.AuditEvents.WithLabelValues("dropped").Inc()
		return
	}
	select {
	case w.entries <- e:
		w.mu.RUnlock()
		observability.AuditEvents.WithLabelValues("queued").Inc()
		return
	default:
	}
	w.mu.RUnlock()

	w.logger.Warn("audit queue full, writing synchronously",
		zap.String("action", e.Action),
		zap.String("resource", e.Resource))
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncWriteTimeout)
	defer cancel()
	w.flush(ctx, []Entry{e})
	observability.AuditEvents.WithLabelValues("sync").Inc()
}

// Stop flushes queued entries and waits for the workers to exit
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.entries)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) process() {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, w.batchSize)
	for {
		select {
		case e, ok := <-w.entries:
			if !ok {
				w.flush(context.Background(), batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= w.batchSize {
				w.flush(context.Background(), batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(context.Background(), batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *Worker) flush(ctx context.Context, batch []Entry) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, syncWriteTimeout)
	defer cancel()

	out := append([]Entry(nil), batch...)
	if err := w.sink.Write(ctx, out); err != nil {
		w.logger.Error("failed to write audit batch",
			zap.Int("batch_size", len(out)),
			zap.Error(err))
		observability.AuditEvents.WithLabelValues("failed").Add(float64(len(out)))
		return
	}
	w.logger.Debug("audit batch written", zap.Int("batch_size", len(out)))
}
