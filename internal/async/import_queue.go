package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
)

// ImportQueue feeds tasks to a fixed set of workers. The default of one
// worker keeps imports serialized, so each run sees the jobs of the previous one.
type ImportQueue struct {
	handle  Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Task
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

var _ Queue = (*ImportQueue)(nil)

type Option func(*ImportQueue)

func WithWorkers(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.ch = make(chan Task, n)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(q *ImportQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewImportQueue(handle Handler, logger *slog.Logger, opts ...Option) *ImportQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ImportQueue{
		handle:  handle,
		logger:  logger,
		workers: 1,
		timeout: 5 * time.Minute,
		ch:      make(chan Task, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ImportQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)

				for task := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					if task.TraceID != "" {
						ctx = common.WithRequestID(ctx, task.TraceID)
					}
					err := q.handle(ctx, task)
					cancel()

					if err != nil {
						q.logger.Error("queue.task.failed", "worker_id", workerID, "path", task.Path, "error", err)
					} else {
						q.logger.Info("queue.task.ok", "worker_id", workerID, "path", task.Path,
							"waited_ms", time.Since(task.SubmittedAt).Milliseconds())
					}
				}

				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue blocks while the queue is full. Tasks offered after Shutdown are dropped.
func (q *ImportQueue) Enqueue(ctx context.Context, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.closed", "path", task.Path)
		return nil
	}
	if task.SubmittedAt.IsZero() {
		task.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- task:
		q.logger.Debug("queue.task.queued", "path", task.Path)
		return nil
	default:
	}
	q.logger.Warn("queue.full", "path", task.Path)
	select {
	case q.ch <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or ctx to end.
func (q *ImportQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.drained")
	}
}
