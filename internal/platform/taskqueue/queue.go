package taskqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a named unit of fire-and-forget work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a bounded in-process worker pool for side effects that must not
// block or fail the request path (mail, audit append, revision bumps).
// Delivery is at-least-once while the process lives; a full queue drops the
// task with a warning rather than blocking the caller.
type Queue struct {
	tasks   chan Task
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func New(workers, depth int, logger *slog.Logger) *Queue {
	if workers <= 0 {
		workers = 4
	}
	if depth <= 0 {
		depth = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:   make(chan Task, depth),
		cancel:  cancel,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	return q
}

// Submit enqueues a task without blocking. Failures of the task itself are
// logged by the worker, never surfaced to the submitter.
func (q *Queue) Submit(task Task) {
	if task.Run == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("task queue closed, dropping task",
			"event", "taskqueue_drop",
			"module", "internal/platform/taskqueue",
			"layer", "platform",
			"task", task.Name,
		)
		return
	}
	select {
	case q.tasks <- task:
	default:
		q.logger.Warn("task queue full, dropping task",
			"event", "taskqueue_drop",
			"module", "internal/platform/taskqueue",
			"layer", "platform",
			"task", task.Name,
		)
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.run(ctx, task)
		}
	}
}

func (q *Queue) run(ctx context.Context, task Task) {
	taskCtx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	if err := task.Run(taskCtx); err != nil {
		q.logger.Error("background task failed",
			"event", "taskqueue_task_failed",
			"module", "internal/platform/taskqueue",
			"layer", "platform",
			"task", task.Name,
			"error", err.Error(),
		)
		return
	}
	q.logger.Debug("background task done",
		"event", "taskqueue_task_done",
		"module", "internal/platform/taskqueue",
		"layer", "platform",
		"task", task.Name,
	)
}

// Close drains queued tasks and stops the workers.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.tasks)
		done := make(chan struct{})
		go func() {
			q.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(q.timeout):
		}
		q.cancel()
	})
}
