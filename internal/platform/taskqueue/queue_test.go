package taskqueue

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func newTestQueue(workers, depth int) *Queue {
	return New(workers, depth, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestQueueRunsSubmittedTasks(t *testing.T) {
	q := newTestQueue(2, 8)
	defer q.Close()

	done := make(chan struct{})
	q.Submit(Task{Name: "ping", Run: func(context.Context) error {
		close(done)
		return nil
	}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	q := newTestQueue(1, 1)
	q.Close()

	var ran atomic.Bool
	q.Submit(Task{Name: "late", Run: func(context.Context) error {
		ran.Store(true)
		return nil
	}})

	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatal("expected task submitted after close to be dropped")
	}
}

func TestCloseDrainsQueuedTasks(t *testing.T) {
	q := newTestQueue(1, 8)

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		q.Submit(Task{Name: "drain", Run: func(context.Context) error {
			count.Add(1)
			return nil
		}})
	}
	q.Close()

	if got := count.Load(); got != 5 {
		t.Fatalf("expected 5 tasks drained, got %d", got)
	}
}
