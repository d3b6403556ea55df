package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool_RunsEnqueuedJobs(t *testing.T) {
	p := New(2, 8, zap.NewNop())
	p.Start(context.Background())

	var done sync.WaitGroup
	var count atomic.Int64
	for i := 0; i < 5; i++ {
		done.Add(1)
		ok := p.Enqueue(func(ctx context.Context) {
			count.Add(1)
			done.Done()
		})
		if !ok {
			t.Fatal("enqueue rejected with room in the buffer")
		}
	}

	done.Wait()
	p.Stop()

	if got := count.Load(); got != 5 {
		t.Errorf("expected 5 jobs run, got %d", got)
	}
}

func TestPool_EnqueueRejectsWhenFull(t *testing.T) {
	p := New(1, 1, zap.NewNop())
	// Workers not started, so the buffer never drains.

	if !p.Enqueue(func(ctx context.Context) {}) {
		t.Fatal("first enqueue should fit the buffer")
	}
	if p.Enqueue(func(ctx context.Context) {}) {
		t.Error("second enqueue should be rejected when the buffer is full")
	}
}

func TestPool_EnqueueRejectsAfterStop(t *testing.T) {
	p := New(1, 4, zap.NewNop())
	p.Start(context.Background())
	p.Stop()

	if p.Enqueue(func(ctx context.Context) {}) {
		t.Error("enqueue should be rejected after stop")
	}
}

func TestPool_StopDrainsBufferedJobs(t *testing.T) {
	p := New(1, 8, zap.NewNop())

	var count atomic.Int64
	for i := 0; i < 4; i++ {
		p.Enqueue(func(ctx context.Context) {
			count.Add(1)
		})
	}

	// Start after enqueue so all four sit in the buffer, then Stop must
	// wait for the drain.
	p.Start(context.Background())
	p.Stop()

	if got := count.Load(); got != 4 {
		t.Errorf("expected 4 buffered jobs drained, got %d", got)
	}
}

func TestPool_StopIsIdempotent(t *testing.T) {
	p := New(1, 1, zap.NewNop())
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestPool_JobsReceiveContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := New(1, 1, zap.NewNop())
	p.Start(ctx)

	got := make(chan error, 1)
	p.Enqueue(func(jobCtx context.Context) {
		cancel()
		select {
		case <-jobCtx.Done():
			got <- jobCtx.Err()
		case <-time.After(time.Second):
			got <- nil
		}
	})

	if err := <-got; err == nil {
		t.Error("expected job context to observe cancellation")
	}
	p.Stop()
}
