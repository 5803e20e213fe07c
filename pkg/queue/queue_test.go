package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var (
	echoRuns atomic.Int32
	failRuns atomic.Int32
)

type echoJob struct {
	Val string
}

func (j *echoJob) Handle() error {
	echoRuns.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failRuns.Add(1)
	return errors.New("always fails")
}

func init() {
	// Start workers so jobs actually get processed in tests.
	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.echoJob", func() queue.Job { return &echoJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	before := echoRuns.Load()

	if err := queue.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for echoRuns.Load() == before && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	if echoRuns.Load() == before {
		t.Error("job was never processed")
	}
}

func TestFailedJobRetry(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// 1 attempt + 1s backoff + slack.
	time.Sleep(2500 * time.Millisecond)

	if len(queue.FailedJobs()) == 0 {
		t.Error("expected at least one failed job")
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&echoJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
