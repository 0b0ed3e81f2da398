package async

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

func TestQueueRunsEveryJob(t *testing.T) {
	var running, peak int32
	handle := func(ctx context.Context, job Job) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&running, -1)

		if common.RequestIDFromContext(ctx) != job.TraceID || common.SourceFromContext(ctx) != job.Path {
			return errors.New("job context not set")
		}
		time.Sleep(5 * time.Millisecond)
		if job.Path == "bad.pdf" {
			return common.UnreadablePDF("boom", nil)
		}
		return nil
	}

	q := NewQueue(context.Background(), handle, nil, WithWorkers(2), WithQueueSize(1))
	paths := []string{"a.pdf", "b.pdf", "bad.pdf", "c.pdf", "d.pdf"}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}
	q.Shutdown(context.Background())

	outs := q.Outcomes()
	if len(outs) != len(paths) {
		t.Fatalf("outcomes = %d, want %d", len(outs), len(paths))
	}
	sort.Slice(outs, func(i, j int) bool { return outs[i].Job.Path < outs[j].Job.Path })
	for _, o := range outs {
		if o.Job.TraceID == "" || o.Job.SubmittedAt.IsZero() {
			t.Fatalf("job defaults not filled: %+v", o.Job)
		}
		wantErr := o.Job.Path == "bad.pdf"
		if (o.Err != nil) != wantErr {
			t.Fatalf("%s: err = %v", o.Job.Path, o.Err)
		}
	}
	if !errors.Is(outs[2].Err, common.ErrUnreadablePDF) {
		t.Fatalf("bad.pdf err = %v", outs[2].Err)
	}
	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestQueueTimeoutPerJob(t *testing.T) {
	handle := func(ctx context.Context, job Job) error {
		<-ctx.Done()
		return ctx.Err()
	}
	q := NewQueue(context.Background(), handle, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond))
	_ = q.Enqueue(context.Background(), Job{Path: "slow.pdf"})
	q.Shutdown(context.Background())

	outs := q.Outcomes()
	if len(outs) != 1 || !errors.Is(outs[0].Err, context.DeadlineExceeded) {
		t.Fatalf("outcomes = %+v", outs)
	}
}

func TestQueueCancelledBaseSkipsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := int32(0)
	q := NewQueue(ctx, func(context.Context, Job) error {
		atomic.AddInt32(&called, 1)
		return nil
	}, nil, WithWorkers(1))
	_ = q.Enqueue(context.Background(), Job{Path: "a.pdf"})
	q.Shutdown(context.Background())

	if called != 0 {
		t.Fatalf("handler ran after cancellation")
	}
	if outs := q.Outcomes(); len(outs) != 1 || !errors.Is(outs[0].Err, context.Canceled) {
		t.Fatalf("outcomes = %+v", outs)
	}
}

func TestQueueEnqueueAfterShutdown(t *testing.T) {
	q := NewQueue(context.Background(), func(context.Context, Job) error { return nil }, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	if err := q.Enqueue(context.Background(), Job{Path: "late.pdf"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
