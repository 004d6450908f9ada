package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesUntilSuccess(t *testing.T) {
	q := NewQueue(zerolog.Nop(), 10, 1, 3)
	q.backoff = time.Millisecond
	q.Start(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})

	ok := q.Enqueue(Job{Name: "flaky", Run: func(ctx context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("temporary")
		}
		close(done)
		return nil
	}})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed")
	}
	q.Stop()

	assert.Equal(t, int32(3), calls.Load())
}

func TestQueueGivesUpAfterMaxAttempts(t *testing.T) {
	q := NewQueue(zerolog.Nop(), 10, 1, 2)
	q.backoff = time.Millisecond
	q.Start(context.Background())

	var calls atomic.Int32
	q.Enqueue(Job{Name: "broken", Run: func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("permanent")
	}})

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	q.Stop()

	assert.Equal(t, int32(2), calls.Load())
}

func TestQueueStopSkipsBackoffButDrainsQueue(t *testing.T) {
	q := NewQueue(zerolog.Nop(), 10, 1, 5)
	q.backoff = time.Hour
	q.Start(context.Background())

	var failing, queued atomic.Int32
	firstTry := make(chan struct{})

	q.Enqueue(Job{Name: "broken", Run: func(ctx context.Context) error {
		if failing.Add(1) == 1 {
			close(firstTry)
		}
		return errors.New("smtp down")
	}})
	q.Enqueue(Job{Name: "notify", Run: func(ctx context.Context) error {
		queued.Add(1)
		return nil
	}})

	<-firstTry

	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop waited on retry backoff")
	}

	assert.Equal(t, int32(1), failing.Load())
	assert.Equal(t, int32(1), queued.Load())
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(zerolog.Nop(), 1, 1, 1)
	// not started: nothing drains the buffer
	noop := Job{Name: "noop", Run: func(ctx context.Context) error { return nil }}

	assert.True(t, q.Enqueue(noop))
	assert.False(t, q.Enqueue(noop))
}

func TestQueueRejectsAfterStop(t *testing.T) {
	q := NewQueue(zerolog.Nop(), 1, 1, 1)
	q.Start(context.Background())
	q.Stop()

	assert.False(t, q.Enqueue(Job{Name: "late", Run: func(ctx context.Context) error { return nil }}))
}

func TestSchedulerRunOnceContinuesAfterFailure(t *testing.T) {
	s := NewScheduler(zerolog.Nop(), time.UTC)

	var ran []string
	s.RunOnce(context.Background(),
		Task{Name: "a", Run: func(ctx context.Context) (int64, error) {
			ran = append(ran, "a")
			return 0, errors.New("db down")
		}},
		Task{Name: "b", Run: func(ctx context.Context) (int64, error) {
			ran = append(ran, "b")
			return 2, nil
		}},
	)

	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Error(t, s.Add("not a spec"))
	assert.NoError(t, s.Add("@every 15m"))
}
