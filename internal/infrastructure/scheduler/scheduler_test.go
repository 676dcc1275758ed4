package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	fails int32
	done  chan struct{}
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	n := j.runs.Add(1)
	if n <= j.fails {
		return errors.New("transient")
	}
	if j.done != nil {
		select {
		case j.done <- struct{}{}:
		default:
		}
	}
	return nil
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{MaxRetries: -1}, nil)

	assert.Equal(t, DefaultConfig().Interval, s.config.Interval)
	assert.Equal(t, DefaultConfig().RetryDelay, s.config.RetryDelay)
	assert.Equal(t, 0, s.config.MaxRetries)
}

func TestScheduler_RunsOnTick(t *testing.T) {
	s := New(Config{Interval: 10 * time.Millisecond}, zaptest.NewLogger(t))
	job := &countingJob{name: "tick", done: make(chan struct{}, 1)}
	s.Register(job)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	select {
	case <-job.done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	assert.GreaterOrEqual(t, job.runs.Load(), int32(1))
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New(Config{Interval: time.Hour}, zaptest.NewLogger(t))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := New(Config{Interval: time.Hour}, zaptest.NewLogger(t))
	assert.NoError(t, s.Stop(context.Background()))

	require.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := New(Config{Interval: time.Hour, MaxRetries: 3, RetryDelay: time.Millisecond}, zaptest.NewLogger(t))
	job := &countingJob{name: "flaky", fails: 2}

	s.runJob(context.Background(), job)

	assert.Equal(t, int32(3), job.runs.Load())
}

func TestRunJob_GivesUpAfterMaxRetries(t *testing.T) {
	s := New(Config{Interval: time.Hour, MaxRetries: 1, RetryDelay: time.Millisecond}, zaptest.NewLogger(t))
	job := &countingJob{name: "broken", fails: 100}

	s.runJob(context.Background(), job)

	assert.Equal(t, int32(2), job.runs.Load())
}

func TestRunJob_RecoversPanic(t *testing.T) {
	s := New(Config{Interval: time.Hour}, zaptest.NewLogger(t))
	job := JobFunc{JobName: "boom", Fn: func(context.Context) error { panic("nil map") }}

	err := s.safeRun(context.Background(), job)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Job)
	assert.Contains(t, err.Error(), "nil map")
}

func TestRunAll_StopsOnCancelledContext(t *testing.T) {
	s := New(Config{Interval: time.Hour}, zaptest.NewLogger(t))
	job := &countingJob{name: "skipped"}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.runAll(ctx)

	assert.Equal(t, int32(0), job.runs.Load())
}
