package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when Start is called twice
var ErrAlreadyRunning = errors.New("scheduler: already running")

// Job is a unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f JobFunc) Name() string                  { return f.JobName }
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// Config holds scheduler configuration
type Config struct {
	// Interval between runs of every registered job
	Interval time.Duration
	// MaxRetries is how often a failed run is retried before waiting for the next tick
	MaxRetries int
	RetryDelay time.Duration
	// RunOnStart runs every job once immediately after Start
	RunOnStart bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Interval:   15 * time.Minute,
		MaxRetries: 2,
		RetryDelay: 10 * time.Second,
	}
}

// Scheduler runs registered jobs on a fixed interval
type Scheduler struct {
	config Config
	logger *zap.Logger

	mu      sync.Mutex
	jobs    []Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a scheduler; zero config fields fall back to DefaultConfig
func New(config Config, logger *zap.Logger) *Scheduler {
	defaults := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{config: config, logger: logger}
}

// Register adds a job. Jobs registered after Start run from the next tick.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Start launches the run loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("jobs", len(s.jobs)),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run to return
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runAll(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		s.runJob(ctx, job)
	}
}

// runJob runs one job with retries. A panicking job is logged and counted as failed.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	log := s.logger.With(zap.String("job", job.Name()))

	for attempt := 0; ; attempt++ {
		start := time.Now()
		err := s.safeRun(ctx, job)
		if err == nil {
			log.Debug("Job completed", zap.Duration("duration", time.Since(start)))
			return
		}
		if attempt >= s.config.MaxRetries {
			log.Error("Job failed", zap.Int("attempts", attempt+1), zap.Error(err))
			return
		}
		log.Warn("Job failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("retry_in", s.config.RetryDelay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.RetryDelay):
		}
	}
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Job: job.Name(), Value: r}
		}
	}()
	return job.Run(ctx)
}
