// Package cron runs named background jobs on fixed intervals and keeps
// their last outcome for the admin API.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusOK      JobStatus = "ok"
	StatusFailed  JobStatus = "failed"
)

// Job is a task run every Interval. The first run happens after one
// Interval unless RunOnStart is set.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	RunOnStart  bool
	Fn          func(ctx context.Context) error
}

type jobState struct {
	Job
	mu        sync.Mutex
	status    JobStatus
	message   string
	lastRunAt *time.Time
	nextRunAt time.Time
}

// JobInfo is the serializable view of a job.
type JobInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Interval    string     `json:"interval"`
	Status      JobStatus  `json:"status"`
	Message     string     `json:"message,omitempty"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt   time.Time  `json:"nextRunAt"`
}

type Scheduler struct {
	mu     sync.RWMutex
	jobs   map[string]*jobState
	logger *zap.Logger
	wg     sync.WaitGroup
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{jobs: make(map[string]*jobState), logger: logger}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := time.Now().Add(job.Interval)
	if job.RunOnStart {
		next = time.Now()
	}
	s.jobs[job.Name] = &jobState{Job: job, status: StatusIdle, nextRunAt: next}
}

// Start launches one goroutine per job. They stop when ctx is cancelled;
// Wait blocks until they have.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, js)
	}
}

func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, js *jobState) {
	defer s.wg.Done()
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRunAt)
		js.mu.Unlock()
		timer := time.NewTimer(max(wait, 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = time.Now().Add(js.Interval)
			js.mu.Unlock()
		}
	}
}

// execute runs js unless a run is already in progress.
func (s *Scheduler) execute(ctx context.Context, js *jobState) bool {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return false
	}
	js.status = StatusRunning
	js.mu.Unlock()

	started := time.Now()
	err := js.Fn(ctx)
	elapsed := time.Since(started)

	js.mu.Lock()
	defer js.mu.Unlock()
	js.lastRunAt = &started
	if err != nil {
		js.status = StatusFailed
		js.message = err.Error()
		s.logger.Warn("cron job failed", zap.String("job", js.Name), zap.Duration("took", elapsed), zap.Error(err))
		return true
	}
	js.status = StatusOK
	js.message = ""
	s.logger.Debug("cron job done", zap.String("job", js.Name), zap.Duration("took", elapsed))
	return true
}

// Run triggers a job now and waits for it. It reports false when the job
// was already running.
func (s *Scheduler) Run(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("job %q not found", name)
	}
	return s.execute(ctx, js), nil
}

// Get returns one job's state.
func (s *Scheduler) Get(name string) (JobInfo, bool) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return JobInfo{}, false
	}
	return js.info(), true
}

// List returns every job sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	items := make([]JobInfo, 0, len(s.jobs))
	for _, js := range s.jobs {
		items = append(items, js.info())
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (js *jobState) info() JobInfo {
	js.mu.Lock()
	defer js.mu.Unlock()
	return JobInfo{
		Name:        js.Name,
		Description: js.Description,
		Interval:    js.Interval.String(),
		Status:      js.status,
		Message:     js.message,
		LastRunAt:   js.lastRunAt,
		NextRunAt:   js.nextRunAt,
	}
}
