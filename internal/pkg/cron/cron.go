// Package cron runs named background jobs on fixed intervals and exposes
// their state to the admin dashboard.
package cron

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUnknownJob is returned when a job name is not registered.
var ErrUnknownJob = errors.New("unknown job")

// JobStatus is the outcome of a job's most recent run.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusOK      JobStatus = "ok"
	StatusFailed  JobStatus = "failed"
)

// Job defines a scheduled background task.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	Fn          func(ctx context.Context) error
}

// JobSummary is the dashboard view of a registered job.
type JobSummary struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	NextRunAt   time.Time  `json:"next_run_at"`
}

type jobState struct {
	Job
	mu        sync.Mutex
	status    JobStatus
	lastError string
	lastRunAt *time.Time
	nextRunAt time.Time
}

func (js *jobState) summary() JobSummary {
	js.mu.Lock()
	defer js.mu.Unlock()
	return JobSummary{
		Name:        js.Name,
		Description: js.Description,
		Status:      js.status,
		Error:       js.lastError,
		LastRunAt:   js.lastRunAt,
		NextRunAt:   js.nextRunAt,
	}
}

// Scheduler manages a collection of named interval jobs.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
}

func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*jobState)}
}

// Register adds a job to the scheduler. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{
		Job:       job,
		status:    StatusIdle,
		nextRunAt: time.Now().Add(job.Interval),
	}
}

// Start launches all registered jobs in background goroutines. They stop
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		go s.runLoop(ctx, js)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, js *jobState) {
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRunAt)
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = time.Now().Add(js.Interval)
			js.mu.Unlock()
		}
	}
}

// execute runs the job once. Overlapping runs are skipped, not queued.
func (s *Scheduler) execute(ctx context.Context, js *jobState) error {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return nil
	}
	js.status = StatusRunning
	js.mu.Unlock()

	now := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.lastRunAt = &now
	if err != nil {
		js.status = StatusFailed
		js.lastError = err.Error()
	} else {
		js.status = StatusOK
		js.lastError = ""
	}
	js.mu.Unlock()
	return err
}

// Run triggers a job by name and waits for it to finish, returning the
// job's own error. The interval schedule is unaffected.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return ErrUnknownJob
	}
	return s.execute(ctx, js)
}

// Status returns the current state of one job.
func (s *Scheduler) Status(name string) (JobSummary, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return JobSummary{}, ErrUnknownJob
	}
	return js.summary(), nil
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]JobSummary, 0, len(s.jobs))
	for _, js := range s.jobs {
		items = append(items, js.summary())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}
