package cron

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Func is a job body. The context is the scheduler's lifetime context.
type Func func(ctx context.Context) error

// Job is a named interval task. All jobs are registered at startup.
type Job struct {
	Name        string
	Description string
	Every       time.Duration
	Run         Func
}

// JobInfo is the wire representation of a job's runtime state.
type JobInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Runs        int        `json:"runs"`
	Failures    int        `json:"failures"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	NextRunAt   time.Time  `json:"nextRunAt"`
}

type record struct {
	job  Job
	kick chan struct{}

	mu       sync.Mutex
	running  bool
	runs     int
	failures int
	lastRun  time.Time
	lastErr  error
	next     time.Time
}

// Scheduler drives a fixed set of interval jobs, each on its own
// goroutine. A manual trigger while a run is in flight is coalesced.
type Scheduler struct {
	mu      sync.RWMutex
	ordered []*record
	byName  map[string]*record
}

func New() *Scheduler {
	return &Scheduler{byName: make(map[string]*record)}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &record{
		job:  job,
		kick: make(chan struct{}, 1),
		next: time.Now().Add(job.Every),
	}
	s.ordered = append(s.ordered, r)
	s.byName[job.Name] = r
}

// Start launches one loop per registered job and blocks until all loops
// exit. Cancel the context to stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	records := append([]*record(nil), s.ordered...)
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, r := range records {
		wg.Add(1)
		go func(r *record) {
			defer wg.Done()
			s.loop(ctx, r)
		}(r)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, r *record) {
	for {
		r.mu.Lock()
		wait := time.Until(r.next)
		r.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-r.kick:
			timer.Stop()
		}

		s.run(ctx, r)

		r.mu.Lock()
		r.next = time.Now().Add(r.job.Every)
		r.mu.Unlock()
	}
}

func (s *Scheduler) run(ctx context.Context, r *record) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	started := time.Now()
	err := r.job.Run(ctx)

	r.mu.Lock()
	r.running = false
	r.runs++
	r.lastRun = started
	r.lastErr = err
	if err != nil {
		r.failures++
	}
	r.mu.Unlock()
}

// Trigger queues an immediate run of the named job. A trigger while the
// job is already queued or running is dropped.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	r, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	select {
	case r.kick <- struct{}{}:
	default:
	}
	return nil
}

// Info returns the state of one job.
func (s *Scheduler) Info(name string) (JobInfo, bool) {
	s.mu.RLock()
	r, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return JobInfo{}, false
	}
	return r.info(), true
}

// Snapshot lists all jobs in registration order.
func (s *Scheduler) Snapshot() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]JobInfo, 0, len(s.ordered))
	for _, r := range s.ordered {
		infos = append(infos, r.info())
	}
	return infos
}

func (r *record) info() JobInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := JobInfo{
		Name:        r.job.Name,
		Description: r.job.Description,
		Runs:        r.runs,
		Failures:    r.failures,
		NextRunAt:   r.next,
	}
	switch {
	case r.running:
		info.Status = "running"
	case r.runs == 0:
		info.Status = "idle"
	case r.lastErr != nil:
		info.Status = "failed"
	default:
		info.Status = "ok"
	}
	if !r.lastRun.IsZero() {
		last := r.lastRun
		info.LastRunAt = &last
	}
	if r.lastErr != nil {
		info.LastError = r.lastErr.Error()
	}
	return info
}
