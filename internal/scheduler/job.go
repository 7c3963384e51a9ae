package scheduler

import (
	"context"
	"sync"
	"time"
)

// Job represents a scheduled job.
type Job interface {
	// Name returns the job name.
	Name() string

	// Run executes the job.
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression (with seconds),
	// e.g. "0 0 18 * * 1-5".
	Schedule() string
}

// JobResult represents the result of one job execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores recent job executions. Jobs run on their own
// goroutines, so access is guarded.
type JobHistory struct {
	mu      sync.RWMutex
	results []JobResult
}

// AddResult appends a result, keeping the last 100.
func (h *JobHistory) AddResult(result JobResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, result)
	if len(h.results) > 100 {
		h.results = h.results[len(h.results)-100:]
	}
}

// LastResult returns the most recent result, if any.
func (h *JobHistory) LastResult() (JobResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.results) == 0 {
		return JobResult{}, false
	}
	return h.results[len(h.results)-1], true
}

// Len returns the number of retained results.
func (h *JobHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.results)
}
