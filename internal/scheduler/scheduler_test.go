package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/quant/pkg/logger"
)

// stubJob counts its runs and optionally fails a number of times first.
type stubJob struct {
	name      string
	schedule  string
	runs      atomic.Int32
	failFirst int32
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	n := j.runs.Add(1)
	if n <= j.failFirst {
		return errors.New("transient failure")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewNop())
	// Keep retry delays out of unit tests.
	s.retryDelay = time.Millisecond
	return s
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "eod_analysis", schedule: "0 0 18 * * 1-5"}

	require.NoError(t, s.AddJob(job))
	assert.Equal(t, []string{"eod_analysis"}, s.GetAllJobs())

	// Same name twice is a configuration bug.
	assert.Error(t, s.AddJob(&stubJob{name: "eod_analysis", schedule: "0 0 18 * * 1-5"}))
}

func TestScheduler_AddJob_BadSchedule(t *testing.T) {
	s := newTestScheduler()
	err := s.AddJob(&stubJob{name: "broken", schedule: "not a cron spec"})
	assert.Error(t, err)
}

func TestScheduler_RunJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "eod_analysis", schedule: "0 0 18 * * 1-5"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("eod_analysis"))

	waitFor(t, func() bool {
		h, err := s.GetJobHistory("eod_analysis")
		if err != nil {
			return false
		}
		_, ok := h.LastResult()
		return ok
	})

	h, err := s.GetJobHistory("eod_analysis")
	require.NoError(t, err)
	result, ok := h.LastResult()
	require.True(t, ok)
	assert.True(t, result.Success)
	assert.Equal(t, "eod_analysis", result.JobName)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduler_RunJob_NotFound(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.RunJob("nope"))
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "flaky", schedule: "0 0 18 * * *", failFirst: 1}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))

	waitFor(t, func() bool { return job.runs.Load() >= 2 })

	h, err := s.GetJobHistory("flaky")
	require.NoError(t, err)

	waitFor(t, func() bool {
		result, ok := h.LastResult()
		return ok && result.Success
	})
}

func TestScheduler_GetJobHistory_Unknown(t *testing.T) {
	s := newTestScheduler()
	_, err := s.GetJobHistory("nope")
	assert.Error(t, err)
}

func TestJobHistory_KeepsLast100(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 120; i++ {
		h.AddResult(JobResult{JobName: "x", Success: true})
	}
	assert.Equal(t, 100, h.Len())

	result, ok := h.LastResult()
	assert.True(t, ok)
	assert.True(t, result.Success)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
