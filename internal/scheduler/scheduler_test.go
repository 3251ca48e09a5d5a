package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	err      error
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "snapshot", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&stubJob{name: "snapshot", schedule: "@hourly"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.Equal(t, []string{"snapshot"}, s.GetAllJobs())
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()

	err := s.AddJob(&stubJob{name: "broken", schedule: "not a cron expr"})
	require.Error(t, err)
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "snapshot", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("snapshot"))

	waitFor(t, func() bool {
		h, err := s.GetJobHistory("snapshot")
		return err == nil && len(h.Results) == 1
	})

	h, err := s.GetJobHistory("snapshot")
	require.NoError(t, err)
	assert.True(t, h.Results[0].Success)
	assert.Empty(t, h.Results[0].Error)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestRunJobRetriesAndRecordsFailure(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "snapshot", schedule: "@hourly", err: errors.New("broker down")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("snapshot"))

	waitFor(t, func() bool {
		h, err := s.GetJobHistory("snapshot")
		return err == nil && len(h.Results) == 1
	})

	// initial attempt plus maxRetries
	assert.Equal(t, int32(4), job.runs.Load())

	h, err := s.GetJobHistory("snapshot")
	require.NoError(t, err)
	assert.False(t, h.Results[0].Success)
	assert.Equal(t, "broker down", h.Results[0].Error)
}

func TestRunJobUnknown(t *testing.T) {
	s := newTestScheduler()

	err := s.RunJob("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetJobStats(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "snapshot", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("snapshot"))

	waitFor(t, func() bool {
		h, _ := s.GetJobHistory("snapshot")
		return h != nil && len(h.Results) == 1
	})

	stats := s.GetJobStats()
	require.Contains(t, stats, "snapshot")
	assert.Equal(t, 1, stats["snapshot"].TotalRuns)
	assert.Equal(t, 1, stats["snapshot"].SuccessCount)
	assert.Equal(t, 0, stats["snapshot"].FailureCount)
	assert.Equal(t, 1.0, stats["snapshot"].SuccessRate)
	require.NotNil(t, stats["snapshot"].LastRun)
}

func TestJobHistoryTrimsToHundred(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("r%d", i), Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100)
	assert.Equal(t, "r149", h.Results[99].JobName)

	latest := h.GetLatestResults(5)
	require.Len(t, latest, 5)
	assert.Equal(t, "r149", latest[4].JobName)
}

func TestJobHistorySuccessRate(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})

	assert.InDelta(t, 2.0/3.0, h.GetSuccessRate(), 1e-9)
	assert.Len(t, h.GetFailedResults(), 1)
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
	t.Fatal("condition not met before deadline")
}
