package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/krxusd/pkg/config"
	"github.com/wonny/krxusd/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(_ context.Context) error {
	j.runs++
	return j.err
}

func testScheduler() *Scheduler {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "console"})
	s := New(log)
	s.maxRetries = 0
	s.retryDelay = 0
	return s
}

func TestAddJob(t *testing.T) {
	s := testScheduler()

	err := s.AddJob(&stubJob{name: "sync", schedule: "0 10 16 * * *"})
	require.NoError(t, err)

	assert.Equal(t, []string{"sync"}, s.GetAllJobs())
}

func TestAddJobDuplicate(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "sync", schedule: "@daily"}))
	assert.Error(t, s.AddJob(&stubJob{name: "sync", schedule: "@daily"}))
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s := testScheduler()

	assert.Error(t, s.AddJob(&stubJob{name: "bad", schedule: "not a cron expr"}))
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := testScheduler()
	job := &stubJob{name: "sync", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.GetJobHistory("sync")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1.0, history.GetSuccessRate())
}

func TestRunJobFailure(t *testing.T) {
	s := testScheduler()
	job := &stubJob{name: "sync", schedule: "@daily", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.GetJobHistory("sync")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "upstream down", history.Results[0].Error)
	assert.Zero(t, history.GetSuccessRate())
}

func TestRunJobUnknown(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{Success: true})
	}
	assert.Len(t, h.Results, 100)
}
