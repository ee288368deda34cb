package expiry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"venuehub/internal/middleware"
	"venuehub/internal/pkg/lock"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs  atomic.Int32
	panic bool
}

func (j *countingJob) Run(context.Context) (Report, error) {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return Report{Checked: 3, Expired: 1}, nil
}

func TestScheduler_StartRunsPeriodicallyUntilStopped(t *testing.T) {
	log, _ := test.NewNullLogger()
	job := &countingJob{}
	s := NewScheduler(job, lock.NewLocal(), log, SchedulerConfig{Interval: 20 * time.Millisecond})

	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "second Start is a no-op")

	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	stopped := job.runs.Load()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, stopped, job.runs.Load())
	assert.NoError(t, s.Stop())
}

func TestScheduler_InvalidCron(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := NewScheduler(&countingJob{}, lock.NewLocal(), log, SchedulerConfig{Interval: time.Minute, Cron: "every tuesday"})

	assert.Error(t, s.Start())
}

func TestScheduler_RunOnceRespectsLock(t *testing.T) {
	log, _ := test.NewNullLogger()
	locker := lock.NewLocal()
	job := &countingJob{}
	s := NewScheduler(job, locker, log, SchedulerConfig{Interval: time.Minute})

	release, ok, err := locker.TryLock(context.Background(), lockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Zero(t, job.runs.Load())

	release()
	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
}

func TestScheduler_RunOnceRecoversPanic(t *testing.T) {
	log, _ := test.NewNullLogger()
	locker := lock.NewLocal()
	s := NewScheduler(&countingJob{panic: true}, locker, log, SchedulerConfig{Interval: time.Minute})

	_, err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "panicked")

	_, ok, _ := locker.TryLock(context.Background(), lockKey, time.Minute)
	assert.True(t, ok, "lock is released after a panic")
}

func TestHandler_RunCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	locker := lock.NewLocal()
	s := NewScheduler(&countingJob{}, locker, log, SchedulerConfig{Interval: time.Minute})

	r := gin.New()
	internal := r.Group("/internal")
	internal.Use(middleware.InternalTokenAuth("secret", log))
	NewHandler(s).RegisterInternalRoutes(internal)

	call := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/internal/expiry-check", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)

	w := call("Bearer secret")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Checked)

	_, _, _ = locker.TryLock(context.Background(), lockKey, time.Minute)
	assert.Equal(t, http.StatusConflict, call("Bearer secret").Code)
}
