package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"venuehub/internal/pkg/lock"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const lockKey = "expiry-check"

// ErrAlreadyRunning means another run holds the expiry lock.
var ErrAlreadyRunning = errors.New("expiry check already running")

// Job is one expiry check run; *Checker implements it.
type Job interface {
	Run(ctx context.Context) (Report, error)
}

type SchedulerConfig struct {
	Interval time.Duration
	// Cron, when set, replaces Interval. Standard five-field syntax.
	Cron string
	// LockTTL bounds how long a crashed run can keep others out.
	LockTTL time.Duration
}

// Scheduler owns the periodic expiry job. The process bootstrap creates it and
// calls Start and Stop; nothing about it is global.
type Scheduler struct {
	job    Job
	locker lock.Locker
	log    *logrus.Logger
	cfg    SchedulerConfig

	mu     sync.Mutex
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(job Job, locker lock.Locker, log *logrus.Logger, cfg SchedulerConfig) *Scheduler {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &Scheduler{job: job, locker: locker, log: log, cfg: cfg}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched != nil {
		return nil
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	definition := gocron.DurationJob(s.cfg.Interval)
	schedule := "every " + s.cfg.Interval.String()
	if s.cfg.Cron != "" {
		definition = gocron.CronJob(s.cfg.Cron, false)
		schedule = s.cfg.Cron
	}

	ctx, cancel := context.WithCancel(context.Background())
	_, err = sched.NewJob(
		definition,
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithName("booking-expiry-check"),
		// a slow run delays the next one instead of overlapping it
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return fmt.Errorf("register expiry job: %w", err)
	}

	sched.Start()
	s.sched, s.ctx, s.cancel = sched, ctx, cancel
	s.log.WithField("schedule", schedule).Info("expiry scheduler started")
	return nil
}

// Stop cancels an in-flight run and waits for gocron to shut down.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}

	s.cancel()
	err := s.sched.Shutdown()
	s.sched, s.ctx, s.cancel = nil, nil, nil
	s.log.Info("expiry scheduler stopped")
	return err
}

// RunOnce runs the job under the shared lock. Concurrent callers in this or another
// process get ErrAlreadyRunning.
func (s *Scheduler) RunOnce(ctx context.Context) (report Report, err error) {
	release, ok, err := s.locker.TryLock(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		return Report{}, fmt.Errorf("acquire expiry lock: %w", err)
	}
	if !ok {
		return Report{}, ErrAlreadyRunning
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("expiry check panicked: %v", r)
		}
	}()
	return s.job.Run(ctx)
}

// tick is the gocron task. It never lets an error or panic escape.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	report, err := s.RunOnce(ctx)
	entry := s.log.WithField("duration_ms", time.Since(start).Milliseconds())
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		entry.Debug("expiry check skipped: lock held elsewhere")
	case err != nil:
		entry.WithError(err).Error("expiry check failed")
	default:
		entry.WithFields(logrus.Fields{
			"warned":  report.Warned,
			"expired": report.Expired,
			"failed":  report.Failed,
		}).Debug("expiry tick done")
	}
}
