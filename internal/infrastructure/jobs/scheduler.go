package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/pkg/logger"
	"giftroom.backend/pkg/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cadence is how often a sweep runs
type Cadence string

const (
	CadenceFast   Cadence = "fast"
	CadenceHourly Cadence = "hourly"
	CadenceDaily  Cadence = "daily"
)

// cronSpec maps a cadence to its schedule. Daily sweeps run at 04:00 to
// stay off peak hours.
func cronSpec(c Cadence) string {
	switch c {
	case CadenceFast:
		return "@every 2m"
	case CadenceHourly:
		return "0 * * * *"
	default:
		return "0 4 * * *"
	}
}

// TaskStatus describes one registered sweep
type TaskStatus struct {
	Name      string     `json:"name"`
	Cadence   Cadence    `json:"cadence"`
	Scheduled bool       `json:"scheduled"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastCount int64      `json:"lastCount"`
	LastError string     `json:"lastError,omitempty"`
}

// TaskReport is the outcome of one forced run
type TaskReport struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Error string `json:"error,omitempty"`
}

type registration struct {
	task    Task
	entryID cron.EntryID
	running int32

	lastRun   time.Time
	lastCount int64
	lastErr   error
}

// Scheduler drives the background sweeps. Each task runs on its cadence,
// never concurrently with itself; a failing task is logged and retried on
// the next tick without touching the other tasks.
type Scheduler struct {
	cron  *cron.Cron
	mu    sync.Mutex
	tasks map[string]*registration
	order []string
}

// NewScheduler creates a scheduler with no tasks registered
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		tasks: make(map[string]*registration),
	}
}

// Register adds a task and schedules it on its cadence
func (s *Scheduler) Register(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.Name()]; exists {
		return fmt.Errorf("task %q already registered", task.Name())
	}

	reg := &registration{task: task}
	id, err := s.cron.AddFunc(cronSpec(task.Cadence()), func() {
		s.runTask(context.Background(), reg)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %q: %w", task.Name(), err)
	}
	reg.entryID = id
	s.tasks[task.Name()] = reg
	s.order = append(s.order, task.Name())
	return nil
}

// Run starts the cron loop
func (s *Scheduler) Run() {
	logger.Info(context.Background(), "sweep scheduler started", zap.Int("tasks", len(s.tasks)))
	s.cron.Start()
}

// Shutdown stops the cron loop and waits for in-flight runs to finish
func (s *Scheduler) Shutdown(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List reports the registered tasks in registration order
func (s *Scheduler) List() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]TaskStatus, 0, len(s.order))
	for _, name := range s.order {
		reg := s.tasks[name]
		status := TaskStatus{
			Name:      name,
			Cadence:   reg.task.Cadence(),
			Scheduled: reg.entryID != 0,
			Running:   atomic.LoadInt32(&reg.running) == 1,
			LastCount: reg.lastCount,
		}
		if !reg.lastRun.IsZero() {
			lastRun := reg.lastRun
			status.LastRun = &lastRun
		}
		if reg.lastErr != nil {
			status.LastError = reg.lastErr.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Start re-schedules a previously stopped task
func (s *Scheduler) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.tasks[name]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if reg.entryID != 0 {
		return nil
	}

	id, err := s.cron.AddFunc(cronSpec(reg.task.Cadence()), func() {
		s.runTask(context.Background(), reg)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %q: %w", name, err)
	}
	reg.entryID = id
	logger.Info(context.Background(), "sweep task started", zap.String("task", name))
	return nil
}

// Stop removes a task from the schedule. An in-flight run finishes.
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.tasks[name]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if reg.entryID == 0 {
		return nil
	}

	s.cron.Remove(reg.entryID)
	reg.entryID = 0
	logger.Info(context.Background(), "sweep task stopped", zap.String("task", name))
	return nil
}

// RunAll forces one run of every registered task, scheduled or not, and
// returns a per-task report. A failing task is recorded in its report and
// the remaining tasks still run.
func (s *Scheduler) RunAll(ctx context.Context) []TaskReport {
	s.mu.Lock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	s.mu.Unlock()

	reports := make([]TaskReport, 0, len(names))
	for _, name := range names {
		s.mu.Lock()
		reg := s.tasks[name]
		s.mu.Unlock()

		count, err := s.runTask(ctx, reg)
		report := TaskReport{Name: name, Count: count}
		if err != nil {
			report.Error = err.Error()
		}
		reports = append(reports, report)
	}
	return reports
}

// runTask executes one task, skipping if a previous run is still going
func (s *Scheduler) runTask(ctx context.Context, reg *registration) (int64, error) {
	if !atomic.CompareAndSwapInt32(&reg.running, 0, 1) {
		logger.Warn(ctx, "sweep task still running, skipping tick", zap.String("task", reg.task.Name()))
		return 0, nil
	}
	defer atomic.StoreInt32(&reg.running, 0)

	start := time.Now()
	count, err := reg.task.Run(ctx)

	s.mu.Lock()
	reg.lastRun = start
	reg.lastCount = count
	reg.lastErr = err
	s.mu.Unlock()

	if err != nil {
		logger.Error(ctx, "sweep task failed",
			zap.String("task", reg.task.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return count, err
	}

	if count > 0 {
		metrics.SweepReconciled.WithLabelValues(reg.task.Name()).Add(float64(count))
		logger.Info(ctx, "sweep task reconciled rows",
			zap.String("task", reg.task.Name()),
			zap.Int64("count", count),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return count, nil
}
