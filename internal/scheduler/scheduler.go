// Package scheduler drives the odds pipeline on a UTC wall clock and gates its
// tasks on the nightly maintenance window.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/config"
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/logger"
	"github.com/yourusername/betkick/internal/metrics"
	"github.com/yourusername/betkick/internal/service"
)

// Task names as used in logs, metrics and the status listing
const (
	TaskOddsCalculation      = "odds_calculation"
	TaskMatchUpdate          = "match_update"
	TaskCheckMatchesToday    = "check_matches_today"
	TaskStartMaintenance     = "start_maintenance"
	TaskSaveUpcomingMatches  = "save_upcoming_matches"
	TaskFirstStandingsBatch  = "first_standings_batch"
	TaskSecondStandingsBatch = "second_standings_batch"
	TaskEndMaintenance       = "end_maintenance"
)

// errSkipped marks a task run that was gated off by the run state
var errSkipped = errors.New("task skipped")

// OddsRunner prices pending matches
type OddsRunner interface {
	RunCycle(ctx context.Context) (*service.CycleReport, error)
}

// MatchSyncer stores upcoming matches and reconciles today's results
type MatchSyncer interface {
	FetchAndSaveMatches(ctx context.Context, from, to time.Time, saveOrUpdate bool) (*service.SyncReport, error)
	FetchAndUpdateMatches(ctx context.Context) (*service.SyncReport, error)
}

// StandingsRefresher refreshes competitions and tables
type StandingsRefresher interface {
	SaveCompetitions(ctx context.Context) (int, error)
	RefreshFirstBatch(ctx context.Context) (int, error)
	RefreshSecondBatch(ctx context.Context) (int, error)
}

// MatchCalendar answers whether any stored match kicks off in a range
type MatchCalendar interface {
	ExistsBetween(ctx context.Context, from, to time.Time) (bool, error)
}

// CacheFlusher drops cached provider payloads
type CacheFlusher interface {
	Flush()
}

// MaintenanceNotifier is told when the maintenance window opens and closes
type MaintenanceNotifier interface {
	SetMaintenance(active bool)
}

// Dependencies are the collaborators the coordinator drives
type Dependencies struct {
	Odds      OddsRunner
	Matches   MatchSyncer
	Standings StandingsRefresher
	Calendar  MatchCalendar
	// Cache and Notifier are optional
	Cache    CacheFlusher
	Notifier MaintenanceNotifier
}

// TaskEntry describes one scheduled task
type TaskEntry struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev,omitempty"`
}

type job struct {
	name string
	spec string
	id   cron.EntryID
}

// Coordinator registers the pipeline tasks on a cron and keeps the run state
type Coordinator struct {
	cron    *cron.Cron
	deps    Dependencies
	cfg     config.SchedulerConfig
	timeout time.Duration
	state   *RunState
	logger  *logrus.Entry
	plog    *logger.PipelineLogger

	mu        sync.RWMutex
	jobs      []job
	isRunning bool
	baseCtx   context.Context

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCoordinator creates a coordinator. Tasks are not registered until Register or Start.
func NewCoordinator(deps Dependencies, cfg config.SchedulerConfig, state *RunState, baseLogger *logrus.Logger) *Coordinator {
	if state == nil {
		state = NewRunState()
	}
	cronLogger := cron.PrintfLogger(baseLogger.WithField("component", "cron"))

	timeout := time.Duration(cfg.TaskTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Coordinator{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		deps:    deps,
		cfg:     cfg,
		timeout: timeout,
		state:   state,
		logger:  baseLogger.WithField("component", "scheduler"),
		plog:    logger.NewPipelineLogger(baseLogger),
		baseCtx: context.Background(),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// State returns the run state the coordinator gates its tasks on
func (c *Coordinator) State() *RunState {
	return c.state
}

// Register adds every pipeline task to the cron. It is a no-op once tasks are registered.
func (c *Coordinator) Register() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.jobs) > 0 {
		return nil
	}

	tasks := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{TaskOddsCalculation, c.cfg.OddsCalculation, c.RunOddsCalculation},
		{TaskMatchUpdate, c.cfg.MatchUpdate, c.RunMatchUpdate},
		{TaskCheckMatchesToday, c.cfg.CheckMatchesToday, c.CheckMatchesToday},
		{TaskStartMaintenance, c.cfg.StartMaintenance, c.StartMaintenance},
		{TaskSaveUpcomingMatches, c.cfg.SaveUpcomingMatches, c.SaveUpcomingMatches},
		{TaskFirstStandingsBatch, c.cfg.FirstStandingsBatch, c.RefreshFirstStandingsBatch},
		{TaskSecondStandingsBatch, c.cfg.SecondStandingsBatch, c.RefreshSecondStandingsBatch},
		{TaskEndMaintenance, c.cfg.EndMaintenance, c.EndMaintenance},
	}

	for _, t := range tasks {
		id, err := c.cron.AddJob(t.spec, cron.FuncJob(c.wrap(t.name, t.fn)))
		if err != nil {
			return fmt.Errorf("failed to schedule %s with spec %q: %w", t.name, t.spec, err)
		}
		c.jobs = append(c.jobs, job{name: t.name, spec: t.spec, id: id})
	}

	c.logger.WithField("tasks", len(c.jobs)).Info("Scheduled pipeline tasks")
	return nil
}

// Start registers the tasks and starts the cron. Task contexts derive from ctx.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.Register(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	c.baseCtx = ctx
	c.cron.Start()
	c.isRunning = true
	c.logger.Info("Scheduler started")
	return nil
}

// Stop stops the cron and waits for running tasks to return
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = false
	c.mu.Unlock()

	// running jobs read baseCtx under mu, so wait without holding it
	<-c.cron.Stop().Done()
	c.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the cron is currently running
func (c *Coordinator) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isRunning
}

// Entries lists the registered tasks with their next run. Before Start the
// next run is computed from the cron spec.
func (c *Coordinator) Entries() []TaskEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now().UTC()
	entries := make([]TaskEntry, 0, len(c.jobs))
	for _, j := range c.jobs {
		entry := c.cron.Entry(j.id)
		if !entry.Valid() {
			continue
		}
		next := entry.Next
		if next.IsZero() {
			next = entry.Schedule.Next(now)
		}
		entries = append(entries, TaskEntry{Name: j.name, Spec: j.spec, Next: next, Prev: entry.Prev})
	}
	return entries
}

// Prime rebuilds the run state at process start: it checks today's calendar and
// arms odds calculation so any pending backlog is priced.
func (c *Coordinator) Prime(ctx context.Context) error {
	c.state.SetOddsCalculationEnabled(true)
	return c.CheckMatchesToday(ctx)
}

// RunOddsCalculation prices the next batch of pending matches. An empty backlog
// disarms the task until the next match save.
func (c *Coordinator) RunOddsCalculation(ctx context.Context) error {
	if !c.state.Snapshot().OddsEligible() {
		return errSkipped
	}

	report, err := c.deps.Odds.RunCycle(ctx)
	if err != nil {
		return err
	}
	if report.Pending == 0 {
		c.state.SetOddsCalculationEnabled(false)
		c.logger.Info("No matches left to price, odds calculation disarmed")
	}
	return nil
}

// RunMatchUpdate reconciles today's matches with the provider
func (c *Coordinator) RunMatchUpdate(ctx context.Context) error {
	if !c.state.Snapshot().MatchUpdateEligible() {
		return errSkipped
	}
	_, err := c.deps.Matches.FetchAndUpdateMatches(ctx)
	return err
}

// CheckMatchesToday recomputes whether any stored match kicks off today (UTC)
func (c *Coordinator) CheckMatchesToday(ctx context.Context) error {
	today := c.now().UTC().Truncate(24 * time.Hour)
	exists, err := c.deps.Calendar.ExistsBetween(ctx, today, today.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to check today's matches: %w", err)
	}
	c.state.SetMatchesScheduledToday(exists)
	c.logger.WithField("matches_today", exists).Debug("Checked match calendar")
	return nil
}

// StartMaintenance opens the nightly blackout
func (c *Coordinator) StartMaintenance(context.Context) error {
	c.setMaintenance(true, TaskStartMaintenance)
	return nil
}

// EndMaintenance closes the nightly blackout
func (c *Coordinator) EndMaintenance(context.Context) error {
	c.setMaintenance(false, TaskEndMaintenance)
	return nil
}

// SaveUpcomingMatches stores the coming months of matches in consecutive windows,
// then flushes cached statistics and re-arms odds calculation. A failed window
// aborts the run and odds stay disarmed.
func (c *Coordinator) SaveUpcomingMatches(ctx context.Context) error {
	windows, days := c.cfg.UpcomingWindows, c.cfg.UpcomingWindowDays
	if windows <= 0 {
		windows = 9
	}
	if days <= 0 {
		days = 10
	}

	from := c.now().UTC().Truncate(24 * time.Hour)
	created := 0
	for i := 0; i < windows; i++ {
		to := from.AddDate(0, 0, days)
		report, err := c.deps.Matches.FetchAndSaveMatches(ctx, from, to, true)
		if err != nil {
			return fmt.Errorf("failed to save matches %s to %s: %w",
				from.Format(time.DateOnly), to.Format(time.DateOnly), err)
		}
		created += report.Created
		from = to
	}

	if c.deps.Cache != nil {
		c.deps.Cache.Flush()
	}
	c.state.SetOddsCalculationEnabled(true)
	c.logger.WithFields(logrus.Fields{
		"windows": windows,
		"created": created,
	}).Info("Upcoming matches saved, odds calculation armed")
	return nil
}

// RefreshFirstStandingsBatch fetches the first half of competition tables
func (c *Coordinator) RefreshFirstStandingsBatch(ctx context.Context) error {
	_, err := c.deps.Standings.RefreshFirstBatch(ctx)
	return err
}

// RefreshSecondStandingsBatch fetches the rest and replaces the stored tables
func (c *Coordinator) RefreshSecondStandingsBatch(ctx context.Context) error {
	_, err := c.deps.Standings.RefreshSecondBatch(ctx)
	return err
}

func (c *Coordinator) setMaintenance(active bool, phase string) {
	c.state.SetMaintenanceWindowActive(active)
	if c.deps.Notifier != nil {
		c.deps.Notifier.SetMaintenance(active)
	}
	c.plog.LogMaintenance(active, phase)
}

// wrap turns a task into a cron job with a deadline, metrics and error logging.
// Failures are logged and the task waits for its next firing.
func (c *Coordinator) wrap(name string, fn func(context.Context) error) func() {
	return func() {
		c.mu.RLock()
		base := c.baseCtx
		c.mu.RUnlock()
		_ = c.runTask(base, name, fn)
	}
}

func (c *Coordinator) runTask(parent context.Context, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, errSkipped):
		metrics.RecordSchedulerTask(name, "skipped", elapsed)
		return nil
	case err == nil:
		metrics.RecordSchedulerTask(name, "success", elapsed)
		return nil
	}

	metrics.RecordSchedulerTask(name, "error", elapsed)
	entry := c.logger.WithError(err).WithField("task", name)
	if footballdata.IsTransient(err) || errors.Is(err, context.DeadlineExceeded) {
		entry.Warn("Scheduled task failed, waiting for next run")
	} else {
		entry.Error("Scheduled task failed")
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
