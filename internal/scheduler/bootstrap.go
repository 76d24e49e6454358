package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// TaskSaveCompetitions names the competitions step, which only runs at bootstrap
const TaskSaveCompetitions = "save_competitions"

// Bootstrap fills an empty or stale database the way the nightly tasks would,
// spacing the quota-heavy steps apart. Maintenance is held open for the whole
// run and closed at the end even when a step fails. Step failures are
// collected and the remaining steps still run.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	wait := c.quotaWait()
	c.setMaintenance(true, "bootstrap")

	var errs error
	step := func(name string, fn func(context.Context) error) {
		if err := c.runTask(ctx, name, fn); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	pause := func() bool {
		if err := c.sleep(ctx, wait); err != nil {
			errs = multierr.Append(errs, err)
			return false
		}
		return true
	}

	c.logger.WithField("quota_wait", wait.String()).Info("Bootstrap started")

	step(TaskSaveCompetitions, func(ctx context.Context) error {
		_, err := c.deps.Standings.SaveCompetitions(ctx)
		return err
	})
	step(TaskSaveUpcomingMatches, c.SaveUpcomingMatches)

	if pause() {
		step(TaskFirstStandingsBatch, c.RefreshFirstStandingsBatch)
		if pause() {
			step(TaskSecondStandingsBatch, c.RefreshSecondStandingsBatch)
			pause()
		}
	}

	c.setMaintenance(false, "bootstrap")
	step(TaskCheckMatchesToday, c.CheckMatchesToday)
	c.state.SetOddsCalculationEnabled(true)

	entry := c.logger.WithField("phase", c.state.Snapshot().Phase())
	if errs != nil {
		entry.WithError(errs).Warn("Bootstrap finished with errors")
		return errs
	}
	entry.Info("Bootstrap finished")
	return nil
}

func (c *Coordinator) quotaWait() time.Duration {
	if c.cfg.BootstrapQuotaWaitSeconds < 0 {
		return 0
	}
	return time.Duration(c.cfg.BootstrapQuotaWaitSeconds) * time.Second
}
