package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineLogger records odds pipeline and scheduler events
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogOddsCalculated logs a match that was priced by the probability model
func (pl *PipelineLogger) LogOddsCalculated(cycleID string, matchID int, homeWin, draw, awayWin float64) {
	pl.WithFields(logrus.Fields{
		"cycle_id":      cycleID,
		"match_id":      matchID,
		"home_win_odds": homeWin,
		"draw_odds":     draw,
		"away_win_odds": awayWin,
	}).Info("Odds calculated")
}

// LogOddsAbandoned logs a match whose provisional odds will never be replaced
func (pl *PipelineLogger) LogOddsAbandoned(cycleID string, matchID int, reason string, cause error) {
	entry := pl.WithFields(logrus.Fields{
		"cycle_id": cycleID,
		"match_id": matchID,
		"reason":   reason,
	})
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Warn("Odds calculation abandoned")
}

// LogTransientFailure logs a match left pending for the next cycle
func (pl *PipelineLogger) LogTransientFailure(cycleID string, matchID int, cause error) {
	pl.WithFields(logrus.Fields{
		"cycle_id": cycleID,
		"match_id": matchID,
	}).WithError(cause).Warn("Odds calculation deferred")
}

// LogCycleSummary logs the aggregate result of one odds calculation cycle
func (pl *PipelineLogger) LogCycleSummary(cycleID string, priced, insufficientData, quotaRejected, transient int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"cycle_id":           cycleID,
		"priced":             priced,
		"insufficient_data":  insufficientData,
		"quota_rejected":     quotaRejected,
		"transient_failures": transient,
		"duration_ms":        duration.Milliseconds(),
	}).Info("Odds cycle completed")
}

// LogBetsSettled logs the settlement of every open bet on a finished match
func (pl *PipelineLogger) LogBetsSettled(matchID int, winner string, won, lost int, totalPayout string) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"winner":       winner,
		"bets_won":     won,
		"bets_lost":    lost,
		"total_payout": totalPayout,
	}).Info("Bets settled")
}

// LogMaintenance logs entering or leaving the nightly maintenance window
func (pl *PipelineLogger) LogMaintenance(active bool, phase string) {
	msg := "Maintenance window closed"
	if active {
		msg = "Maintenance window opened"
	}
	pl.WithFields(logrus.Fields{
		"maintenance": active,
		"phase":       phase,
	}).Info(msg)
}
