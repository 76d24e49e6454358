package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for money movements.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetSettled logs the result assigned to a single bet.
func (al *AuditLogger) LogBetSettled(betID int64, userID string, matchID int, isWon bool, payout string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"user_id":   userID,
		"match_id":  matchID,
		"is_won":    isWon,
		"payout":    payout,
		"timestamp": timestamp.Unix(),
	}).Info("Bet settlement recorded")
}

// LogBalanceCredited logs a payout credited to a user account.
func (al *AuditLogger) LogBalanceCredited(userID string, betID int64, amount string) {
	al.WithFields(logrus.Fields{
		"user_id": userID,
		"bet_id":  betID,
		"amount":  amount,
	}).Info("Account balance credited")
}

// LogOddsOverride logs odds written outside the scheduled pricing cycle.
func (al *AuditLogger) LogOddsOverride(matchID int, source string, homeWin, draw, awayWin float64) {
	al.WithFields(logrus.Fields{
		"match_id":      matchID,
		"source":        source,
		"home_win_odds": homeWin,
		"draw_odds":     draw,
		"away_win_odds": awayWin,
	}).Warn("Odds written on demand")
}
