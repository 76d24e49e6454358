package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := New("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = New("nonsense", "production")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestNewLoggerReadsEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, NewLogger("warn").Formatter)
}

func TestPipelineLoggerOddsCalculated(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogOddsCalculated("cycle-1", 4411, 1.85, 3.6, 4.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pipeline", logEntry["component"])
	assert.Equal(t, "cycle-1", logEntry["cycle_id"])
	assert.Equal(t, float64(4411), logEntry["match_id"])
	assert.Equal(t, 3.6, logEntry["draw_odds"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestPipelineLoggerOddsAbandoned(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogOddsAbandoned("cycle-2", 12, "quota_rejected", errors.New("403"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "quota_rejected", logEntry["reason"])
	assert.Equal(t, "403", logEntry["error"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestPipelineLoggerCycleSummary(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogCycleSummary("cycle-3", 2, 1, 0, 0, 1500*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(2), logEntry["priced"])
	assert.Equal(t, float64(1), logEntry["insufficient_data"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
}

func TestPipelineLoggerMaintenance(t *testing.T) {
	log, buf := setupTestLogger()
	NewPipelineLogger(log).LogMaintenance(true, "maintenance-blackout")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Maintenance window opened", logEntry["msg"])
	assert.Equal(t, true, logEntry["maintenance"])
}

func TestAuditLoggerBetSettled(t *testing.T) {
	log, buf := setupTestLogger()
	at := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	NewAuditLogger(log).LogBetSettled(7, "user-1", 99, true, "47.00", at)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "user-1", logEntry["user_id"])
	assert.Equal(t, true, logEntry["is_won"])
	assert.Equal(t, "47.00", logEntry["payout"])
	assert.Equal(t, float64(at.Unix()), logEntry["timestamp"])
}
