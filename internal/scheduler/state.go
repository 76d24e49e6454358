package scheduler

import (
	"sync/atomic"

	"github.com/yourusername/betkick/internal/metrics"
)

// Run-state flag names as exported to Prometheus
const (
	FlagMatchesScheduledToday   = "matches_scheduled_today"
	FlagOddsCalculationEnabled  = "odds_calculation_enabled"
	FlagMaintenanceWindowActive = "maintenance_window_active"
)

// Phase names the coordinator state derived from the run-state flags
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhaseOddsEligible        Phase = "odds-eligible"
	PhaseMatchUpdateEligible Phase = "match-update-eligible"
	PhaseMaintenance         Phase = "maintenance-blackout"
)

// RunState holds the process-wide scheduling flags. Flags are never persisted;
// they are rebuilt at startup from the stored match calendar.
type RunState struct {
	matchesScheduledToday   atomic.Bool
	oddsCalculationEnabled  atomic.Bool
	maintenanceWindowActive atomic.Bool
}

// Snapshot is a point-in-time copy of the run state. Tasks branch on a snapshot
// so a single run sees one consistent view of the flags.
type Snapshot struct {
	MatchesScheduledToday   bool `json:"matches_scheduled_today"`
	OddsCalculationEnabled  bool `json:"odds_calculation_enabled"`
	MaintenanceWindowActive bool `json:"maintenance_window_active"`
}

// NewRunState creates a run state with every flag cleared
func NewRunState() *RunState {
	s := &RunState{}
	s.publish()
	return s
}

// Snapshot returns the current flags
func (s *RunState) Snapshot() Snapshot {
	return Snapshot{
		MatchesScheduledToday:   s.matchesScheduledToday.Load(),
		OddsCalculationEnabled:  s.oddsCalculationEnabled.Load(),
		MaintenanceWindowActive: s.maintenanceWindowActive.Load(),
	}
}

// MaintenanceActive reports whether the nightly blackout is in progress
func (s *RunState) MaintenanceActive() bool {
	return s.maintenanceWindowActive.Load()
}

// PhaseName returns the current phase as a plain string
func (s *RunState) PhaseName() string {
	return string(s.Snapshot().Phase())
}

// SetMatchesScheduledToday records whether the stored calendar has a match today
func (s *RunState) SetMatchesScheduledToday(v bool) {
	s.matchesScheduledToday.Store(v)
	metrics.SetRunStateFlag(FlagMatchesScheduledToday, v)
}

// SetOddsCalculationEnabled arms or disarms the odds task
func (s *RunState) SetOddsCalculationEnabled(v bool) {
	s.oddsCalculationEnabled.Store(v)
	metrics.SetRunStateFlag(FlagOddsCalculationEnabled, v)
}

// SetMaintenanceWindowActive opens or closes the nightly blackout
func (s *RunState) SetMaintenanceWindowActive(v bool) {
	s.maintenanceWindowActive.Store(v)
	metrics.SetRunStateFlag(FlagMaintenanceWindowActive, v)
}

func (s *RunState) publish() {
	snap := s.Snapshot()
	metrics.SetRunStateFlag(FlagMatchesScheduledToday, snap.MatchesScheduledToday)
	metrics.SetRunStateFlag(FlagOddsCalculationEnabled, snap.OddsCalculationEnabled)
	metrics.SetRunStateFlag(FlagMaintenanceWindowActive, snap.MaintenanceWindowActive)
}

// OddsEligible reports whether the odds task may price matches
func (s Snapshot) OddsEligible() bool {
	return s.OddsCalculationEnabled && !s.MaintenanceWindowActive
}

// MatchUpdateEligible reports whether the match update task may poll scores
func (s Snapshot) MatchUpdateEligible() bool {
	return s.MatchesScheduledToday && !s.MaintenanceWindowActive
}

// Phase returns the coordinator state for the flags. When both tasks are
// eligible odds-eligible is reported.
func (s Snapshot) Phase() Phase {
	switch {
	case s.MaintenanceWindowActive:
		return PhaseMaintenance
	case s.OddsEligible():
		return PhaseOddsEligible
	case s.MatchUpdateEligible():
		return PhaseMatchUpdateEligible
	default:
		return PhaseIdle
	}
}
