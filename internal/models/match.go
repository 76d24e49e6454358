package models

import (
	"time"
)

// Status represents the lifecycle status of a match as reported by the provider
type Status string

const (
	StatusScheduled       Status = "SCHEDULED"
	StatusTimed           Status = "TIMED"
	StatusInPlay          Status = "IN_PLAY"
	StatusPaused          Status = "PAUSED"
	StatusExtraTime       Status = "EXTRA_TIME"
	StatusPenaltyShootout Status = "PENALTY_SHOOTOUT"
	StatusFinished        Status = "FINISHED"
	StatusSuspended       Status = "SUSPENDED"
	StatusPostponed       Status = "POSTPONED"
	StatusCancelled       Status = "CANCELLED"
	StatusAwarded         Status = "AWARDED"
)

// IsFinal reports whether bets on a match with this status can be settled
func (s Status) IsFinal() bool {
	return s == StatusFinished || s == StatusAwarded
}

// Winner represents the declared result of a match
type Winner string

const (
	WinnerHomeTeam Winner = "HOME_TEAM"
	WinnerAwayTeam Winner = "AWAY_TEAM"
	WinnerDraw     Winner = "DRAW"
)

// Valid reports whether w is one of the known winner values
func (w Winner) Valid() bool {
	switch w {
	case WinnerHomeTeam, WinnerAwayTeam, WinnerDraw:
		return true
	default:
		return false
	}
}

// Duration represents how a match was decided
type Duration string

const (
	DurationRegular         Duration = "REGULAR"
	DurationExtraTime       Duration = "EXTRA_TIME"
	DurationPenaltyShootout Duration = "PENALTY_SHOOTOUT"
)

// Score holds goals scored in play. Penalties are only set for shootouts.
type Score struct {
	Home          *int `db:"score_home" json:"home"`
	Away          *int `db:"score_away" json:"away"`
	PenaltiesHome *int `db:"penalties_home" json:"penalties_home,omitempty"`
	PenaltiesAway *int `db:"penalties_away" json:"penalties_away,omitempty"`
}

// Match represents a football match stored by the pipeline
type Match struct {
	ID            int          `db:"id" json:"id" validate:"required,gt=0"`
	CompetitionID int          `db:"competition_id" json:"competition_id" validate:"required,gt=0"`
	HomeTeamID    int          `db:"home_team_id" json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID    int          `db:"away_team_id" json:"away_team_id" validate:"required,gt=0"`
	UTCDate       time.Time    `db:"utc_date" json:"utc_date" validate:"required"`
	Status        Status       `db:"status" json:"status" validate:"required"`
	Winner        *Winner      `db:"winner" json:"winner"`
	Duration      Duration     `db:"duration" json:"duration"`
	Score         Score        `json:"score"`
	Odds          MatchOdds    `json:"odds"`
	HomeTeam      *Team        `json:"home_team,omitempty"`
	AwayTeam      *Team        `json:"away_team,omitempty"`
	Competition   *Competition `json:"competition,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// ApplyResult copies the provider-owned result fields from an updated copy of the match
func (m *Match) ApplyResult(updated *Match) {
	m.Score = updated.Score
	m.Duration = updated.Duration
	m.UTCDate = updated.UTCDate
	m.Winner = updated.Winner
	m.Status = updated.Status
}

// FinishesWith reports whether moving to the updated status closes the match for settlement
func (m *Match) FinishesWith(updated *Match) bool {
	return !m.Status.IsFinal() && updated.Status.IsFinal()
}

// Label returns a short human readable description used in logs
func (m *Match) Label() string {
	home, away := "home", "away"
	if m.HomeTeam != nil && m.HomeTeam.ShortName != "" {
		home = m.HomeTeam.ShortName
	}
	if m.AwayTeam != nil && m.AwayTeam.ShortName != "" {
		away = m.AwayTeam.ShortName
	}
	return home + " vs " + away
}
