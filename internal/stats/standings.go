package stats

import "github.com/yourusername/betkick/internal/models"

const (
	// GroupStageMinPlayed is the sample a group-stage table row needs to be used
	GroupStageMinPlayed = 3
	// LeagueMinPlayed is the sample a league table row needs to be used
	LeagueMinPlayed = 10
)

// StandingSnapshot is one team's current table row together with the table size
type StandingSnapshot struct {
	TeamID       int
	Position     int
	Won          int
	Drawn        int
	Lost         int
	TotalTeams   int
	IsGroupStage bool
}

// Played returns the number of decided matches in the snapshot
func (s StandingSnapshot) Played() int {
	return s.Won + s.Drawn + s.Lost
}

// NewStandingSnapshot builds a snapshot from a stored standings row
func NewStandingSnapshot(row *models.Standing, totalTeams int) StandingSnapshot {
	return StandingSnapshot{
		TeamID:       row.TeamID,
		Position:     row.Position,
		Won:          row.Won,
		Drawn:        row.Draw,
		Lost:         row.Lost,
		TotalTeams:   totalTeams,
		IsGroupStage: row.IsGroupStage(),
	}
}

// ValidateStandings reports whether every snapshot has played enough matches
// for its table rates to mean anything. An empty slice is not valid.
func ValidateStandings(snapshots []StandingSnapshot) bool {
	if len(snapshots) == 0 {
		return false
	}
	for _, s := range snapshots {
		minPlayed := LeagueMinPlayed
		if s.IsGroupStage {
			minPlayed = GroupStageMinPlayed
		}
		if s.Played() < minPlayed {
			return false
		}
	}
	return true
}

// StandingRates are a team's in-competition rates and its normalized table position
type StandingRates struct {
	WinRate            float64
	DrawRate           float64
	PositionNormalized float64
}

// CalculateStandingRates returns nil when the snapshot has no matches or no table size.
// PositionNormalized is 1 for the leader and falls by 1/TotalTeams per place.
func CalculateStandingRates(s StandingSnapshot) *StandingRates {
	played := float64(s.Played())
	if played == 0 || s.TotalTeams <= 0 {
		return nil
	}

	return &StandingRates{
		WinRate:            float64(s.Won) / played,
		DrawRate:           float64(s.Drawn) / played,
		PositionNormalized: 1 - float64(s.Position-1)/float64(s.TotalTeams),
	}
}

// MatchStandings picks the home and away snapshots out of the competition rows and
// returns their rates. Both are nil unless both teams have a row, every row passes
// ValidateStandings, and the table size is known.
func MatchStandings(rows []*models.Standing, homeID, awayID, totalTeams int) (home, away *StandingRates) {
	if totalTeams <= 0 {
		return nil, nil
	}

	homeIdx, awayIdx := -1, -1
	snapshots := make([]StandingSnapshot, 0, 2)
	for _, row := range rows {
		if row == nil {
			continue
		}
		switch row.TeamID {
		case homeID:
			homeIdx = len(snapshots)
		case awayID:
			awayIdx = len(snapshots)
		default:
			continue
		}
		snapshots = append(snapshots, NewStandingSnapshot(row, totalTeams))
	}

	if homeIdx < 0 || awayIdx < 0 || !ValidateStandings(snapshots) {
		return nil, nil
	}

	home = CalculateStandingRates(snapshots[homeIdx])
	away = CalculateStandingRates(snapshots[awayIdx])
	if home == nil || away == nil {
		return nil, nil
	}
	return home, away
}
