// Package stats derives win, draw and loss statistics from provider payloads.
// All functions are pure; decoding happens in the footballdata package.
package stats

import (
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
)

// RecentWindow is the number of decided matches counted as recent form
const RecentWindow = 7

// TeamStatistics holds career counts for the queried window and recent form counts
type TeamStatistics struct {
	Wins   int
	Draws  int
	Losses int

	RecentWins   int
	RecentDraws  int
	RecentLosses int
}

// Total returns the number of career matches
func (s TeamStatistics) Total() int {
	return s.Wins + s.Draws + s.Losses
}

// RecentTotal returns the number of matches counted as recent form
func (s TeamStatistics) RecentTotal() int {
	return s.RecentWins + s.RecentDraws + s.RecentLosses
}

// FromTeamMatches builds a team's statistics from its match listing. Career counts
// come from the provider's result set; recent form is walked from the match list.
func FromTeamMatches(p *footballdata.TeamMatchesPayload, teamID int) TeamStatistics {
	if p == nil {
		return TeamStatistics{}
	}

	s := TeamStatistics{
		Wins:   valueOrZero(p.ResultSet.Wins),
		Draws:  valueOrZero(p.ResultSet.Draws),
		Losses: valueOrZero(p.ResultSet.Losses),
	}
	s.RecentWins, s.RecentDraws, s.RecentLosses = recentForm(p.Matches, teamID)
	return s
}

// recentForm walks matches from the most recent backward and counts up to
// RecentWindow decided results from the team's point of view. Matches without
// a winner are skipped; an empty record ends the walk.
func recentForm(matches []footballdata.MatchPayload, teamID int) (wins, draws, losses int) {
	counted := 0
	for i := len(matches) - 1; i >= 0 && counted < RecentWindow; i-- {
		match := matches[i]
		if match.IsEmpty() {
			break
		}
		if match.Score.Winner == nil {
			continue
		}

		winner := models.Winner(*match.Score.Winner)
		isHome := match.HomeTeam.ID != nil && *match.HomeTeam.ID == teamID
		isAway := match.AwayTeam.ID != nil && *match.AwayTeam.ID == teamID

		switch {
		case (isHome && winner == models.WinnerHomeTeam) || (isAway && winner == models.WinnerAwayTeam):
			wins++
		case winner == models.WinnerDraw:
			draws++
		default:
			losses++
		}
		counted++
	}
	return wins, draws, losses
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
