package stats

import "github.com/yourusername/betkick/internal/footballdata"

// HeadToHeadStatistics holds the meeting history of the two teams of a match,
// seen from each side
type HeadToHeadStatistics struct {
	NumberOfMatches int
	Home            TeamStatistics
	Away            TeamStatistics
}

// FromHeadToHead builds head-to-head statistics for the match's home and away team.
// It returns false when the provider sent no aggregate for either side.
func FromHeadToHead(p *footballdata.HeadToHeadPayload, homeID, awayID int) (HeadToHeadStatistics, bool) {
	if p == nil || p.Aggregates == nil || p.Aggregates.HomeTeam == nil || p.Aggregates.AwayTeam == nil {
		return HeadToHeadStatistics{}, false
	}

	agg := p.Aggregates
	h2h := HeadToHeadStatistics{
		NumberOfMatches: agg.NumberOfMatches,
		Home: TeamStatistics{
			Wins:   agg.HomeTeam.Wins,
			Draws:  agg.HomeTeam.Draws,
			Losses: agg.HomeTeam.Losses,
		},
		Away: TeamStatistics{
			Wins:   agg.AwayTeam.Wins,
			Draws:  agg.AwayTeam.Draws,
			Losses: agg.AwayTeam.Losses,
		},
	}
	h2h.Home.RecentWins, h2h.Home.RecentDraws, h2h.Home.RecentLosses = recentForm(p.Matches, homeID)
	h2h.Away.RecentWins, h2h.Away.RecentDraws, h2h.Away.RecentLosses = recentForm(p.Matches, awayID)
	return h2h, true
}
