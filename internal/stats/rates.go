package stats

// TeamRates are a team's career and recent win and draw rates
type TeamRates struct {
	WinRate        float64
	DrawRate       float64
	RecentWinRate  float64
	RecentDrawRate float64
}

// CalculateTeamRates returns nil when the team has no career or no recent matches.
// Zero rates would read as a certain loss, so callers must not price the match.
func CalculateTeamRates(s TeamStatistics) *TeamRates {
	total := float64(s.Total())
	recent := float64(s.RecentTotal())
	if total == 0 || recent == 0 {
		return nil
	}

	return &TeamRates{
		WinRate:        float64(s.Wins) / total,
		DrawRate:       float64(s.Draws) / total,
		RecentWinRate:  float64(s.RecentWins) / recent,
		RecentDrawRate: float64(s.RecentDraws) / recent,
	}
}

// OutcomeRates are home win, away win and draw rates of a set of meetings
type OutcomeRates struct {
	HomeWinRate float64
	AwayWinRate float64
	DrawRate    float64
}

// HeadToHeadRates holds the historical meeting rates and, when the teams met
// recently, the recent ones
type HeadToHeadRates struct {
	OutcomeRates
	Recent *OutcomeRates
}

// CalculateHeadToHeadRates returns nil when the teams never met
func CalculateHeadToHeadRates(s HeadToHeadStatistics) *HeadToHeadRates {
	n := float64(s.NumberOfMatches)
	if n == 0 {
		return nil
	}

	rates := &HeadToHeadRates{
		OutcomeRates: OutcomeRates{
			HomeWinRate: float64(s.Home.Wins) / n,
			AwayWinRate: float64(s.Away.Wins) / n,
			DrawRate:    float64(s.Away.Draws) / n,
		},
	}

	recentDraws := float64(s.Away.RecentDraws)
	recentAwayWins := float64(s.Away.RecentWins)
	recentHomeWins := float64(s.Home.RecentWins)
	recentTotal := recentDraws + recentAwayWins + recentHomeWins
	if recentTotal > 0 {
		rates.Recent = &OutcomeRates{
			HomeWinRate: recentHomeWins / recentTotal,
			AwayWinRate: recentAwayWins / recentTotal,
			DrawRate:    recentDraws / recentTotal,
		}
	}
	return rates
}
