package footballdata

import (
	"github.com/yourusername/betkick/internal/models"
)

// StandingTypeTotal is the table type combining home and away results
const StandingTypeTotal = "TOTAL"

// ToMatch converts a provider match into the stored form. It returns false when
// either team is still undecided, since such a match cannot be priced or bet on.
func ToMatch(p MatchPayload) (*models.Match, bool) {
	if p.HomeTeam.ID == nil || p.AwayTeam.ID == nil {
		return nil, false
	}

	match := &models.Match{
		ID:            p.ID,
		CompetitionID: p.Competition.ID,
		HomeTeamID:    *p.HomeTeam.ID,
		AwayTeamID:    *p.AwayTeam.ID,
		UTCDate:       p.UTCDate.UTC(),
		Status:        models.Status(p.Status),
		Duration:      models.Duration(p.Score.Duration),
		Score:         toScore(p.Score),
		HomeTeam:      ToTeam(p.HomeTeam),
		AwayTeam:      ToTeam(p.AwayTeam),
		Competition:   ToCompetition(p.Competition),
	}
	if match.Duration == "" {
		match.Duration = models.DurationRegular
	}
	if p.Score.Winner != nil {
		winner := models.Winner(*p.Score.Winner)
		if winner.Valid() {
			match.Winner = &winner
		}
	}
	return match, true
}

// toScore returns goals scored in play. The provider folds shootout goals into
// the full-time score, so they are subtracted back out.
func toScore(s ScorePayload) models.Score {
	score := models.Score{
		Home: copyInt(s.FullTime.Home),
		Away: copyInt(s.FullTime.Away),
	}
	if s.Duration != string(models.DurationPenaltyShootout) || s.Penalties == nil {
		return score
	}

	score.PenaltiesHome = copyInt(s.Penalties.Home)
	score.PenaltiesAway = copyInt(s.Penalties.Away)
	if score.Home != nil && score.PenaltiesHome != nil {
		*score.Home -= *score.PenaltiesHome
	}
	if score.Away != nil && score.PenaltiesAway != nil {
		*score.Away -= *score.PenaltiesAway
	}
	return score
}

// ToTeam converts an embedded team reference. It returns nil for undecided slots.
func ToTeam(t TeamRef) *models.Team {
	if t.ID == nil {
		return nil
	}
	return &models.Team{
		ID:        *t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
		TLA:       t.TLA,
		Crest:     t.Crest,
	}
}

// ToCompetition converts an embedded competition reference
func ToCompetition(c CompetitionRef) *models.Competition {
	if c.ID == 0 {
		return nil
	}
	return &models.Competition{
		ID:     c.ID,
		Code:   c.Code,
		Name:   c.Name,
		Type:   c.Type,
		Emblem: c.Emblem,
	}
}

// ToStandings flattens the TOTAL tables of a standings response into rows.
// HOME and AWAY split tables are ignored, as are rows without a team.
func ToStandings(p *StandingsPayload) []*models.Standing {
	if p == nil {
		return nil
	}

	var rows []*models.Standing
	for _, table := range p.Standings {
		if table.Type != "" && table.Type != StandingTypeTotal {
			continue
		}
		for _, row := range table.Table {
			if row.Team.ID == nil {
				continue
			}
			rows = append(rows, &models.Standing{
				CompetitionID:  p.Competition.ID,
				Stage:          table.Stage,
				Group:          copyString(table.Group),
				TeamID:         *row.Team.ID,
				Position:       row.Position,
				PlayedGames:    row.PlayedGames,
				Won:            row.Won,
				Draw:           row.Draw,
				Lost:           row.Lost,
				Points:         row.Points,
				GoalsFor:       row.GoalsFor,
				GoalsAgainst:   row.GoalsAgainst,
				GoalDifference: row.GoalDifference,
			})
		}
	}
	return rows
}

// StandingTeams returns the teams referenced by the TOTAL tables
func StandingTeams(p *StandingsPayload) []*models.Team {
	if p == nil {
		return nil
	}
	seen := make(map[int]bool)
	var teams []*models.Team
	for _, table := range p.Standings {
		if table.Type != "" && table.Type != StandingTypeTotal {
			continue
		}
		for _, row := range table.Table {
			team := ToTeam(row.Team)
			if team == nil || seen[team.ID] {
				continue
			}
			seen[team.ID] = true
			teams = append(teams, team)
		}
	}
	return teams
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
