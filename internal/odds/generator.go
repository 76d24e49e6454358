package odds

import (
	"time"

	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/stats"
)

// MatchData is everything fetched to price one match
type MatchData struct {
	Match      *models.Match
	HomeTeam   *footballdata.TeamMatchesPayload
	AwayTeam   *footballdata.TeamMatchesPayload
	HeadToHead *footballdata.HeadToHeadPayload
	Standings  []*models.Standing
	TotalTeams int
}

// Quote is a priced match
type Quote struct {
	Probabilities Probabilities
	HomeWinOdds   float64
	AwayWinOdds   float64
	DrawOdds      float64
	// StandingsUsed reports whether table rates contributed to the price
	StandingsUsed bool
	// RecentHeadToHeadUsed reports whether recent meetings contributed to the price
	RecentHeadToHeadUsed bool
}

// MatchOdds returns the quote as calculated match odds
func (q *Quote) MatchOdds(at time.Time) models.MatchOdds {
	return models.NewCalculatedOdds(q.HomeWinOdds, q.AwayWinOdds, q.DrawOdds, at)
}

// Generator derives statistics from fetched payloads and prices a match
type Generator struct {
	model *Model
}

// NewGenerator creates a generator around a model
func NewGenerator(model *Model) *Generator {
	return &Generator{model: model}
}

// Generate prices a match. It returns an error wrapping ErrInsufficientData when
// the payloads do not support a price; nothing is ever partially priced.
func (g *Generator) Generate(data MatchData) (*Quote, error) {
	if data.Match == nil {
		return nil, insufficient("no match given")
	}
	homeID, awayID := data.Match.HomeTeamID, data.Match.AwayTeamID

	h2hStats, ok := stats.FromHeadToHead(data.HeadToHead, homeID, awayID)
	if !ok {
		return nil, insufficient("head-to-head aggregate missing")
	}

	in := Inputs{
		Home:       stats.CalculateTeamRates(stats.FromTeamMatches(data.HomeTeam, homeID)),
		Away:       stats.CalculateTeamRates(stats.FromTeamMatches(data.AwayTeam, awayID)),
		HeadToHead: stats.CalculateHeadToHeadRates(h2hStats),
	}
	in.HomeStanding, in.AwayStanding = stats.MatchStandings(data.Standings, homeID, awayID, data.TotalTeams)

	p, err := g.model.Probabilities(in)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Probabilities:        p,
		HomeWinOdds:          CalculateOdds(p.HomeWin, false),
		AwayWinOdds:          CalculateOdds(p.AwayWin, false),
		DrawOdds:             CalculateOdds(p.Draw, true),
		StandingsUsed:        in.HomeStanding != nil,
		RecentHeadToHeadUsed: in.HeadToHead != nil && in.HeadToHead.Recent != nil,
	}, nil
}
