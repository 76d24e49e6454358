package odds

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/stats"
)

const delta = 1e-12

func f(v float64) *float64 { return &v }

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(DefaultWeights())
	require.NoError(t, err)
	return m
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.Team = 0.5
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Team, w.RecentTeam = -0.1, 0.55
	assert.Error(t, w.Validate())

	_, err := NewModel(Weights{})
	assert.Error(t, err)
}

func TestWinScoreRedistribution(t *testing.T) {
	m := newTestModel(t)
	const (
		tw, rtw, hw, rhw, sw, sp   = 0.5, 4.0 / 7.0, 0.3, 0.4, 0.6, 0.85
		wT, wRT, wH, wRH, wSR, wSP = 0.30, 0.15, 0.01, 0.04, 0.05, 0.45
	)

	t.Run("all present", func(t *testing.T) {
		want := tw*wT + rtw*wRT + hw*wH + rhw*wRH + sw*wSR + sp*wSP
		assert.InDelta(t, want, m.WinScore(tw, rtw, hw, f(rhw), f(sw), f(sp)), delta)
	})

	t.Run("recent head-to-head missing", func(t *testing.T) {
		want := tw*(wT+wRH/5) + rtw*(wRT+wRH/5) + hw*(wH+wRH/5) + sw*(wSR+wRH/5) + sp*(wSP+wRH/5)
		assert.InDelta(t, want, m.WinScore(tw, rtw, hw, nil, f(sw), f(sp)), delta)
	})

	t.Run("standings missing", func(t *testing.T) {
		share := wSR/4 + wSP/4
		want := tw*(wT+share) + rtw*(wRT+share) + hw*(wH+share) + rhw*(wRH+share)
		assert.InDelta(t, want, m.WinScore(tw, rtw, hw, f(rhw), nil, nil), delta)
	})

	t.Run("standings and recent head-to-head missing", func(t *testing.T) {
		share := wRH/3 + wSR/3 + wSP/3
		want := tw*(wT+share) + rtw*(wRT+share) + hw*(wH+share)
		assert.InDelta(t, want, m.WinScore(tw, rtw, hw, nil, nil, nil), delta)
	})
}

func TestDrawScoreRedistribution(t *testing.T) {
	m := newTestModel(t)
	const (
		td, rtd, hd, rhd, sd       = 0.25, 1.0 / 7.0, 0.3, 0.2, 0.22
		wT, wRT, wH, wRH, wSR, wSP = 0.30, 0.15, 0.01, 0.04, 0.05, 0.45
	)

	t.Run("all present", func(t *testing.T) {
		want := td*(wT+wSP/5) + rtd*(wRT+wSP/5) + hd*(wH+wSP/5) + rhd*(wRH+wSP/5) + sd*(wSR+wSP/5)
		assert.InDelta(t, want, m.DrawScore(td, rtd, hd, f(rhd), f(sd)), delta)
	})

	t.Run("recent head-to-head missing", func(t *testing.T) {
		share := wRH/4 + wSP/4
		want := td*(wT+share) + rtd*(wRT+share) + hd*(wH+share) + sd*(wSR+share)
		assert.InDelta(t, want, m.DrawScore(td, rtd, hd, nil, f(sd)), delta)
	})

	t.Run("standings missing", func(t *testing.T) {
		share := wSR/4 + wSP/4
		want := td*(wT+share) + rtd*(wRT+share) + hd*(wH+share) + rhd*(wRH+share)
		assert.InDelta(t, want, m.DrawScore(td, rtd, hd, f(rhd), nil), delta)
	})

	t.Run("standings and recent head-to-head missing", func(t *testing.T) {
		share := wRH/3 + wSR/3 + wSP/3
		want := td*(wT+share) + rtd*(wRT+share) + hd*(wH+share)
		assert.InDelta(t, want, m.DrawScore(td, rtd, hd, nil, nil), delta)
	})
}

func TestEffectiveWeightsWithStandingRateMissing(t *testing.T) {
	m := newTestModel(t)
	w := m.Weights()

	// Feeding 1 into a single category isolates its effective weight.
	effective := []float64{
		m.WinScore(1, 0, 0, f(0), nil, nil),
		m.WinScore(0, 1, 0, f(0), nil, nil),
		m.WinScore(0, 0, 1, f(0), nil, nil),
		m.WinScore(0, 0, 0, f(1), nil, nil),
	}
	base := []float64{w.Team, w.RecentTeam, w.HeadToHead, w.RecentHeadToHead}

	var total float64
	for i := range effective {
		assert.InDelta(t, base[i]+w.StandingRate/4+w.StandingPosition/4, effective[i], delta)
		total += effective[i]
	}
	assert.InDelta(t, 1.0, total, delta)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	m := newTestModel(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		in := Inputs{
			Home: &stats.TeamRates{WinRate: rng.Float64(), DrawRate: rng.Float64(), RecentWinRate: rng.Float64(), RecentDrawRate: rng.Float64()},
			Away: &stats.TeamRates{WinRate: rng.Float64(), DrawRate: rng.Float64(), RecentWinRate: rng.Float64(), RecentDrawRate: rng.Float64()},
			HeadToHead: &stats.HeadToHeadRates{
				OutcomeRates: stats.OutcomeRates{HomeWinRate: rng.Float64(), AwayWinRate: rng.Float64(), DrawRate: rng.Float64()},
			},
		}
		if i%2 == 0 {
			in.HeadToHead.Recent = &stats.OutcomeRates{HomeWinRate: rng.Float64(), AwayWinRate: rng.Float64(), DrawRate: rng.Float64()}
		}
		if i%3 == 0 {
			in.HomeStanding = &stats.StandingRates{WinRate: rng.Float64(), DrawRate: rng.Float64(), PositionNormalized: rng.Float64()}
			in.AwayStanding = &stats.StandingRates{WinRate: rng.Float64(), DrawRate: rng.Float64(), PositionNormalized: rng.Float64()}
		}

		p, err := m.Probabilities(in)
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientData)
			continue
		}
		assert.InDelta(t, 1.0, p.Sum(), 1e-9)
	}
}

func TestProbabilitiesCalibrationShift(t *testing.T) {
	m := newTestModel(t)
	in := Inputs{
		Home:       &stats.TeamRates{WinRate: 0.5, DrawRate: 0.25, RecentWinRate: 0.5, RecentDrawRate: 0.25},
		Away:       &stats.TeamRates{WinRate: 0.5, DrawRate: 0.25, RecentWinRate: 0.5, RecentDrawRate: 0.25},
		HeadToHead: &stats.HeadToHeadRates{OutcomeRates: stats.OutcomeRates{HomeWinRate: 0.5, AwayWinRate: 0.5, DrawRate: 0.25}},
	}

	p, err := m.Probabilities(in)
	require.NoError(t, err)

	// Raw scores are 0.5, 0.5 and 0.25, so normalized values are 0.4, 0.4 and 0.2.
	assert.InDelta(t, 0.4-0.0175, p.HomeWin, 1e-9)
	assert.InDelta(t, 0.4-0.0175, p.AwayWin, 1e-9)
	assert.InDelta(t, 0.2+0.035, p.Draw, 1e-9)
}

func TestProbabilitiesInsufficientData(t *testing.T) {
	m := newTestModel(t)
	rates := &stats.TeamRates{WinRate: 0.5}
	h2h := &stats.HeadToHeadRates{}

	tests := []struct {
		name string
		in   Inputs
	}{
		{"home rates missing", Inputs{Away: rates, HeadToHead: h2h}},
		{"away rates missing", Inputs{Home: rates, HeadToHead: h2h}},
		{"head-to-head missing", Inputs{Home: rates, Away: rates}},
		{"all scores zero", Inputs{Home: &stats.TeamRates{}, Away: &stats.TeamRates{}, HeadToHead: h2h}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Probabilities(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInsufficientData))

			var insufficientErr *InsufficientDataError
			require.True(t, errors.As(err, &insufficientErr))
			assert.NotEmpty(t, insufficientErr.Reason)
		})
	}
}

func TestCalculateOddsFloor(t *testing.T) {
	for p := 0.001; p <= 1.0; p += 0.001 {
		assert.GreaterOrEqual(t, CalculateOdds(p, false), MinOdds, "p=%f", p)
		assert.GreaterOrEqual(t, CalculateOdds(p, true), MinOdds, "p=%f", p)
	}
	assert.InDelta(t, 1.5, CalculateOdds(1, false), delta)
	assert.InDelta(t, MinOdds, CalculateOdds(0.95, false), delta)
	assert.InDelta(t, 2.5, CalculateOdds(0.4, false), delta)
}

func TestCalculateOddsDrawCompression(t *testing.T) {
	for _, p := range []float64{0.19, 0.1, 0.05, 0.02} {
		fair := 1 / p
		got := CalculateOdds(p, true)
		assert.InDelta(t, 5+(fair-5)*0.25, got, 1e-9)
		assert.Less(t, got, fair)
	}

	assert.InDelta(t, 1/0.1, CalculateOdds(0.1, false), delta, "win odds are never compressed")
	assert.InDelta(t, 4.0, CalculateOdds(0.25, true), delta)
}

func TestCalculateOddsNonPositiveProbability(t *testing.T) {
	assert.InDelta(t, 1/MinProbability, CalculateOdds(0, false), delta)
	assert.InDelta(t, 1/MinProbability, CalculateOdds(-0.01, false), delta)
	assert.InDelta(t, 5+(1/MinProbability-5)*0.25, CalculateOdds(-0.01, true), delta)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func finished(id, home, away int, winner string) footballdata.MatchPayload {
	return footballdata.MatchPayload{
		ID:       id,
		HomeTeam: footballdata.TeamRef{ID: intPtr(home)},
		AwayTeam: footballdata.TeamRef{ID: intPtr(away)},
		Score:    footballdata.ScorePayload{Winner: strPtr(winner)},
	}
}

func generatorFixture() MatchData {
	const home, away = 1, 2
	return MatchData{
		Match: &models.Match{ID: 100, CompetitionID: 2021, HomeTeamID: home, AwayTeamID: away},
		HomeTeam: &footballdata.TeamMatchesPayload{
			ResultSet: footballdata.ResultSet{Wins: intPtr(10), Draws: intPtr(5), Losses: intPtr(5)},
			Matches: []footballdata.MatchPayload{
				finished(1, home, 9, "HOME_TEAM"),
				finished(2, 8, home, "DRAW"),
			},
		},
		AwayTeam: &footballdata.TeamMatchesPayload{
			ResultSet: footballdata.ResultSet{Wins: intPtr(6), Draws: intPtr(6), Losses: intPtr(8)},
			Matches: []footballdata.MatchPayload{
				finished(3, away, 9, "AWAY_TEAM"),
			},
		},
		HeadToHead: &footballdata.HeadToHeadPayload{
			Aggregates: &footballdata.HeadToHeadAggregates{
				NumberOfMatches: 3,
				HomeTeam:        &footballdata.HeadToHeadTeam{ID: home, Wins: 2, Draws: 1},
				AwayTeam:        &footballdata.HeadToHeadTeam{ID: away, Draws: 1, Losses: 2},
			},
		},
	}
}

func TestGeneratorRecentHeadToHeadAbsent(t *testing.T) {
	g := NewGenerator(newTestModel(t))

	quote, err := g.Generate(generatorFixture())
	require.NoError(t, err)

	assert.False(t, quote.RecentHeadToHeadUsed)
	assert.False(t, quote.StandingsUsed)
	assert.InDelta(t, 1.0, quote.Probabilities.Sum(), 1e-9)
	assert.GreaterOrEqual(t, quote.HomeWinOdds, MinOdds)
	assert.GreaterOrEqual(t, quote.DrawOdds, MinOdds)
	assert.Less(t, quote.HomeWinOdds, quote.AwayWinOdds, "stronger home side is priced shorter")

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	odds := quote.MatchOdds(at)
	assert.Equal(t, models.OddsStateCalculated, odds.State)
	assert.False(t, odds.IsProvisional)
}

func TestGeneratorUsesStandings(t *testing.T) {
	data := generatorFixture()
	data.Standings = []*models.Standing{
		{TeamID: 1, Position: 1, Won: 8, Draw: 2},
		{TeamID: 2, Position: 12, Won: 3, Draw: 3, Lost: 4},
	}
	data.TotalTeams = 20
	data.HeadToHead.Matches = []footballdata.MatchPayload{finished(50, 1, 2, "HOME_TEAM")}

	quote, err := NewGenerator(newTestModel(t)).Generate(data)
	require.NoError(t, err)
	assert.True(t, quote.StandingsUsed)
	assert.True(t, quote.RecentHeadToHeadUsed)
}

func TestGeneratorTeamWithoutMatchesIsNotPriced(t *testing.T) {
	data := generatorFixture()
	data.AwayTeam = &footballdata.TeamMatchesPayload{ResultSet: footballdata.ResultSet{}}

	quote, err := NewGenerator(newTestModel(t)).Generate(data)
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestGeneratorMissingHeadToHead(t *testing.T) {
	data := generatorFixture()
	data.HeadToHead = &footballdata.HeadToHeadPayload{}

	_, err := NewGenerator(newTestModel(t)).Generate(data)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
