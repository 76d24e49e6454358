package odds

import (
	"errors"
	"fmt"

	"github.com/yourusername/betkick/internal/stats"
)

const (
	// WinCalibrationShift is taken from each win probability after normalization
	WinCalibrationShift = 0.0175
	// DrawCalibrationShift is added to the draw probability after normalization
	DrawCalibrationShift = 2 * WinCalibrationShift
)

// ErrInsufficientData means a match cannot be priced from the available statistics
var ErrInsufficientData = errors.New("insufficient data to price match")

// InsufficientDataError carries the reason a match could not be priced
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInsufficientData.Error(), e.Reason)
}

// Unwrap lets errors.Is match ErrInsufficientData
func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

func insufficient(format string, args ...interface{}) error {
	return &InsufficientDataError{Reason: fmt.Sprintf(format, args...)}
}

// Inputs are the rates a match is priced from. Standings are optional and used
// only when both sides are present.
type Inputs struct {
	Home         *stats.TeamRates
	Away         *stats.TeamRates
	HeadToHead   *stats.HeadToHeadRates
	HomeStanding *stats.StandingRates
	AwayStanding *stats.StandingRates
}

// Probabilities are the calibrated outcome probabilities of a match
type Probabilities struct {
	HomeWin float64
	AwayWin float64
	Draw    float64
}

// Sum returns the total of the three probabilities
func (p Probabilities) Sum() float64 {
	return p.HomeWin + p.AwayWin + p.Draw
}

// Model blends rate categories into probabilities
type Model struct {
	weights Weights
}

// NewModel creates a model after validating the weights
func NewModel(weights Weights) (*Model, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Model{weights: weights}, nil
}

// Weights returns the weights the model blends with
func (m *Model) Weights() Weights {
	return m.weights
}

// Probabilities computes the calibrated probabilities of a match. It returns an
// *InsufficientDataError when team or head-to-head rates are missing.
func (m *Model) Probabilities(in Inputs) (Probabilities, error) {
	switch {
	case in.Home == nil:
		return Probabilities{}, insufficient("home team has no career or recent matches")
	case in.Away == nil:
		return Probabilities{}, insufficient("away team has no career or recent matches")
	case in.HeadToHead == nil:
		return Probabilities{}, insufficient("teams have no head-to-head history")
	}

	var homeStandingWin, homePosition, awayStandingWin, awayPosition, standingDraw *float64
	if in.HomeStanding != nil && in.AwayStanding != nil {
		homeStandingWin = &in.HomeStanding.WinRate
		homePosition = &in.HomeStanding.PositionNormalized
		awayStandingWin = &in.AwayStanding.WinRate
		awayPosition = &in.AwayStanding.PositionNormalized
		avg := (in.HomeStanding.DrawRate + in.AwayStanding.DrawRate) / 2
		standingDraw = &avg
	}

	var recentHomeWin, recentAwayWin, recentDraw *float64
	if recent := in.HeadToHead.Recent; recent != nil {
		recentHomeWin = &recent.HomeWinRate
		recentAwayWin = &recent.AwayWinRate
		recentDraw = &recent.DrawRate
	}

	homeWin := m.WinScore(in.Home.WinRate, in.Home.RecentWinRate, in.HeadToHead.HomeWinRate,
		recentHomeWin, homeStandingWin, homePosition)
	awayWin := m.WinScore(in.Away.WinRate, in.Away.RecentWinRate, in.HeadToHead.AwayWinRate,
		recentAwayWin, awayStandingWin, awayPosition)
	draw := m.DrawScore(
		(in.Home.DrawRate+in.Away.DrawRate)/2,
		(in.Home.RecentDrawRate+in.Away.RecentDrawRate)/2,
		in.HeadToHead.DrawRate, recentDraw, standingDraw)

	total := homeWin + awayWin + draw
	if total <= 0 {
		return Probabilities{}, insufficient("all outcome scores are zero")
	}

	return Probabilities{
		HomeWin: homeWin/total - WinCalibrationShift,
		AwayWin: awayWin/total - WinCalibrationShift,
		Draw:    draw/total + DrawCalibrationShift,
	}, nil
}

// WinScore blends one side's win rates. Nil inputs are absent and their weight
// is shared equally by the present ones.
func (m *Model) WinScore(teamWin, recentTeamWin, h2hWin float64, recentH2HWin, standingWin, standingPosition *float64) float64 {
	return blend([]term{
		{value: &teamWin, weight: m.weights.Team},
		{value: &recentTeamWin, weight: m.weights.RecentTeam},
		{value: &h2hWin, weight: m.weights.HeadToHead},
		{value: recentH2HWin, weight: m.weights.RecentHeadToHead},
		{value: standingWin, weight: m.weights.StandingRate},
		{value: standingPosition, weight: m.weights.StandingPosition},
	})
}

// DrawScore blends the draw rates of the pair. A draw has no table position,
// so the position weight is always shared among the present inputs.
func (m *Model) DrawScore(teamsDraw, recentTeamsDraw, h2hDraw float64, recentH2HDraw, standingsDraw *float64) float64 {
	return blend([]term{
		{value: &teamsDraw, weight: m.weights.Team},
		{value: &recentTeamsDraw, weight: m.weights.RecentTeam},
		{value: &h2hDraw, weight: m.weights.HeadToHead},
		{value: recentH2HDraw, weight: m.weights.RecentHeadToHead},
		{value: standingsDraw, weight: m.weights.StandingRate},
		{value: nil, weight: m.weights.StandingPosition},
	})
}

type term struct {
	value  *float64
	weight float64
}

func blend(terms []term) float64 {
	var absentWeight float64
	present := 0
	for _, t := range terms {
		if t.value == nil {
			absentWeight += t.weight
			continue
		}
		present++
	}
	if present == 0 {
		return 0
	}

	share := absentWeight / float64(present)
	var score float64
	for _, t := range terms {
		if t.value != nil {
			score += *t.value * (t.weight + share)
		}
	}
	return score
}
