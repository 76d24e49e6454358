// Package odds turns team, head-to-head and standings rates into match
// probabilities and decimal odds.
package odds

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-9

// Weights are the share each rate category contributes to a probability score
type Weights struct {
	Team             float64 // career rate over the stats window
	RecentTeam       float64 // last RecentWindow decided matches
	HeadToHead       float64 // all meetings, from provider aggregates
	RecentHeadToHead float64 // meetings found in the head-to-head match list
	StandingRate     float64
	StandingPosition float64
}

// DefaultWeights returns the production weights
func DefaultWeights() Weights {
	return Weights{
		Team:             0.30,
		RecentTeam:       0.15,
		HeadToHead:       0.01,
		RecentHeadToHead: 0.04,
		StandingRate:     0.05,
		StandingPosition: 0.45,
	}
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Team + w.RecentTeam + w.HeadToHead + w.RecentHeadToHead + w.StandingRate + w.StandingPosition
}

// Validate checks that no weight is negative and that they sum to 1
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"team":                w.Team,
		"recent_team":         w.RecentTeam,
		"head_to_head":        w.HeadToHead,
		"recent_head_to_head": w.RecentHeadToHead,
		"standing_rate":       w.StandingRate,
		"standing_position":   w.StandingPosition,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %f", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %.9f", sum)
	}
	return nil
}
