package odds

const (
	// MinOdds is the lowest price ever offered
	MinOdds = 1.1
	// MinProbability replaces non-positive probabilities left by the calibration shift
	MinProbability = 0.01

	drawCompressionThreshold = 5.0
	drawCompressionFactor    = 0.25
)

// CalculateOdds converts a probability into fair decimal odds. Degenerate
// probabilities are clamped and long draw prices above 5 are compressed.
// The result is never below MinOdds.
func CalculateOdds(probability float64, isDraw bool) float64 {
	if probability <= 0 {
		probability = MinProbability
	}

	odds := 1 / probability
	if odds <= 1 {
		return max(odds/2+1, MinOdds)
	}
	if isDraw && odds > drawCompressionThreshold {
		return drawCompressionThreshold + (odds-drawCompressionThreshold)*drawCompressionFactor
	}
	return max(odds, MinOdds)
}
