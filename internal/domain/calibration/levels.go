package calibration

const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Thresholds are the two ascending cut points that split the 1.0-5.0 score
// scale into three levels. A score equal to a threshold resolves to the
// higher level.
type Thresholds struct {
	Medium float64
	High   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 2.5, High: 4.0}
}

// Classify maps any score to exactly one level.
func (t Thresholds) Classify(score float64) string {
	switch {
	case score >= t.High:
		return LevelHigh
	case score >= t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}
