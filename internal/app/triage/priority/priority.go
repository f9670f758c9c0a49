// Package priority turns classifier output into a bounded urgency score.
package priority

import (
	"math"

	"github.com/dalemusser/adarshgram/internal/domain/models"
)

// Score bounds.
const (
	MinUrgency = 0
	MaxUrgency = 10
)

const (
	negativeBoost = 2.0
	imageWeight   = 3.0
)

// baseSeverity is the starting urgency per category.
var baseSeverity = map[string]float64{
	models.CategoryHealthcare:  7,
	models.CategoryWater:       6,
	models.CategoryElectricity: 5,
	models.CategoryRoads:       5,
	models.CategorySanitation:  5,
	models.CategoryEducation:   4,
	models.CategoryOther:       3,
}

// Score combines category, sentiment and an optional image severity hint
// (0..1) into an urgency in [MinUrgency, MaxUrgency].
//
// Score never fails: an unknown category scores as "other", an unknown
// sentiment as neutral, and a nil or NaN hint contributes nothing.
func Score(category, sentiment string, imageSeverity *float64) int {
	base, ok := baseSeverity[category]
	if !ok {
		base = baseSeverity[models.CategoryOther]
	}

	score := base
	if sentiment == models.SentimentNegative {
		score += negativeBoost
	}
	if imageSeverity != nil && !math.IsNaN(*imageSeverity) {
		score += imageWeight * clamp(*imageSeverity, 0, 1)
	}

	return int(math.Round(clamp(score, MinUrgency, MaxUrgency)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
