// internal/domain/models/categorytypes.go
package models

// Canonical issue category identifiers.
//
// These values are stored on Issue.Category, Project.Category and
// Contractor.Specialization.
const (
	CategoryWater       = "water"
	CategoryElectricity = "electricity"
	CategoryRoads       = "roads"
	CategoryEducation   = "education"
	CategoryHealthcare  = "healthcare"
	CategorySanitation  = "sanitation"
	CategoryOther       = "other"
)

// Categories is the full set of allowed categories, in tie-break priority
// order (earlier wins when two categories score the same).
var Categories = []string{
	CategoryHealthcare,
	CategoryWater,
	CategoryRoads,
	CategoryElectricity,
	CategorySanitation,
	CategoryEducation,
	CategoryOther,
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Sentiments lists every sentiment label.
var Sentiments = []string{SentimentPositive, SentimentNegative, SentimentNeutral}

// IsValidSentiment reports whether s is one of Sentiments.
func IsValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}
