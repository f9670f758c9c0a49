package priority_test

import (
	"math"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/triage/priority"
	"github.com/dalemusser/adarshgram/internal/domain/models"
)

func ptr(f float64) *float64 { return &f }

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		sentiment string
		image     *float64
		want      int
	}{
		{"water neutral", models.CategoryWater, models.SentimentNeutral, nil, 6},
		{"water negative", models.CategoryWater, models.SentimentNegative, nil, 8},
		{"healthcare negative", models.CategoryHealthcare, models.SentimentNegative, nil, 9},
		{"other positive", models.CategoryOther, models.SentimentPositive, nil, 3},
		{"education image half", models.CategoryEducation, models.SentimentNeutral, ptr(0.5), 6}, // 5.5 rounds up
		{"healthcare negative full image clamps", models.CategoryHealthcare, models.SentimentNegative, ptr(1), 10},
		{"image above one clamps", models.CategoryRoads, models.SentimentNeutral, ptr(7), 8},
		{"negative image ignored", models.CategoryRoads, models.SentimentNeutral, ptr(-3), 5},
		{"NaN image ignored", models.CategoryRoads, models.SentimentNeutral, ptr(math.NaN()), 5},
		{"unknown category", "parks", models.SentimentNeutral, nil, 3},
		{"empty inputs", "", "", nil, 3},
		{"unknown sentiment", models.CategorySanitation, "furious", nil, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priority.Score(tt.category, tt.sentiment, tt.image); got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.category, tt.sentiment, got, tt.want)
			}
		})
	}
}

func TestScore_AlwaysBounded(t *testing.T) {
	hints := []*float64{nil, ptr(-1), ptr(0), ptr(0.33), ptr(1), ptr(100), ptr(math.Inf(1)), ptr(math.Inf(-1)), ptr(math.NaN())}
	cats := append([]string{"", "unknown"}, models.Categories...)
	sents := append([]string{"", "weird"}, models.Sentiments...)

	for _, c := range cats {
		for _, s := range sents {
			for _, h := range hints {
				got := priority.Score(c, s, h)
				if got < priority.MinUrgency || got > priority.MaxUrgency {
					t.Fatalf("Score(%q, %q, %v) = %d out of range", c, s, h, got)
				}
			}
		}
	}
}
