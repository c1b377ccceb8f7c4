package annotate

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"
)

// Vader scores polarity with the VADER lexicon. Its compound score is already normalized to [-1, 1]
// and accounts for negations, intensifiers and punctuation emphasis.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader makes a scorer with the built-in VADER lexicon
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns compound polarity of the text, blank text is neutral. Never fails.
func (v *Vader) Polarity(_ context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return clamp(v.analyzer.PolarityScores(text).Compound), nil
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
