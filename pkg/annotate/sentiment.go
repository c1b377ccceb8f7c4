package annotate

import (
	"context"
	"fmt"

	"github.com/subscope/subscope/pkg/domain"
)

// ControversialRatio is the upvote ratio below which a post is controversial regardless of its text
const ControversialRatio = 0.5

// Scorer maps free text to a polarity in [-1, 1]
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// Classifier derives sentiment label from upvote ratio and text polarity
type Classifier struct {
	scorer Scorer
}

// NewClassifier makes a classifier with the given polarity scorer, nil means the VADER lexicon scorer
func NewClassifier(scorer Scorer) *Classifier {
	if scorer == nil {
		scorer = NewVader()
	}
	return &Classifier{scorer: scorer}
}

// Classify returns controversial for ratio below 0.5, otherwise positive or negative
// by polarity of the body, or of the title when body is empty
func (c *Classifier) Classify(ctx context.Context, title, body string, ratio float64) (domain.Sentiment, error) {
	if ratio < ControversialRatio {
		return domain.SentimentControversial, nil
	}

	text := body
	if text == "" {
		text = title
	}
	polarity, err := c.scorer.Polarity(ctx, text)
	if err != nil {
		return "", fmt.Errorf("score polarity: %w", err)
	}
	if polarity >= 0 {
		return domain.SentimentPositive, nil
	}
	return domain.SentimentNegative, nil
}
