// Package sentiment isolates sentiment judgment behind a classifier
// interface so the ingestion flow does not care whether scores come from a
// caller-asserted label or a real inference step.
package sentiment

import (
	"context"

	"github.com/pscheid92/socialpulse/internal/domain"
)

// Judgment is the result of classifying a post.
type Judgment struct {
	Label  domain.SentimentLabel
	Score  float64
	Status domain.SentimentStatus
}

// Classifier turns post content plus a caller-asserted label into a
// judgment. A future model-backed implementation would ignore the asserted
// label and infer its own.
type Classifier interface {
	Classify(ctx context.Context, content string, asserted domain.SentimentLabel) (Judgment, error)
}

// LabelClassifier is a placeholder proxy, not a real classifier. It trusts
// the asserted label and maps it to a fixed score: Positive 0.85, Negative
// 0.15, Neutral 0.5. Status is always completed since the label was
// manually asserted rather than queued for asynchronous inference.
type LabelClassifier struct{}

func (LabelClassifier) Classify(_ context.Context, _ string, asserted domain.SentimentLabel) (Judgment, error) {
	score := 0.5
	switch asserted {
	case domain.SentimentPositive:
		score = 0.85
	case domain.SentimentNegative:
		score = 0.15
	case domain.SentimentNeutral:
		score = 0.5
	}
	return Judgment{
		Label:  asserted,
		Score:  score,
		Status: domain.SentimentStatusCompleted,
	}, nil
}
