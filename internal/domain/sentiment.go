package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SentimentLabel is the qualitative judgment of a post's tone.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// SentimentLabels returns the three enumerated labels. Breakdown reports
// cover exactly this set, with zeros for missing labels.
func SentimentLabels() []SentimentLabel {
	return []SentimentLabel{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// ParseSentimentLabel validates a raw label string.
func ParseSentimentLabel(s string) (SentimentLabel, error) {
	for _, l := range SentimentLabels() {
		if s == string(l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment label %q", s)
}

// SentimentStatus tracks the lifecycle of a sentiment judgment.
type SentimentStatus string

const (
	SentimentStatusPending   SentimentStatus = "pending"
	SentimentStatusCompleted SentimentStatus = "completed"
	SentimentStatusFailed    SentimentStatus = "failed"
)

// Sentiment holds the judgment attached to a post, exactly one per post.
type Sentiment struct {
	ID           uuid.UUID
	PostID       uuid.UUID
	Label        SentimentLabel
	Score        float64
	Emotion      *string
	EmotionLabel *string
	Status       SentimentStatus
	LastUpdated  time.Time
	CreatedAt    time.Time
}

// NewSentiment carries the fields for sentiment insertion.
type NewSentiment struct {
	PostID       uuid.UUID
	Label        SentimentLabel
	Score        float64
	Emotion      *string
	EmotionLabel *string
	Status       SentimentStatus
}
