package domain

import (
	"time"

	"github.com/google/uuid"
)

// Weights of the derived engagement score. The store computes the same
// weighted sum (a generated column in Postgres); EngagementScore exists so
// alternative store implementations and tests derive identical values.
const (
	likesWeight     = 1.0
	commentsWeight  = 2.0
	viewsWeight     = 0.1
	reactionsWeight = 1.5
)

// EngagementScore derives the composite score from raw counters:
// likes*1 + comments*2 + views*0.1 + reactions*1.5.
func EngagementScore(likes, comments, views, reactions int64) float64 {
	return float64(likes)*likesWeight +
		float64(comments)*commentsWeight +
		float64(views)*viewsWeight +
		float64(reactions)*reactionsWeight
}

// Engagement holds the interaction counters for a post, exactly one per
// post. Score is derived by the store, never supplied by callers.
type Engagement struct {
	ID          uuid.UUID
	PostID      uuid.UUID
	Likes       int64
	Comments    int64
	Views       int64
	Reactions   int64
	Score       float64
	LastUpdated time.Time
	CreatedAt   time.Time
}

// NewEngagement carries the raw counters for engagement insertion.
type NewEngagement struct {
	PostID    uuid.UUID
	Likes     int64
	Comments  int64
	Views     int64
	Reactions int64
}
