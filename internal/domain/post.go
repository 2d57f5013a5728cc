package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is one social-media message. It is immutable once its sentiment and
// engagement rows are attached in the same ingestion unit.
type Post struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	Platform  Platform
	PostedAt  time.Time
	CreatedAt time.Time
}

// NewPost carries the fields for post insertion.
type NewPost struct {
	UserID   uuid.UUID
	Content  string
	Platform Platform
	PostedAt time.Time
}

// PostDetails is a post joined with its author and optional sentiment and
// engagement rows, as served on the dashboard.
type PostDetails struct {
	Post
	Author     User
	Sentiment  *Sentiment
	Engagement *Engagement
}
