package domain

import (
	"context"

	"github.com/google/uuid"
)

// IngestionTx is the write surface of one ingestion unit. Implementations
// back it with a database transaction where available; all operations either
// commit together or leave nothing behind.
type IngestionTx interface {
	// ResolveOrCreateUser returns the existing user for NewUser.Username or
	// creates one, reporting whether a row was created. Creation races on
	// the username uniqueness constraint are resolved internally by
	// re-querying, never surfaced.
	ResolveOrCreateUser(ctx context.Context, u NewUser) (*User, bool, error)

	// InsertPost inserts a post and returns it with its assigned ID.
	InsertPost(ctx context.Context, p NewPost) (*Post, error)

	// ResolveOrCreateHashtag returns the hashtag for a normalized tag,
	// creating it on first reference. Same race handling as users.
	ResolveOrCreateHashtag(ctx context.Context, tag string) (*Hashtag, bool, error)

	// LinkPostHashtag associates a post with a hashtag and bumps the
	// hashtag's total_posts counter. Linking the same pair twice is a no-op
	// and does not double-count.
	LinkPostHashtag(ctx context.Context, postID, hashtagID uuid.UUID) error

	// InsertSentiment attaches the single sentiment row of a post.
	InsertSentiment(ctx context.Context, s NewSentiment) (*Sentiment, error)

	// InsertEngagement attaches the single engagement row of a post. The
	// store derives the engagement score from the raw counters.
	InsertEngagement(ctx context.Context, e NewEngagement) (*Engagement, error)
}

// IngestionStore runs one ingestion unit. If fn returns an error the unit
// must not commit.
type IngestionStore interface {
	Ingest(ctx context.Context, fn func(tx IngestionTx) error) error
}

// PlatformTotals is one per-platform aggregation row: the sum of engagement
// scores over all posts of the platform (posts without an engagement row
// contribute zero) and the post count. Rows carry no ordering guarantee.
type PlatformTotals struct {
	Platform  Platform
	ScoreSum  float64
	PostCount int64
}

// AnalyticsStore is the read surface of the aggregator. All methods are
// side-effect free and reflect the latest committed ingestion.
type AnalyticsStore interface {
	CountPosts(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountHashtags(ctx context.Context) (int64, error)

	// SentimentCounts groups sentiment rows by label. Labels without rows
	// may be absent from the map; the aggregator fills in zeros.
	SentimentCounts(ctx context.Context) (map[SentimentLabel]int64, error)

	// SumEngagementScores returns the sum of engagement scores and the
	// number of engagement rows.
	SumEngagementScores(ctx context.Context) (sum float64, rows int64, err error)

	// RecentPosts returns up to limit posts ordered by posted_at descending,
	// each joined with author, sentiment, and engagement.
	RecentPosts(ctx context.Context, limit int) ([]PostDetails, error)

	// PlatformTotals returns one unordered row per platform that has posts.
	PlatformTotals(ctx context.Context) ([]PlatformTotals, error)

	// ListHashtags returns all hashtags without ordering guarantees.
	ListHashtags(ctx context.Context) ([]Hashtag, error)
}
