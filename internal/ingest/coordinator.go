// Package ingest implements the post ingestion workflow: resolve the
// author, create the post, resolve and link hashtags, and attach sentiment
// and engagement, all as one unit of work.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/socialpulse/internal/domain"
	apperrors "github.com/pscheid92/socialpulse/internal/errors"
	"github.com/pscheid92/socialpulse/internal/metrics"
	"github.com/pscheid92/socialpulse/internal/sentiment"
)

// Submission is the raw form input of one post, as supplied by the
// presentation layer. Hashtags is free text, comma-separated.
type Submission struct {
	Username       string     `json:"username" yaml:"username"`
	DisplayName    string     `json:"display_name" yaml:"display_name"`
	Email          string     `json:"email" yaml:"email"`
	Location       string     `json:"location" yaml:"location"`
	Platform       string     `json:"platform" yaml:"platform"`
	Content        string     `json:"content" yaml:"content"`
	Hashtags       string     `json:"hashtags" yaml:"hashtags"`
	SentimentLabel string     `json:"sentiment_label" yaml:"sentiment_label"`
	Emotion        string     `json:"emotion" yaml:"emotion"`
	Likes          int64      `json:"likes" yaml:"likes"`
	Comments       int64      `json:"comments" yaml:"comments"`
	Views          int64      `json:"views" yaml:"views"`
	Reactions      int64      `json:"reactions" yaml:"reactions"`
	PostedAt       *time.Time `json:"posted_at,omitempty" yaml:"posted_at,omitempty"`
}

// Coordinator is the single entry point for all writes. It validates a
// submission fully before touching the store, then runs the five-step
// ingestion sequence inside one store unit.
type Coordinator struct {
	store      domain.IngestionStore
	classifier sentiment.Classifier
	clock      clockwork.Clock
}

// NewCoordinator creates the ingestion coordinator.
func NewCoordinator(store domain.IngestionStore, classifier sentiment.Classifier, clock clockwork.Clock) *Coordinator {
	return &Coordinator{
		store:      store,
		classifier: classifier,
		clock:      clock,
	}
}

type validated struct {
	username    string
	displayName string
	platform    domain.Platform
	label       domain.SentimentLabel
	tags        []string
}

func (c *Coordinator) validate(sub Submission) (validated, error) {
	var v validated

	v.username = strings.TrimSpace(sub.Username)
	if v.username == "" {
		return v, apperrors.ValidationError("username is required")
	}

	if strings.TrimSpace(sub.Content) == "" {
		return v, apperrors.ValidationError("content is required")
	}

	platform, err := domain.ParsePlatform(sub.Platform)
	if err != nil {
		return v, apperrors.ValidationError("invalid platform").WithField("platform", sub.Platform)
	}
	v.platform = platform

	label, err := domain.ParseSentimentLabel(sub.SentimentLabel)
	if err != nil {
		return v, apperrors.ValidationError("invalid sentiment label").WithField("sentiment_label", sub.SentimentLabel)
	}
	v.label = label

	counters := map[string]int64{
		"likes":     sub.Likes,
		"comments":  sub.Comments,
		"views":     sub.Views,
		"reactions": sub.Reactions,
	}
	for name, value := range counters {
		if value < 0 {
			return v, apperrors.ValidationError(name + " must not be negative").WithField(name, value)
		}
	}

	v.displayName = strings.TrimSpace(sub.DisplayName)
	if v.displayName == "" {
		v.displayName = v.username
	}

	v.tags = domain.SplitTags(sub.Hashtags)

	return v, nil
}

// SubmitPost ingests one submission and returns the new post ID.
// Validation failures are reported before any write occurs. A step failing
// after the post insert surfaces as domain.PartialIngestionError so the
// caller never treats the post as live.
func (c *Coordinator) SubmitPost(ctx context.Context, sub Submission) (uuid.UUID, error) {
	start := c.clock.Now()

	v, err := c.validate(sub)
	if err != nil {
		metrics.PostsIngestedTotal.WithLabelValues(platformLabel(sub.Platform), "validation").Inc()
		return uuid.Nil, err
	}

	judgment, err := c.classifier.Classify(ctx, sub.Content, v.label)
	if err != nil {
		metrics.PostsIngestedTotal.WithLabelValues(string(v.platform), "error").Inc()
		return uuid.Nil, fmt.Errorf("failed to classify sentiment: %w", err)
	}

	postedAt := c.clock.Now().UTC()
	if sub.PostedAt != nil {
		postedAt = sub.PostedAt.UTC()
	}

	var (
		postID       uuid.UUID
		usersCreated int
		linksCreated int
	)

	err = c.store.Ingest(ctx, func(tx domain.IngestionTx) error {
		user, created, err := tx.ResolveOrCreateUser(ctx, domain.NewUser{
			Username:    v.username,
			DisplayName: v.displayName,
			Email:       optional(sub.Email),
			Location:    optional(sub.Location),
			Platform:    optional(sub.Platform),
		})
		if err != nil {
			return fmt.Errorf("failed to resolve user: %w", err)
		}
		if created {
			usersCreated++
		}

		post, err := tx.InsertPost(ctx, domain.NewPost{
			UserID:   user.ID,
			Content:  sub.Content,
			Platform: v.platform,
			PostedAt: postedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		postID = post.ID

		// From here on every failure leaves earlier steps behind, so wrap
		// as a partial ingestion. The store's rollback discards the unit.
		for _, tag := range v.tags {
			hashtag, _, err := tx.ResolveOrCreateHashtag(ctx, tag)
			if err != nil {
				return &domain.PartialIngestionError{Step: "resolve_hashtag", PostID: post.ID, Err: err}
			}
			if err := tx.LinkPostHashtag(ctx, post.ID, hashtag.ID); err != nil {
				return &domain.PartialIngestionError{Step: "link_hashtag", PostID: post.ID, Err: err}
			}
			linksCreated++
		}

		if _, err := tx.InsertSentiment(ctx, domain.NewSentiment{
			PostID:       post.ID,
			Label:        judgment.Label,
			Score:        judgment.Score,
			Emotion:      optional(sub.Emotion),
			EmotionLabel: optional(sub.Emotion),
			Status:       judgment.Status,
		}); err != nil {
			return &domain.PartialIngestionError{Step: "sentiment", PostID: post.ID, Err: err}
		}

		if _, err := tx.InsertEngagement(ctx, domain.NewEngagement{
			PostID:    post.ID,
			Likes:     sub.Likes,
			Comments:  sub.Comments,
			Views:     sub.Views,
			Reactions: sub.Reactions,
		}); err != nil {
			return &domain.PartialIngestionError{Step: "engagement", PostID: post.ID, Err: err}
		}

		return nil
	})
	if err != nil {
		metrics.PostsIngestedTotal.WithLabelValues(string(v.platform), classify(err)).Inc()
		return uuid.Nil, err
	}

	metrics.PostsIngestedTotal.WithLabelValues(string(v.platform), "ok").Inc()
	metrics.IngestDuration.Observe(c.clock.Since(start).Seconds())
	if usersCreated > 0 {
		metrics.UsersCreatedTotal.Add(float64(usersCreated))
	}
	if linksCreated > 0 {
		metrics.HashtagsLinkedTotal.Add(float64(linksCreated))
	}

	slog.Info("Post ingested",
		"post_id", postID.String(),
		"platform", string(v.platform),
		"hashtags", len(v.tags),
		"new_user", usersCreated > 0)

	return postID, nil
}

// platformLabel bounds the metric label set: only enumerated platforms
// appear as label values, anything else collapses to "invalid".
func platformLabel(raw string) string {
	if p, err := domain.ParsePlatform(raw); err == nil {
		return string(p)
	}
	return "invalid"
}

func classify(err error) string {
	var partial *domain.PartialIngestionError
	switch {
	case errors.As(err, &partial):
		return "partial"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// optional maps a blank form field to absent rather than the empty string.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
