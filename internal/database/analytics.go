package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/socialpulse/internal/domain"
	"github.com/pscheid92/socialpulse/internal/metrics"
)

func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_posts", `SELECT COUNT(*) FROM posts`)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_users", `SELECT COUNT(*) FROM users`)
}

func (s *Store) CountHashtags(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_hashtags", `SELECT COUNT(*) FROM hashtags`)
}

func (s *Store) count(ctx context.Context, op, query string) (int64, error) {
	defer s.observe(op)()

	var n int64
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, storeError(op, err)
	}
	return n, nil
}

func (s *Store) SentimentCounts(ctx context.Context) (map[domain.SentimentLabel]int64, error) {
	defer s.observe("sentiment_counts")()

	rows, err := s.pool.Query(ctx, `SELECT label, COUNT(*) FROM sentiment GROUP BY label`)
	if err != nil {
		return nil, storeError("sentiment counts", err)
	}
	defer rows.Close()

	counts := make(map[domain.SentimentLabel]int64)
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, storeError("sentiment counts", err)
		}
		counts[domain.SentimentLabel(label)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("sentiment counts", err)
	}
	return counts, nil
}

func (s *Store) SumEngagementScores(ctx context.Context) (float64, int64, error) {
	defer s.observe("sum_engagement")()

	var sum float64
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(engagement_score), 0), COUNT(*) FROM engagement`).Scan(&sum, &n)
	if err != nil {
		return 0, 0, storeError("sum engagement scores", err)
	}
	return sum, n, nil
}

func (s *Store) RecentPosts(ctx context.Context, limit int) ([]domain.PostDetails, error) {
	defer s.observe("recent_posts")()

	rows, err := s.pool.Query(ctx, `
		SELECT
			p.id, p.user_id, p.content, p.platform, p.posted_at, p.created_at,
			u.id, u.username, u.display_name, u.email, u.location, u.platform, u.created_at, u.updated_at,
			s.id, s.label, s.score, s.emotion, s.emotion_label, s.status, s.last_updated, s.created_at,
			e.id, e.likes, e.comments, e.views, e.reactions, e.engagement_score, e.last_updated, e.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN sentiment s ON s.post_id = p.id
		LEFT JOIN engagement e ON e.post_id = p.id
		ORDER BY p.posted_at DESC, p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, storeError("recent posts", err)
	}
	defer rows.Close()

	details := []domain.PostDetails{}
	for rows.Next() {
		var (
			d domain.PostDetails

			sentimentID  *uuid.UUID
			label        *string
			score        *float64
			emotion      *string
			emotionLabel *string
			status       *string
			sUpdated     *time.Time
			sCreated     *time.Time

			engagementID *uuid.UUID
			likes        *int64
			comments     *int64
			views        *int64
			reactions    *int64
			engScore     *float64
			eUpdated     *time.Time
			eCreated     *time.Time
		)

		err := rows.Scan(
			&d.ID, &d.UserID, &d.Content, &d.Post.Platform, &d.PostedAt, &d.Post.CreatedAt,
			&d.Author.ID, &d.Author.Username, &d.Author.DisplayName,
			&d.Author.Email, &d.Author.Location, &d.Author.Platform,
			&d.Author.CreatedAt, &d.Author.UpdatedAt,
			&sentimentID, &label, &score, &emotion, &emotionLabel, &status, &sUpdated, &sCreated,
			&engagementID, &likes, &comments, &views, &reactions, &engScore, &eUpdated, &eCreated,
		)
		if err != nil {
			return nil, storeError("recent posts", err)
		}

		if sentimentID != nil {
			d.Sentiment = &domain.Sentiment{
				ID:           *sentimentID,
				PostID:       d.ID,
				Label:        domain.SentimentLabel(*label),
				Score:        *score,
				Emotion:      emotion,
				EmotionLabel: emotionLabel,
				Status:       domain.SentimentStatus(*status),
				LastUpdated:  *sUpdated,
				CreatedAt:    *sCreated,
			}
		}
		if engagementID != nil {
			d.Engagement = &domain.Engagement{
				ID:          *engagementID,
				PostID:      d.ID,
				Likes:       *likes,
				Comments:    *comments,
				Views:       *views,
				Reactions:   *reactions,
				Score:       *engScore,
				LastUpdated: *eUpdated,
				CreatedAt:   *eCreated,
			}
		}

		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("recent posts", err)
	}
	return details, nil
}

func (s *Store) PlatformTotals(ctx context.Context) ([]domain.PlatformTotals, error) {
	defer s.observe("platform_totals")()

	// Posts without an engagement row count toward the denominator with a
	// zero score, so COALESCE on the joined column.
	rows, err := s.pool.Query(ctx, `
		SELECT p.platform, COALESCE(SUM(e.engagement_score), 0), COUNT(*)
		FROM posts p
		LEFT JOIN engagement e ON e.post_id = p.id
		GROUP BY p.platform
	`)
	if err != nil {
		return nil, storeError("platform totals", err)
	}
	defer rows.Close()

	totals := []domain.PlatformTotals{}
	for rows.Next() {
		var row domain.PlatformTotals
		var platform string
		if err := rows.Scan(&platform, &row.ScoreSum, &row.PostCount); err != nil {
			return nil, storeError("platform totals", err)
		}
		row.Platform = domain.Platform(platform)
		totals = append(totals, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("platform totals", err)
	}
	return totals, nil
}

func (s *Store) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	defer s.observe("list_hashtags")()

	rows, err := s.pool.Query(ctx, `SELECT `+hashtagColumns+` FROM hashtags`)
	if err != nil {
		return nil, storeError("list hashtags", err)
	}
	defer rows.Close()

	hashtags := []domain.Hashtag{}
	for rows.Next() {
		var h domain.Hashtag
		if err := rows.Scan(&h.ID, &h.Tag, &h.TotalPosts, &h.CreatedAt); err != nil {
			return nil, storeError("list hashtags", err)
		}
		hashtags = append(hashtags, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list hashtags", err)
	}
	return hashtags, nil
}

func (s *Store) observe(query string) func() {
	start := time.Now()
	return func() {
		metrics.DBQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	}
}
