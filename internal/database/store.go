package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/socialpulse/internal/domain"
	"github.com/pscheid92/socialpulse/internal/metrics"
)

// Store implements domain.IngestionStore and domain.AnalyticsStore backed
// by PostgreSQL. Each ingestion unit runs inside one transaction, so a
// failed unit leaves no partial rows behind.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store from the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping reports store reachability, used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Ingest runs fn inside a transaction. If fn returns an error the
// transaction rolls back and nothing commits.
func (s *Store) Ingest(ctx context.Context, fn func(tx domain.IngestionTx) error) error {
	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("ingest_unit").Observe(time.Since(start).Seconds())
	}()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeError("begin ingestion", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&ingestTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError("commit ingestion", err)
	}
	return nil
}

// ingestTx implements domain.IngestionTx on one pgx transaction.
type ingestTx struct {
	tx pgx.Tx
}

// userColumns must match the Scan order in scanUser.
const userColumns = `id, username, display_name, email, location, platform, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.DisplayName,
		&user.Email, &user.Location, &user.Platform,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (t *ingestTx) ResolveOrCreateUser(ctx context.Context, u domain.NewUser) (*domain.User, bool, error) {
	user, err := scanUser(t.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, u.Username))
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, storeError("find user", err)
	}

	user, err = scanUser(t.tx.QueryRow(ctx, `
		INSERT INTO users (username, display_name, email, location, platform)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
		RETURNING `+userColumns,
		u.Username, u.DisplayName, u.Email, u.Location, u.Platform))
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, storeError("insert user", err)
	}

	// Lost the creation race: another writer inserted this username between
	// our lookup and insert. Re-query and reuse its row.
	user, err = scanUser(t.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, u.Username))
	if err != nil {
		return nil, false, storeError("re-find user after conflict", err)
	}
	return user, false, nil
}

const postColumns = `id, user_id, content, platform, posted_at, created_at`

func (t *ingestTx) InsertPost(ctx context.Context, p domain.NewPost) (*domain.Post, error) {
	var post domain.Post
	err := t.tx.QueryRow(ctx, `
		INSERT INTO posts (user_id, content, platform, posted_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		p.UserID, p.Content, string(p.Platform), p.PostedAt).Scan(
		&post.ID, &post.UserID, &post.Content, &post.Platform, &post.PostedAt, &post.CreatedAt,
	)
	if err != nil {
		return nil, storeError("insert post", err)
	}
	return &post, nil
}

const hashtagColumns = `id, tag, total_posts, created_at`

func scanHashtag(row pgx.Row) (*domain.Hashtag, error) {
	var h domain.Hashtag
	if err := row.Scan(&h.ID, &h.Tag, &h.TotalPosts, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func (t *ingestTx) ResolveOrCreateHashtag(ctx context.Context, tag string) (*domain.Hashtag, bool, error) {
	h, err := scanHashtag(t.tx.QueryRow(ctx,
		`SELECT `+hashtagColumns+` FROM hashtags WHERE tag = $1`, tag))
	if err == nil {
		return h, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, storeError("find hashtag", err)
	}

	h, err = scanHashtag(t.tx.QueryRow(ctx, `
		INSERT INTO hashtags (tag)
		VALUES ($1)
		ON CONFLICT (tag) DO NOTHING
		RETURNING `+hashtagColumns, tag))
	if err == nil {
		return h, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, storeError("insert hashtag", err)
	}

	h, err = scanHashtag(t.tx.QueryRow(ctx,
		`SELECT `+hashtagColumns+` FROM hashtags WHERE tag = $1`, tag))
	if err != nil {
		return nil, false, storeError("re-find hashtag after conflict", err)
	}
	return h, false, nil
}

func (t *ingestTx) LinkPostHashtag(ctx context.Context, postID, hashtagID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO post_hashtags (post_id, hashtag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, hashtagID)
	if err != nil {
		return storeError("link hashtag", err)
	}

	// Bump the denormalized counter only when a link row was actually
	// inserted, so duplicate links never double-count.
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := t.tx.Exec(ctx, `
		UPDATE hashtags SET total_posts = total_posts + 1 WHERE id = $1
	`, hashtagID); err != nil {
		return storeError("bump hashtag counter", err)
	}
	return nil
}

func (t *ingestTx) InsertSentiment(ctx context.Context, s domain.NewSentiment) (*domain.Sentiment, error) {
	var row domain.Sentiment
	err := t.tx.QueryRow(ctx, `
		INSERT INTO sentiment (post_id, label, score, emotion, emotion_label, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, post_id, label, score, emotion, emotion_label, status, last_updated, created_at`,
		s.PostID, string(s.Label), s.Score, s.Emotion, s.EmotionLabel, string(s.Status)).Scan(
		&row.ID, &row.PostID, &row.Label, &row.Score, &row.Emotion, &row.EmotionLabel,
		&row.Status, &row.LastUpdated, &row.CreatedAt,
	)
	if err != nil {
		return nil, storeError("insert sentiment", err)
	}
	return &row, nil
}

func (t *ingestTx) InsertEngagement(ctx context.Context, e domain.NewEngagement) (*domain.Engagement, error) {
	var row domain.Engagement
	err := t.tx.QueryRow(ctx, `
		INSERT INTO engagement (post_id, likes, comments, views, reactions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, post_id, likes, comments, views, reactions, engagement_score, last_updated, created_at`,
		e.PostID, e.Likes, e.Comments, e.Views, e.Reactions).Scan(
		&row.ID, &row.PostID, &row.Likes, &row.Comments, &row.Views, &row.Reactions,
		&row.Score, &row.LastUpdated, &row.CreatedAt,
	)
	if err != nil {
		return nil, storeError("insert engagement", err)
	}
	return &row, nil
}

// storeError records the failure and tags connectivity problems with
// domain.ErrStoreUnavailable so callers can distinguish retryable outages.
func storeError(op string, err error) error {
	metrics.DBErrorsTotal.WithLabelValues(op).Inc()
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
