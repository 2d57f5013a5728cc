package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/socialpulse/internal/domain"
	apperrors "github.com/pscheid92/socialpulse/internal/errors"
	"github.com/pscheid92/socialpulse/internal/metrics"
	"github.com/pscheid92/socialpulse/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory store ---

// memStore implements domain.IngestionStore with transactional semantics:
// the unit runs against a copy of the state and only commits on success.
type memStore struct {
	users       map[string]domain.User
	posts       map[uuid.UUID]domain.Post
	hashtags    map[string]domain.Hashtag
	links       map[string]struct{}
	sentiments  map[uuid.UUID]domain.Sentiment
	engagements map[uuid.UUID]domain.Engagement

	failStep string // operation name that should fail, "" for none
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]domain.User),
		posts:       make(map[uuid.UUID]domain.Post),
		hashtags:    make(map[string]domain.Hashtag),
		links:       make(map[string]struct{}),
		sentiments:  make(map[uuid.UUID]domain.Sentiment),
		engagements: make(map[uuid.UUID]domain.Engagement),
	}
}

func (s *memStore) Ingest(_ context.Context, fn func(tx domain.IngestionTx) error) error {
	tx := &memTx{store: s.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	*s = *tx.store
	return nil
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.failStep = s.failStep
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.hashtags {
		c.hashtags[k] = v
	}
	for k := range s.links {
		c.links[k] = struct{}{}
	}
	for k, v := range s.sentiments {
		c.sentiments[k] = v
	}
	for k, v := range s.engagements {
		c.engagements[k] = v
	}
	return c
}

type memTx struct {
	store *memStore
}

func (t *memTx) ResolveOrCreateUser(_ context.Context, u domain.NewUser) (*domain.User, bool, error) {
	if t.store.failStep == "user" {
		return nil, false, errors.New("injected user failure")
	}
	if existing, ok := t.store.users[u.Username]; ok {
		return &existing, false, nil
	}
	user := domain.User{
		ID:          uuid.New(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Location:    u.Location,
		Platform:    u.Platform,
	}
	t.store.users[u.Username] = user
	return &user, true, nil
}

func (t *memTx) InsertPost(_ context.Context, p domain.NewPost) (*domain.Post, error) {
	if t.store.failStep == "post" {
		return nil, errors.New("injected post failure")
	}
	post := domain.Post{
		ID:       uuid.New(),
		UserID:   p.UserID,
		Content:  p.Content,
		Platform: p.Platform,
		PostedAt: p.PostedAt,
	}
	t.store.posts[post.ID] = post
	return &post, nil
}

func (t *memTx) ResolveOrCreateHashtag(_ context.Context, tag string) (*domain.Hashtag, bool, error) {
	if t.store.failStep == "hashtag" {
		return nil, false, errors.New("injected hashtag failure")
	}
	if existing, ok := t.store.hashtags[tag]; ok {
		return &existing, false, nil
	}
	hashtag := domain.Hashtag{ID: uuid.New(), Tag: tag}
	t.store.hashtags[tag] = hashtag
	return &hashtag, true, nil
}

func (t *memTx) LinkPostHashtag(_ context.Context, postID, hashtagID uuid.UUID) error {
	if t.store.failStep == "link" {
		return errors.New("injected link failure")
	}
	key := fmt.Sprintf("%s/%s", postID, hashtagID)
	if _, ok := t.store.links[key]; ok {
		return nil
	}
	t.store.links[key] = struct{}{}
	for tag, h := range t.store.hashtags {
		if h.ID == hashtagID {
			h.TotalPosts++
			t.store.hashtags[tag] = h
		}
	}
	return nil
}

func (t *memTx) InsertSentiment(_ context.Context, s domain.NewSentiment) (*domain.Sentiment, error) {
	if t.store.failStep == "sentiment" {
		return nil, errors.New("injected sentiment failure")
	}
	row := domain.Sentiment{
		ID:           uuid.New(),
		PostID:       s.PostID,
		Label:        s.Label,
		Score:        s.Score,
		Emotion:      s.Emotion,
		EmotionLabel: s.EmotionLabel,
		Status:       s.Status,
	}
	t.store.sentiments[s.PostID] = row
	return &row, nil
}

func (t *memTx) InsertEngagement(_ context.Context, e domain.NewEngagement) (*domain.Engagement, error) {
	if t.store.failStep == "engagement" {
		return nil, errors.New("injected engagement failure")
	}
	row := domain.Engagement{
		ID:        uuid.New(),
		PostID:    e.PostID,
		Likes:     e.Likes,
		Comments:  e.Comments,
		Views:     e.Views,
		Reactions: e.Reactions,
		Score:     domain.EngagementScore(e.Likes, e.Comments, e.Views, e.Reactions),
	}
	t.store.engagements[e.PostID] = row
	return &row, nil
}

// --- Tests ---

func validSubmission() Submission {
	return Submission{
		Username:       "alice",
		DisplayName:    "Alice",
		Platform:       "Twitter",
		Content:        "shipping a new release",
		Hashtags:       "golang, release",
		SentimentLabel: "Positive",
		Likes:          10,
		Comments:       5,
		Views:          100,
		Reactions:      4,
	}
}

func newTestCoordinator(store *memStore) (*Coordinator, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewCoordinator(store, sentiment.LabelClassifier{}, clock), clock
}

func TestSubmitPost_FullIngestion(t *testing.T) {
	store := newMemStore()
	coordinator, clock := newTestCoordinator(store)

	postID, err := coordinator.SubmitPost(context.Background(), validSubmission())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, postID)

	post, ok := store.posts[postID]
	require.True(t, ok)
	assert.Equal(t, domain.PlatformTwitter, post.Platform)
	assert.Equal(t, clock.Now().UTC(), post.PostedAt)

	user, ok := store.users["alice"]
	require.True(t, ok)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, "Alice", user.DisplayName)

	require.Len(t, store.hashtags, 2)
	assert.Equal(t, int64(1), store.hashtags["golang"].TotalPosts)
	assert.Equal(t, int64(1), store.hashtags["release"].TotalPosts)
	assert.Len(t, store.links, 2)

	sent, ok := store.sentiments[postID]
	require.True(t, ok)
	assert.Equal(t, domain.SentimentPositive, sent.Label)
	assert.InDelta(t, 0.85, sent.Score, 1e-9)
	assert.Equal(t, domain.SentimentStatusCompleted, sent.Status)

	eng, ok := store.engagements[postID]
	require.True(t, ok)
	assert.InDelta(t, 36.0, eng.Score, 1e-9)
}

func TestSubmitPost_ReusesExistingUser(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	_, err := coordinator.SubmitPost(context.Background(), validSubmission())
	require.NoError(t, err)

	second := validSubmission()
	second.Content = "another post"
	_, err = coordinator.SubmitPost(context.Background(), second)
	require.NoError(t, err)

	assert.Len(t, store.users, 1)
	assert.Len(t, store.posts, 2)
}

func TestSubmitPost_HashtagVariantsCollapse(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	sub := validSubmission()
	sub.Hashtags = "AI, #ai , ai"

	postID, err := coordinator.SubmitPost(context.Background(), sub)
	require.NoError(t, err)

	require.Len(t, store.hashtags, 1)
	hashtag := store.hashtags["ai"]
	assert.Equal(t, int64(1), hashtag.TotalPosts)
	assert.Contains(t, store.links, fmt.Sprintf("%s/%s", postID, hashtag.ID))
}

func TestSubmitPost_OmittedCountersDefaultToZero(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	// Counters left out entirely: still one engagement row, all zeros.
	sub := Submission{
		Username:       "alice",
		Platform:       "Twitter",
		Content:        "just text",
		Hashtags:       "trend,AI",
		SentimentLabel: "Neutral",
	}

	postID, err := coordinator.SubmitPost(context.Background(), sub)
	require.NoError(t, err)

	eng, ok := store.engagements[postID]
	require.True(t, ok)
	assert.Zero(t, eng.Likes)
	assert.Zero(t, eng.Comments)
	assert.Zero(t, eng.Views)
	assert.Zero(t, eng.Reactions)
	assert.Zero(t, eng.Score)

	require.Len(t, store.hashtags, 2)
	assert.Contains(t, store.hashtags, "trend")
	assert.Contains(t, store.hashtags, "ai")
}

func TestSubmitPost_ExplicitPostedAtWins(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	postedAt := time.Date(2026, 1, 15, 8, 30, 0, 0, time.FixedZone("CET", 3600))
	sub := validSubmission()
	sub.PostedAt = &postedAt

	postID, err := coordinator.SubmitPost(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, postedAt.UTC(), store.posts[postID].PostedAt)
}

func TestSubmitPost_DisplayNameFallsBackToUsername(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	sub := validSubmission()
	sub.DisplayName = "  "

	_, err := coordinator.SubmitPost(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "alice", store.users["alice"].DisplayName)
}

func TestSubmitPost_ValidationRejectsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing username", func(s *Submission) { s.Username = "  " }},
		{"missing content", func(s *Submission) { s.Content = "" }},
		{"unknown platform", func(s *Submission) { s.Platform = "MySpace" }},
		{"unknown sentiment label", func(s *Submission) { s.SentimentLabel = "positive" }},
		{"negative likes", func(s *Submission) { s.Likes = -1 }},
		{"negative views", func(s *Submission) { s.Views = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			coordinator, _ := newTestCoordinator(store)

			sub := validSubmission()
			tt.mutate(&sub)

			_, err := coordinator.SubmitPost(context.Background(), sub)
			require.Error(t, err)

			var structured *apperrors.Error
			require.ErrorAs(t, err, &structured)
			assert.Equal(t, apperrors.TypeValidation, structured.Type)

			// Nothing was written, not even the user.
			assert.Empty(t, store.users)
			assert.Empty(t, store.posts)
		})
	}
}

func TestSubmitPost_UnknownPlatformUsesFixedMetricLabel(t *testing.T) {
	store := newMemStore()
	coordinator, _ := newTestCoordinator(store)

	invalidCounter := metrics.PostsIngestedTotal.WithLabelValues("invalid", "validation")
	before := testutil.ToFloat64(invalidCounter)

	sub := validSubmission()
	sub.Platform = "platform-' OR 1=1 --"

	_, err := coordinator.SubmitPost(context.Background(), sub)
	require.Error(t, err)

	// The raw client string never becomes a label value.
	assert.Equal(t, before+1, testutil.ToFloat64(invalidCounter))
}

func TestSubmitPost_LateStepFailureIsPartialAndRollsBack(t *testing.T) {
	steps := []struct {
		failStep string
		wantStep string
	}{
		{"hashtag", "resolve_hashtag"},
		{"link", "link_hashtag"},
		{"sentiment", "sentiment"},
		{"engagement", "engagement"},
	}

	for _, tt := range steps {
		t.Run(tt.failStep, func(t *testing.T) {
			store := newMemStore()
			store.failStep = tt.failStep
			coordinator, _ := newTestCoordinator(store)

			_, err := coordinator.SubmitPost(context.Background(), validSubmission())
			require.Error(t, err)

			var partial *domain.PartialIngestionError
			require.ErrorAs(t, err, &partial)
			assert.Equal(t, tt.wantStep, partial.Step)
			assert.NotEqual(t, uuid.Nil, partial.PostID)

			// The unit rolled back, no rows survive.
			assert.Empty(t, store.posts)
			assert.Empty(t, store.users)
			assert.Empty(t, store.sentiments)
			assert.Empty(t, store.engagements)
		})
	}
}

func TestSubmitPost_EarlyStepFailureIsNotPartial(t *testing.T) {
	store := newMemStore()
	store.failStep = "user"
	coordinator, _ := newTestCoordinator(store)

	_, err := coordinator.SubmitPost(context.Background(), validSubmission())
	require.Error(t, err)

	var partial *domain.PartialIngestionError
	assert.False(t, errors.As(err, &partial))
}
