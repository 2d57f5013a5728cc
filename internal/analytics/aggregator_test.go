package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/socialpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAnalyticsStore struct {
	countPostsFn          func(ctx context.Context) (int64, error)
	countUsersFn          func(ctx context.Context) (int64, error)
	countHashtagsFn       func(ctx context.Context) (int64, error)
	sentimentCountsFn     func(ctx context.Context) (map[domain.SentimentLabel]int64, error)
	sumEngagementScoresFn func(ctx context.Context) (float64, int64, error)
	recentPostsFn         func(ctx context.Context, limit int) ([]domain.PostDetails, error)
	platformTotalsFn      func(ctx context.Context) ([]domain.PlatformTotals, error)
	listHashtagsFn        func(ctx context.Context) ([]domain.Hashtag, error)
}

func (m *mockAnalyticsStore) CountPosts(ctx context.Context) (int64, error) {
	if m.countPostsFn != nil {
		return m.countPostsFn(ctx)
	}
	return 0, nil
}

func (m *mockAnalyticsStore) CountUsers(ctx context.Context) (int64, error) {
	if m.countUsersFn != nil {
		return m.countUsersFn(ctx)
	}
	return 0, nil
}

func (m *mockAnalyticsStore) CountHashtags(ctx context.Context) (int64, error) {
	if m.countHashtagsFn != nil {
		return m.countHashtagsFn(ctx)
	}
	return 0, nil
}

func (m *mockAnalyticsStore) SentimentCounts(ctx context.Context) (map[domain.SentimentLabel]int64, error) {
	if m.sentimentCountsFn != nil {
		return m.sentimentCountsFn(ctx)
	}
	return map[domain.SentimentLabel]int64{}, nil
}

func (m *mockAnalyticsStore) SumEngagementScores(ctx context.Context) (float64, int64, error) {
	if m.sumEngagementScoresFn != nil {
		return m.sumEngagementScoresFn(ctx)
	}
	return 0, 0, nil
}

func (m *mockAnalyticsStore) RecentPosts(ctx context.Context, limit int) ([]domain.PostDetails, error) {
	if m.recentPostsFn != nil {
		return m.recentPostsFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockAnalyticsStore) PlatformTotals(ctx context.Context) ([]domain.PlatformTotals, error) {
	if m.platformTotalsFn != nil {
		return m.platformTotalsFn(ctx)
	}
	return nil, nil
}

func (m *mockAnalyticsStore) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	if m.listHashtagsFn != nil {
		return m.listHashtagsFn(ctx)
	}
	return nil, nil
}

func newTestAggregator(store domain.AnalyticsStore) *Aggregator {
	return NewAggregator(store, clockwork.NewFakeClock(), 10, 10)
}

// --- Dashboard ---

func TestComputeDashboard_EmptyStoreYieldsZeros(t *testing.T) {
	agg := newTestAggregator(&mockAnalyticsStore{})

	snapshot, err := agg.ComputeDashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snapshot.TotalPosts)
	assert.Zero(t, snapshot.TotalUsers)
	assert.Zero(t, snapshot.TotalHashtags)
	assert.Equal(t, domain.SentimentBreakdown{}, snapshot.SentimentBreakdown)
	assert.Zero(t, snapshot.AvgEngagementScore)
	assert.NotNil(t, snapshot.RecentPosts)
	assert.Empty(t, snapshot.RecentPosts)
}

func TestComputeDashboard_FillsAllSections(t *testing.T) {
	store := &mockAnalyticsStore{
		countPostsFn:    func(context.Context) (int64, error) { return 7, nil },
		countUsersFn:    func(context.Context) (int64, error) { return 3, nil },
		countHashtagsFn: func(context.Context) (int64, error) { return 5, nil },
		sentimentCountsFn: func(context.Context) (map[domain.SentimentLabel]int64, error) {
			// Neutral missing on purpose, must report zero.
			return map[domain.SentimentLabel]int64{
				domain.SentimentPositive: 4,
				domain.SentimentNegative: 3,
			}, nil
		},
		sumEngagementScoresFn: func(context.Context) (float64, int64, error) { return 70.0, 7, nil },
		recentPostsFn: func(_ context.Context, limit int) ([]domain.PostDetails, error) {
			assert.Equal(t, 10, limit)
			return []domain.PostDetails{{}, {}}, nil
		},
	}
	agg := newTestAggregator(store)

	snapshot, err := agg.ComputeDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), snapshot.TotalPosts)
	assert.Equal(t, int64(3), snapshot.TotalUsers)
	assert.Equal(t, int64(5), snapshot.TotalHashtags)
	assert.Equal(t, domain.SentimentBreakdown{Positive: 4, Negative: 3, Neutral: 0}, snapshot.SentimentBreakdown)
	assert.InDelta(t, 10.0, snapshot.AvgEngagementScore, 1e-9)
	assert.Len(t, snapshot.RecentPosts, 2)
}

func TestComputeDashboard_SurvivesInitiatorCancellation(t *testing.T) {
	var flightOnce sync.Once
	flightStarted := make(chan struct{})
	release := make(chan struct{})

	store := &mockAnalyticsStore{
		countPostsFn: func(ctx context.Context) (int64, error) {
			flightOnce.Do(func() { close(flightStarted) })
			<-release
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return 5, nil
		},
	}
	agg := newTestAggregator(store)

	initiatorCtx, cancelInitiator := context.WithCancel(context.Background())
	initiatorDone := make(chan error, 1)
	go func() {
		_, err := agg.ComputeDashboard(initiatorCtx)
		initiatorDone <- err
	}()

	<-flightStarted

	// A second caller with a healthy context joins while the flight blocks.
	joinerDone := make(chan error, 1)
	var joinerSnapshot *domain.DashboardSnapshot
	go func() {
		snapshot, err := agg.ComputeDashboard(context.Background())
		joinerSnapshot = snapshot
		joinerDone <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancelInitiator()
	close(release)

	// The initiator's cancellation must not fail the shared computation.
	require.NoError(t, <-joinerDone)
	require.NoError(t, <-initiatorDone)
	assert.Equal(t, int64(5), joinerSnapshot.TotalPosts)
}

func TestComputeDashboard_StoreErrorPropagates(t *testing.T) {
	store := &mockAnalyticsStore{
		countPostsFn: func(context.Context) (int64, error) { return 0, errors.New("boom") },
	}
	agg := newTestAggregator(store)

	_, err := agg.ComputeDashboard(context.Background())
	assert.Error(t, err)
}

// --- Platform engagement ---

func TestComputePlatformEngagement_SortsByAvgThenName(t *testing.T) {
	store := &mockAnalyticsStore{
		platformTotalsFn: func(context.Context) ([]domain.PlatformTotals, error) {
			return []domain.PlatformTotals{
				{Platform: domain.PlatformTikTok, ScoreSum: 10, PostCount: 2},
				{Platform: domain.PlatformTwitter, ScoreSum: 30, PostCount: 2},
				{Platform: domain.PlatformFacebook, ScoreSum: 15, PostCount: 1},
			}, nil
		},
	}
	agg := newTestAggregator(store)

	result, err := agg.ComputePlatformEngagement(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Twitter avg 15 ties Facebook avg 15, Facebook wins alphabetically.
	assert.Equal(t, domain.PlatformFacebook, result[0].Platform)
	assert.Equal(t, domain.PlatformTwitter, result[1].Platform)
	assert.Equal(t, domain.PlatformTikTok, result[2].Platform)
	assert.InDelta(t, 15.0, result[0].AvgEngagement, 1e-9)
	assert.InDelta(t, 5.0, result[2].AvgEngagement, 1e-9)
}

func TestComputePlatformEngagement_EmptyStore(t *testing.T) {
	agg := newTestAggregator(&mockAnalyticsStore{})

	result, err := agg.ComputePlatformEngagement(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

// --- Top hashtags ---

func tagRows() []domain.Hashtag {
	return []domain.Hashtag{
		{Tag: "golang", TotalPosts: 5},
		{Tag: "ai", TotalPosts: 9},
		{Tag: "backend", TotalPosts: 5},
		{Tag: "testing", TotalPosts: 1},
	}
}

func TestComputeTopHashtags_OrderAndTruncation(t *testing.T) {
	store := &mockAnalyticsStore{
		listHashtagsFn: func(context.Context) ([]domain.Hashtag, error) { return tagRows(), nil },
	}
	agg := newTestAggregator(store)

	hashtags, err := agg.ComputeTopHashtags(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, hashtags, 3)

	// Count ties break alphabetically: backend before golang.
	assert.Equal(t, "ai", hashtags[0].Tag)
	assert.Equal(t, "backend", hashtags[1].Tag)
	assert.Equal(t, "golang", hashtags[2].Tag)
}

func TestComputeTopHashtags_NonPositiveLimitUsesDefault(t *testing.T) {
	store := &mockAnalyticsStore{
		listHashtagsFn: func(context.Context) ([]domain.Hashtag, error) { return tagRows(), nil },
	}
	agg := NewAggregator(store, clockwork.NewFakeClock(), 10, 2)

	hashtags, err := agg.ComputeTopHashtags(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, hashtags, 2)
}

func TestComputeTopHashtags_EmptyStore(t *testing.T) {
	agg := newTestAggregator(&mockAnalyticsStore{})

	hashtags, err := agg.ComputeTopHashtags(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, hashtags)
	assert.Empty(t, hashtags)
}
