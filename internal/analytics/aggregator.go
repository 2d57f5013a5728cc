// Package analytics computes read-only aggregate views over the record set:
// dashboard totals, per-platform engagement, and top hashtags. All
// computations are pure functions of current store state and safe to call
// concurrently.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/socialpulse/internal/domain"
	"github.com/pscheid92/socialpulse/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRecentPostsLimit = 10
	defaultTopHashtagsLimit = 10
)

// Aggregator computes dashboard analytics from an AnalyticsStore.
type Aggregator struct {
	store          domain.AnalyticsStore
	clock          clockwork.Clock
	recentLimit    int
	topTagsDefault int
	dashboardGroup singleflight.Group
}

// NewAggregator creates an aggregator. Non-positive limits fall back to the
// defaults (10 recent posts, 10 top hashtags).
func NewAggregator(store domain.AnalyticsStore, clock clockwork.Clock, recentLimit, topHashtagsLimit int) *Aggregator {
	if recentLimit <= 0 {
		recentLimit = defaultRecentPostsLimit
	}
	if topHashtagsLimit <= 0 {
		topHashtagsLimit = defaultTopHashtagsLimit
	}
	return &Aggregator{
		store:          store,
		clock:          clock,
		recentLimit:    recentLimit,
		topTagsDefault: topHashtagsLimit,
	}
}

// ComputeDashboard builds the dashboard snapshot: exact totals, the
// three-label sentiment breakdown (missing labels report zero), the average
// engagement score (0 on an empty store, never NaN), and the most recent
// posts joined with their related rows. Concurrent identical computations
// collapse onto a single store pass.
func (a *Aggregator) ComputeDashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	// The flight is shared by every caller that joins it, so it must not
	// inherit the initiator's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := a.dashboardGroup.Do("dashboard", func() (any, error) {
		return a.computeDashboard(flightCtx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.DashboardSnapshot), nil
}

func (a *Aggregator) computeDashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	start := a.clock.Now()
	defer func() {
		metrics.AnalyticsQueryDuration.WithLabelValues("dashboard").Observe(a.clock.Since(start).Seconds())
	}()

	snapshot := &domain.DashboardSnapshot{RecentPosts: []domain.PostDetails{}}

	var err error
	if snapshot.TotalPosts, err = a.store.CountPosts(ctx); err != nil {
		return nil, a.fail("dashboard", "failed to count posts", err)
	}
	if snapshot.TotalUsers, err = a.store.CountUsers(ctx); err != nil {
		return nil, a.fail("dashboard", "failed to count users", err)
	}
	if snapshot.TotalHashtags, err = a.store.CountHashtags(ctx); err != nil {
		return nil, a.fail("dashboard", "failed to count hashtags", err)
	}

	counts, err := a.store.SentimentCounts(ctx)
	if err != nil {
		return nil, a.fail("dashboard", "failed to count sentiment labels", err)
	}
	snapshot.SentimentBreakdown = domain.SentimentBreakdown{
		Positive: counts[domain.SentimentPositive],
		Negative: counts[domain.SentimentNegative],
		Neutral:  counts[domain.SentimentNeutral],
	}

	sum, rows, err := a.store.SumEngagementScores(ctx)
	if err != nil {
		return nil, a.fail("dashboard", "failed to sum engagement scores", err)
	}
	if rows > 0 {
		snapshot.AvgEngagementScore = sum / float64(rows)
	}

	recent, err := a.store.RecentPosts(ctx, a.recentLimit)
	if err != nil {
		return nil, a.fail("dashboard", "failed to load recent posts", err)
	}
	if recent != nil {
		snapshot.RecentPosts = recent
	}

	return snapshot, nil
}

// ComputePlatformEngagement groups posts by platform and reports the mean
// engagement score over the platform's post count: a post without an
// engagement row contributes 0 to the sum and 1 to the denominator. Rows
// sort by average descending, ties by platform name ascending.
func (a *Aggregator) ComputePlatformEngagement(ctx context.Context) ([]domain.PlatformEngagement, error) {
	start := a.clock.Now()
	defer func() {
		metrics.AnalyticsQueryDuration.WithLabelValues("platform_engagement").Observe(a.clock.Since(start).Seconds())
	}()

	totals, err := a.store.PlatformTotals(ctx)
	if err != nil {
		return nil, a.fail("platform_engagement", "failed to load platform totals", err)
	}

	result := make([]domain.PlatformEngagement, 0, len(totals))
	for _, row := range totals {
		avg := 0.0
		if row.PostCount > 0 {
			avg = row.ScoreSum / float64(row.PostCount)
		}
		result = append(result, domain.PlatformEngagement{
			Platform:      row.Platform,
			AvgEngagement: avg,
			PostCount:     row.PostCount,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgEngagement != result[j].AvgEngagement {
			return result[i].AvgEngagement > result[j].AvgEngagement
		}
		return result[i].Platform < result[j].Platform
	})

	return result, nil
}

// ComputeTopHashtags returns up to limit hashtags ordered by total_posts
// descending, ties by tag ascending. A non-positive limit uses the
// configured default.
func (a *Aggregator) ComputeTopHashtags(ctx context.Context, limit int) ([]domain.Hashtag, error) {
	start := a.clock.Now()
	defer func() {
		metrics.AnalyticsQueryDuration.WithLabelValues("top_hashtags").Observe(a.clock.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = a.topTagsDefault
	}

	hashtags, err := a.store.ListHashtags(ctx)
	if err != nil {
		return nil, a.fail("top_hashtags", "failed to list hashtags", err)
	}

	sort.Slice(hashtags, func(i, j int) bool {
		if hashtags[i].TotalPosts != hashtags[j].TotalPosts {
			return hashtags[i].TotalPosts > hashtags[j].TotalPosts
		}
		return hashtags[i].Tag < hashtags[j].Tag
	})

	if len(hashtags) > limit {
		hashtags = hashtags[:limit]
	}
	if hashtags == nil {
		hashtags = []domain.Hashtag{}
	}

	return hashtags, nil
}

func (a *Aggregator) fail(query, message string, err error) error {
	metrics.AnalyticsQueryErrorsTotal.WithLabelValues(query).Inc()
	return fmt.Errorf("%s: %w", message, err)
}
