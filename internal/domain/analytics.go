package domain

// SentimentBreakdown counts sentiment rows per label. All three labels are
// always present; labels without rows report zero.
type SentimentBreakdown struct {
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
	Neutral  int64 `json:"neutral"`
}

// DashboardSnapshot is the aggregate view served to the dashboard.
type DashboardSnapshot struct {
	TotalPosts         int64              `json:"total_posts"`
	TotalUsers         int64              `json:"total_users"`
	TotalHashtags      int64              `json:"total_hashtags"`
	SentimentBreakdown SentimentBreakdown `json:"sentiment_breakdown"`
	AvgEngagementScore float64            `json:"avg_engagement_score"`
	RecentPosts        []PostDetails      `json:"recent_posts"`
}

// PlatformEngagement is one row of the per-platform engagement report,
// ordered by AvgEngagement descending with ties broken by platform name.
type PlatformEngagement struct {
	Platform      Platform `json:"platform"`
	AvgEngagement float64  `json:"avg_engagement"`
	PostCount     int64    `json:"post_count"`
}
