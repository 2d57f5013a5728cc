package server

import (
	"time"

	"github.com/pscheid92/socialpulse/internal/domain"
)

// View types shape the JSON responses. Domain rows carry internal IDs and
// storage timestamps the API does not expose.

type dashboardResponse struct {
	TotalPosts         int64                     `json:"total_posts"`
	TotalUsers         int64                     `json:"total_users"`
	TotalHashtags      int64                     `json:"total_hashtags"`
	SentimentBreakdown domain.SentimentBreakdown `json:"sentiment_breakdown"`
	AvgEngagementScore float64                   `json:"avg_engagement_score"`
	RecentPosts        []postView                `json:"recent_posts"`
}

type postView struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	Platform   string          `json:"platform"`
	PostedAt   time.Time       `json:"posted_at"`
	Author     authorView      `json:"author"`
	Sentiment  *sentimentView  `json:"sentiment,omitempty"`
	Engagement *engagementView `json:"engagement,omitempty"`
}

type authorView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type sentimentView struct {
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

type engagementView struct {
	Likes     int64   `json:"likes"`
	Comments  int64   `json:"comments"`
	Views     int64   `json:"views"`
	Reactions int64   `json:"reactions"`
	Score     float64 `json:"engagement_score"`
}

type hashtagView struct {
	Tag        string `json:"tag"`
	TotalPosts int64  `json:"total_posts"`
}

func dashboardView(s *domain.DashboardSnapshot) dashboardResponse {
	posts := make([]postView, 0, len(s.RecentPosts))
	for _, p := range s.RecentPosts {
		posts = append(posts, newPostView(p))
	}
	return dashboardResponse{
		TotalPosts:         s.TotalPosts,
		TotalUsers:         s.TotalUsers,
		TotalHashtags:      s.TotalHashtags,
		SentimentBreakdown: s.SentimentBreakdown,
		AvgEngagementScore: s.AvgEngagementScore,
		RecentPosts:        posts,
	}
}

func newPostView(d domain.PostDetails) postView {
	view := postView{
		ID:       d.ID.String(),
		Content:  d.Content,
		Platform: string(d.Post.Platform),
		PostedAt: d.PostedAt,
		Author: authorView{
			Username:    d.Author.Username,
			DisplayName: d.Author.DisplayName,
		},
	}
	if d.Sentiment != nil {
		view.Sentiment = &sentimentView{
			Label:  string(d.Sentiment.Label),
			Score:  d.Sentiment.Score,
			Status: string(d.Sentiment.Status),
		}
	}
	if d.Engagement != nil {
		view.Engagement = &engagementView{
			Likes:     d.Engagement.Likes,
			Comments:  d.Engagement.Comments,
			Views:     d.Engagement.Views,
			Reactions: d.Engagement.Reactions,
			Score:     d.Engagement.Score,
		}
	}
	return view
}

func hashtagViews(hashtags []domain.Hashtag) []hashtagView {
	views := make([]hashtagView, 0, len(hashtags))
	for _, h := range hashtags {
		views = append(views, hashtagView{Tag: h.Tag, TotalPosts: h.TotalPosts})
	}
	return views
}
