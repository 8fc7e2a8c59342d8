package entity

import "time"

// PerformanceInsights — результат одного прогона анализа. История хранится
// целиком, записи не обновляются: последняя выбирается по created_at
type PerformanceInsights struct {
	ID                         int            `json:"id" db:"id"`
	UserID                     int            `json:"user_id" db:"user_id"`
	BusinessID                 int            `json:"business_id" db:"business_id"`
	PeriodStart                time.Time      `json:"analysis_period_start" db:"period_start"`
	PeriodEnd                  time.Time      `json:"analysis_period_end" db:"period_end"`
	TotalPostsAnalyzed         int            `json:"total_posts_analyzed" db:"total_posts_analyzed"`
	TopHashtags                PatternList    `json:"top_hashtags" db:"top_hashtags"`
	TopKeywords                PatternList    `json:"top_keywords" db:"top_keywords"`
	OptimalContentLength       ContentPattern `json:"optimal_content_length" db:"optimal_content_length"`
	BestPostingTimes           PatternList    `json:"best_posting_times" db:"best_posting_times"`
	HighPerformingTopics       PatternList    `json:"high_performing_topics" db:"high_performing_topics"`
	AvgEngagementRate          float64        `json:"avg_engagement_rate" db:"avg_engagement_rate"`
	BestPerformingPostID       *int           `json:"best_performing_post_id" db:"best_post_id"`
	WorstPerformingPostID      *int           `json:"worst_performing_post_id" db:"worst_post_id"`
	AIRecommendations          []string       `json:"ai_recommendations" db:"ai_recommendations"`
	ContentStrategySuggestions []string       `json:"content_strategy_suggestions" db:"content_strategy_suggestions"`
	CreatedAt                  time.Time      `json:"created_at" db:"created_at"`
	NextAnalysisDue            time.Time      `json:"next_analysis_due" db:"next_analysis_due"`
}

type RunAnalysisRequest struct {
	UserID     int `json:"-"`
	BusinessID int `json:"business_id"`
	DaysBack   int `json:"days_back"`
}

type RunAnalysisResponse struct {
	MetricsCollected int                  `json:"metrics_collected"`
	Insights         *PerformanceInsights `json:"insights,omitempty"`
}

type GetInsightsRequest struct {
	UserID     int `query:"-"`
	BusinessID int `query:"business_id"`
}
