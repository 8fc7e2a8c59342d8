package entity

import "time"

const (
	ReportTypeWeekly  = "weekly"
	ReportTypeMonthly = "monthly"
	ReportTypeCustom  = "custom"
)

// AnalyticsReport — периодическая сводка для показа пользователю. Строится
// по последним PerformanceInsights и сырым метрикам за окно отчёта
type AnalyticsReport struct {
	ID                  int       `json:"id" db:"id"`
	BusinessID          int       `json:"business_id" db:"business_id"`
	InsightsID          int       `json:"insights_id" db:"insights_id"`
	ReportType          string    `json:"report_type" db:"report_type"`
	PeriodStart         time.Time `json:"period_start" db:"period_start"`
	PeriodEnd           time.Time `json:"period_end" db:"period_end"`
	TotalPosts          int       `json:"total_posts" db:"total_posts"`
	TotalEngagement     int       `json:"total_engagement" db:"total_engagement"`
	AvgEngagementRate   float64   `json:"avg_engagement_rate" db:"avg_engagement_rate"`
	ReachGrowth         float64   `json:"reach_growth" db:"reach_growth"`
	FollowerGrowth      float64   `json:"follower_growth" db:"follower_growth"`
	KeyWins             []string  `json:"key_wins" db:"key_wins"`
	AreasForImprovement []string  `json:"areas_for_improvement" db:"areas_for_improvement"`
	RecommendedActions  []string  `json:"recommended_actions" db:"recommended_actions"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

type BuildReportRequest struct {
	UserID     int    `query:"-"`
	BusinessID int    `query:"business_id"`
	ReportType string `query:"report_type"`
}
