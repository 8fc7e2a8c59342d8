package cockroach

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

type Analytics struct {
	db *sqlx.DB
}

func NewAnalytics(db *sqlx.DB) repo.Analytics {
	return &Analytics{
		db: db,
	}
}

func (a *Analytics) AddPostMetrics(metrics *entity.PostMetrics) (int, error) {
	query := `
        INSERT INTO post_metrics (post_id, business_id, platform, platform_post_id, metrics, collected_at, analysis_period)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var id int
	err := a.db.QueryRow(query,
		metrics.PostID,
		metrics.BusinessID,
		metrics.Platform,
		metrics.PlatformPostID,
		metrics.Metrics,
		metrics.CollectedAt,
		metrics.AnalysisPeriod,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (a *Analytics) GetLatestPostMetrics(postID int) (*entity.PostMetrics, error) {
	query := `
        SELECT id, post_id, business_id, platform, platform_post_id, metrics, collected_at, analysis_period
        FROM post_metrics
        WHERE post_id = $1
        ORDER BY collected_at DESC
        LIMIT 1
    `

	var metrics entity.PostMetrics
	err := a.db.Get(&metrics, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrPostMetricsNotFound
		}
		return nil, err
	}

	return &metrics, nil
}

func (a *Analytics) GetPostMetricsByPeriod(businessID int, start, end time.Time) ([]*entity.PostMetrics, error) {
	builder := sq.
		Select("id", "post_id", "business_id", "platform", "platform_post_id", "metrics", "collected_at", "analysis_period").
		From("post_metrics").
		Where(sq.Eq{"business_id": businessID}).
		Where(sq.GtOrEq{"collected_at": start}).
		Where(sq.LtOrEq{"collected_at": end}).
		OrderBy("collected_at ASC").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var metrics []*entity.PostMetrics
	err = a.db.Select(&metrics, query, args...)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (a *Analytics) AddInsights(insights *entity.PerformanceInsights) (int, error) {
	query := `
        INSERT INTO performance_insights (
            user_id, business_id, period_start, period_end, total_posts_analyzed,
            top_hashtags, top_keywords, optimal_content_length, best_posting_times, high_performing_topics,
            avg_engagement_rate, best_post_id, worst_post_id,
            ai_recommendations, content_strategy_suggestions, created_at, next_analysis_due
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id
    `

	optimalLength, err := json.Marshal(insights.OptimalContentLength)
	if err != nil {
		return 0, err
	}

	var id int
	err = a.db.QueryRow(query,
		insights.UserID,
		insights.BusinessID,
		insights.PeriodStart,
		insights.PeriodEnd,
		insights.TotalPostsAnalyzed,
		insights.TopHashtags,
		insights.TopKeywords,
		optimalLength,
		insights.BestPostingTimes,
		insights.HighPerformingTopics,
		insights.AvgEngagementRate,
		insights.BestPerformingPostID,
		insights.WorstPerformingPostID,
		pq.Array(insights.AIRecommendations),
		pq.Array(insights.ContentStrategySuggestions),
		insights.CreatedAt,
		insights.NextAnalysisDue,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (a *Analytics) GetLatestInsights(businessID int) (*entity.PerformanceInsights, error) {
	query := `
        SELECT id, user_id, business_id, period_start, period_end, total_posts_analyzed,
               top_hashtags, top_keywords, optimal_content_length, best_posting_times, high_performing_topics,
               avg_engagement_rate, best_post_id, worst_post_id,
               ai_recommendations, content_strategy_suggestions, created_at, next_analysis_due
        FROM performance_insights
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `

	var insights entity.PerformanceInsights
	var optimalLength []byte
	err := a.db.QueryRow(query, businessID).Scan(
		&insights.ID,
		&insights.UserID,
		&insights.BusinessID,
		&insights.PeriodStart,
		&insights.PeriodEnd,
		&insights.TotalPostsAnalyzed,
		&insights.TopHashtags,
		&insights.TopKeywords,
		&optimalLength,
		&insights.BestPostingTimes,
		&insights.HighPerformingTopics,
		&insights.AvgEngagementRate,
		&insights.BestPerformingPostID,
		&insights.WorstPerformingPostID,
		pq.Array(&insights.AIRecommendations),
		pq.Array(&insights.ContentStrategySuggestions),
		&insights.CreatedAt,
		&insights.NextAnalysisDue,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrInsightsNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(optimalLength, &insights.OptimalContentLength); err != nil {
		return nil, err
	}

	return &insights, nil
}

func (a *Analytics) GetBusinessesWithDueAnalysis(now time.Time) ([]int, error) {
	// next_analysis_due монотонно растёт вместе с created_at, поэтому max()
	// соответствует последнему прогону анализа
	query := `
        SELECT business_id
        FROM performance_insights
        GROUP BY business_id
        HAVING max(next_analysis_due) <= $1
    `

	var businessIDs []int
	err := a.db.Select(&businessIDs, query, now)
	if err != nil {
		return nil, err
	}

	return businessIDs, nil
}

func (a *Analytics) AddReport(report *entity.AnalyticsReport) (int, error) {
	query := `
        INSERT INTO analytics_report (
            business_id, insights_id, report_type, period_start, period_end,
            total_posts, total_engagement, avg_engagement_rate, reach_growth, follower_growth,
            key_wins, areas_for_improvement, recommended_actions, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `

	var id int
	err := a.db.QueryRow(query,
		report.BusinessID,
		report.InsightsID,
		report.ReportType,
		report.PeriodStart,
		report.PeriodEnd,
		report.TotalPosts,
		report.TotalEngagement,
		report.AvgEngagementRate,
		report.ReachGrowth,
		report.FollowerGrowth,
		pq.Array(report.KeyWins),
		pq.Array(report.AreasForImprovement),
		pq.Array(report.RecommendedActions),
		report.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (a *Analytics) GetLatestReport(businessID int) (*entity.AnalyticsReport, error) {
	query := `
        SELECT id, business_id, insights_id, report_type, period_start, period_end,
               total_posts, total_engagement, avg_engagement_rate, reach_growth, follower_growth,
               key_wins, areas_for_improvement, recommended_actions, created_at
        FROM analytics_report
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `

	var report entity.AnalyticsReport
	err := a.db.QueryRow(query, businessID).Scan(
		&report.ID,
		&report.BusinessID,
		&report.InsightsID,
		&report.ReportType,
		&report.PeriodStart,
		&report.PeriodEnd,
		&report.TotalPosts,
		&report.TotalEngagement,
		&report.AvgEngagementRate,
		&report.ReachGrowth,
		&report.FollowerGrowth,
		pq.Array(&report.KeyWins),
		pq.Array(&report.AreasForImprovement),
		pq.Array(&report.RecommendedActions),
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrReportNotFound
		}
		return nil, err
	}

	return &report, nil
}
