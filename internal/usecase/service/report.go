package service

import (
	"errors"
	"fmt"
	"time"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
)

// areasForImprovement — статические темы для раздела "зоны роста"
var areasForImprovement = []string{
	"Экспериментируйте с форматами: карусели, опросы, короткие видео",
	"Публикуйте в рекомендованные временные окна",
	"Отвечайте на комментарии в первый час после публикации",
}

// ReportBuilder строит периодические отчёты по последним инсайтам и сырым
// метрикам за окно отчёта
type ReportBuilder struct {
	analyticsRepo repo.Analytics
}

func NewReportBuilder(analyticsRepo repo.Analytics) *ReportBuilder {
	return &ReportBuilder{analyticsRepo: analyticsRepo}
}

// Build строит и сохраняет отчёт. Без существующих инсайтов отчёт не строится:
// отчёт без аналитической основы вводил бы пользователя в заблуждение
func (b *ReportBuilder) Build(businessID int, reportType string) (*entity.AnalyticsReport, error) {
	days := 7
	switch reportType {
	case entity.ReportTypeMonthly:
		days = 30
	case entity.ReportTypeWeekly, entity.ReportTypeCustom:
	default:
		// Неизвестный тип трактуем как недельный
		reportType = entity.ReportTypeWeekly
	}

	insights, err := b.analyticsRepo.GetLatestInsights(businessID)
	if errors.Is(err, repo.ErrInsightsNotFound) {
		return nil, usecase.ErrInsightsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения инсайтов для отчёта: %w", err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	metricsList, err := b.analyticsRepo.GetPostMetricsByPeriod(businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения метрик за период: %w", err)
	}

	totalEngagement := 0.0
	postSet := make(map[int]bool)
	firstHalfReach, secondHalfReach := 0.0, 0.0
	middle := start.Add(end.Sub(start) / 2)
	for _, record := range metricsList {
		totalEngagement += record.Metrics.TotalEngagement()
		postSet[record.PostID] = true
		if record.CollectedAt.Before(middle) {
			firstHalfReach += record.Metrics.Reach
		} else {
			secondHalfReach += record.Metrics.Reach
		}
	}

	reachGrowth := 0.0
	if firstHalfReach > 0 {
		reachGrowth = (secondHalfReach - firstHalfReach) / firstHalfReach * 100
	}

	report := &entity.AnalyticsReport{
		BusinessID:        businessID,
		InsightsID:        insights.ID,
		ReportType:        reportType,
		PeriodStart:       start,
		PeriodEnd:         end,
		TotalPosts:        len(postSet),
		TotalEngagement:   int(totalEngagement),
		AvgEngagementRate: insights.AvgEngagementRate,
		ReachGrowth:       reachGrowth,
		// Подписчики пока не инструментированы, рост не считаем
		FollowerGrowth:      0,
		KeyWins:             buildKeyWins(len(postSet), totalEngagement, insights),
		AreasForImprovement: areasForImprovement,
		// Рекомендации переносятся из инсайтов дословно
		RecommendedActions: insights.AIRecommendations,
		CreatedAt:          time.Now(),
	}

	id, err := b.analyticsRepo.AddReport(report)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения отчёта: %w", err)
	}
	report.ID = id

	return report, nil
}

func buildKeyWins(totalPosts int, totalEngagement float64, insights *entity.PerformanceInsights) []string {
	wins := []string{
		fmt.Sprintf("Опубликовано постов за период: %d", totalPosts),
		fmt.Sprintf("Суммарная вовлечённость: %.0f реакций", totalEngagement),
	}
	if insights.BestPerformingPostID != nil {
		wins = append(wins, fmt.Sprintf("Лучший пост периода — №%d, развивайте его тему", *insights.BestPerformingPostID))
	}
	if len(insights.TopHashtags) > 0 {
		wins = append(wins, fmt.Sprintf("Самый результативный хэштег: %s", insights.TopHashtags[0].Value))
	}
	return wins
}
