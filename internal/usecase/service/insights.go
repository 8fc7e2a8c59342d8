package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

const (
	maxTopHashtags   = 5
	maxTopKeywords   = 5
	maxPostingTimes  = 3
	maxTopics        = 5
	analysisInterval = 7 * 24 * time.Hour
)

// InsightAssembler объединяет результаты экстракторов в PerformanceInsights.
// Анализ запускается фоново или вручную и не стоит на пользовательском пути,
// поэтому при любых проблемах с данными возвращается корректный объект с
// нулевыми значениями, а не ошибка
type InsightAssembler struct {
	postRepo      repo.Post
	analyticsRepo repo.Analytics
	synthesizer   *RecommendationSynthesizer
}

func NewInsightAssembler(
	postRepo repo.Post,
	analyticsRepo repo.Analytics,
	synthesizer *RecommendationSynthesizer,
) *InsightAssembler {
	return &InsightAssembler{
		postRepo:      postRepo,
		analyticsRepo: analyticsRepo,
		synthesizer:   synthesizer,
	}
}

// Assemble строит и сохраняет результат анализа по собранным метрикам
func (a *InsightAssembler) Assemble(ctx context.Context, userID, businessID int, metricsList []*entity.PostMetrics) (*entity.PerformanceInsights, error) {
	if len(metricsList) > maxPostsPerCollection {
		metricsList = metricsList[:maxPostsPerCollection]
	}

	// Карта метрик по постам: при повторных записях одного поста побеждает
	// первая, чтобы результат не зависел от лишних записей в хвосте
	metricsByPost := make(map[int]*entity.MetricsMap, len(metricsList))
	postIDs := make([]int, 0, len(metricsList))
	for _, record := range metricsList {
		if _, ok := metricsByPost[record.PostID]; ok {
			continue
		}
		metrics := record.Metrics
		metricsByPost[record.PostID] = &metrics
		postIDs = append(postIDs, record.PostID)
	}

	posts, err := a.postRepo.GetPostsByIDs(postIDs)
	if err != nil {
		log.Errorf("Не удалось получить посты для анализа бизнеса %d: %v", businessID, err)
		posts = nil
	}

	now := time.Now()
	insights := &entity.PerformanceInsights{
		UserID:               userID,
		BusinessID:           businessID,
		PeriodStart:          now.Add(-analysisInterval),
		PeriodEnd:            now,
		TotalPostsAnalyzed:   len(posts),
		TopHashtags:          truncatePatterns(ExtractHashtagPatterns(posts, metricsByPost), maxTopHashtags),
		TopKeywords:          truncatePatterns(ExtractKeywordPatterns(posts, metricsByPost), maxTopKeywords),
		OptimalContentLength: ExtractContentLengthPattern(posts, metricsByPost),
		BestPostingTimes:     truncatePatterns(ExtractPostingTimePatterns(posts, metricsByPost), maxPostingTimes),
		HighPerformingTopics: truncatePatterns(ExtractTopicPatterns(posts, metricsByPost), maxTopics),
		CreatedAt:            now,
		NextAnalysisDue:      now.Add(analysisInterval),
	}

	insights.AvgEngagementRate = averageEngagementRate(metricsList)
	insights.BestPerformingPostID, insights.WorstPerformingPostID = findBestAndWorstPosts(metricsList)

	insights.AIRecommendations = a.synthesizer.Synthesize(ctx, posts, metricsByPost)
	insights.ContentStrategySuggestions = a.synthesizer.Strategize(
		insights.TopHashtags, insights.TopKeywords, insights.HighPerformingTopics)

	id, err := a.analyticsRepo.AddInsights(insights)
	if err != nil {
		// Результат анализа полезен и без записи в базу
		log.Errorf("Не удалось сохранить инсайты бизнеса %d: %v", businessID, err)
		return insights, nil
	}
	insights.ID = id

	return insights, nil
}

// averageEngagementRate считает среднее по всем записям метрик. Деление
// защищено от нуля: пустой список даёт 0
func averageEngagementRate(metricsList []*entity.PostMetrics) float64 {
	total := 0.0
	for _, record := range metricsList {
		total += record.Metrics.EngagementRate
	}
	return total / float64(max(1, len(metricsList)))
}

// findBestAndWorstPosts возвращает посты с максимальной и минимальной
// вовлечённостью. При равенстве побеждает первый по порядку входного списка
func findBestAndWorstPosts(metricsList []*entity.PostMetrics) (*int, *int) {
	if len(metricsList) == 0 {
		return nil, nil
	}

	best, worst := metricsList[0], metricsList[0]
	for _, record := range metricsList[1:] {
		if record.Metrics.EngagementRate > best.Metrics.EngagementRate {
			best = record
		}
		if record.Metrics.EngagementRate < worst.Metrics.EngagementRate {
			worst = record
		}
	}

	bestID, worstID := best.PostID, worst.PostID
	return &bestID, &worstID
}

func truncatePatterns(patterns []entity.ContentPattern, limit int) entity.PatternList {
	if len(patterns) > limit {
		patterns = patterns[:limit]
	}
	return patterns
}
