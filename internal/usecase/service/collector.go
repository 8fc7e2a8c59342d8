package service

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
	"pulse-backend/pkg/retry"
)

const (
	defaultDaysBack       = 7
	maxPostsPerCollection = 100
)

// MetricsCollector собирает метрики по опубликованным постам бизнеса.
// Для каждой платформы может быть настроен реальный источник; если его нет
// или он недоступен, используется детерминированный симулятор
type MetricsCollector struct {
	postRepo      repo.Post
	analyticsRepo repo.Analytics
	sources       map[string]usecase.MetricsSource
	fallback      usecase.MetricsSource
}

func NewMetricsCollector(
	postRepo repo.Post,
	analyticsRepo repo.Analytics,
	sources map[string]usecase.MetricsSource,
	fallback usecase.MetricsSource,
) *MetricsCollector {
	return &MetricsCollector{
		postRepo:      postRepo,
		analyticsRepo: analyticsRepo,
		sources:       sources,
		fallback:      fallback,
	}
}

// Collect выбирает опубликованные за окно посты и сохраняет по записи метрик
// на каждый. Сбой по одному посту не прерывает сбор всей пачки. Пустое окно —
// легальный результат, а не ошибка
func (c *MetricsCollector) Collect(ctx context.Context, businessID, daysBack int) ([]*entity.PostMetrics, error) {
	if daysBack <= 0 {
		daysBack = defaultDaysBack
	}

	end := time.Now()
	start := end.Add(-time.Duration(daysBack) * 24 * time.Hour)

	posts, err := c.postRepo.GetPublishedPosts(businessID, start, end, maxPostsPerCollection)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения опубликованных постов: %w", err)
	}

	period := fmt.Sprintf("%d_days", daysBack)
	collected := make([]*entity.PostMetrics, 0, len(posts))

	for _, post := range posts {
		metrics, err := c.fetchMetrics(ctx, post)
		if err != nil {
			log.Errorf("Не удалось получить метрики поста %d, пост пропущен: %v", post.ID, err)
			continue
		}

		record := &entity.PostMetrics{
			PostID:         post.ID,
			BusinessID:     post.BusinessID,
			Platform:       post.Platform,
			PlatformPostID: post.PlatformPostID,
			Metrics:        *metrics,
			CollectedAt:    time.Now(),
			AnalysisPeriod: period,
		}

		id, err := c.analyticsRepo.AddPostMetrics(record)
		if err != nil {
			log.Errorf("Не удалось сохранить метрики поста %d: %v", post.ID, err)
			continue
		}
		record.ID = id
		collected = append(collected, record)
	}

	return collected, nil
}

// fetchMetrics опрашивает платформенный источник с ретраями, при его
// недоступности переключается на симулятор
func (c *MetricsCollector) fetchMetrics(ctx context.Context, post *entity.Post) (*entity.MetricsMap, error) {
	source, ok := c.sources[post.Platform]
	if !ok {
		return c.fallback.FetchMetrics(ctx, post)
	}

	var metrics *entity.MetricsMap
	err := retry.Retry(func() error {
		m, err := source.FetchMetrics(ctx, post)
		if err != nil {
			return err
		}
		metrics = m
		return nil
	})
	if err != nil {
		log.Warnf("Источник метрик платформы %s недоступен, используем симулятор: %v", post.Platform, err)
		return c.fallback.FetchMetrics(ctx, post)
	}

	return metrics, nil
}
