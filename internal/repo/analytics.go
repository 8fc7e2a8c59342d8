package repo

import (
	"errors"
	"pulse-backend/internal/entity"
	"time"
)

type Analytics interface {
	// AddPostMetrics сохраняет новую запись метрик по посту и возвращает её айди.
	// Записи только добавляются: повторный сбор не изменяет предыдущие
	AddPostMetrics(metrics *entity.PostMetrics) (int, error)
	// GetLatestPostMetrics возвращает последнюю по времени сбора запись метрик по посту
	GetLatestPostMetrics(postID int) (*entity.PostMetrics, error)
	// GetPostMetricsByPeriod возвращает записи метрик бизнеса, собранные за период
	GetPostMetricsByPeriod(businessID int, start, end time.Time) ([]*entity.PostMetrics, error)

	// AddInsights сохраняет результат анализа и возвращает его айди
	AddInsights(insights *entity.PerformanceInsights) (int, error)
	// GetLatestInsights возвращает последний по created_at результат анализа для бизнеса
	GetLatestInsights(businessID int) (*entity.PerformanceInsights, error)
	// GetBusinessesWithDueAnalysis возвращает ID бизнесов, у которых наступил срок следующего анализа
	GetBusinessesWithDueAnalysis(now time.Time) ([]int, error)

	// AddReport сохраняет отчёт и возвращает его айди
	AddReport(report *entity.AnalyticsReport) (int, error)
	// GetLatestReport возвращает последний по created_at отчёт для бизнеса
	GetLatestReport(businessID int) (*entity.AnalyticsReport, error)
}

var (
	ErrPostMetricsNotFound = errors.New("post metrics not found")
	ErrInsightsNotFound    = errors.New("insights not found")
	ErrReportNotFound      = errors.New("report not found")
)
