package usecase

import (
	"context"
	"errors"

	"pulse-backend/internal/entity"
)

type Analytics interface {
	// RunAnalysis собирает свежие метрики по бизнесу и строит инсайты
	RunAnalysis(request *entity.RunAnalysisRequest) (*entity.RunAnalysisResponse, error)
	// GetLatestInsights возвращает последний результат анализа
	GetLatestInsights(request *entity.GetInsightsRequest) (*entity.PerformanceInsights, error)
	// BuildReport строит периодический отчёт по последним инсайтам
	BuildReport(request *entity.BuildReportRequest) (*entity.AnalyticsReport, error)
	// GetPostMetrics возвращает последние собранные метрики по посту
	GetPostMetrics(request *entity.GetPostMetricsRequest) (*entity.PostMetrics, error)
	// ProcessDueAnalyses запускает анализ для бизнесов, у которых наступил срок следующего прогона
	ProcessDueAnalyses(workerID string) error
}

type MetricsSource interface {
	// FetchMetrics возвращает карту метрик по опубликованному посту
	FetchMetrics(ctx context.Context, post *entity.Post) (*entity.MetricsMap, error)
}

type TextGenerator interface {
	// GenerateText возвращает ответ текстовой модели на промпт
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var (
	ErrUserForbidden    = errors.New("user forbidden")
	ErrInsightsNotFound = errors.New("no analysis available")
	ErrMetricsNotFound  = errors.New("post metrics not found")
)
