package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
)

type Analytics struct {
	businessRepo  repo.Business
	postRepo      repo.Post
	analyticsRepo repo.Analytics
	collector     *MetricsCollector
	assembler     *InsightAssembler
	reportBuilder *ReportBuilder

	// analysisEventRepo может быть nil: публикация событий — best-effort
	analysisEventRepo repo.AnalysisEventRepository
}

func NewAnalytics(
	businessRepo repo.Business,
	postRepo repo.Post,
	analyticsRepo repo.Analytics,
	collector *MetricsCollector,
	assembler *InsightAssembler,
	reportBuilder *ReportBuilder,
	analysisEventRepo repo.AnalysisEventRepository,
) usecase.Analytics {
	return &Analytics{
		businessRepo:      businessRepo,
		postRepo:          postRepo,
		analyticsRepo:     analyticsRepo,
		collector:         collector,
		assembler:         assembler,
		reportBuilder:     reportBuilder,
		analysisEventRepo: analysisEventRepo,
	}
}

// checkAnalyticsAccess проверяет, что пользователь имеет доступ к аналитике бизнеса
func (a *Analytics) checkAnalyticsAccess(businessID, userID int) error {
	roles, err := a.businessRepo.GetBusinessUserRoles(businessID, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, repo.AdminRole) && !slices.Contains(roles, repo.AnalyticsRole) {
		return usecase.ErrUserForbidden
	}
	return nil
}

func (a *Analytics) RunAnalysis(request *entity.RunAnalysisRequest) (*entity.RunAnalysisResponse, error) {
	if err := a.checkAnalyticsAccess(request.BusinessID, request.UserID); err != nil {
		return nil, err
	}
	return a.runAnalysis(request.UserID, request.BusinessID, request.DaysBack)
}

func (a *Analytics) runAnalysis(userID, businessID, daysBack int) (*entity.RunAnalysisResponse, error) {
	ctx := context.Background()

	metricsList, err := a.collector.Collect(ctx, businessID, daysBack)
	if err != nil {
		return nil, fmt.Errorf("ошибка сбора метрик: %w", err)
	}
	if len(metricsList) == 0 {
		// Анализировать нечего — это не ошибка, а отдельный исход
		return &entity.RunAnalysisResponse{MetricsCollected: 0}, nil
	}

	insights, err := a.assembler.Assemble(ctx, userID, businessID, metricsList)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки инсайтов: %w", err)
	}

	a.publishAnalysisEvent(insights)

	return &entity.RunAnalysisResponse{
		MetricsCollected: len(metricsList),
		Insights:         insights,
	}, nil
}

func (a *Analytics) publishAnalysisEvent(insights *entity.PerformanceInsights) {
	if a.analysisEventRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &entity.AnalysisEvent{
		EventID:       uuid.NewString(),
		BusinessID:    insights.BusinessID,
		InsightsID:    insights.ID,
		Type:          entity.AnalysisCompleted,
		PostsAnalyzed: insights.TotalPostsAnalyzed,
		OccurredAt:    time.Now(),
	}
	if err := a.analysisEventRepo.PublishAnalysisEvent(ctx, event); err != nil {
		log.Errorf("Не удалось опубликовать событие о завершении анализа: %v", err)
	}
}

func (a *Analytics) GetLatestInsights(request *entity.GetInsightsRequest) (*entity.PerformanceInsights, error) {
	if err := a.checkAnalyticsAccess(request.BusinessID, request.UserID); err != nil {
		return nil, err
	}

	insights, err := a.analyticsRepo.GetLatestInsights(request.BusinessID)
	if errors.Is(err, repo.ErrInsightsNotFound) {
		return nil, usecase.ErrInsightsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения инсайтов: %w", err)
	}

	return insights, nil
}

func (a *Analytics) BuildReport(request *entity.BuildReportRequest) (*entity.AnalyticsReport, error) {
	if err := a.checkAnalyticsAccess(request.BusinessID, request.UserID); err != nil {
		return nil, err
	}
	return a.reportBuilder.Build(request.BusinessID, request.ReportType)
}

func (a *Analytics) GetPostMetrics(request *entity.GetPostMetricsRequest) (*entity.PostMetrics, error) {
	if err := a.checkAnalyticsAccess(request.BusinessID, request.UserID); err != nil {
		return nil, err
	}

	post, err := a.postRepo.GetPost(request.PostID)
	if errors.Is(err, repo.ErrPostNotFound) {
		return nil, usecase.ErrMetricsNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.BusinessID != request.BusinessID {
		return nil, usecase.ErrUserForbidden
	}

	metrics, err := a.analyticsRepo.GetLatestPostMetrics(request.PostID)
	if errors.Is(err, repo.ErrPostMetricsNotFound) {
		return nil, usecase.ErrMetricsNotFound
	}
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (a *Analytics) ProcessDueAnalyses(workerID string) error {
	businessIDs, err := a.analyticsRepo.GetBusinessesWithDueAnalysis(time.Now())
	if err != nil {
		return fmt.Errorf("ошибка получения бизнесов с истёкшим сроком анализа: %w", err)
	}

	for _, businessID := range businessIDs {
		// Плановый прогон запускается от имени системы, без проверки ролей
		response, err := a.runAnalysis(0, businessID, defaultDaysBack)
		if err != nil {
			log.Errorf("Воркер %s: ошибка анализа бизнеса %d: %v", workerID, businessID, err)
			continue
		}
		log.Infof("Воркер %s: бизнес %d, собрано метрик: %d", workerID, businessID, response.MetricsCollected)
	}

	return nil
}
