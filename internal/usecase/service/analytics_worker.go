package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"pulse-backend/internal/usecase"
)

// AnalyticsWorker периодически запускает анализ для бизнесов, у которых
// наступил срок следующего прогона
type AnalyticsWorker struct {
	analytics            usecase.Analytics
	workerID             string
	workerUpdateInterval time.Duration
}

func NewAnalyticsWorker(analytics usecase.Analytics, workerID string, workerUpdateInterval time.Duration) *AnalyticsWorker {
	return &AnalyticsWorker{
		analytics:            analytics,
		workerID:             workerID,
		workerUpdateInterval: workerUpdateInterval,
	}
}

func (w *AnalyticsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.workerUpdateInterval)
	defer ticker.Stop()

	log.Infof("Запущен воркер аналитики: %s", w.workerID)

	for {
		select {
		case <-ctx.Done():
			log.Infof("Остановка воркера аналитики: %s", w.workerID)
			return
		case <-ticker.C:
			if err := w.analytics.ProcessDueAnalyses(w.workerID); err != nil {
				log.Errorf("Ошибка обработки плановых анализов: %v", err)
			}
		}
	}
}
