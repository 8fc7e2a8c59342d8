package repo

import (
	"context"
	"pulse-backend/internal/entity"
)

type AnalysisEventRepository interface {
	// PublishAnalysisEvent публикует событие о завершённом анализе
	PublishAnalysisEvent(ctx context.Context, event *entity.AnalysisEvent) error
}
