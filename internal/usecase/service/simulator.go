package service

import (
	"context"
	"math"
	"math/rand"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/usecase"
)

// SimulatedMetrics детерминированно имитирует метрики платформы: один и тот же
// сид и пост всегда дают одинаковый результат
type SimulatedMetrics struct {
	seed int64
}

func NewSimulatedMetrics(seed int64) usecase.MetricsSource {
	return &SimulatedMetrics{seed: seed}
}

func (s *SimulatedMetrics) FetchMetrics(_ context.Context, post *entity.Post) (*entity.MetricsMap, error) {
	rng := rand.New(rand.NewSource(s.seed ^ int64(post.ID)*2654435761))

	reach := 500 + rng.Float64()*4500
	likes := math.Round(reach * (0.02 + rng.Float64()*0.06))
	comments := math.Round(likes * (0.05 + rng.Float64()*0.15))
	shares := math.Round(likes * (0.02 + rng.Float64()*0.10))
	impressions := math.Round(reach * (1.1 + rng.Float64()*0.4))
	clickThroughs := math.Round(reach * (0.01 + rng.Float64()*0.03))
	saves := math.Round(likes * (0.05 + rng.Float64()*0.10))

	metrics := &entity.MetricsMap{
		Likes:         likes,
		Comments:      comments,
		Shares:        shares,
		Reach:         math.Round(reach),
		Impressions:   impressions,
		ClickThroughs: clickThroughs,
		Saves:         saves,
	}
	metrics.EngagementRate = metrics.TotalEngagement() / reach * 100

	return metrics, nil
}
