package telegram

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-telegram/bot"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
)

type Metrics struct {
	bot          *bot.Bot
	businessRepo repo.Business
}

func NewTelegramMetrics(token string, businessRepo repo.Business) (usecase.MetricsSource, error) {
	telegramBot, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Metrics{
		bot:          telegramBot,
		businessRepo: businessRepo,
	}, nil
}

// FetchMetrics оценивает метрики поста в Телеграме. Bot API не отдаёт
// просмотры и реакции поста, поэтому охват оцениваем по размеру канала,
// а вовлечённость — по CTR-модели
func (m *Metrics) FetchMetrics(ctx context.Context, post *entity.Post) (*entity.MetricsMap, error) {
	channel, err := m.businessRepo.GetTGChannel(post.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tg channel: %w", err)
	}

	subscribers, err := m.bot.GetChatMemberCount(ctx, &bot.GetChatMemberCountParams{
		ChatID: channel.ChannelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat member count: %w", err)
	}

	hoursPassed := 0.0
	if post.PublishedAt != nil {
		hoursPassed = time.Since(*post.PublishedAt).Hours()
	}

	reach := EstimateReach(subscribers, hoursPassed)
	likes := math.Round(reach * 0.04)
	comments := math.Round(likes * 0.10)
	shares := math.Round(likes * 0.05)

	metrics := &entity.MetricsMap{
		Likes:       likes,
		Comments:    comments,
		Shares:      shares,
		Reach:       reach,
		Impressions: reach,
	}
	if reach > 0 {
		metrics.EngagementRate = metrics.TotalEngagement() / reach * 100
	}

	return metrics, nil
}

// EstimateReach оценивает охват поста по размеру канала и возрасту поста
func EstimateReach(subscribers int, hoursPassed float64) float64 {
	if subscribers == 0 {
		return 0
	}

	// Типичный охват поста в канале — около трети подписчиков
	viewRate := 0.35

	// Временной множитель
	timeFactor := 1.0
	switch {
	case hoursPassed < 1:
		timeFactor = 0.3
	case hoursPassed < 3:
		timeFactor = 0.6
	case hoursPassed < 12:
		timeFactor = 0.85
	default:
		timeFactor = 1.0
	}

	return math.Round(float64(subscribers) * viewRate * timeFactor)
}
