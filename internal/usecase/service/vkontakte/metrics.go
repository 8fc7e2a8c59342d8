package vkontakte

import (
	"context"
	"errors"
	"fmt"

	"github.com/SevereCloud/vksdk/v3/api"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
)

type Metrics struct {
	businessRepo repo.Business
}

func NewVkontakteMetrics(businessRepo repo.Business) usecase.MetricsSource {
	return &Metrics{
		businessRepo: businessRepo,
	}
}

func (m *Metrics) FetchMetrics(_ context.Context, post *entity.Post) (*entity.MetricsMap, error) {
	creds, err := m.businessRepo.GetVKCreds(post.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get VK credentials: %w", err)
	}

	vk := api.NewVK(creds.AccessToken)
	params := api.Params{
		"posts":              fmt.Sprintf("-%d_%s", creds.GroupID, post.PlatformPostID),
		"extended":           1,
		"fields":             "views",
		"copy_history_depth": 0,
	}
	response, err := vk.WallGetByID(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get VK post stats: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, errors.New("post not found in VK")
	}

	item := response.Items[0]
	views := float64(item.Views.Count)
	metrics := &entity.MetricsMap{
		Likes:       float64(item.Likes.Count),
		Comments:    float64(item.Comments.Count),
		Shares:      float64(item.Reposts.Count),
		Reach:       views,
		Impressions: views,
	}
	if views > 0 {
		metrics.EngagementRate = metrics.TotalEngagement() / views * 100
	}

	return metrics, nil
}
