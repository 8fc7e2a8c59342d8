package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/usecase"
)

func publishedPost(id, businessID int, platform string) *entity.Post {
	publishedAt := time.Now().Add(-24 * time.Hour)
	return &entity.Post{
		ID:          id,
		BusinessID:  businessID,
		Text:        "Пост",
		Platform:    platform,
		Status:      entity.PostStatusPosted,
		PublishedAt: &publishedAt,
	}
}

func TestCollectEmptyWindow(t *testing.T) {
	collector := NewMetricsCollector(&fakePostRepo{}, &fakeAnalyticsRepo{}, nil, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Empty(t, collected)
}

func TestCollectUsesFallbackForUnknownPlatform(t *testing.T) {
	postRepo := &fakePostRepo{posts: []*entity.Post{publishedPost(1, 1, "telegram")}}
	analyticsRepo := &fakeAnalyticsRepo{}
	collector := NewMetricsCollector(postRepo, analyticsRepo, nil, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 7)

	require.NoError(t, err)
	require.Len(t, collected, 1)
	record := collected[0]
	assert.Equal(t, 1, record.PostID)
	assert.Equal(t, "7_days", record.AnalysisPeriod)
	assert.Positive(t, record.Metrics.Reach)
	assert.Positive(t, record.Metrics.EngagementRate)
	require.Len(t, analyticsRepo.metrics, 1)
}

func TestCollectDefaultsDaysBack(t *testing.T) {
	postRepo := &fakePostRepo{posts: []*entity.Post{publishedPost(1, 1, "telegram")}}
	collector := NewMetricsCollector(postRepo, &fakeAnalyticsRepo{}, nil, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 0)

	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, "7_days", collected[0].AnalysisPeriod)
}

func TestCollectPrefersPlatformSource(t *testing.T) {
	postRepo := &fakePostRepo{posts: []*entity.Post{publishedPost(1, 1, "vkontakte")}}
	source := &fakeMetricsSource{metrics: entity.MetricsMap{Likes: 7, Reach: 700, EngagementRate: 1.0}}
	collector := NewMetricsCollector(postRepo, &fakeAnalyticsRepo{},
		map[string]usecase.MetricsSource{"vkontakte": source}, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 7)

	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, 7.0, collected[0].Metrics.Likes)
	assert.Equal(t, 1, source.calls)
}

func TestCollectRetriesPlatformSource(t *testing.T) {
	postRepo := &fakePostRepo{posts: []*entity.Post{publishedPost(1, 1, "vkontakte")}}
	source := &fakeMetricsSource{
		metrics:  entity.MetricsMap{Likes: 7},
		failErr:  errors.New("временный сбой"),
		failures: 2,
	}
	collector := NewMetricsCollector(postRepo, &fakeAnalyticsRepo{},
		map[string]usecase.MetricsSource{"vkontakte": source}, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 7)

	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, 7.0, collected[0].Metrics.Likes)
	assert.Equal(t, 3, source.calls)
}

func TestCollectSkipsPostOnSaveFailure(t *testing.T) {
	postRepo := &fakePostRepo{posts: []*entity.Post{publishedPost(1, 1, "telegram")}}
	analyticsRepo := &fakeAnalyticsRepo{addMetricsErr: errors.New("база недоступна")}
	collector := NewMetricsCollector(postRepo, analyticsRepo, nil, NewSimulatedMetrics(42))

	collected, err := collector.Collect(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Empty(t, collected)
}

func TestSimulatedMetricsDeterministic(t *testing.T) {
	post := publishedPost(5, 1, "telegram")
	simulator := NewSimulatedMetrics(42)

	first, err := simulator.FetchMetrics(context.Background(), post)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := simulator.FetchMetrics(context.Background(), post)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Другой сид даёт другие метрики
	other, err := NewSimulatedMetrics(43).FetchMetrics(context.Background(), post)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSimulatedMetricsRanges(t *testing.T) {
	simulator := NewSimulatedMetrics(42)

	for id := 1; id <= 50; id++ {
		metrics, err := simulator.FetchMetrics(context.Background(), publishedPost(id, 1, "telegram"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, metrics.Reach, 500.0)
		assert.LessOrEqual(t, metrics.Reach, 5000.0)
		assert.GreaterOrEqual(t, metrics.Likes, 0.0)
		assert.Positive(t, metrics.EngagementRate)
	}
}
