package service

import (
	"context"
	"time"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

// fakePostRepo хранит посты в памяти и отдаёт их в порядке добавления
type fakePostRepo struct {
	posts []*entity.Post

	publishedErr error
	byIDsErr     error
}

func (f *fakePostRepo) GetPublishedPosts(businessID int, start, end time.Time, limit int) ([]*entity.Post, error) {
	if f.publishedErr != nil {
		return nil, f.publishedErr
	}
	var result []*entity.Post
	for _, post := range f.posts {
		if post.BusinessID != businessID || post.Status != entity.PostStatusPosted {
			continue
		}
		if len(result) >= limit {
			break
		}
		result = append(result, post)
	}
	return result, nil
}

func (f *fakePostRepo) GetPost(postID int) (*entity.Post, error) {
	for _, post := range f.posts {
		if post.ID == postID {
			return post, nil
		}
	}
	return nil, repo.ErrPostNotFound
}

func (f *fakePostRepo) GetPostsByIDs(postIDs []int) ([]*entity.Post, error) {
	if f.byIDsErr != nil {
		return nil, f.byIDsErr
	}
	byID := make(map[int]*entity.Post, len(f.posts))
	for _, post := range f.posts {
		byID[post.ID] = post
	}
	var ordered []*entity.Post
	for _, id := range postIDs {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}
	return ordered, nil
}

// fakeAnalyticsRepo хранит метрики, инсайты и отчёты в памяти
type fakeAnalyticsRepo struct {
	metrics  []*entity.PostMetrics
	insights []*entity.PerformanceInsights
	reports  []*entity.AnalyticsReport

	addMetricsErr  error
	addInsightsErr error
	addReportErr   error
	nextID         int
}

func (f *fakeAnalyticsRepo) newID() int {
	f.nextID++
	return f.nextID
}

func (f *fakeAnalyticsRepo) AddPostMetrics(metrics *entity.PostMetrics) (int, error) {
	if f.addMetricsErr != nil {
		return 0, f.addMetricsErr
	}
	id := f.newID()
	stored := *metrics
	stored.ID = id
	f.metrics = append(f.metrics, &stored)
	return id, nil
}

func (f *fakeAnalyticsRepo) GetLatestPostMetrics(postID int) (*entity.PostMetrics, error) {
	var latest *entity.PostMetrics
	for _, record := range f.metrics {
		if record.PostID != postID {
			continue
		}
		if latest == nil || record.CollectedAt.After(latest.CollectedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, repo.ErrPostMetricsNotFound
	}
	return latest, nil
}

func (f *fakeAnalyticsRepo) GetPostMetricsByPeriod(businessID int, start, end time.Time) ([]*entity.PostMetrics, error) {
	var result []*entity.PostMetrics
	for _, record := range f.metrics {
		if record.BusinessID != businessID {
			continue
		}
		if record.CollectedAt.Before(start) || record.CollectedAt.After(end) {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) AddInsights(insights *entity.PerformanceInsights) (int, error) {
	if f.addInsightsErr != nil {
		return 0, f.addInsightsErr
	}
	id := f.newID()
	stored := *insights
	stored.ID = id
	f.insights = append(f.insights, &stored)
	return id, nil
}

func (f *fakeAnalyticsRepo) GetLatestInsights(businessID int) (*entity.PerformanceInsights, error) {
	var latest *entity.PerformanceInsights
	for _, record := range f.insights {
		if record.BusinessID != businessID {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, repo.ErrInsightsNotFound
	}
	return latest, nil
}

func (f *fakeAnalyticsRepo) GetBusinessesWithDueAnalysis(now time.Time) ([]int, error) {
	due := make(map[int]time.Time)
	for _, record := range f.insights {
		if current, ok := due[record.BusinessID]; !ok || record.NextAnalysisDue.After(current) {
			due[record.BusinessID] = record.NextAnalysisDue
		}
	}
	var businessIDs []int
	for businessID, dueAt := range due {
		if !dueAt.After(now) {
			businessIDs = append(businessIDs, businessID)
		}
	}
	return businessIDs, nil
}

func (f *fakeAnalyticsRepo) AddReport(report *entity.AnalyticsReport) (int, error) {
	if f.addReportErr != nil {
		return 0, f.addReportErr
	}
	id := f.newID()
	stored := *report
	stored.ID = id
	f.reports = append(f.reports, &stored)
	return id, nil
}

func (f *fakeAnalyticsRepo) GetLatestReport(businessID int) (*entity.AnalyticsReport, error) {
	var latest *entity.AnalyticsReport
	for _, record := range f.reports {
		if record.BusinessID != businessID {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, repo.ErrReportNotFound
	}
	return latest, nil
}

// fakeBusinessRepo отдаёт роли из фиксированной карты "business_id/user_id -> роли"
type fakeBusinessRepo struct {
	roles map[[2]int][]string
}

func (f *fakeBusinessRepo) GetBusinessUserRoles(businessID, userID int) ([]string, error) {
	return f.roles[[2]int{businessID, userID}], nil
}

func (f *fakeBusinessRepo) GetBusinessUsers(businessID int) ([]int, error) {
	var userIDs []int
	for key := range f.roles {
		if key[0] == businessID {
			userIDs = append(userIDs, key[1])
		}
	}
	return userIDs, nil
}

func (f *fakeBusinessRepo) GetVKCreds(businessID int) (*entity.VKCreds, error) {
	return nil, repo.ErrVKCredsNotFound
}

func (f *fakeBusinessRepo) PutVKCreds(businessID int, creds *entity.VKCreds) error {
	return nil
}

func (f *fakeBusinessRepo) GetTGChannel(businessID int) (*entity.TGChannel, error) {
	return nil, repo.ErrChannelNotFound
}

// fakeMetricsSource возвращает заранее заданные метрики, падая первые
// failures вызовов
type fakeMetricsSource struct {
	metrics  entity.MetricsMap
	failErr  error
	failures int
	calls    int
}

func (f *fakeMetricsSource) FetchMetrics(_ context.Context, post *entity.Post) (*entity.MetricsMap, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, f.failErr
	}
	metrics := f.metrics
	return &metrics, nil
}

// fakeTextGenerator отдаёт фиксированный ответ или ошибку
type fakeTextGenerator struct {
	answer string
	err    error
}

func (f *fakeTextGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
