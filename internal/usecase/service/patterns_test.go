package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-backend/internal/entity"
)

func makePost(id int, text string) *entity.Post {
	return &entity.Post{
		ID:         id,
		BusinessID: 1,
		Text:       text,
		Platform:   "telegram",
		Status:     entity.PostStatusPosted,
	}
}

func metricsWithER(rate float64) *entity.MetricsMap {
	return &entity.MetricsMap{EngagementRate: rate}
}

func TestExtractHashtagPatterns(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "Скидки только сегодня! #акция #промо"),
		makePost(2, "Новая коллекция уже в продаже #акция"),
		makePost(3, "Просто пост без тегов"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(3.0),
		2: metricsWithER(4.0),
		3: metricsWithER(1.0),
	}

	patterns := ExtractHashtagPatterns(posts, metricsByPost)

	require.Len(t, patterns, 1, "#промо встретился один раз и должен быть отброшен")
	pattern := patterns[0]
	assert.Equal(t, entity.PatternHashtag, pattern.Type)
	assert.Equal(t, "#акция", pattern.Value)
	assert.Equal(t, 2, pattern.Frequency)
	assert.InDelta(t, 3.5, pattern.AvgEngagement, 1e-9)
	assert.InDelta(t, 0.35, pattern.PerformanceScore, 1e-9)
	assert.Equal(t, []int{1, 2}, pattern.SamplePosts)
}

func TestExtractHashtagPatternsCaseInsensitive(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "Пост #Акция"),
		makePost(2, "Пост #АКЦИЯ"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(2.0),
		2: metricsWithER(2.0),
	}

	patterns := ExtractHashtagPatterns(posts, metricsByPost)

	require.Len(t, patterns, 1)
	assert.Equal(t, "#акция", patterns[0].Value)
	assert.Equal(t, 2, patterns[0].Frequency)
}

func TestExtractHashtagPatternsCountsPostOnce(t *testing.T) {
	// Тег дважды в одном посте считается один раз
	posts := []*entity.Post{
		makePost(1, "#акция и снова #акция"),
		makePost(2, "#акция"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(6.0),
		2: metricsWithER(2.0),
	}

	patterns := ExtractHashtagPatterns(posts, metricsByPost)

	require.Len(t, patterns, 1)
	assert.Equal(t, 2, patterns[0].Frequency)
	assert.InDelta(t, 4.0, patterns[0].AvgEngagement, 1e-9)
}

func TestExtractHashtagPatternsScoreClamped(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "#вирус"),
		makePost(2, "#вирус"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(50.0),
		2: metricsWithER(70.0),
	}

	patterns := ExtractHashtagPatterns(posts, metricsByPost)

	require.Len(t, patterns, 1)
	assert.Equal(t, 1.0, patterns[0].PerformanceScore)
}

func TestExtractHashtagPatternsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractHashtagPatterns(nil, nil))
	assert.Empty(t, ExtractHashtagPatterns([]*entity.Post{makePost(1, "#один")}, map[int]*entity.MetricsMap{}))
}

func TestExtractKeywordPatterns(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "Скидка 20% на всё до воскресенья"),
		makePost(2, "Советы по уходу за обувью"),
		makePost(3, "Пост ни о чём"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(4.0),
		2: metricsWithER(8.0),
		3: metricsWithER(1.0),
	}

	patterns := ExtractKeywordPatterns(posts, metricsByPost)

	require.Len(t, patterns, 2)
	// Сортировка по убыванию оценки: "советы" (8/8=1.0) впереди "скидка" (4/8=0.5)
	assert.Equal(t, "советы", patterns[0].Value)
	assert.InDelta(t, 1.0, patterns[0].PerformanceScore, 1e-9)
	assert.Equal(t, "скидка", patterns[1].Value)
	assert.InDelta(t, 0.5, patterns[1].PerformanceScore, 1e-9)
	for _, pattern := range patterns {
		assert.Equal(t, entity.PatternKeyword, pattern.Type)
		assert.Equal(t, 1, pattern.Frequency)
	}
}

func TestExtractContentLengthPattern(t *testing.T) {
	shortText := "Коротко"                       // корзина 0-50
	midText := makeTextOfLength(120)             // корзина 101-150
	posts := []*entity.Post{
		makePost(1, shortText),
		makePost(2, midText),
		makePost(3, makeTextOfLength(130)),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(2.0),
		2: metricsWithER(6.0),
		3: metricsWithER(4.0),
	}

	pattern := ExtractContentLengthPattern(posts, metricsByPost)

	assert.Equal(t, entity.PatternContentLength, pattern.Type)
	assert.Equal(t, "101-150_chars", pattern.Value)
	assert.Equal(t, 2, pattern.Frequency)
	assert.InDelta(t, 5.0, pattern.AvgEngagement, 1e-9)
	assert.InDelta(t, 0.5, pattern.PerformanceScore, 1e-9)
}

func TestExtractContentLengthPatternDefault(t *testing.T) {
	pattern := ExtractContentLengthPattern(nil, nil)

	assert.Equal(t, entity.PatternContentLength, pattern.Type)
	assert.Equal(t, DefaultContentLengthBucket, pattern.Value)
	assert.Zero(t, pattern.Frequency)
	assert.Zero(t, pattern.PerformanceScore)
}

func TestExtractContentLengthPatternCountsRunes(t *testing.T) {
	// 60 кириллических символов — это 120 байт, но корзина определяется по рунам
	posts := []*entity.Post{makePost(1, makeTextOfLength(60))}
	metricsByPost := map[int]*entity.MetricsMap{1: metricsWithER(3.0)}

	pattern := ExtractContentLengthPattern(posts, metricsByPost)

	assert.Equal(t, "51-100_chars", pattern.Value)
}

func TestExtractPostingTimePatterns(t *testing.T) {
	patterns := ExtractPostingTimePatterns(nil, nil)

	require.Len(t, patterns, 3)
	assert.Equal(t, "evening_18-20", patterns[0].Value)
	assert.InDelta(t, 0.90, patterns[0].PerformanceScore, 1e-9)
	assert.Equal(t, "midday_12-14", patterns[1].Value)
	assert.Equal(t, "morning_9-11", patterns[2].Value)
	for _, pattern := range patterns {
		assert.Equal(t, entity.PatternPostingTime, pattern.Type)
	}
}

func TestExtractTopicPatterns(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "Скидка по промокоду, акция до конца недели"), // продажи: 3 слова
		makePost(2, "Конкурс! Главный приз — сертификат"),         // вовлечение: 2 слова
		makePost(3, "Пост без тем"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(4.0),
		2: metricsWithER(8.0),
		3: metricsWithER(1.0),
	}

	patterns := ExtractTopicPatterns(posts, metricsByPost)

	require.Len(t, patterns, 2)
	assert.Equal(t, "вовлечение", patterns[0].Value)
	assert.InDelta(t, 1.0, patterns[0].PerformanceScore, 1e-9)
	assert.Equal(t, "продажи", patterns[1].Value)
	assert.InDelta(t, 0.5, patterns[1].PerformanceScore, 1e-9)
	for _, pattern := range patterns {
		assert.Equal(t, entity.PatternTopic, pattern.Type)
		assert.Equal(t, 1, pattern.Frequency)
	}
}

func TestExtractTopicPatternsWeightedAverage(t *testing.T) {
	// Пост с двумя словами темы весит вдвое больше поста с одним
	posts := []*entity.Post{
		makePost(1, "Скидка и акция"), // вес 2, ER 6
		makePost(2, "Просто скидка"),  // вес 1, ER 3
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(6.0),
		2: metricsWithER(3.0),
	}

	patterns := ExtractTopicPatterns(posts, metricsByPost)

	require.Len(t, patterns, 1)
	// (6*2 + 3*1) / 3 = 5
	assert.InDelta(t, 5.0, patterns[0].AvgEngagement, 1e-9)
	assert.Equal(t, 2, patterns[0].Frequency)
}

func TestExtractorsDeterministic(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "#акция скидка на гайд"),
		makePost(2, "#акция конкурс и розыгрыш"),
		makePost(3, "Советы и лайфхак, #польза"),
		makePost(4, "#польза обзор новинки"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(3.0),
		2: metricsWithER(3.0),
		3: metricsWithER(3.0),
		4: metricsWithER(3.0),
	}

	first := ExtractHashtagPatterns(posts, metricsByPost)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractHashtagPatterns(posts, metricsByPost))
	}

	firstTopics := ExtractTopicPatterns(posts, metricsByPost)
	for i := 0; i < 10; i++ {
		assert.Equal(t, firstTopics, ExtractTopicPatterns(posts, metricsByPost))
	}
}

// makeTextOfLength строит строку из n кириллических символов
func makeTextOfLength(n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = 'а'
	}
	return string(runes)
}
