package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-backend/internal/entity"
)

func TestSynthesizeWithoutGenerator(t *testing.T) {
	s := NewRecommendationSynthesizer(nil)

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, fallbackRecommendations, recommendations)
}

func TestSynthesizeParsesJSON(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{
		answer: `{"recommendations": ["Первая", "Вторая"]}`,
	})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, []string{"Первая", "Вторая"}, recommendations)
}

func TestSynthesizeParsesWrappedJSON(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{
		answer: "Вот мои рекомендации:\n" + `{"recommendations": ["Одна"]}` + "\nНадеюсь, поможет!",
	})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, []string{"Одна"}, recommendations)
}

func TestSynthesizeParsesBulletLines(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{
		answer: "Рекомендации:\n- Первая\n* Вторая\n• Третья\nобычная строка",
	})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, []string{"Первая", "Вторая", "Третья"}, recommendations)
}

func TestSynthesizeFallbackOnGarbage(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{answer: "сплошной текст без структуры"})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, fallbackRecommendations, recommendations)
}

func TestSynthesizeFallbackOnError(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{err: errors.New("сервис недоступен")})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Equal(t, fallbackRecommendations, recommendations)
}

func TestSynthesizeCapsRecommendations(t *testing.T) {
	s := NewRecommendationSynthesizer(&fakeTextGenerator{
		answer: `{"recommendations": ["1", "2", "3", "4", "5", "6"]}`,
	})

	recommendations := s.Synthesize(context.Background(), nil, nil)

	assert.Len(t, recommendations, maxRecommendations)
}

func TestStrategize(t *testing.T) {
	s := NewRecommendationSynthesizer(nil)
	hashtags := []entity.ContentPattern{{Type: entity.PatternHashtag, Value: "#акция"}}
	keywords := []entity.ContentPattern{{Type: entity.PatternKeyword, Value: "скидка"}}
	topics := []entity.ContentPattern{{Type: entity.PatternTopic, Value: "продажи"}}

	suggestions := s.Strategize(hashtags, keywords, topics)

	require.Len(t, suggestions, maxStrategySuggestions)
	assert.Contains(t, suggestions[0], "#акция")
	assert.Contains(t, suggestions[1], "скидка")
	assert.Contains(t, suggestions[2], "продажи")
}

func TestStrategizeWithoutPatterns(t *testing.T) {
	s := NewRecommendationSynthesizer(nil)

	suggestions := s.Strategize(nil, nil, nil)

	// Без паттернов остаётся только общий совет про баланс контента
	require.Len(t, suggestions, 1)
}

func TestBuildRecommendationPrompt(t *testing.T) {
	posts := []*entity.Post{
		makePost(1, "Слабый пост"),
		makePost(2, "Сильный пост"),
	}
	metricsByPost := map[int]*entity.MetricsMap{
		1: metricsWithER(1.0),
		2: metricsWithER(9.0),
	}

	prompt := buildRecommendationPrompt(posts, metricsByPost)

	// Посты отсортированы по убыванию вовлечённости
	assert.Contains(t, prompt, "1. (ER 9.00) Сильный пост")
	assert.Contains(t, prompt, "2. (ER 1.00) Слабый пост")
	assert.Contains(t, prompt, `{"recommendations"`)
}
