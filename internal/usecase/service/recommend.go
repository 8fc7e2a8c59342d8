package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/usecase"
)

const (
	maxRecommendations     = 4
	maxStrategySuggestions = 4
	promptPostLimit        = 5
	promptTextLimit        = 100
	generationTimeout      = 10 * time.Second
)

// fallbackRecommendations возвращаются, когда генератор текста не настроен,
// недоступен или ответил мусором. Набор фиксированный, чтобы пайплайн
// оставался полностью работоспособным без внешних зависимостей
var fallbackRecommendations = []string{
	"Публикуйте посты регулярно, не реже трёх раз в неделю",
	"Добавляйте к постам два-три релевантных хэштега",
	"Задавайте аудитории вопросы, чтобы стимулировать комментарии",
	"Анализируйте лучшие посты и развивайте их темы",
}

// RecommendationSynthesizer превращает найденные паттерны в текстовые
// рекомендации. Генератор текста опционален: без него всегда возвращается
// детерминированный резервный набор
type RecommendationSynthesizer struct {
	generator usecase.TextGenerator
	timeout   time.Duration
}

func NewRecommendationSynthesizer(generator usecase.TextGenerator) *RecommendationSynthesizer {
	return &RecommendationSynthesizer{
		generator: generator,
		timeout:   generationTimeout,
	}
}

// Synthesize возвращает не более четырёх рекомендаций. Цепочка деградации:
// JSON-ответ модели -> строки-буллеты -> фиксированный резервный набор
func (s *RecommendationSynthesizer) Synthesize(ctx context.Context, posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) []string {
	if s.generator == nil {
		return slices.Clone(fallbackRecommendations)
	}

	prompt := buildRecommendationPrompt(posts, metricsByPost)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.generator.GenerateText(genCtx, prompt)
	if err != nil {
		log.Errorf("Ошибка генерации рекомендаций, используем резервный набор: %v", err)
		return slices.Clone(fallbackRecommendations)
	}

	if recommendations := parseRecommendationsJSON(answer); len(recommendations) > 0 {
		return truncateStrings(recommendations, maxRecommendations)
	}
	if recommendations := parseBulletLines(answer); len(recommendations) > 0 {
		return truncateStrings(recommendations, maxRecommendations)
	}

	return slices.Clone(fallbackRecommendations)
}

// Strategize всегда работает по правилам, без внешнего генератора
func (s *RecommendationSynthesizer) Strategize(hashtags, keywords, topics []entity.ContentPattern) []string {
	suggestions := make([]string, 0, maxStrategySuggestions)

	if len(hashtags) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Хэштег %s показывает лучшую вовлечённость — используйте его в новых постах", hashtags[0].Value))
	}
	if len(keywords) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Слово «%s» хорошо работает в ваших текстах — стройте вокруг него заголовки", keywords[0].Value))
	}
	if len(topics) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Тема «%s» вовлекает аудиторию сильнее остальных — публикуйте по ней чаще", topics[0].Value))
	}
	suggestions = append(suggestions,
		"Поддерживайте баланс контента: продающие, вовлекающие и обучающие посты в равных долях")

	return truncateStrings(suggestions, maxStrategySuggestions)
}

// buildRecommendationPrompt собирает компактный промпт из пяти лучших постов
// с обрезанным текстом и их вовлечённостью
func buildRecommendationPrompt(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) string {
	type rankedPost struct {
		text       string
		engagement float64
	}

	ranked := make([]rankedPost, 0, len(posts))
	for _, post := range posts {
		metrics, ok := metricsByPost[post.ID]
		if !ok {
			continue
		}
		text := post.Text
		if runes := []rune(text); len(runes) > promptTextLimit {
			text = string(runes[:promptTextLimit])
		}
		ranked = append(ranked, rankedPost{text: text, engagement: metrics.EngagementRate})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].engagement > ranked[j].engagement
	})
	if len(ranked) > promptPostLimit {
		ranked = ranked[:promptPostLimit]
	}

	var b strings.Builder
	b.WriteString("Ты — аналитик контента для соцсетей. Ниже лучшие посты бизнеса и их вовлечённость.\n")
	for i, post := range ranked {
		b.WriteString(fmt.Sprintf("%d. (ER %.2f) %s\n", i+1, post.engagement, post.text))
	}
	b.WriteString("Дай 4 короткие рекомендации по улучшению контента. ")
	b.WriteString(`Ответь строго JSON-объектом вида {"recommendations": ["..."]}.`)
	return b.String()
}

func parseRecommendationsJSON(answer string) []string {
	var parsed struct {
		Recommendations []string `json:"recommendations"`
	}

	trimmed := strings.TrimSpace(answer)
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		// Модели любят оборачивать JSON в пояснения — пробуем вырезать объект
		start := strings.Index(trimmed, "{")
		end := strings.LastIndex(trimmed, "}")
		if start == -1 || end <= start {
			return nil
		}
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &parsed); err != nil {
			return nil
		}
	}

	recommendations := make([]string, 0, len(parsed.Recommendations))
	for _, r := range parsed.Recommendations {
		if r = strings.TrimSpace(r); r != "" {
			recommendations = append(recommendations, r)
		}
	}
	return recommendations
}

func parseBulletLines(answer string) []string {
	var recommendations []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, prefix) {
				if item := strings.TrimSpace(strings.TrimPrefix(line, prefix)); item != "" {
					recommendations = append(recommendations, item)
				}
				break
			}
		}
	}
	return recommendations
}

func truncateStrings(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
