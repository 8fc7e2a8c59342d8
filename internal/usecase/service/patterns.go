package service

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"pulse-backend/internal/entity"
)

const (
	maxSamplePosts = 3

	hashtagMinFrequency  = 2
	hashtagNormalization = 10.0
	keywordNormalization = 8.0
	lengthNormalization  = 10.0
	topicNormalization   = 8.0
)

var hashtagPattern = regexp.MustCompile(`#[\p{L}\d_]+`)

// keywordVocabulary — фиксированный словарь продающих и вовлекающих слов,
// по которым ищутся закономерности в тексте постов
var keywordVocabulary = []string{
	"скидка", "акция", "распродажа", "промокод", "бесплатно",
	"новинка", "конкурс", "розыгрыш", "подарок", "советы",
	"гайд", "обзор", "инструкция", "лайфхак",
}

// topicTaxonomy — фиксированная таксономия тем. Пост участвует в теме с весом,
// равным числу совпавших ключевых слов
var topicTaxonomy = []struct {
	Name     string
	Keywords []string
}{
	{"продажи", []string{"скидка", "акция", "распродажа", "промокод", "цена"}},
	{"вовлечение", []string{"конкурс", "розыгрыш", "опрос", "вопрос", "приз"}},
	{"образование", []string{"гайд", "советы", "инструкция", "обзор", "лайфхак"}},
	{"бренд", []string{"команда", "закулисье", "история", "миссия", "новости"}},
}

var contentLengthBuckets = []struct {
	Label string
	Min   int
	Max   int
}{
	{"0-50_chars", 0, 50},
	{"51-100_chars", 51, 100},
	{"101-150_chars", 101, 150},
	{"151-200_chars", 151, 200},
	{"200+_chars", 201, math.MaxInt},
}

// DefaultContentLengthBucket используется, когда постов с метриками нет
const DefaultContentLengthBucket = "101-150_chars"

// defaultPostingTimes — статическая таблица временных окон. Реального
// бакетирования published_at по часам пока нет, см. ExtractPostingTimePatterns
var defaultPostingTimes = []struct {
	Window string
	Score  float64
}{
	{"evening_18-20", 0.90},
	{"midday_12-14", 0.85},
	{"morning_9-11", 0.75},
}

func clampScore(avgEngagement, normalization float64) float64 {
	score := avgEngagement / normalization
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

type patternAgg struct {
	engagement float64
	weight     float64
	frequency  int
	samples    []int
}

func (a *patternAgg) add(postID int, engagement, weight float64) {
	a.engagement += engagement * weight
	a.weight += weight
	a.frequency++
	if len(a.samples) < maxSamplePosts {
		a.samples = append(a.samples, postID)
	}
}

func (a *patternAgg) avgEngagement() float64 {
	if a.weight == 0 {
		return 0
	}
	return a.engagement / a.weight
}

// sortPatterns сортирует по убыванию оценки; при равных оценках сохраняется
// порядок первого появления — от этого зависит детерминизм анализа
func sortPatterns(patterns []entity.ContentPattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].PerformanceScore > patterns[j].PerformanceScore
	})
}

// ExtractHashtagPatterns находит хэштеги вида #слово (без учёта регистра).
// Частота считается по числу постов, в которых тег встретился хотя бы раз;
// теги, встретившиеся меньше чем в двух постах, отбрасываются
func ExtractHashtagPatterns(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) []entity.ContentPattern {
	stats := make(map[string]*patternAgg)
	var order []string

	for _, post := range posts {
		metrics, ok := metricsByPost[post.ID]
		if !ok {
			// Посты без метрик не считаются нулевыми, а просто не участвуют
			continue
		}
		seen := make(map[string]bool)
		for _, raw := range hashtagPattern.FindAllString(post.Text, -1) {
			tag := strings.ToLower(raw)
			if seen[tag] {
				continue
			}
			seen[tag] = true
			agg, ok := stats[tag]
			if !ok {
				agg = &patternAgg{}
				stats[tag] = agg
				order = append(order, tag)
			}
			agg.add(post.ID, metrics.EngagementRate, 1)
		}
	}

	patterns := make([]entity.ContentPattern, 0, len(order))
	for _, tag := range order {
		agg := stats[tag]
		if agg.frequency < hashtagMinFrequency {
			continue
		}
		avg := agg.avgEngagement()
		patterns = append(patterns, entity.ContentPattern{
			Type:             entity.PatternHashtag,
			Value:            tag,
			PerformanceScore: clampScore(avg, hashtagNormalization),
			Frequency:        agg.frequency,
			AvgEngagement:    avg,
			SamplePosts:      agg.samples,
		})
	}
	sortPatterns(patterns)
	return patterns
}

// ExtractKeywordPatterns ищет слова фиксированного словаря как подстроки
// текста без учёта регистра. Порога повторяемости нет: достаточно одного поста
func ExtractKeywordPatterns(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) []entity.ContentPattern {
	patterns := make([]entity.ContentPattern, 0, len(keywordVocabulary))

	for _, keyword := range keywordVocabulary {
		agg := &patternAgg{}
		for _, post := range posts {
			metrics, ok := metricsByPost[post.ID]
			if !ok {
				continue
			}
			if !strings.Contains(strings.ToLower(post.Text), keyword) {
				continue
			}
			agg.add(post.ID, metrics.EngagementRate, 1)
		}
		if agg.frequency < 1 {
			continue
		}
		avg := agg.avgEngagement()
		patterns = append(patterns, entity.ContentPattern{
			Type:             entity.PatternKeyword,
			Value:            keyword,
			PerformanceScore: clampScore(avg, keywordNormalization),
			Frequency:        agg.frequency,
			AvgEngagement:    avg,
			SamplePosts:      agg.samples,
		})
	}
	sortPatterns(patterns)
	return patterns
}

// ExtractContentLengthPattern раскладывает посты по пяти корзинам длины текста
// и возвращает ровно один паттерн — корзину с наибольшей средней
// вовлечённостью. Без данных возвращается корзина по умолчанию
func ExtractContentLengthPattern(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) entity.ContentPattern {
	aggs := make([]*patternAgg, len(contentLengthBuckets))
	for i := range aggs {
		aggs[i] = &patternAgg{}
	}

	for _, post := range posts {
		metrics, ok := metricsByPost[post.ID]
		if !ok {
			continue
		}
		length := utf8.RuneCountInString(post.Text)
		for i, bucket := range contentLengthBuckets {
			if length >= bucket.Min && length <= bucket.Max {
				aggs[i].add(post.ID, metrics.EngagementRate, 1)
				break
			}
		}
	}

	best := -1
	bestAvg := 0.0
	for i, agg := range aggs {
		if agg.frequency == 0 {
			continue
		}
		if avg := agg.avgEngagement(); best == -1 || avg > bestAvg {
			best = i
			bestAvg = avg
		}
	}

	if best == -1 {
		return entity.ContentPattern{
			Type:      entity.PatternContentLength,
			Value:     DefaultContentLengthBucket,
			Frequency: 0,
		}
	}

	return entity.ContentPattern{
		Type:             entity.PatternContentLength,
		Value:            contentLengthBuckets[best].Label,
		PerformanceScore: clampScore(bestAvg, lengthNormalization),
		Frequency:        aggs[best].frequency,
		AvgEngagement:    bestAvg,
		SamplePosts:      aggs[best].samples,
	}
}

// ExtractPostingTimePatterns возвращает фиксированный набор временных окон со
// статическими оценками. Пока нет почасовой инструментовки published_at,
// контракт остаётся прежним: ранжированный список именованных окон
func ExtractPostingTimePatterns(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) []entity.ContentPattern {
	patterns := make([]entity.ContentPattern, 0, len(defaultPostingTimes))
	for _, window := range defaultPostingTimes {
		patterns = append(patterns, entity.ContentPattern{
			Type:             entity.PatternPostingTime,
			Value:            window.Window,
			PerformanceScore: window.Score,
			Frequency:        0,
			AvgEngagement:    window.Score * 10,
		})
	}
	sortPatterns(patterns)
	return patterns
}

// ExtractTopicPatterns сопоставляет посты темам фиксированной таксономии.
// Пост входит в тему с весом, равным числу совпавших ключевых слов, поэтому
// один пост может участвовать в нескольких темах с разными весами
func ExtractTopicPatterns(posts []*entity.Post, metricsByPost map[int]*entity.MetricsMap) []entity.ContentPattern {
	patterns := make([]entity.ContentPattern, 0, len(topicTaxonomy))

	for _, topic := range topicTaxonomy {
		agg := &patternAgg{}
		for _, post := range posts {
			metrics, ok := metricsByPost[post.ID]
			if !ok {
				continue
			}
			text := strings.ToLower(post.Text)
			matched := 0
			for _, keyword := range topic.Keywords {
				if strings.Contains(text, keyword) {
					matched++
				}
			}
			if matched == 0 {
				continue
			}
			agg.add(post.ID, metrics.EngagementRate, float64(matched))
		}
		if agg.frequency < 1 {
			continue
		}
		avg := agg.avgEngagement()
		patterns = append(patterns, entity.ContentPattern{
			Type:             entity.PatternTopic,
			Value:            topic.Name,
			PerformanceScore: clampScore(avg, topicNormalization),
			Frequency:        agg.frequency,
			AvgEngagement:    avg,
			SamplePosts:      agg.samples,
		})
	}
	sortPatterns(patterns)
	return patterns
}
