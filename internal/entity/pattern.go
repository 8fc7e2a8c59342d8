package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type PatternType string

const (
	PatternHashtag       PatternType = "hashtag"
	PatternKeyword       PatternType = "keyword"
	PatternContentLength PatternType = "content_length"
	PatternPostingTime   PatternType = "posting_time"
	PatternTopic         PatternType = "topic"
)

// ContentPattern — одна найденная закономерность контента. Паттерны не
// хранятся отдельно, только внутри PerformanceInsights
type ContentPattern struct {
	Type             PatternType `json:"pattern_type"`
	Value            string      `json:"pattern_value"`
	PerformanceScore float64     `json:"performance_score"`
	Frequency        int         `json:"frequency"`
	AvgEngagement    float64     `json:"avg_engagement"`
	SamplePosts      []int       `json:"sample_posts"`
}

type PatternList []ContentPattern

func (p PatternList) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PatternList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	}
	return fmt.Errorf("неподдерживаемый тип для PatternList: %T", src)
}
