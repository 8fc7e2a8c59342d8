package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MetricsMap содержит закрытый набор числовых метрик поста. Лишние поля,
// которые может вернуть внешний источник, игнорируются при декодировании.
type MetricsMap struct {
	Likes          float64 `json:"likes"`
	Comments       float64 `json:"comments"`
	Shares         float64 `json:"shares"`
	Reach          float64 `json:"reach"`
	Impressions    float64 `json:"impressions"`
	EngagementRate float64 `json:"engagement_rate"`
	ClickThroughs  float64 `json:"click_throughs"`
	Saves          float64 `json:"saves"`
}

// TotalEngagement возвращает суммарную вовлечённость: лайки + комментарии + репосты
func (m *MetricsMap) TotalEngagement() float64 {
	return m.Likes + m.Comments + m.Shares
}

func (m MetricsMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MetricsMap) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = MetricsMap{}
		return nil
	}
	return fmt.Errorf("неподдерживаемый тип для MetricsMap: %T", src)
}

// PostMetrics — срез метрик по посту на момент сбора. Записи не изменяются:
// повторный сбор создаёт новую запись
type PostMetrics struct {
	ID             int        `json:"id" db:"id"`
	PostID         int        `json:"post_id" db:"post_id"`
	BusinessID     int        `json:"business_id" db:"business_id"`
	Platform       string     `json:"platform" db:"platform"`
	PlatformPostID string     `json:"platform_post_id" db:"platform_post_id"`
	Metrics        MetricsMap `json:"metrics" db:"metrics"`
	CollectedAt    time.Time  `json:"collected_at" db:"collected_at"`
	AnalysisPeriod string     `json:"analysis_period" db:"analysis_period"`
}

type GetPostMetricsRequest struct {
	UserID     int `query:"-"`
	BusinessID int `query:"business_id"`
	PostID     int `query:"post_id"`
}
