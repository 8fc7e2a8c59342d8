package entity

import "time"

type AnalysisEventType string

const (
	AnalysisCompleted AnalysisEventType = "completed"
)

type AnalysisEvent struct {
	EventID       string            `json:"-" msgpack:"event_id"`
	BusinessID    int               `json:"-" msgpack:"business_id"`
	InsightsID    int               `json:"insights_id" msgpack:"insights_id"`
	Type          AnalysisEventType `json:"type" msgpack:"type"`
	PostsAnalyzed int               `json:"posts_analyzed" msgpack:"posts_analyzed"`
	OccurredAt    time.Time         `json:"-" msgpack:"occurred_at"`
}
