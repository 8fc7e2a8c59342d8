package entity

import "time"

const (
	// PostStatusPosted означает, что пост успешно опубликован на платформе
	PostStatusPosted = "posted"
	// PostStatusScheduled означает, что пост ждёт своей очереди на публикацию
	PostStatusScheduled = "scheduled"
	// PostStatusFailed означает, что публикация завершилась ошибкой
	PostStatusFailed = "failed"
)

type Post struct {
	ID             int        `json:"id" db:"id"`
	UserID         int        `json:"user_id" db:"user_id"`
	BusinessID     int        `json:"business_id" db:"business_id"`
	Text           string     `json:"text" db:"text"`
	Platform       string     `json:"platform" db:"platform"`
	PlatformPostID string     `json:"platform_post_id" db:"platform_post_id"`
	Status         string     `json:"status" db:"status"`
	PublishedAt    *time.Time `json:"published_at" db:"published_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
