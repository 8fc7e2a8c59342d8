package repo

import (
	"errors"
	"pulse-backend/internal/entity"
	"time"
)

type Post interface {
	// GetPublishedPosts возвращает опубликованные посты бизнеса за период (не более limit штук)
	GetPublishedPosts(businessID int, start, end time.Time, limit int) ([]*entity.Post, error)
	// GetPost возвращает пост по ID
	GetPost(postID int) (*entity.Post, error)
	// GetPostsByIDs возвращает посты по списку ID, сохраняя порядок входного списка
	GetPostsByIDs(postIDs []int) ([]*entity.Post, error)
}

var (
	ErrPostNotFound = errors.New("post not found")
)
