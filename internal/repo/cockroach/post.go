package cockroach

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

type PostDB struct {
	db *sqlx.DB
}

func NewPost(db *sqlx.DB) repo.Post {
	return &PostDB{db: db}
}

func (p *PostDB) GetPublishedPosts(businessID int, start, end time.Time, limit int) ([]*entity.Post, error) {
	query := `
        SELECT id, user_id, business_id, text, platform, platform_post_id, status, published_at, created_at
        FROM post
        WHERE business_id = $1 AND status = $2 AND published_at BETWEEN $3 AND $4
        ORDER BY published_at DESC
        LIMIT $5
    `

	var posts []*entity.Post
	err := p.db.Select(&posts, query, businessID, entity.PostStatusPosted, start, end, limit)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (p *PostDB) GetPost(postID int) (*entity.Post, error) {
	query := `
        SELECT id, user_id, business_id, text, platform, platform_post_id, status, published_at, created_at
        FROM post
        WHERE id = $1
    `

	var post entity.Post
	err := p.db.Get(&post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrPostNotFound
		}
		return nil, err
	}

	return &post, nil
}

func (p *PostDB) GetPostsByIDs(postIDs []int) ([]*entity.Post, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, user_id, business_id, text, platform, platform_post_id, status, published_at, created_at
        FROM post
        WHERE id = ANY($1)
    `

	var posts []*entity.Post
	err := p.db.Select(&posts, query, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}

	// Сохраняем порядок входного списка: от него зависит детерминизм анализа
	byID := make(map[int]*entity.Post, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
	}
	ordered := make([]*entity.Post, 0, len(posts))
	for _, id := range postIDs {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}

	return ordered, nil
}
