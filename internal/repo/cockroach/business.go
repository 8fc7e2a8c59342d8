package cockroach

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

type Business struct {
	db *sqlx.DB
}

func NewBusiness(db *sqlx.DB) repo.Business {
	return &Business{db: db}
}

func (b *Business) GetBusinessUserRoles(businessID, userID int) ([]string, error) {
	query := `
        SELECT roles
        FROM business_user_role
        WHERE business_id = $1 AND user_id = $2
    `

	var roles []string
	err := b.db.QueryRow(query, businessID, userID).Scan(pq.Array(&roles))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Пользователь не состоит в бизнесе — ролей нет
			return nil, nil
		}
		return nil, err
	}

	return roles, nil
}

func (b *Business) GetBusinessUsers(businessID int) ([]int, error) {
	query := `
        SELECT user_id
        FROM business_user_role
        WHERE business_id = $1
    `

	var userIDs []int
	err := b.db.Select(&userIDs, query, businessID)
	if err != nil {
		return nil, err
	}

	return userIDs, nil
}

func (b *Business) GetVKCreds(businessID int) (*entity.VKCreds, error) {
	query := `
        SELECT group_id, access_token
        FROM business_vk
        WHERE business_id = $1
    `

	var creds entity.VKCreds
	err := b.db.Get(&creds, query, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrVKCredsNotFound
		}
		return nil, err
	}

	return &creds, nil
}

func (b *Business) PutVKCreds(businessID int, creds *entity.VKCreds) error {
	query := `
        INSERT INTO business_vk (business_id, group_id, access_token)
        VALUES ($1, $2, $3)
        ON CONFLICT (business_id) DO UPDATE SET group_id = $2, access_token = $3
    `

	_, err := b.db.Exec(query, businessID, creds.GroupID, creds.AccessToken)
	return err
}

func (b *Business) GetTGChannel(businessID int) (*entity.TGChannel, error) {
	query := `
        SELECT channel_id
        FROM business_tg_channel
        WHERE business_id = $1
    `

	var channel entity.TGChannel
	err := b.db.Get(&channel, query, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrChannelNotFound
		}
		return nil, err
	}

	return &channel, nil
}
