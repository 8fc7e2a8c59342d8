package entity

import "time"

type Business struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type BusinessUserRole struct {
	BusinessID int      `json:"business_id" db:"business_id"`
	UserID     int      `json:"user_id" db:"user_id"`
	Roles      []string `json:"roles" db:"roles"`
}

type VKCreds struct {
	GroupID     int    `json:"group_id" db:"group_id"`
	AccessToken string `json:"-" db:"access_token"`
}

type TGChannel struct {
	ChannelID int64 `json:"channel_id" db:"channel_id"`
}

type SetVKCredsRequest struct {
	UserID      int    `json:"-"`
	BusinessID  int    `json:"business_id"`
	GroupID     int    `json:"group_id"`
	AccessToken string `json:"-"`
}
