package repo

import (
	"errors"
	"pulse-backend/internal/entity"
)

const (
	AdminRole     = "admin"
	AnalyticsRole = "analytics"
)

type Business interface {
	// GetBusinessUserRoles возвращает роли пользователя в бизнесе
	GetBusinessUserRoles(businessID, userID int) ([]string, error)
	// GetBusinessUsers возвращает ID всех пользователей бизнеса
	GetBusinessUsers(businessID int) ([]int, error)
	// GetVKCreds возвращает привязанные к бизнесу VK-креды
	GetVKCreds(businessID int) (*entity.VKCreds, error)
	// PutVKCreds привязывает VK-креды к бизнесу
	PutVKCreds(businessID int, creds *entity.VKCreds) error
	// GetTGChannel возвращает привязанный к бизнесу телеграм-канал
	GetTGChannel(businessID int) (*entity.TGChannel, error)
}

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrVKCredsNotFound  = errors.New("vk creds not found")
	ErrChannelNotFound  = errors.New("tg channel not found")
)
