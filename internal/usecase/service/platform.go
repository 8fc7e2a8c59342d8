package service

import (
	"slices"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/usecase"
)

// Platform привязывает внешние платформы к бизнесу. Пока поддерживается
// только VK; обмен кода авторизации на токен — забота delivery-слоя
type Platform struct {
	businessRepo repo.Business
}

func NewPlatform(businessRepo repo.Business) usecase.Platform {
	return &Platform{
		businessRepo: businessRepo,
	}
}

func (p *Platform) LinkVKGroup(request *entity.SetVKCredsRequest) error {
	roles, err := p.businessRepo.GetBusinessUserRoles(request.BusinessID, request.UserID)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, repo.AdminRole) {
		return usecase.ErrUserForbidden
	}

	return p.businessRepo.PutVKCreds(request.BusinessID, &entity.VKCreds{
		GroupID:     request.GroupID,
		AccessToken: request.AccessToken,
	})
}
