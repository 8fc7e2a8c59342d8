package usecase

import "pulse-backend/internal/entity"

type Platform interface {
	// LinkVKGroup привязывает группу VK и её токен доступа к бизнесу
	LinkVKGroup(request *entity.SetVKCredsRequest) error
}
