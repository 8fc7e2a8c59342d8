package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pulse-backend/internal/delivery/http/utils"
	"pulse-backend/internal/entity"
	"pulse-backend/internal/usecase"
)

type Platform struct {
	platformUseCase usecase.Platform
	authManager     utils.Auth
	vkOAuth         *utils.VKOAuth
}

func NewPlatform(platformUseCase usecase.Platform, authManager utils.Auth, vkOAuth *utils.VKOAuth) *Platform {
	return &Platform{
		platformUseCase: platformUseCase,
		authManager:     authManager,
		vkOAuth:         vkOAuth,
	}
}

func (p *Platform) Configure(server *echo.Group) {
	server.GET("/vk/oauth", p.GetVKAuthURL)
	server.GET("/vk/oauth/callback", p.LinkVKGroup)
}

func (p *Platform) GetVKAuthURL(c echo.Context) error {
	_, err := p.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	state := c.QueryParam("business_id")
	return c.JSON(http.StatusOK, echo.Map{
		"auth_url": p.vkOAuth.GetAuthURL(state),
	})
}

func (p *Platform) LinkVKGroup(c echo.Context) error {
	userID, err := p.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	businessID, err := strconv.Atoi(c.QueryParam("state"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	groupID, err := strconv.Atoi(c.QueryParam("group_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	token, err := p.vkOAuth.Exchange(c.QueryParam("code"))
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Не удалось обменять код авторизации VK",
		})
	}

	request := &entity.SetVKCredsRequest{
		UserID:      userID,
		BusinessID:  businessID,
		GroupID:     groupID,
		AccessToken: token.AccessToken,
	}

	err = p.platformUseCase.LinkVKGroup(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Привязывать платформы может только администратор бизнеса",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
