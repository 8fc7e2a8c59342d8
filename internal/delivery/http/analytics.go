package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pulse-backend/internal/delivery/http/utils"
	"pulse-backend/internal/entity"
	"pulse-backend/internal/usecase"
)

type Analytics struct {
	analyticsUseCase usecase.Analytics
	authManager      utils.Auth
}

func NewAnalytics(analyticsUseCase usecase.Analytics, authManager utils.Auth) *Analytics {
	return &Analytics{
		analyticsUseCase: analyticsUseCase,
		authManager:      authManager,
	}
}

func (a *Analytics) Configure(server *echo.Group) {
	server.POST("/run", a.RunAnalysis)
	server.GET("/insights", a.GetLatestInsights)
	server.GET("/report", a.BuildReport)
	server.GET("/metrics/post", a.GetPostMetrics)
}

func (a *Analytics) RunAnalysis(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	request := &entity.RunAnalysisRequest{}
	err = utils.ReadJSON(c, request)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	response, err := a.analyticsUseCase.RunAnalysis(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "У вас нет прав для запуска анализа этого бизнеса",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, response)
}

func (a *Analytics) GetLatestInsights(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	request := &entity.GetInsightsRequest{}
	err = utils.ReadQuery(c, request)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	insights, err := a.analyticsUseCase.GetLatestInsights(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "У вас нет прав для просмотра аналитики этого бизнеса",
		})
	case errors.Is(err, usecase.ErrInsightsNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Анализ ещё не проводился",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, insights)
}

func (a *Analytics) BuildReport(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	request := &entity.BuildReportRequest{}
	err = utils.ReadQuery(c, request)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	report, err := a.analyticsUseCase.BuildReport(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "У вас нет прав для построения отчёта этого бизнеса",
		})
	case errors.Is(err, usecase.ErrInsightsNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Отчёт недоступен: анализ ещё не проводился",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, report)
}

func (a *Analytics) GetPostMetrics(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return err
	}

	request := &entity.GetPostMetricsRequest{}
	err = utils.ReadQuery(c, request)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	metrics, err := a.analyticsUseCase.GetPostMetrics(request)
	switch {
	case errors.Is(err, usecase.ErrUserForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "У вас нет прав для просмотра метрик этого поста",
		})
	case errors.Is(err, usecase.ErrMetricsNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Метрики по посту не найдены",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, metrics)
}
