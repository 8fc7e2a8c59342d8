package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	delivery "pulse-backend/internal/delivery/http"
	"pulse-backend/internal/delivery/http/utils"
	"pulse-backend/internal/repo"
	"pulse-backend/internal/repo/cockroach"
	"pulse-backend/internal/repo/kafka"
	"pulse-backend/internal/usecase"
	"pulse-backend/internal/usecase/service"
	"pulse-backend/internal/usecase/service/telegram"
	"pulse-backend/internal/usecase/service/vkontakte"
	"pulse-backend/pkg/connector"
	"pulse-backend/pkg/goosehelper"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	goosehelper.MigrateUp(DBConn.DB, "./cockroachdb/migrations")
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	jwtSecret := os.Getenv("JWT_SECRET")
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	mlServiceURL := os.Getenv("ML_SERVICE_URL")
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	vkClientID := os.Getenv("VK_CLIENT_ID")
	vkClientSecret := os.Getenv("VK_CLIENT_SECRET")
	vkRedirectURL := os.Getenv("VK_REDIRECT_URL")

	// Сид симулятора метрик: фиксированный сид даёт воспроизводимые данные
	simulatorSeed := int64(42)
	if seedStr := os.Getenv("SIMULATOR_SEED"); seedStr != "" {
		if parsed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			simulatorSeed = parsed
		} else {
			log.Warnf("Неверный формат SIMULATOR_SEED: %s, используется %d", seedStr, simulatorSeed)
		}
	}

	// cockroach
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		err := DBConn.Close()
		if err != nil {
			log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// запускаем сервисы репозиториев (подключение к базе данных)
	postRepo := cockroach.NewPost(DBConn)
	analyticsRepo := cockroach.NewAnalytics(DBConn)
	businessRepo := cockroach.NewBusiness(DBConn)

	// запускаем сервисы usecase (бизнес-логика)
	simulator := service.NewSimulatedMetrics(simulatorSeed)
	sources := map[string]usecase.MetricsSource{}
	if telegramBotToken != "" {
		telegramMetrics, err := telegram.NewTelegramMetrics(telegramBotToken, businessRepo)
		if err != nil {
			log.Fatalf("Ошибка при создании источника метрик Telegram: %v", err)
		}
		sources["telegram"] = telegramMetrics
	}
	sources["vkontakte"] = vkontakte.NewVkontakteMetrics(businessRepo)

	var generator usecase.TextGenerator
	if mlServiceURL != "" {
		generator = service.NewMLTextGenerator(mlServiceURL)
	} else {
		log.Info("ML_SERVICE_URL не задан, рекомендации строятся по шаблонам")
	}

	collector := service.NewMetricsCollector(postRepo, analyticsRepo, sources, simulator)
	synthesizer := service.NewRecommendationSynthesizer(generator)
	assembler := service.NewInsightAssembler(postRepo, analyticsRepo, synthesizer)
	reportBuilder := service.NewReportBuilder(analyticsRepo)

	analyticsUseCase := service.NewAnalytics(
		businessRepo,
		postRepo,
		analyticsRepo,
		collector,
		assembler,
		reportBuilder,
		newAnalysisEventRepo(kafkaBrokers),
	)
	platformUseCase := service.NewPlatform(businessRepo)

	// запускаем сервисы delivery (обработка запросов)
	authManager := utils.NewAuthManager([]byte(jwtSecret), time.Hour*24*365)
	vkOAuth := utils.NewVKOAuth(vkClientID, vkClientSecret, vkRedirectURL)
	analyticsDelivery := delivery.NewAnalytics(analyticsUseCase, authManager)
	platformDelivery := delivery.NewPlatform(platformUseCase, authManager, vkOAuth)

	// REST API
	echoServer := echo.New()

	// Не более 10 МБ
	echoServer.Use(middleware.BodyLimit("10M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())

	// CORS
	echoServer.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "localhost:3000")
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowMethods, strings.Join([]string{
				http.MethodGet,
				http.MethodPut,
				http.MethodPost,
				http.MethodDelete,
				http.MethodOptions,
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowHeaders, strings.Join([]string{
				echo.HeaderOrigin,
				echo.HeaderAccept,
				echo.HeaderXRequestedWith,
				echo.HeaderContentType,
				echo.HeaderAccessControlRequestMethod,
				echo.HeaderAccessControlRequestHeaders,
				echo.HeaderCookie,
				"X-Csrf",
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowCredentials, "true")
			ctx.Response().Header().Set(echo.HeaderAccessControlMaxAge, "86400")
			return next(ctx)
		}
	})

	// Endpoints
	api := echoServer.Group("/api")
	// analytics
	analytics := api.Group("/analytics")
	analyticsDelivery.Configure(analytics)
	// platforms
	platforms := api.Group("/platforms")
	platformDelivery.Configure(platforms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start("0.0.0.0:80"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}

// newAnalysisEventRepo создаёт kafka-публикатор, если заданы брокеры.
// Kafka опционален: без брокеров события анализа просто не публикуются
func newAnalysisEventRepo(brokers string) repo.AnalysisEventRepository {
	if brokers == "" {
		log.Info("KAFKA_BROKERS не задан, события анализа не публикуются")
		return nil
	}
	eventRepo, err := kafka.NewAnalysisEventKafkaRepository(strings.Split(brokers, ","))
	if err != nil {
		log.Errorf("Не удалось подключиться к Kafka, события анализа не публикуются: %v", err)
		return nil
	}
	return eventRepo
}
