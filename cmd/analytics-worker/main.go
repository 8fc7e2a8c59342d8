package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"pulse-backend/internal/repo/cockroach"
	"pulse-backend/internal/usecase"
	"pulse-backend/internal/usecase/service"
	"pulse-backend/pkg/connector"
	"pulse-backend/pkg/goosehelper"
)

func init() {
	// Загружаем переменные окружения
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
	// Получаем *sql.DB из *sqlx.DB
	sqldb := DBConn.DB
	migrationsDir := "./cockroachdb/migrations"
	goosehelper.MigrateUp(sqldb, migrationsDir)
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	// Настройка контекста для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	// Получаем переменные окружения
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	workerID := os.Getenv("ANALYTICS_WORKER_ID")
	workerIntervalStr := os.Getenv("ANALYTICS_WORKER_INTERVAL")
	mlServiceURL := os.Getenv("ML_SERVICE_URL")

	if dbConnectDSN == "" {
		log.Fatal("DB_CONNECT_DSN переменная окружения обязательна")
	}

	if workerID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			workerID = fmt.Sprintf("analytics-worker-%d", time.Now().Unix())
		} else {
			workerID = fmt.Sprintf("analytics-worker-%s-%d", hostname, time.Now().Unix())
		}
	}

	// Парсим интервал обхода (по умолчанию 1 час)
	workerInterval := 1 * time.Hour
	if workerIntervalStr != "" {
		if parsedInterval, err := time.ParseDuration(workerIntervalStr); err == nil {
			workerInterval = parsedInterval
		} else {
			log.Warnf("Неверный формат ANALYTICS_WORKER_INTERVAL: %s, используется 1h", workerIntervalStr)
		}
	}

	simulatorSeed := int64(42)
	if seedStr := os.Getenv("SIMULATOR_SEED"); seedStr != "" {
		if parsed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			simulatorSeed = parsed
		}
	}

	log.Infof("Запуск воркера планового анализа с ID: %s, интервал: %s", workerID, workerInterval)

	// Подключение к базе данных
	dbConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Инициализация репозиториев
	businessRepo := cockroach.NewBusiness(dbConn)
	postRepo := cockroach.NewPost(dbConn)
	analyticsRepo := cockroach.NewAnalytics(dbConn)

	// Плановый воркер работает без реальных платформенных источников:
	// метрики, которые не удалось снять в gateway, добирает симулятор
	simulator := service.NewSimulatedMetrics(simulatorSeed)
	collector := service.NewMetricsCollector(postRepo, analyticsRepo, map[string]usecase.MetricsSource{}, simulator)

	var generator usecase.TextGenerator
	if mlServiceURL != "" {
		generator = service.NewMLTextGenerator(mlServiceURL)
	}
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
		nil,
	)

	// Создание и запуск воркера
	analyticsWorker := service.NewAnalyticsWorker(analyticsUseCase, workerID, workerInterval)

	log.Info("Воркер планового анализа запущен")
	analyticsWorker.Start(ctx)
	log.Info("Воркер планового анализа остановлен")
}
