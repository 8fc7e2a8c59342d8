package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"

	"pulse-backend/internal/entity"
	"pulse-backend/internal/repo"
)

const (
	NumPartitions = 3
)

// TopicConfig содержит настройки для создания топика
type TopicConfig struct {
	NumPartitions     int
	ReplicationFactor int
}

type AnalysisEventKafkaRepository struct {
	writer      *kafka.Writer
	brokers     []string
	topicConfig TopicConfig
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(ctx context.Context, brokers []string, topic string, config TopicConfig) error {
	// Подключаемся к любому из брокеров
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Проверяем, существует ли уже топик
	topicExists, err := checkIfTopicExists(conn, topic)
	if err != nil {
		return err
	}
	if topicExists {
		return nil
	}

	// Создаем топик
	controller, err := conn.Controller()
	if err != nil {
		return err
	}

	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

// checkIfTopicExists проверяет, существует ли топик
func checkIfTopicExists(conn *kafka.Conn, topic string) (bool, error) {
	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		if errors.Is(err, kafka.UnknownTopicOrPartition) {
			return false, nil
		}
		return false, err
	}
	return len(partitions) > 0, nil
}

// getMaxReplicationFactor определяет максимально возможный фактор репликации
// на основе количества доступных брокеров
func getMaxReplicationFactor(ctx context.Context, brokers []string, desiredFactor int) (int, error) {
	if len(brokers) == 0 {
		return 1, errors.New("пустой список брокеров")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		actualFactor := min(len(brokers), desiredFactor)
		return actualFactor, fmt.Errorf("не удалось подключиться к брокеру для получения метаданных, используем безопасное значение %d: %w", actualFactor, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		actualFactor := min(len(brokers), desiredFactor)
		return actualFactor, fmt.Errorf("ошибка установки таймаута чтения: %w", err)
	}

	brokerMetadata, err := conn.Brokers()
	if err != nil {
		actualFactor := min(len(brokers), desiredFactor)
		return actualFactor, fmt.Errorf("ошибка получения метаданных о брокерах, используем безопасное значение %d: %w", actualFactor, err)
	}

	availableBrokers := len(brokerMetadata)
	if availableBrokers == 0 {
		actualFactor := min(len(brokers), desiredFactor)
		return actualFactor, fmt.Errorf("получен пустой список брокеров из метаданных, используем безопасное значение %d", actualFactor)
	}

	// Не можем реплицировать больше, чем у нас есть брокеров
	return min(availableBrokers, desiredFactor), nil
}

func NewAnalysisEventKafkaRepository(brokers []string) (repo.AnalysisEventRepository, error) {
	if len(brokers) == 0 {
		return nil, errors.New("не предоставлены брокеры Kafka")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// В идеале хотим фактор репликации 3 для надежности
	actualReplicationFactor, err := getMaxReplicationFactor(ctx, brokers, 3)
	if err != nil {
		return nil, fmt.Errorf("ошибка при определении фактора репликации: %w", err)
	}

	topicConfig := TopicConfig{
		NumPartitions:     NumPartitions,
		ReplicationFactor: actualReplicationFactor,
	}

	baseTopicName := "analysis-events"
	if err := createTopicIfNotExists(ctx, brokers, baseTopicName, topicConfig); err != nil {
		return nil, fmt.Errorf("ошибка при создании базового топика: %w", err)
	}

	return &AnalysisEventKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    baseTopicName,
			Balancer: &kafka.LeastBytes{},
		},
		brokers:     brokers,
		topicConfig: topicConfig,
	}, nil
}

func (r *AnalysisEventKafkaRepository) PublishAnalysisEvent(ctx context.Context, event *entity.AnalysisEvent) error {
	// сериализация события
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}

	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.BusinessID)),
		Value: b,
	})
}
