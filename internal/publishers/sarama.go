package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/sirupsen/logrus"
)

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
}

func NewSaramaPublisher(config *models.Config, logger logrus.FieldLogger) (*SaramaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(config.KafkaBrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.WithField("brokers", brokerList).Info("Sarama producer created")
	return NewSaramaPublisherWithProducer(producer, config.KafkaTopic, logger), nil
}

func NewSaramaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *SaramaPublisher {
	return &SaramaPublisher{producer: producer, topic: topic, logger: logger}
}

// PublishOrder keys the message by restaurant so that one restaurant's
// orders stay on one partition.
func (s *SaramaPublisher) PublishOrder(_ context.Context, order *models.Order) error {
	if s.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}
	body, err := encodeOrder(order)
	if err != nil {
		return err
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(order.RestaurantID),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send order %s to topic %s: %w", order.OrderNumber, s.topic, err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"topic":        s.topic,
		"partition":    partition,
		"offset":       offset,
	}).Debug("published order")
	return nil
}

func (s *SaramaPublisher) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
