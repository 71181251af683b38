package publishers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPChannel is the subset of *amqp.Channel used for publishing.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQPublisher struct {
	conn      *amqp.Connection
	mu        sync.Mutex // amqp channels are not safe for concurrent publishing
	ch        AMQPChannel
	queueName string
	timeout   time.Duration
	logger    logrus.FieldLogger
}

func NewRabbitMQPublisher(cfg *models.Config, logger logrus.FieldLogger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.RabbitMQQueue, err)
	}
	logger.WithField("queue", cfg.RabbitMQQueue).Info("RabbitMQ publisher connected")

	p := NewRabbitMQPublisherWithChannel(ch, cfg.RabbitMQQueue, cfg.PublishTimeout, logger)
	p.conn = conn
	return p, nil
}

func NewRabbitMQPublisherWithChannel(ch AMQPChannel, queueName string, timeout time.Duration, logger logrus.FieldLogger) *RabbitMQPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RabbitMQPublisher{ch: ch, queueName: queueName, timeout: timeout, logger: logger}
}

func (p *RabbitMQPublisher) PublishOrder(ctx context.Context, order *models.Order) error {
	body, err := encodeOrder(order)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    order.ID,
			Type:         EventOrderPlaced,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.OrderNumber, err)
	}

	p.logger.WithField("order_number", order.OrderNumber).Debug("published order to queue")
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
