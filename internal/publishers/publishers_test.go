package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/foodcart/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

func testOrder() *models.Order {
	return &models.Order{
		ID:           "ord-1",
		OrderNumber:  "#123456",
		RestaurantID: "r1",
		Items:        []string{"m1", "m2"},
		TotalAmount:  21.5,
		Status:       models.OrderStatusPlaced,
	}
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func checkEvent(body []byte) error {
	var event OrderPlacedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.EventType != EventOrderPlaced || event.OrderNumber != "#123456" || len(event.Items) != 2 || event.TotalAmount != 21.5 {
		return fmt.Errorf("unexpected event %+v", event)
	}
	return nil
}

func TestSaramaPublisher(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(checkEvent)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaPublisherWithProducer(producer, "orders", quietLogger())
	if err := p.PublishOrder(context.Background(), testOrder()); err != nil {
		t.Fatalf("PublishOrder() = %v", err)
	}
	if err := p.PublishOrder(context.Background(), testOrder()); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("PublishOrder() = %v, want ErrOutOfBrokers", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewRabbitMQPublisherWithChannel(ch, "orders", time.Second, quietLogger())

	if err := p.PublishOrder(context.Background(), testOrder()); err != nil {
		t.Fatalf("PublishOrder() = %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "orders" {
		t.Fatalf("published = %+v to %v", ch.published, ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.MessageId != "ord-1" {
		t.Fatalf("message = %+v", msg)
	}
	if err := checkEvent(msg.Body); err != nil {
		t.Fatal(err)
	}

	ch.err = amqp.ErrClosed
	if err := p.PublishOrder(context.Background(), testOrder()); !errors.Is(err, amqp.ErrClosed) {
		t.Fatalf("PublishOrder() = %v, want ErrClosed", err)
	}
	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("Close() = %v, closed = %v", err, ch.closed)
	}
}

func TestNewSelectsPublisher(t *testing.T) {
	p, err := New(&models.Config{Publisher: models.PublisherNone}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(Noop); !ok {
		t.Fatalf("New(none) = %T", p)
	}
	if _, err := New(&models.Config{Publisher: "carrier-pigeon"}, quietLogger()); err == nil {
		t.Fatal("expected an error for an unknown publisher")
	}
}
