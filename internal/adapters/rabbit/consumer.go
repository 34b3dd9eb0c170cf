package rabbit

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReservationEvents matches every reservation.* routing key.
const ReservationEvents = "reservation.*"

type Consumer struct {
	ch    *amqp.Channel
	queue string
}

// NewConsumer declares a durable queue bound to the reservation events on
// the shared exchange.
func NewConsumer(conn *amqp.Connection, queue string, prefetch int) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	c := &Consumer{ch: ch, queue: queue}
	if err := c.declare(prefetch); err != nil {
		ch.Close()
		return nil, err
	}
	return c, nil
}

func (c *Consumer) declare(prefetch int) error {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(c.queue, ReservationEvents, Exchange, false, nil)
}

// Consume starts manual-ack delivery. The channel closes when ctx is done or
// the broker connection drops.
func (c *Consumer) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	return c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
}

func (c *Consumer) Close() error {
	return c.ch.Close()
}
