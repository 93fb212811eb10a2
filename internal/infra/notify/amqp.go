package notify

import (
	"context"
	"encoding/json"

	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDispatcher publishes notifications to a topic exchange, with the
// notification topic as the routing key.
type AMQPDispatcher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPDispatcher(url, exchange string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "failed to dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to declare exchange")
	}
	return &AMQPDispatcher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, n commands.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification")
	}
	return d.ch.PublishWithContext(ctx, d.exchange, n.Topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (d *AMQPDispatcher) Close() error {
	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
