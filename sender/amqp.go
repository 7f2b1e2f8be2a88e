package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/logger"
)

const (
	MessageTypeAlert     = "alert"
	MessageTypeHeartbeat = "heartbeat"
)

// publisher is the part of *amqp.Channel the sender uses.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSender publishes JSON documents to a queue.
type AMQPSender struct {
	conn  *amqp.Connection
	ch    publisher
	queue string
	log   logger.Logger
}

func NewAMQPSender(url, queue string, lg logger.Logger) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to the broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "opening a channel")
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "declaring queue %s", queue)
	}
	lg.Debug(fmt.Sprintf("%s queue declared", q.Name))
	return &AMQPSender{conn: conn, ch: ch, queue: q.Name, log: lg}, nil
}

func (s *AMQPSender) SendAlert(ctx context.Context, a *alert.Alert) error {
	return s.publish(ctx, MessageTypeAlert, a)
}

func (s *AMQPSender) SendHeartbeat(ctx context.Context, hb *alert.Heartbeat) error {
	return s.publish(ctx, MessageTypeHeartbeat, hb)
}

func (s *AMQPSender) publish(ctx context.Context, msgType string, body interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}
	err = s.ch.Publish(
		"",      // default exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Headers:      amqp.Table{"type": msgType},
			Body:         data,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "publishing %s to %s", msgType, s.queue)
	}
	s.log.Debug(fmt.Sprintf("%s published to %s", msgType, s.queue))
	return nil
}

func (s *AMQPSender) Close() error {
	err := s.ch.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
