// Package rabbitmq adapta el bus de autenticación y las notificaciones de invitación a RabbitMQ.
package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Colas durables del servicio.
const (
	QueueSignedIn           = "auth.signed_in"
	QueueInviteNotification = "invite.notifications"
)

// Client conexión con un canal para publicar. Cada consumidor abre su propio canal.
type Client struct {
	conn *amqp.Connection
	mu   sync.Mutex // amqp.Channel no admite publicaciones concurrentes
	pub  *amqp.Channel
}

// NewClient abre la conexión y el canal de publicación, y declara las colas.
func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	c := &Client{conn: conn, pub: ch}
	for _, q := range []string{QueueSignedIn, QueueInviteNotification} {
		if err := declare(ch, q); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: declarar cola %s: %w", queue, err)
	}
	return nil
}

// Publish envía body como mensaje persistente a la cola (exchange por defecto).
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pub.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key = nombre de la cola
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// consume abre un canal dedicado con ack manual.
func (c *Client) consume(queue string, prefetch int) (*amqp.Channel, <-chan amqp.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq: qos: %w", err)
	}
	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq: consumir %s: %w", queue, err)
	}
	return ch, msgs, nil
}

// Close cierra el canal de publicación y la conexión.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pub != nil {
		_ = c.pub.Close()
	}
	return c.conn.Close()
}

// outcome decisión sobre una entrega ya procesada.
type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

// settle decide el destino de la entrega: las fallas de procesamiento se reencolan una vez;
// una entrega ya reenviada que vuelve a fallar, o un cuerpo ilegible, se descarta.
func settle(err error, decodeFailed, redelivered bool) outcome {
	switch {
	case err == nil:
		return ack
	case decodeFailed || redelivered:
		return drop
	default:
		return requeue
	}
}

func apply(d amqp.Delivery, o outcome) {
	switch o {
	case ack:
		_ = d.Ack(false)
	case requeue:
		_ = d.Nack(false, true)
	default:
		_ = d.Nack(false, false)
	}
}
