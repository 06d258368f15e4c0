package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
)

// InviteNotifier encola el aviso de invitación; lo entrega NotificationWorker.
type InviteNotifier struct {
	client *Client
}

var _ access.Notifier = (*InviteNotifier)(nil)

// NewInviteNotifier construye el notificador.
func NewInviteNotifier(client *Client) *InviteNotifier {
	return &InviteNotifier{client: client}
}

func (n *InviteNotifier) NotifyInvite(ctx context.Context, msg access.InviteNotification) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar invitación: %w", err)
	}
	if err := n.client.Publish(ctx, QueueInviteNotification, body); err != nil {
		return fmt.Errorf("rabbitmq: publicar %s: %w", QueueInviteNotification, err)
	}
	return nil
}

// NotificationWorker consume invite.notifications y delega en el notificador final (SMTP o log).
type NotificationWorker struct {
	client   *Client
	delivery access.Notifier
	log      zerolog.Logger
}

// NewNotificationWorker construye el worker.
func NewNotificationWorker(client *Client, delivery access.Notifier, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{client: client, delivery: delivery, log: log}
}

// Run consume hasta que ctx se cancele o el broker cierre el canal.
func (w *NotificationWorker) Run(ctx context.Context) error {
	ch, msgs, err := w.client.consume(QueueInviteNotification, 4)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq: canal de %s cerrado", QueueInviteNotification)
			}
			apply(d, w.handle(ctx, d))
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, d amqp.Delivery) outcome {
	var msg access.InviteNotification
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		w.log.Error().Err(err).Msg("notificación de invitación ilegible")
		return settle(err, true, d.Redelivered)
	}
	err := w.delivery.NotifyInvite(ctx, msg)
	if err != nil {
		w.log.Warn().Err(err).Str("email", msg.Email).Bool("redelivered", d.Redelivered).Msg("envío de invitación fallido")
	}
	return settle(err, false, d.Redelivered)
}
