package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// AuthEventBus bus de autenticación sobre la cola durable auth.signed_in.
// Publish no espera al suscriptor: la activación ocurre en el consumidor.
type AuthEventBus struct {
	client *Client
	log    zerolog.Logger

	mu      sync.Mutex
	handler events.Handler
	ch      *amqp.Channel
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ events.Bus = (*AuthEventBus)(nil)

// NewAuthEventBus construye el bus sobre un cliente ya conectado.
func NewAuthEventBus(client *Client, log zerolog.Logger) *AuthEventBus {
	return &AuthEventBus{client: client, log: log}
}

// Publish serializa el evento y lo publica como persistente.
func (b *AuthEventBus) Publish(ctx context.Context, ev entity.SignInEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}
	if err := b.client.Publish(ctx, QueueSignedIn, body); err != nil {
		return fmt.Errorf("rabbitmq: publicar %s: %w", QueueSignedIn, err)
	}
	return nil
}

// Subscribe registra el único suscriptor y empieza a consumir en segundo plano.
func (b *AuthEventBus) Subscribe(h events.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler != nil {
		return events.ErrSubscriberRegistered
	}
	ch, msgs, err := b.client.consume(QueueSignedIn, 16)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.handler, b.ch, b.cancel = h, ch, cancel
	b.done = make(chan struct{})
	go b.loop(ctx, msgs)
	return nil
}

func (b *AuthEventBus) loop(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer close(b.done)
	for d := range msgs {
		apply(d, b.handle(ctx, d.Body, d.Redelivered))
	}
	b.log.Info().Str("queue", QueueSignedIn).Msg("consumidor detenido")
}

func (b *AuthEventBus) handle(ctx context.Context, body []byte, redelivered bool) outcome {
	var ev entity.SignInEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		b.log.Error().Err(err).Msg("evento de sesión ilegible")
		return settle(err, true, redelivered)
	}
	err := b.handler.HandleSignIn(ctx, ev)
	o := settle(err, false, redelivered)
	if o == drop {
		b.log.Error().Err(err).Str("user_id", ev.PrincipalID).Msg("activación descartada tras reintento")
	}
	return o
}

// Close detiene el consumidor y espera a que termine la entrega en curso.
func (b *AuthEventBus) Close() error {
	b.mu.Lock()
	ch, cancel, done := b.ch, b.cancel, b.done
	b.mu.Unlock()
	if ch == nil {
		return nil
	}
	cancel()
	err := ch.Close()
	<-done
	return err
}
