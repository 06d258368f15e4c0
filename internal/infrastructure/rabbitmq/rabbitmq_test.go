package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

func TestSettle(t *testing.T) {
	boom := errors.New("db caída")
	assert.Equal(t, ack, settle(nil, false, false))
	assert.Equal(t, ack, settle(nil, false, true))
	assert.Equal(t, requeue, settle(boom, false, false))
	assert.Equal(t, drop, settle(boom, false, true))
	assert.Equal(t, drop, settle(boom, true, false))
}

func TestAuthEventBus_Handle(t *testing.T) {
	var got entity.SignInEvent
	fail := true
	b := &AuthEventBus{log: zerolog.Nop()}
	b.handler = events.HandlerFunc(func(_ context.Context, ev entity.SignInEvent) error {
		got = ev
		if fail {
			return errors.New("upstream")
		}
		return nil
	})

	body, err := json.Marshal(entity.SignInEvent{PrincipalID: "u-1", Email: "bob@x.com", OccurredAt: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, requeue, b.handle(context.Background(), body, false))
	assert.Equal(t, "u-1", got.PrincipalID)
	assert.Equal(t, drop, b.handle(context.Background(), body, true))

	fail = false
	assert.Equal(t, ack, b.handle(context.Background(), body, true))
	assert.Equal(t, drop, b.handle(context.Background(), []byte("{"), false))
}

func TestNotificationWorker_Handle(t *testing.T) {
	sink := memory.NewLogNotifier(zerolog.Nop())
	w := NewNotificationWorker(nil, sink, zerolog.Nop())
	body, err := json.Marshal(access.InviteNotification{Email: "ana@x.com", Role: "user", Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, ack, w.handle(context.Background(), amqp.Delivery{Body: body}))
	require.Len(t, sink.Sent(), 1)
	assert.Equal(t, "ana@x.com", sink.Sent()[0].Email)

	sink.FailOn("notify", errors.New("smtp caído"))
	assert.Equal(t, requeue, w.handle(context.Background(), amqp.Delivery{Body: body}))
	assert.Equal(t, drop, w.handle(context.Background(), amqp.Delivery{Body: body, Redelivered: true}))
}
