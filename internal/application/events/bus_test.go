package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

type fakeActivator struct {
	calls []string
	err   error
}

func (f *fakeActivator) Activate(_ context.Context, principalID, _ string) (*dto.ActivationResult, error) {
	f.calls = append(f.calls, principalID)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivationResult{Success: true, Activated: true}, nil
}

func TestInProcessBus_UnSoloSuscriptor(t *testing.T) {
	bus := NewInProcessBus()
	act := &fakeActivator{}
	require.NoError(t, bus.Subscribe(NewActivationSubscriber(act, zerolog.Nop())))

	err := bus.Subscribe(HandlerFunc(func(context.Context, entity.SignInEvent) error { return nil }))
	assert.ErrorIs(t, err, ErrSubscriberRegistered)

	ev := entity.SignInEvent{PrincipalID: "u-1", Email: "bob@x.com", OccurredAt: time.Now()}
	require.NoError(t, bus.Publish(context.Background(), ev))
	assert.Equal(t, []string{"u-1"}, act.calls)
}

func TestInProcessBus_SinSuscriptorNoFalla(t *testing.T) {
	bus := NewInProcessBus()
	assert.NoError(t, bus.Publish(context.Background(), entity.SignInEvent{PrincipalID: "u-1"}))
}

func TestActivationSubscriber_PropagaError(t *testing.T) {
	bus := NewInProcessBus()
	boom := errors.New("db caída")
	require.NoError(t, bus.Subscribe(NewActivationSubscriber(&fakeActivator{err: boom}, zerolog.Nop())))

	err := bus.Publish(context.Background(), entity.SignInEvent{PrincipalID: "u-1"})
	assert.ErrorIs(t, err, boom)
}
