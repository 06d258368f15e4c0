package events

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ErrSubscriberRegistered se devuelve al intentar registrar un segundo suscriptor.
var ErrSubscriberRegistered = errors.New("el bus ya tiene suscriptor")

// Handler procesa un inicio de sesión.
type Handler interface {
	HandleSignIn(ctx context.Context, ev entity.SignInEvent) error
}

// HandlerFunc adapta una función a Handler.
type HandlerFunc func(ctx context.Context, ev entity.SignInEvent) error

// HandleSignIn implementa Handler.
func (f HandlerFunc) HandleSignIn(ctx context.Context, ev entity.SignInEvent) error {
	return f(ctx, ev)
}

// Bus bus de autenticación del proceso: un publicador, un único suscriptor.
type Bus interface {
	Publish(ctx context.Context, ev entity.SignInEvent) error
	Subscribe(h Handler) error
}

// InProcessBus entrega cada evento de forma síncrona en la goroutine del publicador.
// Sin suscriptor, Publish no hace nada.
type InProcessBus struct {
	mu      sync.RWMutex
	handler Handler
}

var _ Bus = (*InProcessBus)(nil)

// NewInProcessBus construye el bus en proceso.
func NewInProcessBus() *InProcessBus { return &InProcessBus{} }

// Subscribe registra el suscriptor. Solo se admite uno.
func (b *InProcessBus) Subscribe(h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler != nil {
		return ErrSubscriberRegistered
	}
	b.handler = h
	return nil
}

// Publish entrega el evento al suscriptor y devuelve su error.
func (b *InProcessBus) Publish(ctx context.Context, ev entity.SignInEvent) error {
	b.mu.RLock()
	h := b.handler
	b.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h.HandleSignIn(ctx, ev)
}
