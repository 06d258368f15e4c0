package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// Activator activa la invitación del principal que acaba de iniciar sesión.
type Activator interface {
	Activate(ctx context.Context, principalID, email string) (*dto.ActivationResult, error)
}

// ActivationSubscriber único suscriptor del bus: ejecuta la activación de invitaciones.
type ActivationSubscriber struct {
	activator Activator
	log       zerolog.Logger
}

var _ Handler = (*ActivationSubscriber)(nil)

// NewActivationSubscriber construye el suscriptor.
func NewActivationSubscriber(activator Activator, log zerolog.Logger) *ActivationSubscriber {
	return &ActivationSubscriber{activator: activator, log: log}
}

// HandleSignIn activa la invitación pendiente del principal, si la hay.
func (s *ActivationSubscriber) HandleSignIn(ctx context.Context, ev entity.SignInEvent) error {
	res, err := s.activator.Activate(ctx, ev.PrincipalID, ev.Email)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", ev.PrincipalID).Msg("activación fallida")
		return err
	}
	if res.Activated {
		s.log.Info().Str("user_id", ev.PrincipalID).Msg("activación por inicio de sesión")
	}
	return nil
}
