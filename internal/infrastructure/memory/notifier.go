package memory

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
)

// LogNotifier registra las invitaciones en el log en lugar de enviarlas.
// Conserva las notificaciones para consultarlas en pruebas.
type LogNotifier struct {
	faults
	mu   sync.Mutex
	sent []access.InviteNotification
	log  zerolog.Logger
}

var _ access.Notifier = (*LogNotifier)(nil)

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyInvite(_ context.Context, msg access.InviteNotification) error {
	if err := n.fault("notify"); err != nil {
		return err
	}
	n.mu.Lock()
	n.sent = append(n.sent, msg)
	n.mu.Unlock()
	n.log.Info().
		Str("email", msg.Email).
		Str("role", msg.Role).
		Str("redirect_to", msg.RedirectTo).
		Str("token", msg.Token).
		Msg("invitación (no se envía email en modo memoria)")
	return nil
}

// Sent copia de las notificaciones registradas.
func (n *LogNotifier) Sent() []access.InviteNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]access.InviteNotification, len(n.sent))
	copy(out, n.sent)
	return out
}
