package access

import (
	"context"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InviteTicket resultado de emitir una invitación en el proveedor de identidad.
type InviteTicket struct {
	Principal *entity.Principal
	Token     string
	ExpiresAt time.Time
}

// IdentityProvider puerto hacia el almacén de identidades (principales y credenciales).
// GetPrincipal y GetPrincipalByEmail devuelven (nil, nil) si no existe.
type IdentityProvider interface {
	CreatePrincipal(ctx context.Context, email, password string) (*entity.Principal, error)
	GetPrincipal(ctx context.Context, id string) (*entity.Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*entity.Principal, error)
	// Authenticate devuelve domain.ErrUnauthenticated si email o contraseña no coinciden.
	Authenticate(ctx context.Context, email, password string) (*entity.Principal, error)
	// InvitePrincipal crea el principal si no existe y emite un token de invitación nuevo.
	InvitePrincipal(ctx context.Context, email, redirectTo string, metadata map[string]string) (*InviteTicket, error)
	// RedeemInvitation canjea el token, fija la contraseña y lo invalida.
	RedeemInvitation(ctx context.Context, token, password string) (*entity.Principal, error)
	DeletePrincipal(ctx context.Context, id string) error
	UpdateCredential(ctx context.Context, id, password string) error
}

// InviteNotification contenido del aviso de invitación que recibe el usuario.
type InviteNotification struct {
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	RedirectTo string    `json:"redirect_to"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Notifier entrega el aviso de invitación (email u otro canal externo).
type Notifier interface {
	NotifyInvite(ctx context.Context, n InviteNotification) error
}

// SignInPublisher publica inicios de sesión en el bus de autenticación.
type SignInPublisher interface {
	Publish(ctx context.Context, ev entity.SignInEvent) error
}
