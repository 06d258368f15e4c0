package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Estados de invitación.
const (
	InviteStatusPending = "pending"
	InviteStatusActive  = "active"
)

// Invite invitación por email. Una sola fila por email normalizado.
type Invite struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	Status    string // pending, active
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive informa si la invitación ya fue activada.
func (i *Invite) IsActive() bool { return i != nil && i.Status == InviteStatusActive }

// NormalizeEmail recorta espacios y aplica case folding Unicode.
// Un Caser no es seguro para uso concurrente: se crea uno por llamada.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
