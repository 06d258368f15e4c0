package entity

import "fmt"

// Role rol de aplicación. Jerarquía: admin ⊇ moderator ⊇ user.
type Role string

// Roles válidos (deben coincidir con el enum app_role de la base).
const (
	RoleNone      Role = ""
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole convierte un string en Role. Rechaza valores desconocidos y el vacío.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleModerator, RoleUser:
		return r, nil
	default:
		return RoleNone, fmt.Errorf("rol desconocido %q", s)
	}
}

// Rank orden de privilegio; RoleNone es 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Valid informa si el rol es uno de los tres asignables.
func (r Role) Valid() bool { return r.Rank() > 0 }

// IsStaff admin o moderator.
func (r Role) IsStaff() bool { return r.Rank() >= RoleModerator.Rank() }

func (r Role) String() string { return string(r) }

// RoleAssignment fila de user_roles. Invariante: a lo sumo una por UserID tras cada SetRole.
type RoleAssignment struct {
	ID     string
	UserID string
	Role   Role
}

// LowestRole devuelve el rol de menor privilegio de la lista, o RoleNone si está vacía.
// Se usa cuando un SetRole quedó a medias y el usuario tiene dos filas.
func LowestRole(assignments []*RoleAssignment) Role {
	out := RoleNone
	for _, a := range assignments {
		if !a.Role.Valid() {
			continue
		}
		if out == RoleNone || a.Role.Rank() < out.Rank() {
			out = a.Role
		}
	}
	return out
}
