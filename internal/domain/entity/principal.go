package entity

import "time"

// Principal identidad autenticable del proveedor de identidad.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string // vacío mientras la invitación no se haya canjeado
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasCredential informa si el principal ya puede iniciar sesión con contraseña.
func (p *Principal) HasCredential() bool { return p != nil && p.PasswordHash != "" }

// Profile une un principal con su identidad de staff o cliente.
type Profile struct {
	ID         string
	UserID     string // único, referencia a Principal
	Name       string
	Email      string
	IsActive   bool
	CustomerID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SignInEvent se publica en el bus de autenticación tras cada inicio de sesión exitoso.
type SignInEvent struct {
	PrincipalID string    `json:"principal_id"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
}
