package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest canje de la invitación: token recibido por email + nueva contraseña.
type SetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateDirectRequest alta directa con contraseña (bootstrap del primer admin).
type CreateDirectRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin moderator user"`
}

// LoginResponse token JWT + sujeto resuelto.
type LoginResponse struct {
	Token string     `json:"token"`
	User  MeResponse `json:"user"`
}

// MeResponse datos del sujeto autenticado.
type MeResponse struct {
	UserID     string  `json:"user_id"`
	Email      string  `json:"email"`
	Name       string  `json:"name,omitempty"`
	Role       string  `json:"role,omitempty"`
	IsStaff    bool    `json:"is_staff"`
	IsAdmin    bool    `json:"is_admin"`
	IsActive   bool    `json:"is_active"`
	CustomerID *string `json:"customer_id,omitempty"`
}

// CreateInviteRequest body para POST /api/invites.
type CreateInviteRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin moderator user"`
}

// ResendInviteRequest body para POST /api/invites/resend. FullName y Role son opcionales.
type ResendInviteRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// InviteResult resultado de crear o reenviar una invitación.
type InviteResult struct {
	Success     bool           `json:"success"`
	Resent      bool           `json:"resent"`
	Message     string         `json:"message"`
	PrincipalID string         `json:"user_id,omitempty"`
	Invite      InviteResponse `json:"invite"`
}

// InviteResponse invitación en respuestas.
type InviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivationResult resultado de la activación; Activated=false si no había invitación
// pendiente para el email.
type ActivationResult struct {
	Success   bool   `json:"success"`
	Activated bool   `json:"activated"`
	Message   string `json:"message"`
}

// SetRoleRequest body para PUT /api/users/:id/role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin moderator user"`
}

// UserResponse usuario activo con su rol.
type UserResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse usuarios activos + invitaciones pendientes (vista de administración).
type UserListResponse struct {
	ActiveUsers    []UserResponse   `json:"active_users"`
	PendingInvites []InviteResponse `json:"pending_invites"`
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}
