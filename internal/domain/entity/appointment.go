package entity

import "time"

// Estados de cita. Staff los cambia en cualquier orden.
const (
	AppointmentStatusNew       = "new"
	AppointmentStatusContacted = "contacted"
	AppointmentStatusClosed    = "closed"
)

// AppointmentDateLayout formato de preferred_date.
const AppointmentDateLayout = "2006-01-02"

// ValidAppointmentStatus informa si s es un estado de cita conocido.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentStatusNew, AppointmentStatusContacted, AppointmentStatusClosed:
		return true
	}
	return false
}

// Appointment solicitud de cita enviada desde el sitio público.
type Appointment struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Company       string
	PreferredDate time.Time
	PreferredTime string // HH:MM
	Language      string
	Service       string
	Message       string
	Status        string
	CustomerID    *string // cliente encontrado o creado al recibirla
	LeadID        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
