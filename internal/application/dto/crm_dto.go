package dto

import "time"

// CreateLeadRequest body para POST /api/leads.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// UpdateLeadRequest body para PUT /api/leads/:id. Status no acepta "converted".
type UpdateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Status  string `json:"status,omitempty"`
}

// LeadResponse lead en respuestas.
type LeadResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Company    string    `json:"company,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CustomerID *string   `json:"customer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeadConversionResponse resultado de convertir un lead.
type LeadConversionResponse struct {
	Lead     LeadResponse     `json:"lead"`
	Customer CustomerResponse `json:"customer"`
}

// CreateCustomerRequest body para POST /api/customers y PUT /api/customers/:id.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company"`
}

// AppointmentRequest body para POST /api/public/appointments.
type AppointmentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	PreferredDate string `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime string `json:"preferred_time"` // HH:MM
	Language      string `json:"language"`
	Service       string `json:"service"`
	Message       string `json:"message,omitempty"`
}

// AppointmentResponse cita en respuestas.
type AppointmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Language      string    `json:"language"`
	Service       string    `json:"service"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"`
	CustomerID    *string   `json:"customer_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AppointmentReceipt respuesta pública al enviar una cita.
type AppointmentReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CountResponse conteo para el tablero.
type CountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
