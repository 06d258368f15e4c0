package entity

import "time"

// DefaultCustomerCompany se usa cuando un lead convertido no trae empresa.
const DefaultCustomerCompany = "Unknown"

// Customer cliente de la empresa. Nunca se borra físicamente (IsDeleted).
type Customer struct {
	ID        string
	Name      string
	Email     string // único
	Phone     string
	Company   string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
