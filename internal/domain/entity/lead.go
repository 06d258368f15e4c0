package entity

import "time"

// Estados de lead. converted es terminal.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
)

// ValidLeadStatus informa si s es un estado de lead conocido.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted:
		return true
	}
	return false
}

// Lead prospecto comercial.
type Lead struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Company    string
	Status     string
	Notes      string
	CustomerID *string // no nulo e inmutable una vez convertido
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsConverted informa si el lead ya se convirtió en cliente.
func (l *Lead) IsConverted() bool { return l.Status == LeadStatusConverted }
