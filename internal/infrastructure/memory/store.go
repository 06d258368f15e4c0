package memory

// Store agrupa todos los adaptadores en memoria (modo APP_STORE=memory y pruebas).
type Store struct {
	Identity     *IdentityStore
	Invites      *InviteRepo
	Profiles     *ProfileRepo
	Roles        *RoleRepo
	Leads        *LeadRepo
	Customers    *CustomerRepo
	Appointments *AppointmentRepo
	Shipments    *ShipmentRepo
	Tracking     *TrackingEventRepo
	Invoices     *InvoiceRepo
}

// NewStore construye un almacén vacío. bcryptCost 0 usa el costo por defecto.
func NewStore(bcryptCost int) *Store {
	return &Store{
		Identity:     NewIdentityStore(bcryptCost),
		Invites:      NewInviteRepo(),
		Profiles:     NewProfileRepo(),
		Roles:        NewRoleRepo(),
		Leads:        NewLeadRepo(),
		Customers:    NewCustomerRepo(),
		Appointments: NewAppointmentRepo(),
		Shipments:    NewShipmentRepo(),
		Tracking:     NewTrackingEventRepo(),
		Invoices:     NewInvoiceRepo(),
	}
}
