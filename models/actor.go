package models

type Role string

const (
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
)

// Actor is the closed set of callers that may touch bookings.
type Actor interface {
	ActorID() string
	Role() Role
	isActor()
}

type CustomerActor struct {
	UserID string
	Phone  string
}

type GuestActor struct {
	SessionID string
	Phone     string
}

type StaffActor struct {
	StaffID string
	Email   string
}

type ManagerActor struct {
	ManagerID string
}

func (a CustomerActor) ActorID() string { return a.UserID }
func (a CustomerActor) Role() Role      { return RoleCustomer }
func (CustomerActor) isActor()          {}

func (a GuestActor) ActorID() string { return a.SessionID }
func (a GuestActor) Role() Role      { return RoleGuest }
func (GuestActor) isActor()          {}

func (a StaffActor) ActorID() string { return a.StaffID }
func (a StaffActor) Role() Role      { return RoleStaff }
func (StaffActor) isActor()          {}

func (a ManagerActor) ActorID() string { return a.ManagerID }
func (a ManagerActor) Role() Role      { return RoleManager }
func (ManagerActor) isActor()          {}

// GuestCustomerRef is the customer reference stored on guest bookings.
func GuestCustomerRef(sessionID string) string { return "guest:" + sessionID }

// StaffCustomerRef marks a booking entered on behalf of a walk-in customer.
func StaffCustomerRef(staffID string) string { return "staff:" + staffID }

// IsPrivileged reports whether the actor operates the console or a staff terminal.
func IsPrivileged(a Actor) bool {
	switch a.(type) {
	case StaffActor, ManagerActor:
		return true
	}
	return false
}
