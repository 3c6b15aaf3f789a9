package domain

// Role is the closed set of user roles recognized by the engine.
// Authorization predicates branch on roles explicitly; there is no
// implicit role inheritance.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleRepresentative    Role = "REPRESENTATIVE"
	RoleSubRepresentative Role = "SUB_REPRESENTATIVE"
	RoleClient            Role = "CLIENT"
)

// IsRepresentative reports whether the role is one of the two field
// representative roles eligible to hold route assignments.
func (r Role) IsRepresentative() bool {
	return r == RoleRepresentative || r == RoleSubRepresentative
}

// User is a read-only identity snapshot supplied by the surrounding system.
// The engine never creates or mutates users; it only consults role and id
// for authorization checks.
type User struct {
	ID     int64
	Name   string
	Email  string
	Role   Role
	Active bool
}
