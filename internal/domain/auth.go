package domain

// Role is the platform role carried in access tokens.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleExpert  Role = "EXPERT"
	RoleCompany Role = "COMPANY"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleExpert || r == RoleCompany
}

// AuthorRole maps a platform role onto the message author role.
func (r Role) AuthorRole() AuthorRole {
	switch r {
	case RoleAdmin:
		return AuthorRoleAdmin
	case RoleExpert:
		return AuthorRoleExpert
	default:
		return AuthorRoleCompany
	}
}
