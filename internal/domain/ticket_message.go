package domain

import "time"

// AuthorRole indicates which side of the relationship authored a message.
type AuthorRole string

const (
	AuthorRoleCompany AuthorRole = "COMPANY"
	AuthorRoleExpert  AuthorRole = "EXPERT"
	AuthorRoleAdmin   AuthorRole = "ADMIN"
)

// CountsAsResponse reports whether a message from this role can satisfy the
// first-response SLA.
func (r AuthorRole) CountsAsResponse() bool {
	return r == AuthorRoleExpert || r == AuthorRoleAdmin
}

// TicketMessage captures communications in a ticket thread. Internal
// messages are never shown to the company.
type TicketMessage struct {
	ID           string
	TicketID     string
	AuthorUserID string
	AuthorRole   AuthorRole
	Body         string
	IsInternal   bool
	CreatedAt    time.Time
}
