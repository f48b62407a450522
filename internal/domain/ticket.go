package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen               TicketStatus = "OPEN"
	TicketStatusInProgress         TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingForCustomer TicketStatus = "WAITING_FOR_CUSTOMER"
	TicketStatusResolved           TicketStatus = "RESOLVED"
	TicketStatusClosed             TicketStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingForCustomer,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests raised by a company.
//
// SLA minutes and due dates are snapshotted at creation and never recomputed.
// Breach flags only ever move from false to true.
type Ticket struct {
	ID                      string
	CompanyID               string
	ServiceID               *string
	AssetID                 *string
	AssignedExpertID        *string
	Title                   string
	Description             string
	Status                  TicketStatus
	SLAFirstResponseMinutes int
	SLAResolutionMinutes    int
	FirstResponseDueAt      time.Time
	ResolutionDueAt         time.Time
	FirstResponseAt         *time.Time
	ResolvedAt              *time.Time
	ClosedAt                *time.Time
	FirstResponseBreached   bool
	ResolutionBreached      bool
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
