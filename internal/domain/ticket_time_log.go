package domain

import "time"

// WorkType classifies logged effort.
type WorkType string

const (
	WorkTypeRemote WorkType = "REMOTE"
	WorkTypeOnsite WorkType = "ONSITE"
)

// TicketTimeLog is an append-only record of minutes an expert worked on a ticket.
type TicketTimeLog struct {
	ID       string
	TicketID string
	ExpertID string
	Minutes  int
	WorkType WorkType
	LoggedAt time.Time
}
