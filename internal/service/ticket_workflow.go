package service

import (
	"time"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:               {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:         {domain.TicketStatusWaitingForCustomer, domain.TicketStatusResolved},
	domain.TicketStatusWaitingForCustomer: {domain.TicketStatusInProgress},
	domain.TicketStatusResolved:           {domain.TicketStatusClosed},
	domain.TicketStatusClosed:             {},
}

// IsValidTransition reports whether current may move to next. Same-state moves are invalid.
func IsValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// companyMayTransition is the only path open to a company actor.
func companyMayTransition(current, next domain.TicketStatus) bool {
	return current == domain.TicketStatusResolved && next == domain.TicketStatusClosed
}

// applyStatusChange moves the ticket to next and stamps the entry side effects.
// It reports whether the resolution breach flag flipped on this call.
func applyStatusChange(ticket *domain.Ticket, next domain.TicketStatus, now time.Time) bool {
	flipped := false
	switch next {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &now
		if !ticket.ResolutionBreached && now.After(ticket.ResolutionDueAt) {
			ticket.ResolutionBreached = true
			flipped = true
		}
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	}
	ticket.Status = next
	return flipped
}

// recordFirstResponse stamps firstResponseAt once, on the first message from a
// role that counts as a response. marked is false when nothing changed.
func recordFirstResponse(ticket *domain.Ticket, author domain.AuthorRole, now time.Time) (marked, breached bool) {
	if ticket.FirstResponseAt != nil || !author.CountsAsResponse() {
		return false, false
	}
	ticket.FirstResponseAt = &now
	if !ticket.FirstResponseBreached && now.After(ticket.FirstResponseDueAt) {
		ticket.FirstResponseBreached = true
		breached = true
	}
	return true, breached
}
