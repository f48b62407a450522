package domain

import "time"

// TicketSatisfaction is the single survey a company may leave on a closed ticket.
type TicketSatisfaction struct {
	ID                      string
	TicketID                string
	CompanyID               string
	Rating                  int
	ResponseTimeRating      *int
	ResolutionQualityRating *int
	CommunicationRating     *int
	Comment                 *string
	CreatedAt               time.Time
}
