package dto

import (
	"time"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ServiceID   *string `json:"service_id"`
	AssetID     *string `json:"asset_id"`
}

// CreateMessageRequest payload. IsInternal is ignored for companies.
type CreateMessageRequest struct {
	Body       string `json:"body"`
	IsInternal bool   `json:"is_internal"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// SatisfactionRequest payload.
type SatisfactionRequest struct {
	Rating                  int     `json:"rating"`
	ResponseTimeRating      *int    `json:"response_time_rating"`
	ResolutionQualityRating *int    `json:"resolution_quality_rating"`
	CommunicationRating     *int    `json:"communication_rating"`
	Comment                 *string `json:"comment"`
}

// TimeLogRequest payload.
type TimeLogRequest struct {
	Minutes  int             `json:"minutes"`
	WorkType domain.WorkType `json:"work_type"`
}

// TicketResponse represents a ticket with its SLA snapshot.
type TicketResponse struct {
	ID                      string              `json:"id"`
	CompanyID               string              `json:"company_id"`
	ServiceID               *string             `json:"service_id"`
	AssetID                 *string             `json:"asset_id"`
	AssignedExpertID        *string             `json:"assigned_expert_id"`
	Title                   string              `json:"title"`
	Description             string              `json:"description"`
	Status                  domain.TicketStatus `json:"status"`
	SLAFirstResponseMinutes int                 `json:"sla_first_response_minutes"`
	SLAResolutionMinutes    int                 `json:"sla_resolution_minutes"`
	FirstResponseDueAt      time.Time           `json:"first_response_due_at"`
	ResolutionDueAt         time.Time           `json:"resolution_due_at"`
	FirstResponseAt         *time.Time          `json:"first_response_at"`
	ResolvedAt              *time.Time          `json:"resolved_at"`
	ClosedAt                *time.Time          `json:"closed_at"`
	FirstResponseBreached   bool                `json:"first_response_breached"`
	ResolutionBreached      bool                `json:"resolution_breached"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

// TicketMessageResponse represents thread message.
type TicketMessageResponse struct {
	ID           string            `json:"id"`
	AuthorUserID string            `json:"author_user_id"`
	AuthorRole   domain.AuthorRole `json:"author_role"`
	Body         string            `json:"body"`
	IsInternal   bool              `json:"is_internal"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TicketHistoryResponse represents an audit entry.
type TicketHistoryResponse struct {
	ID            string                  `json:"id"`
	ChangeType    domain.TicketChangeType `json:"change_type"`
	ChangedByRole domain.Role             `json:"changed_by_role"`
	ChangedByID   string                  `json:"changed_by_id"`
	OldValue      map[string]any          `json:"old_value"`
	NewValue      map[string]any          `json:"new_value"`
	CreatedAt     time.Time               `json:"created_at"`
}

// TimeLogResponse represents logged effort.
type TimeLogResponse struct {
	ID       string          `json:"id"`
	ExpertID string          `json:"expert_id"`
	Minutes  int             `json:"minutes"`
	WorkType domain.WorkType `json:"work_type"`
	LoggedAt time.Time       `json:"logged_at"`
}

// SatisfactionResponse represents the closing survey.
type SatisfactionResponse struct {
	ID                      string    `json:"id"`
	TicketID                string    `json:"ticket_id"`
	Rating                  int       `json:"rating"`
	ResponseTimeRating      *int      `json:"response_time_rating"`
	ResolutionQualityRating *int      `json:"resolution_quality_rating"`
	CommunicationRating     *int      `json:"communication_rating"`
	Comment                 *string   `json:"comment"`
	CreatedAt               time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                      t.ID,
		CompanyID:               t.CompanyID,
		ServiceID:               t.ServiceID,
		AssetID:                 t.AssetID,
		AssignedExpertID:        t.AssignedExpertID,
		Title:                   t.Title,
		Description:             t.Description,
		Status:                  t.Status,
		SLAFirstResponseMinutes: t.SLAFirstResponseMinutes,
		SLAResolutionMinutes:    t.SLAResolutionMinutes,
		FirstResponseDueAt:      t.FirstResponseDueAt,
		ResolutionDueAt:         t.ResolutionDueAt,
		FirstResponseAt:         t.FirstResponseAt,
		ResolvedAt:              t.ResolvedAt,
		ClosedAt:                t.ClosedAt,
		FirstResponseBreached:   t.FirstResponseBreached,
		ResolutionBreached:      t.ResolutionBreached,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
}

func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	resp := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, NewTicketResponse(&tickets[i]))
	}
	return resp
}

func NewTicketMessageResponse(m *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:           m.ID,
		AuthorUserID: m.AuthorUserID,
		AuthorRole:   m.AuthorRole,
		Body:         m.Body,
		IsInternal:   m.IsInternal,
		CreatedAt:    m.CreatedAt,
	}
}

func NewTicketMessageResponses(msgs []domain.TicketMessage) []TicketMessageResponse {
	resp := make([]TicketMessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, NewTicketMessageResponse(&msgs[i]))
	}
	return resp
}

func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	resp := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, TicketHistoryResponse{
			ID:            entry.ID,
			ChangeType:    entry.ChangeType,
			ChangedByRole: entry.ChangedByRole,
			ChangedByID:   entry.ChangedByID,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return resp
}

func NewTimeLogResponse(l *domain.TicketTimeLog) TimeLogResponse {
	return TimeLogResponse{
		ID:       l.ID,
		ExpertID: l.ExpertID,
		Minutes:  l.Minutes,
		WorkType: l.WorkType,
		LoggedAt: l.LoggedAt,
	}
}

func NewTimeLogResponses(logs []domain.TicketTimeLog) []TimeLogResponse {
	resp := make([]TimeLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, NewTimeLogResponse(&logs[i]))
	}
	return resp
}

func NewSatisfactionResponse(s *domain.TicketSatisfaction) SatisfactionResponse {
	return SatisfactionResponse{
		ID:                      s.ID,
		TicketID:                s.TicketID,
		Rating:                  s.Rating,
		ResponseTimeRating:      s.ResponseTimeRating,
		ResolutionQualityRating: s.ResolutionQualityRating,
		CommunicationRating:     s.CommunicationRating,
		Comment:                 s.Comment,
		CreatedAt:               s.CreatedAt,
	}
}

func NewSatisfactionResponses(surveys []domain.TicketSatisfaction) []SatisfactionResponse {
	resp := make([]SatisfactionResponse, 0, len(surveys))
	for i := range surveys {
		resp = append(resp, NewSatisfactionResponse(&surveys[i]))
	}
	return resp
}
