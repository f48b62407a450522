package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketMessageAdded    EventType = "ticket_message_added"
	EventTicketSLABreached     EventType = "ticket_sla_breached"
	EventSatisfactionSubmitted EventType = "ticket_satisfaction_submitted"
)

// AllEventTypes lists every type the engine publishes.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigned,
	EventTicketMessageAdded,
	EventTicketSLABreached,
	EventSatisfactionSubmitted,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps a fresh event id.
func NewEvent(eventType EventType, ticketID string, actor Actor, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: at,
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CompanyID          string    `json:"company_id"`
	ServiceID          *string   `json:"service_id,omitempty"`
	AssetID            *string   `json:"asset_id,omitempty"`
	AssignedExpertID   *string   `json:"assigned_expert_id,omitempty"`
	Title              string    `json:"title"`
	FirstResponseDueAt time.Time `json:"first_response_due_at"`
	ResolutionDueAt    time.Time `json:"resolution_due_at"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldExpertID *string `json:"old_expert_id,omitempty"`
	NewExpertID *string `json:"new_expert_id,omitempty"`
	Source      string  `json:"source"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string            `json:"message_id"`
	AuthorRole  domain.AuthorRole `json:"author_role"`
	IsInternal  bool              `json:"is_internal"`
	BodyPreview string            `json:"body_preview"`
}

// SLA breach kinds.
const (
	BreachFirstResponse = "first_response"
	BreachResolution    = "resolution"
)

// TicketSLABreachedPayload is emitted the moment a breach flag flips to true.
type TicketSLABreachedPayload struct {
	Kind       string    `json:"kind"`
	DueAt      time.Time `json:"due_at"`
	DetectedAt time.Time `json:"detected_at"`
}

// SatisfactionSubmittedPayload payload.
type SatisfactionSubmittedPayload struct {
	SatisfactionID string `json:"satisfaction_id"`
	Rating         int    `json:"rating"`
}
