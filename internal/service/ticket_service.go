package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/events"
	"github.com/pardismasoud-hue/pishgam/internal/observability"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
	"github.com/pardismasoud-hue/pishgam/internal/validation"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

// TicketService is the ticket lifecycle and SLA engine. Every operation takes
// the effective actor; role decides which path applies.
type TicketService struct {
	store       repository.Store
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	slaDefaults config.SLAConfig
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store       repository.Store
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	SLADefaults config.SLAConfig
	Clock       func() time.Time
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=4000"`
	ServiceID   *string `json:"service_id" validate:"omitempty,uuid"`
	AssetID     *string `json:"asset_id" validate:"omitempty,uuid"`
}

// AddMessageInput describes a reply or internal note.
type AddMessageInput struct {
	Body       string `json:"body" validate:"required,max=4000"`
	IsInternal bool   `json:"is_internal"`
}

// SatisfactionInput describes the closing survey.
type SatisfactionInput struct {
	Rating                  int     `json:"rating" validate:"min=1,max=5"`
	ResponseTimeRating      *int    `json:"response_time_rating" validate:"omitempty,min=1,max=5"`
	ResolutionQualityRating *int    `json:"resolution_quality_rating" validate:"omitempty,min=1,max=5"`
	CommunicationRating     *int    `json:"communication_rating" validate:"omitempty,min=1,max=5"`
	Comment                 *string `json:"comment" validate:"omitempty,max=2000"`
}

// TimeLogInput describes logged effort.
type TimeLogInput struct {
	Minutes  int             `json:"minutes" validate:"gt=0"`
	WorkType domain.WorkType `json:"work_type" validate:"required,oneof=REMOTE ONSITE"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		slaDefaults: deps.SLADefaults,
		now:         clock,
	}
}

// scope is what the engine learned about the actor while loading a ticket.
type scope struct {
	company *domain.CompanyProfile
	expert  *domain.ExpertProfile
}

// CreateTicket opens a ticket for the acting company, snapshotting its SLA and
// auto-assigning an expert when one qualifies.
func (s *TicketService) CreateTicket(ctx context.Context, actor auth.Actor, input CreateTicketInput) (*domain.Ticket, error) {
	if actor.Role != domain.RoleCompany {
		return nil, apperrors.NewForbidden("only companies can open tickets")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ServiceID = trimOptional(input.ServiceID)
	input.AssetID = trimOptional(input.AssetID)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.ServiceID == nil && input.AssetID == nil {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{
			"service_id": "service_id or asset_id is required",
			"asset_id":   "service_id or asset_id is required",
		})
	}

	var (
		ticket  *domain.Ticket
		pending []events.Event
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		company, err := companyFor(ctx, repos, actor.UserID)
		if err != nil {
			return err
		}

		var service *domain.ServiceCatalogItem
		if input.ServiceID != nil {
			service, err = repos.Catalog.GetServiceByID(ctx, *input.ServiceID)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewFieldError("service_id", "service not found")
			}
			if err != nil {
				return apperrors.MapError(err)
			}
			if !service.IsActive {
				return apperrors.NewFieldError("service_id", "service is inactive")
			}
		}

		var asset *domain.Asset
		if input.AssetID != nil {
			asset, err = repos.Assets.GetByID(ctx, *input.AssetID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return apperrors.MapError(err)
			}
			if asset == nil || asset.CompanyID != company.ID {
				return apperrors.NewFieldError("asset_id", "asset does not belong to company")
			}
		}

		sla, err := ResolveSLA(ctx, repos, s.slaDefaults, company.ID, service)
		if err != nil {
			return apperrors.MapError(err)
		}
		assignment, err := ResolveAssignment(ctx, repos, company.ID, asset)
		if err != nil {
			return apperrors.MapError(err)
		}

		now := s.now().UTC()
		firstDue, resolutionDue := sla.DueDates(now)
		ticket = &domain.Ticket{
			CompanyID:               company.ID,
			ServiceID:               input.ServiceID,
			AssetID:                 input.AssetID,
			AssignedExpertID:        assignment.ExpertID,
			Title:                   input.Title,
			Description:             input.Description,
			Status:                  domain.TicketStatusOpen,
			SLAFirstResponseMinutes: sla.FirstResponse,
			SLAResolutionMinutes:    sla.Resolution,
			FirstResponseDueAt:      firstDue,
			ResolutionDueAt:         resolutionDue,
			CreatedAt:               now,
		}
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}

		// The description opens the thread; it never counts as a response.
		opening := &domain.TicketMessage{
			TicketID:     ticket.ID,
			AuthorUserID: actor.UserID,
			AuthorRole:   domain.AuthorRoleCompany,
			Body:         ticket.Description,
			CreatedAt:    now,
		}
		if err := repos.Messages.Create(ctx, opening); err != nil {
			return apperrors.MapError(err)
		}

		evActor := eventActor(actor)
		pending = append(pending, events.NewEvent(events.EventTicketCreated, ticket.ID, evActor, now, events.TicketCreatedPayload{
			CompanyID:          ticket.CompanyID,
			ServiceID:          ticket.ServiceID,
			AssetID:            ticket.AssetID,
			AssignedExpertID:   ticket.AssignedExpertID,
			Title:              ticket.Title,
			FirstResponseDueAt: ticket.FirstResponseDueAt,
			ResolutionDueAt:    ticket.ResolutionDueAt,
		}))
		if assignment.ExpertID != nil {
			if err := recordAssigneeChange(ctx, repos, actor, ticket.ID, nil, assignment, now); err != nil {
				return apperrors.MapError(err)
			}
			pending = append(pending, events.NewEvent(events.EventTicketAssigned, ticket.ID, evActor, now, events.TicketAssignedPayload{
				NewExpertID: assignment.ExpertID,
				Source:      assignment.Source,
			}))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("company_id", ticket.CompanyID),
		zap.Int("sla_first_response_minutes", ticket.SLAFirstResponseMinutes),
		zap.Int("sla_resolution_minutes", ticket.SLAResolutionMinutes))
	s.publish(ctx, pending...)
	return ticket, nil
}

// AddMessage appends a message. The first expert or admin message marks the
// first response and evaluates its breach.
func (s *TicketService) AddMessage(ctx context.Context, actor auth.Actor, ticketID string, input AddMessageInput) (*domain.TicketMessage, error) {
	input.Body = strings.TrimSpace(input.Body)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var (
		msg     *domain.TicketMessage
		pending []events.Event
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ticket, sc, err := s.loadTicket(ctx, repos, actor, ticketID)
		if err != nil {
			return err
		}
		if sc.expert != nil && !sc.expert.IsApproved {
			return apperrors.NewForbidden("expert approval required")
		}
		if ticket.Status == domain.TicketStatusClosed {
			return apperrors.NewFieldError("status", "ticket is closed")
		}

		now := s.now().UTC()
		author := actor.Role.AuthorRole()
		msg = &domain.TicketMessage{
			TicketID:     ticket.ID,
			AuthorUserID: actor.UserID,
			AuthorRole:   author,
			Body:         input.Body,
			IsInternal:   input.IsInternal && author != domain.AuthorRoleCompany,
			CreatedAt:    now,
		}
		if err := repos.Messages.Create(ctx, msg); err != nil {
			return apperrors.MapError(err)
		}

		evActor := eventActor(actor)
		pending = append(pending, events.NewEvent(events.EventTicketMessageAdded, ticket.ID, evActor, now, events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			AuthorRole:  msg.AuthorRole,
			IsInternal:  msg.IsInternal,
			BodyPreview: stringPreview(msg.Body, 120),
		}))

		marked, breached := recordFirstResponse(ticket, author, now)
		if !marked {
			return nil
		}
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return persistErr(err, ticket.ID)
		}
		if breached {
			pending = append(pending, breachEvent(ticket.ID, evActor, events.BreachFirstResponse, ticket.FirstResponseDueAt, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending...)
	return msg, nil
}

// ChangeStatus moves the ticket along the state machine. Companies may only
// close a resolved ticket.
func (s *TicketService) ChangeStatus(ctx context.Context, actor auth.Actor, ticketID string, requested domain.TicketStatus) (*domain.Ticket, error) {
	if !requested.Valid() {
		return nil, apperrors.NewFieldError("status", fmt.Sprintf("unknown status %q", requested))
	}

	var (
		ticket  *domain.Ticket
		pending []events.Event
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		ticket, _, err = s.loadTicket(ctx, repos, actor, ticketID)
		if err != nil {
			return err
		}
		current := ticket.Status
		if !IsValidTransition(current, requested) {
			return apperrors.NewFieldError("status", fmt.Sprintf("invalid status transition from %s to %s", current, requested))
		}
		if actor.Role == domain.RoleCompany && !companyMayTransition(current, requested) {
			return apperrors.NewForbidden("company can only close resolved tickets")
		}

		now := s.now().UTC()
		breached := applyStatusChange(ticket, requested, now)
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return persistErr(err, ticket.ID)
		}
		if err := recordStatusChange(ctx, repos, actor, ticket.ID, current, requested, now); err != nil {
			return apperrors.MapError(err)
		}

		evActor := eventActor(actor)
		pending = append(pending, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, evActor, now, events.TicketStatusChangedPayload{
			OldStatus: current,
			NewStatus: requested,
		}))
		if breached {
			pending = append(pending, breachEvent(ticket.ID, evActor, events.BreachResolution, ticket.ResolutionDueAt, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending...)
	return ticket, nil
}

// SubmitSatisfaction records the single survey allowed on a closed ticket.
func (s *TicketService) SubmitSatisfaction(ctx context.Context, actor auth.Actor, ticketID string, input SatisfactionInput) (*domain.TicketSatisfaction, error) {
	if actor.Role != domain.RoleCompany {
		return nil, apperrors.NewForbidden("only companies can rate tickets")
	}
	input.Comment = trimOptional(input.Comment)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var (
		survey  *domain.TicketSatisfaction
		pending []events.Event
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ticket, sc, err := s.loadTicket(ctx, repos, actor, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketStatusClosed {
			return apperrors.NewFieldError("status", "satisfaction can only be submitted for closed tickets")
		}
		exists, err := repos.Satisfactions.ExistsForTicket(ctx, ticket.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if exists {
			return apperrors.NewFieldError("ticket_id", "satisfaction already submitted")
		}

		now := s.now().UTC()
		survey = &domain.TicketSatisfaction{
			TicketID:                ticket.ID,
			CompanyID:               sc.company.ID,
			Rating:                  input.Rating,
			ResponseTimeRating:      input.ResponseTimeRating,
			ResolutionQualityRating: input.ResolutionQualityRating,
			CommunicationRating:     input.CommunicationRating,
			Comment:                 input.Comment,
			CreatedAt:               now,
		}
		if err := repos.Satisfactions.Create(ctx, survey); err != nil {
			return apperrors.MapError(err)
		}
		pending = append(pending, events.NewEvent(events.EventSatisfactionSubmitted, ticket.ID, eventActor(actor), now, events.SatisfactionSubmittedPayload{
			SatisfactionID: survey.ID,
			Rating:         survey.Rating,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending...)
	return survey, nil
}

// LogTime records effort by the assigned, approved expert. It never touches SLA state.
func (s *TicketService) LogTime(ctx context.Context, actor auth.Actor, ticketID string, input TimeLogInput) (*domain.TicketTimeLog, error) {
	if actor.Role != domain.RoleExpert {
		return nil, apperrors.NewForbidden("only experts can log time")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var entry *domain.TicketTimeLog
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ticket, sc, err := s.loadTicket(ctx, repos, actor, ticketID)
		if err != nil {
			return err
		}
		if !sc.expert.IsApproved {
			return apperrors.NewForbidden("expert approval required")
		}
		entry = &domain.TicketTimeLog{
			TicketID: ticket.ID,
			ExpertID: sc.expert.ID,
			Minutes:  input.Minutes,
			WorkType: input.WorkType,
			LoggedAt: s.now().UTC(),
		}
		return apperrors.MapError(repos.TimeLogs.Create(ctx, entry))
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetTicket returns a ticket visible to the actor.
func (s *TicketService) GetTicket(ctx context.Context, actor auth.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, _, err := s.loadTicket(ctx, s.store.Repos(), actor, ticketID)
	return ticket, err
}

// ListTickets returns the live tickets in the actor's scope, newest first.
// Companies see their own tickets, experts the ones assigned to them. An empty
// statuses slice lists every status.
func (s *TicketService) ListTickets(ctx context.Context, actor auth.Actor, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	for _, status := range statuses {
		if !status.Valid() {
			return nil, apperrors.NewFieldError("status", fmt.Sprintf("unknown status %q", status))
		}
	}

	repos := s.store.Repos()
	filter := repository.TicketFilter{Statuses: statuses}
	switch actor.Role {
	case domain.RoleCompany:
		company, err := companyFor(ctx, repos, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.CompanyID = &company.ID
	case domain.RoleExpert:
		expert, err := expertFor(ctx, repos, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.AssignedExpertID = &expert.ID
	case domain.RoleAdmin:
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	tickets, err := repos.Tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListSatisfactions returns the acting company's surveys newest first.
func (s *TicketService) ListSatisfactions(ctx context.Context, actor auth.Actor) ([]domain.TicketSatisfaction, error) {
	if actor.Role != domain.RoleCompany {
		return nil, apperrors.NewForbidden("only companies can list their satisfaction surveys")
	}
	repos := s.store.Repos()
	company, err := companyFor(ctx, repos, actor.UserID)
	if err != nil {
		return nil, err
	}
	surveys, err := repos.Satisfactions.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return surveys, nil
}

// ListMessages returns the thread oldest first. Companies never see internal notes.
func (s *TicketService) ListMessages(ctx context.Context, actor auth.Actor, ticketID string) ([]domain.TicketMessage, error) {
	repos := s.store.Repos()
	ticket, _, err := s.loadTicket(ctx, repos, actor, ticketID)
	if err != nil {
		return nil, err
	}
	msgs, err := repos.Messages.ListByTicket(ctx, ticket.ID, actor.Role != domain.RoleCompany)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// ListTimeLogs returns logs newest first. Experts only see their own entries.
func (s *TicketService) ListTimeLogs(ctx context.Context, actor auth.Actor, ticketID string) ([]domain.TicketTimeLog, error) {
	if actor.Role == domain.RoleCompany {
		return nil, apperrors.NewForbidden("time logs are not visible to companies")
	}
	repos := s.store.Repos()
	ticket, sc, err := s.loadTicket(ctx, repos, actor, ticketID)
	if err != nil {
		return nil, err
	}
	var expertID *string
	if sc.expert != nil {
		expertID = &sc.expert.ID
	}
	logs, err := repos.TimeLogs.ListByTicket(ctx, ticket.ID, expertID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

// ListHistory returns the audit trail oldest first.
func (s *TicketService) ListHistory(ctx context.Context, actor auth.Actor, ticketID string) ([]domain.TicketHistory, error) {
	repos := s.store.Repos()
	ticket, _, err := s.loadTicket(ctx, repos, actor, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := repos.History.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

// loadTicket fetches a live ticket the actor may see. A ticket outside the
// actor's scope is reported as not found.
func (s *TicketService) loadTicket(ctx context.Context, repos repository.Repositories, actor auth.Actor, ticketID string) (*domain.Ticket, scope, error) {
	var sc scope
	switch actor.Role {
	case domain.RoleCompany:
		company, err := companyFor(ctx, repos, actor.UserID)
		if err != nil {
			return nil, sc, err
		}
		sc.company = company
	case domain.RoleExpert:
		expert, err := expertFor(ctx, repos, actor.UserID)
		if err != nil {
			return nil, sc, err
		}
		sc.expert = expert
	case domain.RoleAdmin:
	default:
		return nil, sc, apperrors.NewForbidden("unknown role")
	}

	ticket, err := ticketByID(ctx, repos, ticketID)
	if err != nil {
		return nil, sc, err
	}
	if sc.company != nil && ticket.CompanyID != sc.company.ID {
		return nil, sc, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if sc.expert != nil && (ticket.AssignedExpertID == nil || *ticket.AssignedExpertID != sc.expert.ID) {
		return nil, sc, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, sc, nil
}

// publish runs after commit. Subscriber failures are logged, never returned.
func (s *TicketService) publish(ctx context.Context, pending ...events.Event) {
	for _, event := range pending {
		s.metrics.RecordTicketEvent(string(event.Type))
		if event.Type == events.EventTicketSLABreached {
			if payload, ok := event.Payload.(events.TicketSLABreachedPayload); ok {
				s.metrics.RecordBreach(payload.Kind)
				s.logger.Info("sla breached",
					zap.String("ticket_id", event.TicketID),
					zap.String("kind", payload.Kind),
					zap.Time("due_at", payload.DueAt))
			}
		}
		if s.dispatcher == nil {
			continue
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event subscriber failed",
				zap.String("event_type", string(event.Type)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err))
		}
	}
}

func recordStatusChange(ctx context.Context, repos repository.Repositories, actor auth.Actor, ticketID string, oldStatus, newStatus domain.TicketStatus, at time.Time) error {
	return repos.History.Create(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByRole: actor.Role,
		ChangedByID:   actor.UserID,
		ChangeType:    domain.ChangeTypeStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status": newStatus,
		},
		CreatedAt: at,
	})
}

func breachEvent(ticketID string, actor events.Actor, kind string, dueAt, at time.Time) events.Event {
	return events.NewEvent(events.EventTicketSLABreached, ticketID, actor, at, events.TicketSLABreachedPayload{
		Kind:       kind,
		DueAt:      dueAt,
		DetectedAt: at,
	})
}

func eventActor(actor auth.Actor) events.Actor {
	return events.Actor{Role: actor.Role, UserID: actor.UserID}
}

// validID reports whether id is a canonical UUID. Anything else would be
// rejected by postgres with invalid_text_representation.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func ticketByID(ctx context.Context, repos repository.Repositories, ticketID string) (*domain.Ticket, error) {
	details := map[string]any{"ticket_id": ticketID}
	if !validID(ticketID) {
		return nil, apperrors.NewNotFound("ticket", details)
	}
	ticket, err := repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, lookupErr(err, "ticket", details)
	}
	return ticket, nil
}

func companyFor(ctx context.Context, repos repository.Repositories, userID string) (*domain.CompanyProfile, error) {
	details := map[string]any{"user_id": userID}
	if !validID(userID) {
		return nil, apperrors.NewNotFound("company", details)
	}
	company, err := repos.Companies.GetByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "company", details)
	}
	return company, nil
}

func expertFor(ctx context.Context, repos repository.Repositories, userID string) (*domain.ExpertProfile, error) {
	details := map[string]any{"user_id": userID}
	if !validID(userID) {
		return nil, apperrors.NewNotFound("expert", details)
	}
	expert, err := repos.Experts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "expert", details)
	}
	return expert, nil
}

func lookupErr(err error, resource string, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}

func persistErr(err error, ticketID string) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
