package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/events"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

// Assignment sources recorded in history and events.
const (
	AssignmentSourceAsset          = "asset_primary_expert"
	AssignmentSourceCompanyPrimary = "company_primary_expert"
	AssignmentSourceManual         = "manual"
)

// Assignment is the outcome of expert selection. A nil ExpertID means unassigned.
type Assignment struct {
	ExpertID *string
	Source   string
}

// ResolveAssignment picks the expert for a new ticket: the asset's primary
// expert when approved and linked to the company, else the company's primary
// linked expert when approved, else nobody.
func ResolveAssignment(ctx context.Context, repos repository.Repositories, companyID string, asset *domain.Asset) (Assignment, error) {
	if asset != nil && asset.PrimaryExpertID != nil {
		expert, err := repos.Experts.GetByID(ctx, *asset.PrimaryExpertID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, err
		}
		if expert != nil && expert.IsApproved {
			linked, err := repos.Experts.IsLinked(ctx, companyID, expert.ID)
			if err != nil {
				return Assignment{}, err
			}
			if linked {
				return Assignment{ExpertID: &expert.ID, Source: AssignmentSourceAsset}, nil
			}
		}
	}

	link, err := repos.Experts.GetPrimaryLink(ctx, companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, nil
	}
	if err != nil {
		return Assignment{}, err
	}
	expert, err := repos.Experts.GetByID(ctx, link.ExpertID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, nil
	}
	if err != nil {
		return Assignment{}, err
	}
	if !expert.IsApproved {
		return Assignment{}, nil
	}
	return Assignment{ExpertID: &expert.ID, Source: AssignmentSourceCompanyPrimary}, nil
}

// AssignExpert lets an admin hand the ticket to an approved expert linked to
// the ticket's company.
func (s *TicketService) AssignExpert(ctx context.Context, actor auth.Actor, ticketID, expertUserID string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only admins can assign experts")
	}

	var (
		ticket  *domain.Ticket
		pending []events.Event
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		ticket, err = ticketByID(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		if !validID(expertUserID) {
			return apperrors.NewFieldError("expert_id", "expert id must be a uuid")
		}

		expert, err := repos.Experts.GetByUserID(ctx, expertUserID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.MapError(err)
		}
		if expert == nil || !expert.IsApproved {
			return apperrors.NewFieldError("expert_id", "expert is not approved or not found")
		}
		linked, err := repos.Experts.IsLinked(ctx, ticket.CompanyID, expert.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !linked {
			return apperrors.NewFieldError("expert_id", "expert is not linked to the ticket's company")
		}
		if ticket.AssignedExpertID != nil && *ticket.AssignedExpertID == expert.ID {
			return nil
		}

		now := s.now().UTC()
		previous := ticket.AssignedExpertID
		assignment := Assignment{ExpertID: &expert.ID, Source: AssignmentSourceManual}
		ticket.AssignedExpertID = assignment.ExpertID
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return persistErr(err, ticket.ID)
		}
		if err := recordAssigneeChange(ctx, repos, actor, ticket.ID, previous, assignment, now); err != nil {
			return apperrors.MapError(err)
		}
		pending = append(pending, events.NewEvent(events.EventTicketAssigned, ticket.ID, eventActor(actor), now, events.TicketAssignedPayload{
			OldExpertID: previous,
			NewExpertID: assignment.ExpertID,
			Source:      assignment.Source,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("expert assigned",
		zap.String("ticket_id", ticket.ID),
		zap.Stringp("expert_id", ticket.AssignedExpertID))
	s.publish(ctx, pending...)
	return ticket, nil
}

func recordAssigneeChange(ctx context.Context, repos repository.Repositories, actor auth.Actor, ticketID string, oldExpert *string, assignment Assignment, at time.Time) error {
	return repos.History.Create(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByRole: actor.Role,
		ChangedByID:   actor.UserID,
		ChangeType:    domain.ChangeTypeAssignee,
		OldValue: map[string]any{
			"assigned_expert_id": oldExpert,
		},
		NewValue: map[string]any{
			"assigned_expert_id": assignment.ExpertID,
			"source":             assignment.Source,
		},
		CreatedAt: at,
	})
}
