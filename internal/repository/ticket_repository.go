package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Reads only see live tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update persists the ticket if its stored version still equals
	// ticket.Version, then bumps ticket.Version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// ListWithFilter returns live tickets newest first. Nil filter fields match everything.
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

// TicketFilter narrows a ticket listing to an actor's scope.
type TicketFilter struct {
	CompanyID        *string
	AssignedExpertID *string
	Statuses         []domain.TicketStatus
}

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, company_id, service_id, asset_id, assigned_expert_id, title, description, status,
               sla_first_response_minutes, sla_resolution_minutes, first_response_due_at, resolution_due_at,
               first_response_at, resolved_at, closed_at, first_response_breached, resolution_breached,
               version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (company_id, service_id, asset_id, assigned_expert_id, title, description, status,
            sla_first_response_minutes, sla_resolution_minutes, first_response_due_at, resolution_due_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
        RETURNING id, version, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.CompanyID,
		ticket.ServiceID,
		ticket.AssetID,
		ticket.AssignedExpertID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.SLAFirstResponseMinutes,
		ticket.SLAResolutionMinutes,
		ticket.FirstResponseDueAt,
		ticket.ResolutionDueAt,
		ticket.CreatedAt,
	).Scan(&ticket.ID, &ticket.Version, &ticket.UpdatedAt)
}

// Update never touches the SLA snapshot columns.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_expert_id=$1, status=$2, first_response_at=$3, resolved_at=$4, closed_at=$5,
            first_response_breached=$6, resolution_breached=$7, version=version+1, updated_at=NOW()
        WHERE id=$8 AND version=$9 AND deleted_at IS NULL
        RETURNING version, updated_at`
	err := r.db.QueryRow(ctx, query,
		ticket.AssignedExpertID,
		ticket.Status,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.FirstResponseBreached,
		ticket.ResolutionBreached,
		ticket.ID,
		ticket.Version,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrVersionConflict
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM live_tickets WHERE id=$1`
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if filter.AssignedExpertID != nil {
		args = append(args, *filter.AssignedExpertID)
		clauses = append(clauses, fmt.Sprintf("assigned_expert_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM live_tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CompanyID,
		&ticket.ServiceID,
		&ticket.AssetID,
		&ticket.AssignedExpertID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.SLAFirstResponseMinutes,
		&ticket.SLAResolutionMinutes,
		&ticket.FirstResponseDueAt,
		&ticket.ResolutionDueAt,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.FirstResponseBreached,
		&ticket.ResolutionBreached,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
