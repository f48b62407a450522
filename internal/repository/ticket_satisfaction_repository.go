package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// TicketSatisfactionRepository stores post-closure surveys.
type TicketSatisfactionRepository interface {
	Create(ctx context.Context, s *domain.TicketSatisfaction) error
	ExistsForTicket(ctx context.Context, ticketID string) (bool, error)
	// ListByCompany returns the company's surveys newest first.
	ListByCompany(ctx context.Context, companyID string) ([]domain.TicketSatisfaction, error)
}

type ticketSatisfactionRepository struct {
	db DBTX
}

// NewTicketSatisfactionRepository builds repository.
func NewTicketSatisfactionRepository(db DBTX) TicketSatisfactionRepository {
	return &ticketSatisfactionRepository{db: db}
}

func (r *ticketSatisfactionRepository) Create(ctx context.Context, s *domain.TicketSatisfaction) error {
	const query = `
        INSERT INTO ticket_satisfactions (ticket_id, company_id, rating, response_time_rating,
            resolution_quality_rating, communication_rating, comment, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		s.TicketID,
		s.CompanyID,
		s.Rating,
		s.ResponseTimeRating,
		s.ResolutionQualityRating,
		s.CommunicationRating,
		s.Comment,
		s.CreatedAt,
	).Scan(&s.ID)
}

func (r *ticketSatisfactionRepository) ExistsForTicket(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM live_ticket_satisfactions WHERE ticket_id=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketSatisfactionRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.TicketSatisfaction, error) {
	const query = `
        SELECT id, ticket_id, company_id, rating, response_time_rating, resolution_quality_rating,
            communication_rating, comment, created_at
        FROM live_ticket_satisfactions WHERE company_id=$1
        ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketSatisfaction
	for rows.Next() {
		var s domain.TicketSatisfaction
		if err := rows.Scan(
			&s.ID,
			&s.TicketID,
			&s.CompanyID,
			&s.Rating,
			&s.ResponseTimeRating,
			&s.ResolutionQualityRating,
			&s.CommunicationRating,
			&s.Comment,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
