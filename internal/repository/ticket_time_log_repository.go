package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// TicketTimeLogRepository stores expert effort records.
type TicketTimeLogRepository interface {
	Create(ctx context.Context, log *domain.TicketTimeLog) error
	// ListByTicket returns newest first. A non-nil expertID restricts the result
	// to that expert's entries.
	ListByTicket(ctx context.Context, ticketID string, expertID *string) ([]domain.TicketTimeLog, error)
}

type ticketTimeLogRepository struct {
	db DBTX
}

// NewTicketTimeLogRepository builds repository.
func NewTicketTimeLogRepository(db DBTX) TicketTimeLogRepository {
	return &ticketTimeLogRepository{db: db}
}

func (r *ticketTimeLogRepository) Create(ctx context.Context, log *domain.TicketTimeLog) error {
	const query = `
        INSERT INTO ticket_time_logs (ticket_id, expert_id, minutes, work_type, logged_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		log.TicketID,
		log.ExpertID,
		log.Minutes,
		log.WorkType,
		log.LoggedAt,
	).Scan(&log.ID)
}

func (r *ticketTimeLogRepository) ListByTicket(ctx context.Context, ticketID string, expertID *string) ([]domain.TicketTimeLog, error) {
	const query = `
        SELECT id, ticket_id, expert_id, minutes, work_type, logged_at
        FROM live_ticket_time_logs WHERE ticket_id=$1 AND ($2::uuid IS NULL OR expert_id=$2)
        ORDER BY logged_at DESC`
	rows, err := r.db.Query(ctx, query, ticketID, expertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketTimeLog
	for rows.Next() {
		var log domain.TicketTimeLog
		if err := rows.Scan(
			&log.ID,
			&log.TicketID,
			&log.ExpertID,
			&log.Minutes,
			&log.WorkType,
			&log.LoggedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
