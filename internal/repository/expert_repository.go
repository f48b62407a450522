package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// ExpertRepository resolves expert profiles and their company links.
type ExpertRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ExpertProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.ExpertProfile, error)
	IsLinked(ctx context.Context, companyID, expertID string) (bool, error)
	// GetPrimaryLink returns pgx.ErrNoRows when the company has no primary expert.
	GetPrimaryLink(ctx context.Context, companyID string) (*domain.CompanyExpertLink, error)
}

type expertRepository struct {
	db DBTX
}

// NewExpertRepository instantiates the repository.
func NewExpertRepository(db DBTX) ExpertRepository {
	return &expertRepository{db: db}
}

func (r *expertRepository) GetByID(ctx context.Context, id string) (*domain.ExpertProfile, error) {
	const query = `
        SELECT id, user_id, full_name, is_approved, created_at
        FROM live_expert_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *expertRepository) GetByUserID(ctx context.Context, userID string) (*domain.ExpertProfile, error) {
	const query = `
        SELECT id, user_id, full_name, is_approved, created_at
        FROM live_expert_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *expertRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ExpertProfile, error) {
	var expert domain.ExpertProfile
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&expert.ID,
		&expert.UserID,
		&expert.FullName,
		&expert.IsApproved,
		&expert.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepository) IsLinked(ctx context.Context, companyID, expertID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM live_company_expert_links WHERE company_id=$1 AND expert_id=$2)`
	var linked bool
	if err := r.db.QueryRow(ctx, query, companyID, expertID).Scan(&linked); err != nil {
		return false, err
	}
	return linked, nil
}

func (r *expertRepository) GetPrimaryLink(ctx context.Context, companyID string) (*domain.CompanyExpertLink, error) {
	const query = `
        SELECT id, company_id, expert_id, is_primary
        FROM live_company_expert_links WHERE company_id=$1 AND is_primary`
	var link domain.CompanyExpertLink
	if err := r.db.QueryRow(ctx, query, companyID).Scan(
		&link.ID,
		&link.CompanyID,
		&link.ExpertID,
		&link.IsPrimary,
	); err != nil {
		return nil, err
	}
	return &link, nil
}
