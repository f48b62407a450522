package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// CompanyRepository resolves company profiles.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CompanyProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error)
}

type companyRepository struct {
	db DBTX
}

// NewCompanyRepository builds repository.
func NewCompanyRepository(db DBTX) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.CompanyProfile, error) {
	const query = `
        SELECT id, user_id, company_name, created_at
        FROM live_company_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *companyRepository) GetByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	const query = `
        SELECT id, user_id, company_name, created_at
        FROM live_company_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *companyRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.CompanyProfile, error) {
	var company domain.CompanyProfile
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&company.ID,
		&company.UserID,
		&company.CompanyName,
		&company.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}
