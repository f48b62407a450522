package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// ContractRepository reads contracts and their per-service SLA overrides.
type ContractRepository interface {
	GetActiveForCompany(ctx context.Context, companyID string) (*domain.Contract, error)
	GetServiceOverride(ctx context.Context, contractID, serviceID string) (*domain.ContractService, error)
}

type contractRepository struct {
	db DBTX
}

// NewContractRepository builds repository.
func NewContractRepository(db DBTX) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetActiveForCompany(ctx context.Context, companyID string) (*domain.Contract, error) {
	const query = `
        SELECT id, company_id, is_active, created_at
        FROM live_contracts WHERE company_id=$1 AND is_active
        LIMIT 1`
	var contract domain.Contract
	if err := r.db.QueryRow(ctx, query, companyID).Scan(
		&contract.ID,
		&contract.CompanyID,
		&contract.IsActive,
		&contract.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetServiceOverride(ctx context.Context, contractID, serviceID string) (*domain.ContractService, error) {
	const query = `
        SELECT id, contract_id, service_id, custom_first_response_minutes, custom_resolution_minutes
        FROM live_contract_services WHERE contract_id=$1 AND service_id=$2`
	var cs domain.ContractService
	if err := r.db.QueryRow(ctx, query, contractID, serviceID).Scan(
		&cs.ID,
		&cs.ContractID,
		&cs.ServiceID,
		&cs.CustomFirstResponseMinutes,
		&cs.CustomResolutionMinutes,
	); err != nil {
		return nil, err
	}
	return &cs, nil
}
