package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// AssetRepository reads company assets.
type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
}

type assetRepository struct {
	db DBTX
}

// NewAssetRepository builds repository.
func NewAssetRepository(db DBTX) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	const query = `
        SELECT id, company_id, primary_expert_id, name
        FROM live_assets WHERE id=$1`
	var asset domain.Asset
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&asset.ID,
		&asset.CompanyID,
		&asset.PrimaryExpertID,
		&asset.Name,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}
