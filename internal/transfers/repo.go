package transfers

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Repository manages persistence for payout bookkeeping rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, transfer *models.Transfer) (bool, error)
	FindByProviderTransferID(ctx context.Context, providerTransferID string) (*models.Transfer, error)
	List(ctx context.Context, params listTransfersParams) ([]models.Transfer, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transfers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listTransfersParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Insert writes the transfer unless the provider transfer id was already
// recorded. The conflict resolves inside the statement, so the surrounding
// transaction stays usable on a replay.
func (r *repository) Insert(ctx context.Context, transfer *models.Transfer) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_transfer_id"}},
			DoNothing: true,
		}).
		Create(transfer)
	return result.RowsAffected == 1, result.Error
}

func (r *repository) FindByProviderTransferID(ctx context.Context, providerTransferID string) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).Where("provider_transfer_id = ?", providerTransferID).First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) List(ctx context.Context, params listTransfersParams) ([]models.Transfer, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Transfer{})
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var transfers []models.Transfer
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, nil, err
	}

	if len(transfers) > normalized {
		next := transfers[normalized]
		transfers = transfers[:normalized]
		return transfers, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return transfers, nil, nil
}
