package disputes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Repository manages persistence for disputes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, dispute *models.Dispute) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	FindByProviderDisputeID(ctx context.Context, providerDisputeID string) (*models.Dispute, error)
	Update(ctx context.Context, dispute *models.Dispute) error
	List(ctx context.Context, params listDisputesParams) ([]models.Dispute, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a disputes repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listDisputesParams struct {
	Status         enums.DisputeStatus
	RequiresAction *bool
	Limit          int
	Cursor         *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Insert writes the dispute unless the provider dispute id was already
// recorded. The conflict resolves inside the statement, so the surrounding
// transaction stays usable on a replay.
func (r *repository) Insert(ctx context.Context, dispute *models.Dispute) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_dispute_id"}},
			DoNothing: true,
		}).
		Create(dispute)
	return result.RowsAffected == 1, result.Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dispute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *repository) FindByProviderDisputeID(ctx context.Context, providerDisputeID string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.WithContext(ctx).Where("provider_dispute_id = ?", providerDisputeID).First(&dispute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *repository) Update(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}

func (r *repository) List(ctx context.Context, params listDisputesParams) ([]models.Dispute, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Dispute{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.RequiresAction != nil {
		query = query.Where("requires_action = ?", *params.RequiresAction)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var disputes []models.Dispute
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&disputes).Error; err != nil {
		return nil, nil, err
	}

	if len(disputes) > normalized {
		next := disputes[normalized]
		disputes = disputes[:normalized]
		return disputes, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return disputes, nil, nil
}
