package investments

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

// Repository exposes persistence helpers for investments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	Update(ctx context.Context, investment *models.Investment) error
	ListByUser(ctx context.Context, params listInvestmentsParams) ([]models.Investment, *pagination.Cursor, error)
	ListUserIDsByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]uuid.UUID, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an investments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listInvestmentsParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	var investment models.Investment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&investment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &investment, nil
}

// FindByIDForUpdate locks the row for the rest of the transaction. Returns
// nil without error when the id is unknown.
func (r *repositoryImpl) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	var investment models.Investment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&investment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &investment, nil
}

func (r *repositoryImpl) Update(ctx context.Context, investment *models.Investment) error {
	return r.db.WithContext(ctx).Save(investment).Error
}

func (r *repositoryImpl) ListByUser(ctx context.Context, params listInvestmentsParams) ([]models.Investment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Investment{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Investment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// ListUserIDsByOpportunity returns the distinct investors holding an active
// investment in the opportunity.
func (r *repositoryImpl) ListUserIDsByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Distinct("user_id").
		Where("opportunity_id = ? AND status = ?", opportunityID, enums.InvestmentStatusActive).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
