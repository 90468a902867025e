package funding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Repository applies funding mutations. All writes run as single SQL
// statements so concurrent contributions never read-modify-write.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	IncrementRaised(ctx context.Context, opportunityID uuid.UUID, amount decimal.Decimal) (int64, error)
	MarkFundedIfComplete(ctx context.Context, opportunityID uuid.UUID, now time.Time) (int64, error)
	FindByID(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a funding repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) IncrementRaised(ctx context.Context, opportunityID uuid.UUID, amount decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Opportunity{}).
		Where("id = ?", opportunityID).
		Updates(map[string]any{
			"raised_amount":  gorm.Expr("raised_amount + ?", amount),
			"investor_count": gorm.Expr("investor_count + 1"),
		})
	return result.RowsAffected, result.Error
}

// MarkFundedIfComplete flips an open opportunity to funded once the raise
// covers the target. Under concurrent contributions exactly one caller
// observes rows affected = 1.
func (r *repositoryImpl) MarkFundedIfComplete(ctx context.Context, opportunityID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Opportunity{}).
		Where("id = ? AND status = ? AND raised_amount >= target_amount", opportunityID, enums.OpportunityStatusOpen).
		Updates(map[string]any{
			"status":    enums.OpportunityStatusFunded,
			"funded_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.WithContext(ctx).Where("id = ?", opportunityID).First(&opportunity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &opportunity, nil
}
