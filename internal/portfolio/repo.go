package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
)

// Repository maintains the portfolio aggregate columns on users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ApplySettlement(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a portfolio repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// ApplySettlement folds a settled investment into the user's aggregates in a
// single statement. Every right-hand side reads the pre-update row, so
// total_return lands on current_value - total_invested for the new values and
// the row is never observed torn.
func (r *repositoryImpl) ApplySettlement(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"total_invested":     gorm.Expr("total_invested + ?", amount),
			"current_value":      gorm.Expr("current_value + ?", amount),
			"active_investments": gorm.Expr("active_investments + 1"),
			"total_return":       gorm.Expr("(current_value + ?) - (total_invested + ?)", amount, amount),
		})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
