package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/internal/investments"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

// Overview is the investor-facing portfolio view: the running aggregates plus
// the first page of positions.
type Overview struct {
	TotalInvested     decimal.Decimal     `json:"totalInvested"`
	CurrentValue      decimal.Decimal     `json:"currentValue"`
	TotalReturn       decimal.Decimal     `json:"totalReturn"`
	ActiveInvestments int                 `json:"activeInvestments"`
	Positions         []models.Investment `json:"positions"`
	PositionsCursor   string              `json:"positionsCursor,omitempty"`
}

// Service maintains and serves per-user portfolio aggregates. ApplySettlement
// runs inside the transaction that settles the investment.
type Service interface {
	ApplySettlement(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
}

type service struct {
	repo        Repository
	investments investments.Service
}

// NewService wires portfolio dependencies.
func NewService(repo Repository, investmentsSvc investments.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "portfolio repository is required")
	}
	if investmentsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "investments service is required")
	}
	return &service{repo: repo, investments: investmentsSvc}, nil
}

func (s *service) ApplySettlement(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction is required")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "settlement amount must be positive")
	}

	rows, err := s.repo.WithTx(tx).ApplySettlement(ctx, userID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply portfolio settlement")
	}
	if rows == 0 {
		// Investments carry a foreign key to users, so this is database
		// inconsistency rather than caller error.
		return pkgerrors.New(pkgerrors.CodeInternal, "user not found for settlement")
	}
	return nil
}

func (s *service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	positions, err := s.investments.ListMine(ctx, investments.ListParams{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list positions")
	}

	return &Overview{
		TotalInvested:     user.TotalInvested,
		CurrentValue:      user.CurrentValue,
		TotalReturn:       user.TotalReturn,
		ActiveInvestments: user.ActiveInvestments,
		Positions:         positions.Items,
		PositionsCursor:   positions.Cursor,
	}, nil
}
