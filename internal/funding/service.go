package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

// Result reports the aggregate state after a contribution was applied.
// Opportunity is populated only when this contribution completed the raise.
type Result struct {
	Funded      bool
	Opportunity *models.Opportunity
}

// Service maintains per-opportunity funding aggregates. Callers are expected
// to pass the transaction that settles the investment so the aggregate moves
// atomically with the payment.
type Service interface {
	ApplyContribution(ctx context.Context, tx *gorm.DB, opportunityID uuid.UUID, amount decimal.Decimal) (*Result, error)
	Get(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a funding service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "funding repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ApplyContribution(ctx context.Context, tx *gorm.DB, opportunityID uuid.UUID, amount decimal.Decimal) (*Result, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction is required")
	}
	if opportunityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opportunity id is required")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contribution amount must be positive")
	}

	repo := s.repo.WithTx(tx)

	rows, err := repo.IncrementRaised(ctx, opportunityID, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment raised amount")
	}
	if rows == 0 {
		// Investments carry a foreign key to opportunities, so a missing row
		// means the database is inconsistent, not that the caller misfired.
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "opportunity not found for contribution")
	}

	rows, err = repo.MarkFundedIfComplete(ctx, opportunityID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark opportunity funded")
	}
	if rows == 0 {
		return &Result{Funded: false}, nil
	}

	opportunity, err := repo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload funded opportunity")
	}
	return &Result{Funded: true, Opportunity: opportunity}, nil
}

// Get returns the opportunity with its current funding aggregates.
func (s *service) Get(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	if opportunityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opportunity id is required")
	}
	opportunity, err := s.repo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load opportunity")
	}
	if opportunity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "opportunity not found")
	}
	return opportunity, nil
}
