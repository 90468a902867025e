package funding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

type fakeRepository struct {
	incrementFn  func(ctx context.Context, opportunityID uuid.UUID, amount decimal.Decimal) (int64, error)
	markFundedFn func(ctx context.Context, opportunityID uuid.UUID, now time.Time) (int64, error)
	findByIDFn   func(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) IncrementRaised(ctx context.Context, opportunityID uuid.UUID, amount decimal.Decimal) (int64, error) {
	if f.incrementFn != nil {
		return f.incrementFn(ctx, opportunityID, amount)
	}
	return 1, nil
}

func (f *fakeRepository) MarkFundedIfComplete(ctx context.Context, opportunityID uuid.UUID, now time.Time) (int64, error) {
	if f.markFundedFn != nil {
		return f.markFundedFn(ctx, opportunityID, now)
	}
	return 0, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, opportunityID)
	}
	return nil, nil
}

func TestApplyContributionBelowTarget(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.ApplyContribution(context.Background(), &gorm.DB{}, uuid.New(), decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("ApplyContribution: %v", err)
	}
	if result.Funded {
		t.Fatal("expected contribution below target to leave opportunity open")
	}
	if result.Opportunity != nil {
		t.Fatal("expected no opportunity reload when the raise is incomplete")
	}
}

func TestApplyContributionCompletesRaise(t *testing.T) {
	opportunityID := uuid.New()
	repo := &fakeRepository{
		markFundedFn: func(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
			return 1, nil
		},
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
			return &models.Opportunity{ID: id}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.ApplyContribution(context.Background(), &gorm.DB{}, opportunityID, decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("ApplyContribution: %v", err)
	}
	if !result.Funded {
		t.Fatal("expected completing contribution to mark the opportunity funded")
	}
	if result.Opportunity == nil || result.Opportunity.ID != opportunityID {
		t.Fatalf("expected funded opportunity reload, got %+v", result.Opportunity)
	}
}

func TestApplyContributionValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.ApplyContribution(ctx, nil, uuid.New(), decimal.NewFromInt(10)); pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for nil tx, got %v", err)
	}
	if _, err := svc.ApplyContribution(ctx, &gorm.DB{}, uuid.Nil, decimal.NewFromInt(10)); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}
	if _, err := svc.ApplyContribution(ctx, &gorm.DB{}, uuid.New(), decimal.Zero); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestApplyContributionMissingOpportunity(t *testing.T) {
	repo := &fakeRepository{
		incrementFn: func(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (int64, error) {
			return 0, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.ApplyContribution(context.Background(), &gorm.DB{}, uuid.New(), decimal.NewFromInt(10))
	if pkgerrors.As(err).Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error for missing opportunity, got %v", err)
	}
}

func TestApplyContributionPropagatesRepoError(t *testing.T) {
	repo := &fakeRepository{
		incrementFn: func(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.ApplyContribution(context.Background(), &gorm.DB{}, uuid.New(), decimal.NewFromInt(10))
	if err == nil {
		t.Fatal("expected repo error to propagate")
	}
}
