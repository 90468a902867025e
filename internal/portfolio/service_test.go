package portfolio

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/internal/investments"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

type fakeRepository struct {
	applySettlementFn func(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error)
	findUserFn        func(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) ApplySettlement(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	if f.applySettlementFn != nil {
		return f.applySettlementFn(ctx, userID, amount)
	}
	return 1, nil
}

func (f *fakeRepository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if f.findUserFn != nil {
		return f.findUserFn(ctx, userID)
	}
	return nil, nil
}

type fakeInvestments struct {
	listMineFn func(ctx context.Context, params investments.ListParams) (*investments.ListResult, error)
}

func (f *fakeInvestments) ListMine(ctx context.Context, params investments.ListParams) (*investments.ListResult, error) {
	if f.listMineFn != nil {
		return f.listMineFn(ctx, params)
	}
	return &investments.ListResult{}, nil
}

func (f *fakeInvestments) GetMine(ctx context.Context, userID, investmentID uuid.UUID) (*models.Investment, error) {
	return nil, nil
}

func newTestService(t *testing.T, repo Repository, inv investments.Service) Service {
	t.Helper()

	svc, err := NewService(repo, inv)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestApplySettlementValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeInvestments{})
	ctx := context.Background()

	if err := svc.ApplySettlement(ctx, nil, uuid.New(), decimal.NewFromInt(10)); pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for nil tx, got %v", err)
	}
	if err := svc.ApplySettlement(ctx, &gorm.DB{}, uuid.Nil, decimal.NewFromInt(10)); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing user, got %v", err)
	}
	if err := svc.ApplySettlement(ctx, &gorm.DB{}, uuid.New(), decimal.Zero); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestApplySettlementMissingUserRow(t *testing.T) {
	repo := &fakeRepository{
		applySettlementFn: func(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(t, repo, &fakeInvestments{})

	err := svc.ApplySettlement(context.Background(), &gorm.DB{}, uuid.New(), decimal.NewFromInt(10))
	if pkgerrors.As(err).Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestOverviewReturnsAggregatesAndPositions(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{
		findUserFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{
				ID:                id,
				TotalInvested:     decimal.NewFromInt(1250),
				CurrentValue:      decimal.NewFromInt(1350),
				TotalReturn:       decimal.NewFromInt(100),
				ActiveInvestments: 5,
			}, nil
		},
	}
	inv := &fakeInvestments{
		listMineFn: func(ctx context.Context, params investments.ListParams) (*investments.ListResult, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user id %s", params.UserID)
			}
			return &investments.ListResult{
				Items:  []models.Investment{{ID: uuid.New(), UserID: userID}},
				Cursor: "next-page",
			}, nil
		},
	}
	svc := newTestService(t, repo, inv)

	overview, err := svc.Overview(context.Background(), userID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if !overview.TotalInvested.Equal(decimal.NewFromInt(1250)) {
		t.Fatalf("unexpected invested %s", overview.TotalInvested)
	}
	if overview.ActiveInvestments != 5 {
		t.Fatalf("unexpected active count %d", overview.ActiveInvestments)
	}
	if len(overview.Positions) != 1 {
		t.Fatalf("expected one position, got %d", len(overview.Positions))
	}
	if overview.PositionsCursor != "next-page" {
		t.Fatalf("unexpected cursor %q", overview.PositionsCursor)
	}
}

func TestOverviewUnknownUser(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeInvestments{})

	_, err := svc.Overview(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
