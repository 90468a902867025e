package investments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	paginationpkg "github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

type fakeRepository struct {
	findByIDFn   func(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	listByUserFn func(ctx context.Context, params listInvestmentsParams) ([]models.Investment, *paginationpkg.Cursor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRepository) Update(ctx context.Context, investment *models.Investment) error {
	return nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, params listInvestmentsParams) ([]models.Investment, *paginationpkg.Cursor, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) ListUserIDsByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func TestService_ListMine(t *testing.T) {
	userID := uuid.New()
	first := models.Investment{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	next := models.Investment{ID: uuid.New(), UserID: userID, CreatedAt: time.Now().Add(-time.Hour)}

	repo := &fakeRepository{
		listByUserFn: func(ctx context.Context, params listInvestmentsParams) ([]models.Investment, *paginationpkg.Cursor, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user id %s", params.UserID)
			}
			return []models.Investment{first}, &paginationpkg.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
		},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.ListMine(context.Background(), ListParams{UserID: userID, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 investment, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("cursor id mismatch")
	}
}

func TestService_ListMineRequiresUser(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.ListMine(context.Background(), ListParams{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected code %s", pkgerrors.As(err).Code())
	}
}

func TestService_ListMineRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.ListMine(context.Background(), ListParams{UserID: uuid.New(), Cursor: "not-a-cursor"})
	if err == nil {
		t.Fatal("expected cursor error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected code %s", pkgerrors.As(err).Code())
	}
}

func TestService_GetMine(t *testing.T) {
	userID := uuid.New()
	investment := &models.Investment{ID: uuid.New(), UserID: userID}

	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
			if id != investment.ID {
				t.Fatalf("unexpected id %s", id)
			}
			return investment, nil
		},
	}
	svc, _ := NewService(repo)

	got, err := svc.GetMine(context.Background(), userID, investment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != investment.ID {
		t.Fatalf("unexpected investment %s", got.ID)
	}
}

func TestService_GetMineHidesOtherUsers(t *testing.T) {
	owner := uuid.New()
	investment := &models.Investment{ID: uuid.New(), UserID: owner}

	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
			return investment, nil
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.GetMine(context.Background(), uuid.New(), investment.ID)
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected code %s", pkgerrors.As(err).Code())
	}
}

func TestService_GetMinePropagatesRepoError(t *testing.T) {
	repoErr := errors.New("boom")
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
			return nil, repoErr
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.GetMine(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected code %s", pkgerrors.As(err).Code())
	}
}
