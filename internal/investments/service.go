package investments

import (
	"context"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Service exposes the investor-facing read operations.
type Service interface {
	ListMine(ctx context.Context, params ListParams) (*ListResult, error)
	GetMine(ctx context.Context, userID, investmentID uuid.UUID) (*models.Investment, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for an investor's investments.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// ListResult wraps returned investments and the cursor for the next page.
type ListResult struct {
	Items  []models.Investment `json:"items"`
	Cursor string              `json:"cursor"`
}

// NewService wires investments dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "investments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMine(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listInvestmentsParams{
		UserID: params.UserID,
		Limit:  params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByUser(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investments")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) GetMine(ctx context.Context, userID, investmentID uuid.UUID) (*models.Investment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if investmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investment id required")
	}

	investment, err := s.repo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
	}
	if investment == nil || investment.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investment not found")
	}
	return investment, nil
}
