package opportunities

import (
	"context"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Service exposes the opportunity read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination and filtering for opportunities.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned opportunities and the cursor for the next page.
type ListResult struct {
	Items  []models.Opportunity `json:"items"`
	Cursor string               `json:"cursor"`
}

// NewService wires opportunities dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "opportunities repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listOpportunitiesParams{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParseOpportunityStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list opportunities")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opportunity id required")
	}

	opportunity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load opportunity")
	}
	if opportunity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "opportunity not found")
	}
	return opportunity, nil
}
