package audit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Service records webhook outcomes and serves the admin trail. Every webhook
// delivery produces exactly one Record call, no-ops included.
type Service interface {
	Record(ctx context.Context, input RecordEntryInput) (*models.AuditLogEntry, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data an audit entry requires.
type RecordEntryInput struct {
	Processor    enums.PaymentProcessor
	EventID      string
	EventKind    enums.PaymentEventKind
	InvestmentID *uuid.UUID
	UserID       *uuid.UUID
	Outcome      enums.ReconcileOutcome
	Detail       any
}

// ListParams configures the admin audit trail query. Processor and Outcome
// are raw query values; empty means no filter.
type ListParams struct {
	Processor string
	Outcome   string
	Limit     int
	Cursor    string
}

// ListResult wraps returned entries and the cursor for the next page.
type ListResult struct {
	Items  []models.AuditLogEntry `json:"items"`
	Cursor string                 `json:"cursor"`
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordEntryInput) (*models.AuditLogEntry, error) {
	if !input.Processor.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid processor")
	}
	if strings.TrimSpace(input.EventID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	if !input.EventKind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event kind")
	}
	if !input.Outcome.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid outcome")
	}

	var detail json.RawMessage
	if input.Detail != nil {
		encoded, err := json.Marshal(input.Detail)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode audit detail")
		}
		detail = encoded
	}

	entry := &models.AuditLogEntry{
		Processor:    input.Processor,
		EventID:      input.EventID,
		EventKind:    input.EventKind,
		InvestmentID: input.InvestmentID,
		UserID:       input.UserID,
		Outcome:      input.Outcome,
		Detail:       detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listAuditParams{Limit: params.Limit}

	if params.Processor != "" {
		processor, err := enums.ParsePaymentProcessor(params.Processor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid processor filter")
		}
		query.Processor = processor
	}
	if params.Outcome != "" {
		outcome, err := enums.ParseReconcileOutcome(params.Outcome)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid outcome filter")
		}
		query.Outcome = outcome
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}
