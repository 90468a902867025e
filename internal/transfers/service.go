package transfers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/payloads"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service keeps payout bookkeeping. Record runs inside the webhook
// transaction; no investor state hangs off transfer rows.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, params RecordParams) (*RecordResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo   Repository
	outbox outboxPublisher
}

// RecordParams captures a processor-reported payout.
type RecordParams struct {
	Processor          enums.PaymentProcessor
	ProviderTransferID string
	Amount             decimal.Decimal
	Currency           enums.Currency
	Destination        string
	CompletedAt        time.Time
	Raw                json.RawMessage
}

// RecordResult reports whether the transfer was newly recorded or had
// already been seen under the same provider transfer id.
type RecordResult struct {
	Transfer  *models.Transfer
	Duplicate bool
}

// ListParams configures the admin transfers query.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps returned transfers and the cursor for the next page.
type ListResult struct {
	Items  []models.Transfer `json:"items"`
	Cursor string            `json:"cursor"`
}

// NewService wires transfers dependencies.
func NewService(repo Repository, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transfers repository required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{repo: repo, outbox: outboxSvc}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, params RecordParams) (*RecordResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction is required")
	}
	if !params.Processor.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid processor")
	}
	if strings.TrimSpace(params.ProviderTransferID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider transfer id required")
	}
	if params.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer amount cannot be negative")
	}

	completedAt := params.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	repo := s.repo.WithTx(tx)
	transfer := &models.Transfer{
		ProviderTransferID: params.ProviderTransferID,
		Processor:          params.Processor,
		Amount:             params.Amount,
		Currency:           params.Currency,
		CompletedAt:        completedAt,
		Raw:                params.Raw,
	}
	if destination := strings.TrimSpace(params.Destination); destination != "" {
		transfer.Destination = &destination
	}

	inserted, err := repo.Insert(ctx, transfer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transfer")
	}
	if !inserted {
		existing, findErr := repo.FindByProviderTransferID(ctx, params.ProviderTransferID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load existing transfer")
		}
		if existing == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "transfer vanished after insert conflict")
		}
		return &RecordResult{Transfer: existing, Duplicate: true}, nil
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventTransferRecorded,
		AggregateType: enums.AggregateTransfer,
		AggregateID:   transfer.ID,
		Version:       1,
		Data: payloads.TransferRecordedEvent{
			TransferID:  transfer.ID,
			Processor:   transfer.Processor,
			ProviderRef: transfer.ProviderTransferID,
			Amount:      transfer.Amount,
			Currency:    transfer.Currency,
			Destination: params.Destination,
			CompletedAt: transfer.CompletedAt,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit transfer recorded")
	}

	return &RecordResult{Transfer: transfer}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listTransfersParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transfers")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}
