package disputes

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/payloads"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service records disputes reported by the processors and lets operators
// resolve them. Record runs inside the webhook transaction; Resolve opens
// its own.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, params RecordParams) (*RecordResult, error)
	Resolve(ctx context.Context, disputeID uuid.UUID, params ResolveParams) (*models.Dispute, error)
	Get(ctx context.Context, disputeID uuid.UUID) (*models.Dispute, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// RecordParams captures a processor-reported dispute.
type RecordParams struct {
	Processor         enums.PaymentProcessor
	ProviderDisputeID string
	ChargeID          string
	InvestmentID      *uuid.UUID
	Amount            decimal.Decimal
	Currency          enums.Currency
	Reason            string
	EvidenceDueBy     *time.Time
	Raw               json.RawMessage
}

// RecordResult reports whether the dispute was newly recorded or had already
// been seen under the same provider dispute id.
type RecordResult struct {
	Dispute   *models.Dispute
	Duplicate bool
}

// ResolveParams captures an operator's verdict on a dispute.
type ResolveParams struct {
	Status enums.DisputeStatus
	Note   string
}

// ListParams configures the admin disputes query. Status is the raw query
// value; empty means no filter.
type ListParams struct {
	Status         string
	RequiresAction *bool
	Limit          int
	Cursor         string
}

// ListResult wraps returned disputes and the cursor for the next page.
type ListResult struct {
	Items  []models.Dispute `json:"items"`
	Cursor string           `json:"cursor"`
}

// NewService wires disputes dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "disputes repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, params RecordParams) (*RecordResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction is required")
	}
	if !params.Processor.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid processor")
	}
	if strings.TrimSpace(params.ProviderDisputeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider dispute id required")
	}
	if params.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispute amount cannot be negative")
	}

	repo := s.repo.WithTx(tx)
	dispute := &models.Dispute{
		ProviderDisputeID: params.ProviderDisputeID,
		Processor:         params.Processor,
		ChargeID:          params.ChargeID,
		InvestmentID:      params.InvestmentID,
		Amount:            params.Amount,
		Currency:          params.Currency,
		Reason:            params.Reason,
		Status:            enums.DisputeStatusNeedsResponse,
		EvidenceDueBy:     params.EvidenceDueBy,
		RequiresAction:    true,
		Raw:               params.Raw,
	}

	inserted, err := repo.Insert(ctx, dispute)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert dispute")
	}
	if !inserted {
		existing, findErr := repo.FindByProviderDisputeID(ctx, params.ProviderDisputeID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load existing dispute")
		}
		if existing == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispute vanished after insert conflict")
		}
		return &RecordResult{Dispute: existing, Duplicate: true}, nil
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventDisputeOpened,
		AggregateType: enums.AggregateDispute,
		AggregateID:   dispute.ID,
		Version:       1,
		Data: payloads.DisputeOpenedEvent{
			DisputeID:    dispute.ID,
			InvestmentID: dispute.InvestmentID,
			Processor:    dispute.Processor,
			ProviderRef:  dispute.ProviderDisputeID,
			Amount:       dispute.Amount,
			Currency:     dispute.Currency,
			Reason:       dispute.Reason,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit dispute opened")
	}

	return &RecordResult{Dispute: dispute}, nil
}

func (s *service) Resolve(ctx context.Context, disputeID uuid.UUID, params ResolveParams) (*models.Dispute, error) {
	if disputeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispute id required")
	}
	if params.Status != enums.DisputeStatusWon && params.Status != enums.DisputeStatusLost {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolution status must be won or lost")
	}

	var resolved *models.Dispute
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		dispute, err := repo.FindByID(ctx, disputeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dispute")
		}
		if dispute == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "dispute not found")
		}
		if dispute.ResolvedAt != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "dispute already resolved")
		}

		now := time.Now().UTC()
		dispute.Status = params.Status
		dispute.RequiresAction = false
		dispute.ResolvedAt = &now
		if note := strings.TrimSpace(params.Note); note != "" {
			dispute.ResolutionNote = &note
		}
		if err := repo.Update(ctx, dispute); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dispute")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventDisputeResolved,
			AggregateType: enums.AggregateDispute,
			AggregateID:   dispute.ID,
			Version:       1,
			Data: payloads.DisputeResolvedEvent{
				DisputeID:    dispute.ID,
				InvestmentID: dispute.InvestmentID,
				Status:       dispute.Status,
				ResolvedAt:   now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit dispute resolved")
		}

		resolved = dispute
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *service) Get(ctx context.Context, disputeID uuid.UUID) (*models.Dispute, error) {
	if disputeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispute id required")
	}

	dispute, err := s.repo.FindByID(ctx, disputeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dispute")
	}
	if dispute == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dispute not found")
	}
	return dispute, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listDisputesParams{
		RequiresAction: params.RequiresAction,
		Limit:          params.Limit,
	}

	if params.Status != "" {
		status, err := enums.ParseDisputeStatus(params.Status)
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list disputes")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}
