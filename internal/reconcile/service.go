package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	"github.com/adeyemimuse/sproutvest-backend/internal/disputes"
	"github.com/adeyemimuse/sproutvest-backend/internal/funding"
	"github.com/adeyemimuse/sproutvest-backend/internal/investments"
	"github.com/adeyemimuse/sproutvest-backend/internal/notifications"
	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/internal/transfers"
	dbpkg "github.com/adeyemimuse/sproutvest-backend/pkg/db"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/payloads"
)

const uxProcessedEvents = "idx_processed_events_processor_event_id"

// Sentinels used inside the financial transaction to roll everything back
// and report a non-error outcome to the caller.
var (
	errDuplicateDelivery = errors.New("delivery already applied")
	errUnknownInvestment = errors.New("unknown investment")
	errStaleTransition   = errors.New("stale state transition")
)

// Result is the engine's verdict on one normalized event. Outcomes other
// than failed are acknowledged 200 so the processor stops retrying.
type Result struct {
	Outcome enums.ReconcileOutcome
	Detail  string
}

type txRunner interface {
	WithTxRetry(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InvestmentStore is the slice of the investments repository the engine
// uses, scoped to the transaction each handler runs in.
type InvestmentStore interface {
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Investment, error)
	Update(ctx context.Context, tx *gorm.DB, investment *models.Investment) error
}

// NewInvestmentStore adapts the repository's WithTx chaining to the
// tx-scoped shape the handlers call.
func NewInvestmentStore(repo investments.Repository) InvestmentStore {
	return investmentStoreAdapter{repo: repo}
}

type investmentStoreAdapter struct {
	repo investments.Repository
}

func (a investmentStoreAdapter) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Investment, error) {
	return a.repo.WithTx(tx).FindByIDForUpdate(ctx, id)
}

func (a investmentStoreAdapter) Update(ctx context.Context, tx *gorm.DB, investment *models.Investment) error {
	return a.repo.WithTx(tx).Update(ctx, investment)
}

type fundingService interface {
	ApplyContribution(ctx context.Context, tx *gorm.DB, opportunityID uuid.UUID, amount decimal.Decimal) (*funding.Result, error)
}

type handlerFunc func(ctx context.Context, event payments.Event) (*Result, error)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type notificationWriter interface {
	Create(ctx context.Context, params notifications.CreateParams) (*models.Notification, error)
}

type auditRecorder interface {
	Record(ctx context.Context, input audit.RecordEntryInput) (*models.AuditLogEntry, error)
}

type portfolioService interface {
	ApplySettlement(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
}

type disputesRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, params disputes.RecordParams) (*disputes.RecordResult, error)
}

type transfersRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, params transfers.RecordParams) (*transfers.RecordResult, error)
}

// ServiceParams wires the engine's collaborators.
type ServiceParams struct {
	TxRunner      txRunner
	Gate          GateRepository
	Investments   InvestmentStore
	Funding       fundingService
	Portfolio     portfolioService
	Disputes      disputesRecorder
	Transfers     transfersRecorder
	Outbox        outboxPublisher
	Notifications notificationWriter
	Audit         auditRecorder
	Logger        *logger.Logger
}

// Service is the reconciliation engine: a registry of handlers keyed by
// normalized event kind. Financial kinds run their gate insert, investment
// transition, aggregate updates, and outbox write in one retried
// transaction; notifications and audit entries happen after commit and
// never unwind financial state.
type Service struct {
	tx            txRunner
	gate          GateRepository
	investments   InvestmentStore
	funding       fundingService
	portfolio     portfolioService
	disputes      disputesRecorder
	transfers     transfersRecorder
	outbox        outboxPublisher
	notifications notificationWriter
	audit         auditRecorder
	logg          *logger.Logger
	handlers      map[enums.PaymentEventKind]handlerFunc
	now           func() time.Time
}

// NewService validates dependencies and registers the handler set.
func NewService(params ServiceParams) (*Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Gate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gate repository required")
	}
	if params.Investments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "investments repository required")
	}
	if params.Funding == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "funding service required")
	}
	if params.Portfolio == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "portfolio service required")
	}
	if params.Disputes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "disputes service required")
	}
	if params.Transfers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transfers service required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	if params.Audit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}

	s := &Service{
		tx:            params.TxRunner,
		gate:          params.Gate,
		investments:   params.Investments,
		funding:       params.Funding,
		portfolio:     params.Portfolio,
		disputes:      params.Disputes,
		transfers:     params.Transfers,
		outbox:        params.Outbox,
		notifications: params.Notifications,
		audit:         params.Audit,
		logg:          params.Logger,
		now:           time.Now,
	}
	s.handlers = map[enums.PaymentEventKind]handlerFunc{
		enums.EventKindPaymentSucceeded:  s.handlePaymentSucceeded,
		enums.EventKindPaymentFailed:     s.handlePaymentFailed,
		enums.EventKindRequiresAction:    s.handleRequiresAction,
		enums.EventKindDisputeCreated:    s.handleDisputeCreated,
		enums.EventKindTransferCompleted: s.handleTransferCompleted,
	}
	return s, nil
}

// Process applies one normalized event and writes exactly one audit entry
// for its outcome, failures included. A returned error means a transient
// dependency problem; the caller surfaces it so the processor redelivers.
func (s *Service) Process(ctx context.Context, event payments.Event) (*Result, error) {
	if !event.Processor.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid processor")
	}
	if event.EventID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}

	handler, ok := s.handlers[event.Kind]
	var result *Result
	var err error
	if !ok {
		result = &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "unhandled event kind"}
	} else {
		result, err = handler(ctx, event)
	}

	if err != nil {
		s.recordAudit(ctx, event, enums.ReconcileOutcomeFailed, map[string]any{"error": err.Error()})
		return nil, err
	}

	var detail any
	if result.Detail != "" {
		detail = map[string]any{"detail": result.Detail}
	}
	s.recordAudit(ctx, event, result.Outcome, detail)
	return result, nil
}

type settlement struct {
	investment *models.Investment
	funding    *funding.Result
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, event payments.Event) (*Result, error) {
	if !event.HasCorrelation() {
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "missing correlation"}, nil
	}

	var settled settlement
	err := s.tx.WithTxRetry(ctx, func(tx *gorm.DB) error {
		if err := s.insertGate(ctx, tx, event); err != nil {
			return err
		}

		investment, err := s.investments.FindByIDForUpdate(ctx, tx, event.InvestmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
		}
		if investment == nil {
			return errUnknownInvestment
		}
		if investment.PaymentStatus == enums.PaymentStatusCompleted {
			return errStaleTransition
		}

		now := s.now().UTC()
		investment.Status = enums.InvestmentStatusActive
		investment.PaymentStatus = enums.PaymentStatusCompleted
		investment.PaidAt = &now
		investment.FailureReason = nil
		if len(event.Raw) > 0 {
			investment.PaymentDetails = event.Raw
		}
		if err := s.investments.Update(ctx, tx, investment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle investment")
		}

		fundingResult, err := s.funding.ApplyContribution(ctx, tx, investment.OpportunityID, investment.Amount)
		if err != nil {
			return err
		}
		if err := s.portfolio.ApplySettlement(ctx, tx, investment.UserID, investment.Amount); err != nil {
			return err
		}

		settledEvent := outbox.DomainEvent{
			EventType:     enums.EventInvestmentSettled,
			AggregateType: enums.AggregateInvestment,
			AggregateID:   investment.ID,
			Actor:         &outbox.ActorRef{UserID: investment.UserID},
			Version:       1,
			Data: payloads.InvestmentSettledEvent{
				InvestmentID:  investment.ID,
				OpportunityID: investment.OpportunityID,
				UserID:        investment.UserID,
				Amount:        investment.Amount,
				Currency:      investment.Currency,
				Processor:     event.Processor,
				PaymentRef:    event.PaymentRef,
				SettledAt:     now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, settledEvent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit investment settled")
		}

		if fundingResult.Funded && fundingResult.Opportunity != nil {
			opportunity := fundingResult.Opportunity
			fundedAt := now
			if opportunity.FundedAt != nil {
				fundedAt = *opportunity.FundedAt
			}
			fundedEvent := outbox.DomainEvent{
				EventType:     enums.EventOpportunityFunded,
				AggregateType: enums.AggregateOpportunity,
				AggregateID:   opportunity.ID,
				Version:       1,
				Data: payloads.OpportunityFundedEvent{
					OpportunityID: opportunity.ID,
					RaisedAmount:  opportunity.RaisedAmount,
					TargetAmount:  opportunity.TargetAmount,
					InvestorCount: opportunity.InvestorCount,
					FundedAt:      fundedAt,
				},
			}
			// The flip decides the single winner; the existence check keeps
			// the funded event unique even if a replay raced past it.
			if err := s.outbox.EmitIfNotExists(ctx, tx, fundedEvent); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit opportunity funded")
			}
		}

		settled = settlement{investment: investment, funding: fundingResult}
		return nil
	})

	if result, handled := resultFromSentinel(err); handled {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	s.notifySettled(ctx, settled)
	return &Result{Outcome: enums.ReconcileOutcomeApplied}, nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, event payments.Event) (*Result, error) {
	if !event.HasCorrelation() {
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "missing correlation"}, nil
	}

	var failed *models.Investment
	err := s.tx.WithTxRetry(ctx, func(tx *gorm.DB) error {
		if err := s.insertGate(ctx, tx, event); err != nil {
			return err
		}

		investment, err := s.investments.FindByIDForUpdate(ctx, tx, event.InvestmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
		}
		if investment == nil {
			return errUnknownInvestment
		}
		// A completed payment is terminal; a late failure event never
		// overwrites it.
		if investment.PaymentStatus == enums.PaymentStatusCompleted ||
			investment.PaymentStatus == enums.PaymentStatusFailed {
			return errStaleTransition
		}

		investment.Status = enums.InvestmentStatusPaymentFailed
		investment.PaymentStatus = enums.PaymentStatusFailed
		if event.FailureReason != "" {
			reason := event.FailureReason
			investment.FailureReason = &reason
		}
		if len(event.Raw) > 0 {
			investment.PaymentDetails = event.Raw
		}
		if err := s.investments.Update(ctx, tx, investment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark investment failed")
		}

		failedEvent := outbox.DomainEvent{
			EventType:     enums.EventInvestmentPaymentFailed,
			AggregateType: enums.AggregateInvestment,
			AggregateID:   investment.ID,
			Actor:         &outbox.ActorRef{UserID: investment.UserID},
			Version:       1,
			Data: payloads.InvestmentPaymentFailedEvent{
				InvestmentID:  investment.ID,
				OpportunityID: investment.OpportunityID,
				UserID:        investment.UserID,
				Processor:     event.Processor,
				FailureReason: event.FailureReason,
				FailedAt:      s.now().UTC(),
			},
		}
		if err := s.outbox.Emit(ctx, tx, failedEvent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payment failed")
		}

		failed = investment
		return nil
	})

	if result, handled := resultFromSentinel(err); handled {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	s.notifyFailed(ctx, failed, event.FailureReason)
	return &Result{Outcome: enums.ReconcileOutcomeApplied}, nil
}

func (s *Service) handleRequiresAction(ctx context.Context, event payments.Event) (*Result, error) {
	if !event.HasCorrelation() {
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "missing correlation"}, nil
	}

	var pending *models.Investment
	err := s.tx.WithTxRetry(ctx, func(tx *gorm.DB) error {
		if err := s.insertGate(ctx, tx, event); err != nil {
			return err
		}

		investment, err := s.investments.FindByIDForUpdate(ctx, tx, event.InvestmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
		}
		if investment == nil {
			return errUnknownInvestment
		}
		if investment.PaymentStatus != enums.PaymentStatusPending {
			return errStaleTransition
		}

		investment.PaymentStatus = enums.PaymentStatusRequiresAction
		if len(event.Raw) > 0 {
			investment.PaymentDetails = event.Raw
		}
		if err := s.investments.Update(ctx, tx, investment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark action required")
		}

		actionEvent := outbox.DomainEvent{
			EventType:     enums.EventInvestmentActionRequired,
			AggregateType: enums.AggregateInvestment,
			AggregateID:   investment.ID,
			Actor:         &outbox.ActorRef{UserID: investment.UserID},
			Version:       1,
			Data: payloads.InvestmentActionRequiredEvent{
				InvestmentID:  investment.ID,
				OpportunityID: investment.OpportunityID,
				UserID:        investment.UserID,
				Processor:     event.Processor,
				NextAction:    event.NextAction,
			},
		}
		if err := s.outbox.Emit(ctx, tx, actionEvent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit action required")
		}

		pending = investment
		return nil
	})

	if result, handled := resultFromSentinel(err); handled {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	s.notifyActionRequired(ctx, pending, event.NextAction)
	return &Result{Outcome: enums.ReconcileOutcomeApplied}, nil
}

func (s *Service) handleDisputeCreated(ctx context.Context, event payments.Event) (*Result, error) {
	if event.Dispute == nil {
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "missing dispute details"}, nil
	}

	var recorded *disputes.RecordResult
	err := s.tx.WithTxRetry(ctx, func(tx *gorm.DB) error {
		if err := s.insertGate(ctx, tx, event); err != nil {
			return err
		}

		params := disputes.RecordParams{
			Processor:         event.Processor,
			ProviderDisputeID: event.Dispute.ProviderDisputeID,
			ChargeID:          event.Dispute.ChargeID,
			Amount:            event.Dispute.Amount,
			Currency:          enums.Currency(event.Dispute.Currency),
			Reason:            event.Dispute.Reason,
			EvidenceDueBy:     event.Dispute.EvidenceDueBy,
			Raw:               event.Raw,
		}
		if event.InvestmentID != uuid.Nil {
			investmentID := event.InvestmentID
			params.InvestmentID = &investmentID
		}

		result, err := s.disputes.Record(ctx, tx, params)
		if err != nil {
			return err
		}
		recorded = result
		return nil
	})

	if result, handled := resultFromSentinel(err); handled {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	if recorded.Duplicate {
		return &Result{Outcome: enums.ReconcileOutcomeDuplicate, Detail: "dispute already recorded"}, nil
	}

	s.notifyDispute(ctx, recorded.Dispute)
	return &Result{Outcome: enums.ReconcileOutcomeRecorded}, nil
}

func (s *Service) handleTransferCompleted(ctx context.Context, event payments.Event) (*Result, error) {
	if event.Transfer == nil {
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "missing transfer details"}, nil
	}

	var recorded *transfers.RecordResult
	err := s.tx.WithTxRetry(ctx, func(tx *gorm.DB) error {
		if err := s.insertGate(ctx, tx, event); err != nil {
			return err
		}

		result, err := s.transfers.Record(ctx, tx, transfers.RecordParams{
			Processor:          event.Processor,
			ProviderTransferID: event.Transfer.ProviderTransferID,
			Amount:             event.Transfer.Amount,
			Currency:           enums.Currency(event.Transfer.Currency),
			Destination:        event.Transfer.Destination,
			CompletedAt:        event.Transfer.CompletedAt,
			Raw:                event.Raw,
		})
		if err != nil {
			return err
		}
		recorded = result
		return nil
	})

	if result, handled := resultFromSentinel(err); handled {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	if recorded.Duplicate {
		return &Result{Outcome: enums.ReconcileOutcomeDuplicate, Detail: "transfer already recorded"}, nil
	}

	s.notifyTransfer(ctx, recorded.Transfer)
	return &Result{Outcome: enums.ReconcileOutcomeRecorded}, nil
}

func (s *Service) insertGate(ctx context.Context, tx *gorm.DB, event payments.Event) error {
	row := &models.ProcessedWebhookEvent{
		Processor:  event.Processor,
		EventID:    event.EventID,
		EventKind:  event.Kind,
		ReceivedAt: s.now().UTC(),
	}
	if event.InvestmentID != uuid.Nil {
		investmentID := event.InvestmentID
		row.InvestmentID = &investmentID
	}
	if err := s.gate.Insert(ctx, tx, row); err != nil {
		if dbpkg.IsUniqueViolation(err, uxProcessedEvents) {
			return errDuplicateDelivery
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert processed event gate")
	}
	return nil
}

func resultFromSentinel(err error) (*Result, bool) {
	switch {
	case errors.Is(err, errDuplicateDelivery):
		return &Result{Outcome: enums.ReconcileOutcomeDuplicate, Detail: "delivery already applied"}, true
	case errors.Is(err, errUnknownInvestment):
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "unknown investment"}, true
	case errors.Is(err, errStaleTransition):
		return &Result{Outcome: enums.ReconcileOutcomeSkipped, Detail: "stale state transition"}, true
	default:
		return nil, false
	}
}

func (s *Service) notifySettled(ctx context.Context, settled settlement) {
	investment := settled.investment
	userID := investment.UserID
	s.notify(ctx, notifications.CreateParams{
		UserID:   &userID,
		Type:     enums.NotificationTypePaymentConfirmed,
		Priority: enums.NotificationPriorityNormal,
		Title:    "Investment confirmed",
		Message:  fmt.Sprintf("Your investment of %s %s is now active.", investment.Amount.StringFixed(2), investment.Currency),
		Data: map[string]any{
			"investment_id":  investment.ID,
			"opportunity_id": investment.OpportunityID,
		},
	})

	if settled.funding != nil && settled.funding.Funded && settled.funding.Opportunity != nil {
		opportunity := settled.funding.Opportunity
		s.notify(ctx, notifications.CreateParams{
			Type:     enums.NotificationTypeOpportunityFunded,
			Priority: enums.NotificationPriorityHigh,
			Title:    "Opportunity fully funded",
			Message:  fmt.Sprintf("%q reached its target of %s %s.", opportunity.Title, opportunity.TargetAmount.StringFixed(2), opportunity.Currency),
			Data: map[string]any{
				"opportunity_id": opportunity.ID,
				"raised_amount":  opportunity.RaisedAmount,
				"investor_count": opportunity.InvestorCount,
			},
		})
	}
}

func (s *Service) notifyFailed(ctx context.Context, investment *models.Investment, reason string) {
	message := "Your payment could not be completed. Please try again."
	if reason != "" {
		message = fmt.Sprintf("Your payment could not be completed: %s.", reason)
	}
	userID := investment.UserID
	s.notify(ctx, notifications.CreateParams{
		UserID:   &userID,
		Type:     enums.NotificationTypePaymentFailed,
		Priority: enums.NotificationPriorityHigh,
		Title:    "Payment failed",
		Message:  message,
		Data: map[string]any{
			"investment_id": investment.ID,
		},
	})
}

func (s *Service) notifyActionRequired(ctx context.Context, investment *models.Investment, nextAction string) {
	userID := investment.UserID
	s.notify(ctx, notifications.CreateParams{
		UserID:   &userID,
		Type:     enums.NotificationTypePaymentActionRequired,
		Priority: enums.NotificationPriorityHigh,
		Title:    "Action needed to complete your investment",
		Message:  "Your payment needs an extra verification step before it can complete.",
		Data: map[string]any{
			"investment_id": investment.ID,
			"next_action":   nextAction,
		},
	})
}

func (s *Service) notifyDispute(ctx context.Context, dispute *models.Dispute) {
	s.notify(ctx, notifications.CreateParams{
		Type:     enums.NotificationTypeDisputeOpened,
		Priority: enums.NotificationPriorityCritical,
		Title:    "Chargeback opened",
		Message:  fmt.Sprintf("Dispute %s for %s %s requires a response.", dispute.ProviderDisputeID, dispute.Amount.StringFixed(2), dispute.Currency),
		Data: map[string]any{
			"dispute_id":      dispute.ID,
			"evidence_due_by": dispute.EvidenceDueBy,
		},
	})
}

func (s *Service) notifyTransfer(ctx context.Context, transfer *models.Transfer) {
	s.notify(ctx, notifications.CreateParams{
		Type:     enums.NotificationTypeTransferRecorded,
		Priority: enums.NotificationPriorityNormal,
		Title:    "Payout recorded",
		Message:  fmt.Sprintf("Transfer %s for %s %s completed.", transfer.ProviderTransferID, transfer.Amount.StringFixed(2), transfer.Currency),
		Data: map[string]any{
			"transfer_id": transfer.ID,
		},
	})
}

// notify is best effort: a failed notification write is logged and never
// unwinds the committed financial state.
func (s *Service) notify(ctx context.Context, params notifications.CreateParams) {
	if _, err := s.notifications.Create(ctx, params); err != nil && s.logg != nil {
		s.logg.Error(ctx, "notification write failed", err)
	}
}

// recordAudit writes the single audit entry every delivery outcome gets.
// Best effort for the same reason as notify.
func (s *Service) recordAudit(ctx context.Context, event payments.Event, outcome enums.ReconcileOutcome, detail any) {
	input := audit.RecordEntryInput{
		Processor: event.Processor,
		EventID:   event.EventID,
		EventKind: event.Kind,
		Outcome:   outcome,
		Detail:    detail,
	}
	if event.InvestmentID != uuid.Nil {
		investmentID := event.InvestmentID
		input.InvestmentID = &investmentID
	}
	if event.UserID != uuid.Nil {
		userID := event.UserID
		input.UserID = &userID
	}
	if _, err := s.audit.Record(ctx, input); err != nil && s.logg != nil {
		s.logg.Error(ctx, "audit write failed", err)
	}
}
