package payments

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Event is the processor-neutral shape every webhook normalizes into before
// reconciliation. Zero-value InvestmentID or UserID means the delivery
// carried no usable correlation.
type Event struct {
	Processor     enums.PaymentProcessor
	Kind          enums.PaymentEventKind
	EventID       string
	InvestmentID  uuid.UUID
	UserID        uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	PaymentRef    string
	FailureReason string
	NextAction    string
	Dispute       *DisputeDetails
	Transfer      *TransferDetails
	Raw           json.RawMessage
}

// DisputeDetails carries the provider fields recorded for dispute_created.
type DisputeDetails struct {
	ProviderDisputeID string
	ChargeID          string
	Amount            decimal.Decimal
	Currency          string
	Reason            string
	EvidenceDueBy     *time.Time
}

// TransferDetails carries the provider fields recorded for transfer_completed.
type TransferDetails struct {
	ProviderTransferID string
	Amount             decimal.Decimal
	Currency           string
	Destination        string
	CompletedAt        time.Time
}

// HasCorrelation reports whether the event identifies the investment it
// belongs to. Financial kinds without correlation are audited no-ops.
func (e Event) HasCorrelation() bool {
	return e.InvestmentID != uuid.Nil
}

// IsFinancial reports whether the kind mutates investment or aggregate state.
func (e Event) IsFinancial() bool {
	switch e.Kind {
	case enums.EventKindPaymentSucceeded, enums.EventKindPaymentFailed, enums.EventKindRequiresAction:
		return true
	default:
		return false
	}
}
