package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// InvestmentSettledEvent is emitted when a payment clears and the
// investment reaches its terminal succeeded state.
type InvestmentSettledEvent struct {
	InvestmentID  uuid.UUID              `json:"investment_id"`
	OpportunityID uuid.UUID              `json:"opportunity_id"`
	UserID        uuid.UUID              `json:"user_id"`
	Amount        decimal.Decimal        `json:"amount"`
	Currency      enums.Currency         `json:"currency"`
	Processor     enums.PaymentProcessor `json:"processor"`
	PaymentRef    string                 `json:"payment_ref"`
	SettledAt     time.Time              `json:"settled_at"`
}

// InvestmentPaymentFailedEvent reports a payment that failed before settling.
type InvestmentPaymentFailedEvent struct {
	InvestmentID  uuid.UUID              `json:"investment_id"`
	OpportunityID uuid.UUID              `json:"opportunity_id"`
	UserID        uuid.UUID              `json:"user_id"`
	Processor     enums.PaymentProcessor `json:"processor"`
	FailureReason string                 `json:"failure_reason,omitempty"`
	FailedAt      time.Time              `json:"failed_at"`
}

// InvestmentActionRequiredEvent tells downstream systems the investor must
// complete an extra step (3DS, OTP) before the payment can proceed.
type InvestmentActionRequiredEvent struct {
	InvestmentID  uuid.UUID              `json:"investment_id"`
	OpportunityID uuid.UUID              `json:"opportunity_id"`
	UserID        uuid.UUID              `json:"user_id"`
	Processor     enums.PaymentProcessor `json:"processor"`
	NextAction    string                 `json:"next_action,omitempty"`
}

// OpportunityFundedEvent fires exactly once, when the settling payment
// pushes the opportunity over its funding target.
type OpportunityFundedEvent struct {
	OpportunityID uuid.UUID       `json:"opportunity_id"`
	RaisedAmount  decimal.Decimal `json:"raised_amount"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	InvestorCount int             `json:"investor_count"`
	FundedAt      time.Time       `json:"funded_at"`
}

// DisputeOpenedEvent records a chargeback raised against a settled payment.
// InvestmentID is nil when the charge could not be matched to an investment.
type DisputeOpenedEvent struct {
	DisputeID    uuid.UUID              `json:"dispute_id"`
	InvestmentID *uuid.UUID             `json:"investment_id,omitempty"`
	Processor    enums.PaymentProcessor `json:"processor"`
	ProviderRef  string                 `json:"provider_ref"`
	Amount       decimal.Decimal        `json:"amount"`
	Currency     enums.Currency         `json:"currency"`
	Reason       string                 `json:"reason,omitempty"`
}

// DisputeResolvedEvent closes out a dispute with the operator's verdict.
type DisputeResolvedEvent struct {
	DisputeID    uuid.UUID           `json:"dispute_id"`
	InvestmentID *uuid.UUID          `json:"investment_id,omitempty"`
	Status       enums.DisputeStatus `json:"status"`
	ResolvedAt   time.Time           `json:"resolved_at"`
}

// TransferRecordedEvent mirrors a payout the processor reported moving.
type TransferRecordedEvent struct {
	TransferID  uuid.UUID              `json:"transfer_id"`
	Processor   enums.PaymentProcessor `json:"processor"`
	ProviderRef string                 `json:"provider_ref"`
	Amount      decimal.Decimal        `json:"amount"`
	Currency    enums.Currency         `json:"currency"`
	Destination string                 `json:"destination,omitempty"`
	CompletedAt time.Time              `json:"completed_at"`
}
