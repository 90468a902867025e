package stripewebhook

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

// SignatureHeader selects this adapter at the gateway.
const SignatureHeader = "Stripe-Signature"

const (
	metadataInvestmentID = "investment_id"
	metadataUserID       = "user_id"
)

// Adapter verifies and normalizes Stripe webhook deliveries. Stripe signs
// each delivery with a timestamped HMAC; webhook.ConstructEvent enforces the
// scheme and its default tolerance window.
type Adapter struct {
	signingSecret string
}

// NewAdapter builds the Stripe adapter with the endpoint signing secret.
func NewAdapter(signingSecret string) (*Adapter, error) {
	if strings.TrimSpace(signingSecret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe signing secret is required")
	}
	return &Adapter{signingSecret: signingSecret}, nil
}

// Processor identifies the adapter.
func (a *Adapter) Processor() enums.PaymentProcessor {
	return enums.ProcessorStripe
}

// Verify recomputes the timestamped HMAC over the exact payload bytes.
func (a *Adapter) Verify(payload []byte, header http.Header) error {
	sig := header.Get(SignatureHeader)
	if sig == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "stripe signature missing")
	}
	if _, err := webhook.ConstructEvent(payload, sig, a.signingSecret); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidSignature, err, "verify stripe signature")
	}
	return nil
}

// Normalize maps a verified delivery into the canonical payment event.
// Unrecognized event types come back as noop with the event ID preserved.
func (a *Adapter) Normalize(payload []byte) (*payments.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode stripe event")
	}
	if event.ID == "" || event.Data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stripe event envelope incomplete")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return a.normalizePaymentIntent(&event, enums.EventKindPaymentSucceeded)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return a.normalizePaymentIntent(&event, enums.EventKindPaymentFailed)
	case stripe.EventTypePaymentIntentRequiresAction:
		return a.normalizePaymentIntent(&event, enums.EventKindRequiresAction)
	case stripe.EventTypeChargeDisputeCreated:
		return a.normalizeDispute(&event)
	case stripe.EventTypeTransferCreated:
		return a.normalizeTransfer(&event)
	default:
		return &payments.Event{
			Processor: enums.ProcessorStripe,
			Kind:      enums.EventKindNoop,
			EventID:   event.ID,
			Raw:       event.Data.Raw,
		}, nil
	}
}

func (a *Adapter) normalizePaymentIntent(event *stripe.Event, kind enums.PaymentEventKind) (*payments.Event, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent")
	}

	normalized := &payments.Event{
		Processor:    enums.ProcessorStripe,
		Kind:         kind,
		EventID:      event.ID,
		InvestmentID: uuidFromMetadata(intent.Metadata, metadataInvestmentID),
		UserID:       uuidFromMetadata(intent.Metadata, metadataUserID),
		Amount:       minorToMajor(intent.Amount),
		Currency:     strings.ToUpper(string(intent.Currency)),
		PaymentRef:   intent.ID,
		Raw:          event.Data.Raw,
	}
	if intent.LastPaymentError != nil {
		normalized.FailureReason = intent.LastPaymentError.Msg
	}
	if intent.NextAction != nil {
		normalized.NextAction = string(intent.NextAction.Type)
	}
	return normalized, nil
}

func (a *Adapter) normalizeDispute(event *stripe.Event) (*payments.Event, error) {
	var dispute stripe.Dispute
	if err := json.Unmarshal(event.Data.Raw, &dispute); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode dispute")
	}
	if dispute.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispute id missing")
	}

	details := &payments.DisputeDetails{
		ProviderDisputeID: dispute.ID,
		Amount:            minorToMajor(dispute.Amount),
		Currency:          strings.ToUpper(string(dispute.Currency)),
		Reason:            string(dispute.Reason),
	}
	if dispute.Charge != nil {
		details.ChargeID = dispute.Charge.ID
	}
	if dispute.EvidenceDetails != nil && dispute.EvidenceDetails.DueBy > 0 {
		dueBy := time.Unix(dispute.EvidenceDetails.DueBy, 0).UTC()
		details.EvidenceDueBy = &dueBy
	}

	return &payments.Event{
		Processor:    enums.ProcessorStripe,
		Kind:         enums.EventKindDisputeCreated,
		EventID:      event.ID,
		InvestmentID: uuidFromMetadata(dispute.Metadata, metadataInvestmentID),
		Amount:       details.Amount,
		Currency:     details.Currency,
		Dispute:      details,
		Raw:          event.Data.Raw,
	}, nil
}

func (a *Adapter) normalizeTransfer(event *stripe.Event) (*payments.Event, error) {
	var transfer stripe.Transfer
	if err := json.Unmarshal(event.Data.Raw, &transfer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode transfer")
	}
	if transfer.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer id missing")
	}

	completedAt := time.Now().UTC()
	if transfer.Created > 0 {
		completedAt = time.Unix(transfer.Created, 0).UTC()
	}

	details := &payments.TransferDetails{
		ProviderTransferID: transfer.ID,
		Amount:             minorToMajor(transfer.Amount),
		Currency:           strings.ToUpper(string(transfer.Currency)),
		Destination:        event.GetObjectValue("destination"),
		CompletedAt:        completedAt,
	}

	return &payments.Event{
		Processor: enums.ProcessorStripe,
		Kind:      enums.EventKindTransferCompleted,
		EventID:   event.ID,
		Amount:    details.Amount,
		Currency:  details.Currency,
		Transfer:  details,
		Raw:       event.Data.Raw,
	}, nil
}

// uuidFromMetadata returns uuid.Nil when the key is absent or malformed; the
// engine treats that as a missing correlation, never a guess.
func uuidFromMetadata(metadata map[string]string, key string) uuid.UUID {
	raw, ok := metadata[key]
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// minorToMajor converts Stripe's minor-unit amounts into 2dp major units.
func minorToMajor(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Shift(-2)
}
