package flutterwavewebhook

import (
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/pkg/correlation"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
)

// SignatureHeader selects this adapter at the gateway.
const SignatureHeader = "verif-hash"

const (
	eventChargeCompleted   = "charge.completed"
	eventTransferCompleted = "transfer.completed"

	chargeStatusSuccessful = "successful"
	chargeStatusFailed     = "failed"
)

// Adapter verifies and normalizes Flutterwave webhook deliveries.
// Flutterwave authenticates with a static secret hash header; correlation
// travels in the tx_ref token we minted at charge creation.
type Adapter struct {
	secretHash string
	codec      *correlation.Codec
}

// NewAdapter builds the Flutterwave adapter.
func NewAdapter(secretHash string, codec *correlation.Codec) (*Adapter, error) {
	if strings.TrimSpace(secretHash) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave secret hash is required")
	}
	if codec == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "correlation codec is required")
	}
	return &Adapter{secretHash: secretHash, codec: codec}, nil
}

// Processor identifies the adapter.
func (a *Adapter) Processor() enums.PaymentProcessor {
	return enums.ProcessorFlutterwave
}

// Verify compares the verif-hash header against the configured secret. The
// comparison is constant-time; header equality is the whole scheme.
func (a *Adapter) Verify(_ []byte, header http.Header) error {
	provided := header.Get(SignatureHeader)
	if provided == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "verification hash missing")
	}
	if !hmac.Equal([]byte(provided), []byte(a.secretHash)) {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "verification hash mismatch")
	}
	return nil
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chargeData struct {
	ID        int64             `json:"id"`
	TxRef     string            `json:"tx_ref"`
	FlwRef    string            `json:"flw_ref"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Narration string            `json:"narration"`
	Meta      map[string]any    `json:"meta"`
	Processor processorResponse `json:"processor_response"`
}

type processorResponse struct {
	Message string `json:"message"`
}

func (p *processorResponse) UnmarshalJSON(raw []byte) error {
	// Flutterwave sends processor_response as either a bare string or an
	// object carrying a message field.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		p.Message = asString
		return nil
	}
	type alias struct {
		Message string `json:"message"`
	}
	var asObject alias
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return err
	}
	p.Message = asObject.Message
	return nil
}

type transferData struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	CompletedAt   string  `json:"completed_at"`
}

// Normalize maps a verified delivery into the canonical payment event.
// Unrecognized event names come back as noop with the delivery ID preserved.
func (a *Adapter) Normalize(payload []byte) (*payments.Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode flutterwave event")
	}
	if env.Event == "" || len(env.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flutterwave event envelope incomplete")
	}

	switch env.Event {
	case eventChargeCompleted:
		return a.normalizeCharge(env)
	case eventTransferCompleted:
		return a.normalizeTransfer(env)
	default:
		var data struct {
			ID int64 `json:"id"`
		}
		_ = json.Unmarshal(env.Data, &data)
		return &payments.Event{
			Processor: enums.ProcessorFlutterwave,
			Kind:      enums.EventKindNoop,
			EventID:   deliveryID(env.Event, data.ID),
			Raw:       env.Data,
		}, nil
	}
}

func (a *Adapter) normalizeCharge(env envelope) (*payments.Event, error) {
	var data chargeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode charge data")
	}
	if data.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge id missing")
	}

	var kind enums.PaymentEventKind
	switch strings.ToLower(data.Status) {
	case chargeStatusSuccessful:
		kind = enums.EventKindPaymentSucceeded
	case chargeStatusFailed:
		kind = enums.EventKindPaymentFailed
	default:
		kind = enums.EventKindNoop
	}

	normalized := &payments.Event{
		Processor:    enums.ProcessorFlutterwave,
		Kind:         kind,
		EventID:      deliveryID(env.Event, data.ID),
		InvestmentID: a.investmentFromTxRef(data.TxRef),
		UserID:       uuidFromMeta(data.Meta, "user_id"),
		Amount:       decimal.NewFromFloat(data.Amount).Round(2),
		Currency:     strings.ToUpper(data.Currency),
		PaymentRef:   data.FlwRef,
		Raw:          env.Data,
	}
	if kind == enums.EventKindPaymentFailed {
		normalized.FailureReason = data.Processor.Message
	}
	return normalized, nil
}

func (a *Adapter) normalizeTransfer(env envelope) (*payments.Event, error) {
	var data transferData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode transfer data")
	}
	if data.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer id missing")
	}

	providerRef := data.Reference
	if providerRef == "" {
		providerRef = fmt.Sprintf("%d", data.ID)
	}

	completedAt := time.Now().UTC()
	if data.CompletedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, data.CompletedAt); err == nil {
			completedAt = parsed.UTC()
		}
	}

	destination := strings.TrimSpace(strings.Join(compact(data.BankName, data.AccountNumber), " "))
	details := &payments.TransferDetails{
		ProviderTransferID: providerRef,
		Amount:             decimal.NewFromFloat(data.Amount).Round(2),
		Currency:           strings.ToUpper(data.Currency),
		Destination:        destination,
		CompletedAt:        completedAt,
	}

	return &payments.Event{
		Processor: enums.ProcessorFlutterwave,
		Kind:      enums.EventKindTransferCompleted,
		EventID:   deliveryID(env.Event, data.ID),
		Amount:    details.Amount,
		Currency:  details.Currency,
		Transfer:  details,
		Raw:       env.Data,
	}, nil
}

// investmentFromTxRef resolves the opaque correlation token. A forged or
// mangled reference yields uuid.Nil, which the engine audits as a missing
// correlation instead of guessing.
func (a *Adapter) investmentFromTxRef(txRef string) uuid.UUID {
	id, err := a.codec.Parse(txRef)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func uuidFromMeta(meta map[string]any, key string) uuid.UUID {
	raw, ok := meta[key]
	if !ok {
		return uuid.Nil
	}
	value, ok := raw.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// deliveryID builds a stable per-event identifier; Flutterwave does not send
// a dedicated event id, but the (event name, object id) pair is unique.
func deliveryID(event string, objectID int64) string {
	return fmt.Sprintf("%s.%d", event, objectID)
}

func compact(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
