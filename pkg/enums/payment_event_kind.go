package enums

import "fmt"

// PaymentEventKind is the processor-agnostic classification of a webhook event.
type PaymentEventKind string

const (
	EventKindPaymentSucceeded  PaymentEventKind = "payment_succeeded"
	EventKindPaymentFailed     PaymentEventKind = "payment_failed"
	EventKindRequiresAction    PaymentEventKind = "requires_action"
	EventKindDisputeCreated    PaymentEventKind = "dispute_created"
	EventKindTransferCompleted PaymentEventKind = "transfer_completed"

	// EventKindNoop covers event types the processors emit that this system
	// acknowledges without acting on.
	EventKindNoop PaymentEventKind = "noop"
)

var validPaymentEventKinds = []PaymentEventKind{
	EventKindPaymentSucceeded,
	EventKindPaymentFailed,
	EventKindRequiresAction,
	EventKindDisputeCreated,
	EventKindTransferCompleted,
	EventKindNoop,
}

// String implements fmt.Stringer.
func (k PaymentEventKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known PaymentEventKind.
func (k PaymentEventKind) IsValid() bool {
	for _, candidate := range validPaymentEventKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePaymentEventKind converts raw input into a PaymentEventKind.
func ParsePaymentEventKind(value string) (PaymentEventKind, error) {
	for _, candidate := range validPaymentEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment event kind %q", value)
}
