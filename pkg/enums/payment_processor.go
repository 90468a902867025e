package enums

import "fmt"

// PaymentProcessor identifies the external processor that delivered a webhook.
type PaymentProcessor string

const (
	ProcessorStripe      PaymentProcessor = "stripe"
	ProcessorFlutterwave PaymentProcessor = "flutterwave"
)

var validPaymentProcessors = []PaymentProcessor{
	ProcessorStripe,
	ProcessorFlutterwave,
}

// String implements fmt.Stringer.
func (p PaymentProcessor) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentProcessor.
func (p PaymentProcessor) IsValid() bool {
	for _, candidate := range validPaymentProcessors {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentProcessor converts raw input into a PaymentProcessor.
func ParsePaymentProcessor(value string) (PaymentProcessor, error) {
	for _, candidate := range validPaymentProcessors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment processor %q", value)
}
