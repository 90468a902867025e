package webhooks

import (
	"net/http"

	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Source is one processor's webhook adapter. Verify authenticates the raw
// delivery; Normalize maps the same bytes into the canonical payment event.
// Verify must be called before Normalize and must not mutate anything.
type Source interface {
	Processor() enums.PaymentProcessor
	Verify(payload []byte, header http.Header) error
	Normalize(payload []byte) (*payments.Event, error)
}
