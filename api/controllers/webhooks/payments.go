package webhooks

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/api/responses"
	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/internal/reconcile"
	webhookspkg "github.com/adeyemimuse/sproutvest-backend/internal/webhooks"
	flutterwavewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/flutterwave"
	stripewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/stripe"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/metrics"
)

type paymentEngine interface {
	Process(ctx context.Context, event payments.Event) (*reconcile.Result, error)
}

type deliveryGuard interface {
	Seen(ctx context.Context, processor enums.PaymentProcessor, eventID string) (bool, error)
	Mark(ctx context.Context, processor enums.PaymentProcessor, eventID string) error
}

type auditRecorder interface {
	Record(ctx context.Context, input audit.RecordEntryInput) (*models.AuditLogEntry, error)
}

// PaymentWebhookParams wires the shared webhook endpoint.
type PaymentWebhookParams struct {
	Stripe       webhookspkg.Source
	Flutterwave  webhookspkg.Source
	Engine       paymentEngine
	Guard        deliveryGuard
	Audit        auditRecorder
	Metrics      *metrics.WebhookMetrics
	Logger       *logger.Logger
	MaxBodyBytes int64
}

type sourceRoute struct {
	header string
	source webhookspkg.Source
}

// PaymentWebhook is the single ingestion endpoint for processor callbacks.
// The source is selected by signature header, verified, normalized, and
// handed to the reconciliation engine. Every accepted delivery is answered
// with a flat {"received":true} so processors stop retrying. The Redis guard
// is marked only after the engine succeeds; a crash or panic mid-processing
// leaves it clear so the provider's retry reaches the durable gate.
func PaymentWebhook(params PaymentWebhookParams) http.HandlerFunc {
	routes := []sourceRoute{
		{header: stripewebhook.SignatureHeader, source: params.Stripe},
		{header: flutterwavewebhook.SignatureHeader, source: params.Flutterwave},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		started := time.Now()

		if params.Engine == nil || params.Guard == nil {
			responses.WriteError(ctx, params.Logger, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook pipeline unavailable"))
			return
		}

		if params.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, params.MaxBodyBytes)
		}
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, params.Logger, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		var source webhookspkg.Source
		for _, route := range routes {
			if route.source == nil {
				continue
			}
			if r.Header.Get(route.header) != "" {
				source = route.source
				break
			}
		}
		if source == nil {
			responses.WriteError(ctx, params.Logger, w, pkgerrors.New(pkgerrors.CodeUnknownSource, "no recognized signature header"))
			return
		}

		processor := source.Processor()
		ctx = attachProcessor(ctx, params.Logger, processor)

		if err := source.Verify(payload, r.Header); err != nil {
			params.Metrics.IncSignatureFailure(string(processor))
			responses.WriteError(ctx, params.Logger, w, err)
			return
		}

		event, err := source.Normalize(payload)
		if err != nil {
			responses.WriteError(ctx, params.Logger, w, err)
			return
		}
		ctx = attachEventID(ctx, params.Logger, event.EventID)

		seen, err := params.Guard.Seen(ctx, processor, event.EventID)
		if err != nil {
			// Redis being down must not block ingestion; the durable gate
			// still catches replays.
			if params.Logger != nil {
				params.Logger.Error(ctx, "delivery guard unavailable", err)
			}
		} else if seen {
			recordDuplicate(ctx, params, event)
			params.Metrics.IncOutcome(string(processor), string(event.Kind), string(enums.ReconcileOutcomeDuplicate))
			params.Metrics.ObserveDuration(string(processor), time.Since(started))
			responses.WriteRaw(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		result, err := params.Engine.Process(ctx, *event)
		if err != nil {
			params.Metrics.IncOutcome(string(processor), string(event.Kind), string(enums.ReconcileOutcomeFailed))
			responses.WriteError(ctx, params.Logger, w, err)
			return
		}

		if markErr := params.Guard.Mark(ctx, processor, event.EventID); markErr != nil && params.Logger != nil {
			params.Logger.Error(ctx, "delivery guard mark failed", markErr)
		}

		params.Metrics.IncOutcome(string(processor), string(event.Kind), string(result.Outcome))
		params.Metrics.ObserveDuration(string(processor), time.Since(started))
		if params.Logger != nil {
			logCtx := params.Logger.WithField(ctx, "outcome", string(result.Outcome))
			params.Logger.Info(logCtx, "webhook delivery processed")
		}
		responses.WriteRaw(w, http.StatusOK, map[string]bool{"received": true})
	}
}

// recordDuplicate keeps the audit trail complete for deliveries the Redis
// guard short-circuits before the engine runs. Best effort, like the
// engine's own audit writes.
func recordDuplicate(ctx context.Context, params PaymentWebhookParams, event *payments.Event) {
	if params.Audit == nil {
		return
	}
	input := audit.RecordEntryInput{
		Processor: event.Processor,
		EventID:   event.EventID,
		EventKind: event.Kind,
		Outcome:   enums.ReconcileOutcomeDuplicate,
		Detail:    map[string]any{"detail": "short-circuited by delivery guard"},
	}
	if event.InvestmentID != uuid.Nil {
		investmentID := event.InvestmentID
		input.InvestmentID = &investmentID
	}
	if _, err := params.Audit.Record(ctx, input); err != nil && params.Logger != nil {
		params.Logger.Error(ctx, "duplicate audit write failed", err)
	}
}

func attachProcessor(ctx context.Context, logg *logger.Logger, processor enums.PaymentProcessor) context.Context {
	if logg == nil {
		return ctx
	}
	return logg.WithProcessor(ctx, string(processor))
}

func attachEventID(ctx context.Context, logg *logger.Logger, eventID string) context.Context {
	if logg == nil {
		return ctx
	}
	return logg.WithEventID(ctx, eventID)
}
