package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/api/middleware"
	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	"github.com/adeyemimuse/sproutvest-backend/internal/payments"
	"github.com/adeyemimuse/sproutvest-backend/internal/reconcile"
	flutterwavewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/flutterwave"
	stripewebhook "github.com/adeyemimuse/sproutvest-backend/internal/webhooks/stripe"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/types"
)

type fakeSource struct {
	processor enums.PaymentProcessor
	verifyErr error
	event     *payments.Event
}

func (f *fakeSource) Processor() enums.PaymentProcessor { return f.processor }

func (f *fakeSource) Verify(payload []byte, header http.Header) error { return f.verifyErr }

func (f *fakeSource) Normalize(payload []byte) (*payments.Event, error) {
	if f.event != nil {
		return f.event, nil
	}
	return &payments.Event{
		Processor: f.processor,
		Kind:      enums.EventKindPaymentSucceeded,
		EventID:   "evt_1",
	}, nil
}

type fakeEngine struct {
	calls  int
	result *reconcile.Result
	err    error
	panics bool
}

func (f *fakeEngine) Process(ctx context.Context, event payments.Event) (*reconcile.Result, error) {
	f.calls++
	if f.panics {
		f.panics = false
		panic("storage gone mid flight")
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &reconcile.Result{Outcome: enums.ReconcileOutcomeApplied}, nil
}

type fakeGuard struct {
	seen    map[string]bool
	seenErr error
	marks   []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{seen: map[string]bool{}}
}

func (f *fakeGuard) Seen(ctx context.Context, processor enums.PaymentProcessor, eventID string) (bool, error) {
	if f.seenErr != nil {
		return false, f.seenErr
	}
	return f.seen[string(processor)+":"+eventID], nil
}

func (f *fakeGuard) Mark(ctx context.Context, processor enums.PaymentProcessor, eventID string) error {
	key := string(processor) + ":" + eventID
	f.seen[key] = true
	f.marks = append(f.marks, key)
	return nil
}

type fakeAudit struct {
	entries []audit.RecordEntryInput
}

func (f *fakeAudit) Record(ctx context.Context, input audit.RecordEntryInput) (*models.AuditLogEntry, error) {
	f.entries = append(f.entries, input)
	return &models.AuditLogEntry{}, nil
}

func newHandler(stripe, flutterwave *fakeSource, engine *fakeEngine, guard *fakeGuard) http.HandlerFunc {
	params := PaymentWebhookParams{
		Engine:       engine,
		Guard:        guard,
		MaxBodyBytes: 1 << 20,
	}
	if stripe != nil {
		params.Stripe = stripe
	}
	if flutterwave != nil {
		params.Flutterwave = flutterwave
	}
	return PaymentWebhook(params)
}

func postWebhook(t *testing.T, handler http.Handler, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", bytes.NewReader([]byte(`{}`)))
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPaymentWebhookRoutesByHeader(t *testing.T) {
	stripeSource := &fakeSource{processor: enums.ProcessorStripe}
	flwSource := &fakeSource{processor: enums.ProcessorFlutterwave}
	engine := &fakeEngine{}
	handler := newHandler(stripeSource, flwSource, engine, newFakeGuard())

	rec := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var ack map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil || !ack["received"] {
		t.Fatalf("expected flat received ack, got %s err %v", rec.Body.String(), err)
	}
	if engine.calls != 1 {
		t.Fatalf("expected engine called once, got %d", engine.calls)
	}
}

func TestPaymentWebhookUnknownSource(t *testing.T) {
	engine := &fakeEngine{}
	handler := newHandler(&fakeSource{processor: enums.ProcessorStripe}, &fakeSource{processor: enums.ProcessorFlutterwave}, engine, newFakeGuard())

	rec := postWebhook(t, handler, "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown source, got %d", rec.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeUnknownSource) {
		t.Fatalf("expected UNKNOWN_SOURCE, got %s", body.Error.Code)
	}
	if engine.calls != 0 {
		t.Fatal("engine must not run for unknown sources")
	}
}

func TestPaymentWebhookInvalidSignature(t *testing.T) {
	stripeSource := &fakeSource{
		processor: enums.ProcessorStripe,
		verifyErr: pkgerrors.New(pkgerrors.CodeInvalidSignature, "signature mismatch"),
	}
	engine := &fakeEngine{}
	handler := newHandler(stripeSource, nil, engine, newFakeGuard())

	rec := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=bad")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid signature, got %d", rec.Code)
	}
	if engine.calls != 0 {
		t.Fatal("engine must not run on signature failure")
	}
}

func TestPaymentWebhookGuardShortCircuitsReplay(t *testing.T) {
	flwSource := &fakeSource{
		processor: enums.ProcessorFlutterwave,
		event: &payments.Event{
			Processor:    enums.ProcessorFlutterwave,
			Kind:         enums.EventKindPaymentSucceeded,
			EventID:      "charge.completed.42",
			InvestmentID: uuid.New(),
		},
	}
	engine := &fakeEngine{}
	handler := newHandler(nil, flwSource, engine, newFakeGuard())

	first := postWebhook(t, handler, flutterwavewebhook.SignatureHeader, "hash")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	second := postWebhook(t, handler, flutterwavewebhook.SignatureHeader, "hash")
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", second.Code)
	}
	if engine.calls != 1 {
		t.Fatalf("expected replay short-circuited, engine ran %d times", engine.calls)
	}
}

func TestPaymentWebhookGuardOutageStillProcesses(t *testing.T) {
	stripeSource := &fakeSource{processor: enums.ProcessorStripe}
	engine := &fakeEngine{}
	guard := newFakeGuard()
	guard.seenErr = errors.New("redis down")
	handler := newHandler(stripeSource, nil, engine, guard)

	rec := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when guard is down, got %d", rec.Code)
	}
	if engine.calls != 1 {
		t.Fatalf("expected engine to run despite guard outage, got %d", engine.calls)
	}
}

func TestPaymentWebhookMarksGuardOnlyAfterSuccess(t *testing.T) {
	stripeSource := &fakeSource{processor: enums.ProcessorStripe}
	engine := &fakeEngine{err: pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")}
	guard := newFakeGuard()
	handler := newHandler(stripeSource, nil, engine, guard)

	rec := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for transient failure, got %d", rec.Code)
	}
	if len(guard.marks) != 0 {
		t.Fatalf("failed delivery must not be marked seen, marks %v", guard.marks)
	}

	// Processor retry after recovery should reach the engine again.
	engine.err = nil
	retry := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if retry.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", retry.Code)
	}
	if engine.calls != 2 {
		t.Fatalf("expected engine to see the retry, calls %d", engine.calls)
	}
	if len(guard.marks) != 1 {
		t.Fatalf("expected the applied delivery marked seen, marks %v", guard.marks)
	}
}

func TestPaymentWebhookPanicDoesNotLockOutRetry(t *testing.T) {
	stripeSource := &fakeSource{processor: enums.ProcessorStripe}
	engine := &fakeEngine{panics: true}
	guard := newFakeGuard()
	handler := middleware.Recoverer(nil)(newHandler(stripeSource, nil, engine, guard))

	first := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if first.Code != http.StatusInternalServerError {
		t.Fatalf("expected recovered panic to answer 500, got %d", first.Code)
	}
	if len(guard.marks) != 0 {
		t.Fatalf("crashed delivery must not be marked seen, marks %v", guard.marks)
	}

	retry := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if retry.Code != http.StatusOK {
		t.Fatalf("expected retry to be applied, got %d", retry.Code)
	}
	if engine.calls != 2 {
		t.Fatalf("expected the retry to reach the engine, calls %d", engine.calls)
	}
}

func TestPaymentWebhookDuplicateFastPathIsAudited(t *testing.T) {
	stripeSource := &fakeSource{processor: enums.ProcessorStripe}
	engine := &fakeEngine{}
	guard := newFakeGuard()
	guard.seen["stripe:evt_1"] = true
	auditRec := &fakeAudit{}
	handler := PaymentWebhook(PaymentWebhookParams{
		Stripe:       stripeSource,
		Engine:       engine,
		Guard:        guard,
		Audit:        auditRec,
		MaxBodyBytes: 1 << 20,
	})

	rec := postWebhook(t, handler, stripewebhook.SignatureHeader, "t=1,v1=sig")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for replay, got %d", rec.Code)
	}
	if engine.calls != 0 {
		t.Fatalf("engine must not run for replays, calls %d", engine.calls)
	}
	if len(auditRec.entries) != 1 {
		t.Fatalf("expected one audit entry for the replay, got %d", len(auditRec.entries))
	}
	entry := auditRec.entries[0]
	if entry.Outcome != enums.ReconcileOutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %s", entry.Outcome)
	}
	if entry.EventID != "evt_1" {
		t.Fatalf("expected audit entry for evt_1, got %s", entry.EventID)
	}
}
