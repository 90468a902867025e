package transfers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	paginationpkg "github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

type stubTransfersRepo struct {
	byProvider *models.Transfer
	insertErr  error
	conflict   bool
	inserted   *models.Transfer
	listFn     func(ctx context.Context, params listTransfersParams) ([]models.Transfer, *paginationpkg.Cursor, error)
}

func (s *stubTransfersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTransfersRepo) Insert(ctx context.Context, transfer *models.Transfer) (bool, error) {
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if s.conflict {
		return false, nil
	}
	if transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	s.inserted = transfer
	return true, nil
}

func (s *stubTransfersRepo) FindByProviderTransferID(ctx context.Context, providerTransferID string) (*models.Transfer, error) {
	return s.byProvider, nil
}

func (s *stubTransfersRepo) List(ctx context.Context, params listTransfersParams) ([]models.Transfer, *paginationpkg.Cursor, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil, nil
}

type stubOutboxPublisher struct {
	event  outbox.DomainEvent
	called bool
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.called = true
	s.event = event
	return nil
}

func validRecordParams() RecordParams {
	return RecordParams{
		Processor:          enums.ProcessorStripe,
		ProviderTransferID: "tr_123",
		Amount:             decimal.RequireFromString("5000.00"),
		Currency:           enums.CurrencyUSD,
		Destination:        "acct_789",
		CompletedAt:        time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordInsertsAndEmits(t *testing.T) {
	repo := &stubTransfersRepo{}
	outboxStub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, outboxStub)

	result, err := svc.Record(context.Background(), &gorm.DB{}, validRecordParams())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Duplicate {
		t.Fatal("expected fresh transfer, got duplicate")
	}
	if repo.inserted == nil {
		t.Fatal("expected transfer insert")
	}
	if repo.inserted.Destination == nil || *repo.inserted.Destination != "acct_789" {
		t.Fatalf("unexpected destination %v", repo.inserted.Destination)
	}
	if !outboxStub.called || outboxStub.event.EventType != enums.EventTransferRecorded {
		t.Fatalf("expected transfer recorded event got %v", outboxStub.event.EventType)
	}
}

// A replayed provider transfer id must resolve to the duplicate outcome
// without erroring, inside the same transaction the engine opened.
func TestRecordDuplicateProviderTransferID(t *testing.T) {
	existing := &models.Transfer{ID: uuid.New(), ProviderTransferID: "tr_123"}
	repo := &stubTransfersRepo{
		conflict:   true,
		byProvider: existing,
	}
	outboxStub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, outboxStub)

	result, err := svc.Record(context.Background(), &gorm.DB{}, validRecordParams())
	if err != nil {
		t.Fatalf("expected duplicate to resolve got %v", err)
	}
	if !result.Duplicate {
		t.Fatal("expected duplicate result")
	}
	if result.Transfer.ID != existing.ID {
		t.Fatal("expected existing transfer returned")
	}
	if outboxStub.called {
		t.Fatal("duplicate must not emit an outbox event")
	}
}

func TestRecordInsertFailure(t *testing.T) {
	repo := &stubTransfersRepo{insertErr: errors.New("connection reset")}
	svc, _ := NewService(repo, &stubOutboxPublisher{})

	_, err := svc.Record(context.Background(), &gorm.DB{}, validRecordParams())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestRecordRejectsMissingProviderID(t *testing.T) {
	svc, _ := NewService(&stubTransfersRepo{}, &stubOutboxPublisher{})

	params := validRecordParams()
	params.ProviderTransferID = "  "
	_, err := svc.Record(context.Background(), &gorm.DB{}, params)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestRecordRequiresTransaction(t *testing.T) {
	svc, _ := NewService(&stubTransfersRepo{}, &stubOutboxPublisher{})

	_, err := svc.Record(context.Background(), nil, validRecordParams())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&stubTransfersRepo{}, &stubOutboxPublisher{})

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-a-cursor"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}
