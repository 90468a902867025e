package funding

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

func setupFundingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	opportunities := `
CREATE TABLE IF NOT EXISTS opportunities (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  farm_name TEXT NOT NULL,
  sectors TEXT,
  target_amount NUMERIC NOT NULL,
  raised_amount NUMERIC NOT NULL DEFAULT 0,
  investor_count INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  status TEXT NOT NULL,
  funded_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(opportunities).Error)
	return db
}

func newOpportunity(t *testing.T, db *gorm.DB, target, raised int64, status enums.OpportunityStatus) *models.Opportunity {
	t.Helper()

	opportunity := &models.Opportunity{
		ID:           uuid.New(),
		Title:        "Maize Outgrower Cycle",
		FarmName:     "Green Valley Farms",
		Sectors:      pq.StringArray{"crops"},
		TargetAmount: decimal.NewFromInt(target),
		RaisedAmount: decimal.NewFromInt(raised),
		Currency:     enums.CurrencyUSD,
		Status:       status,
	}
	require.NoError(t, db.Create(opportunity).Error)
	return opportunity
}

func TestIncrementRaisedAccumulates(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	opportunity := newOpportunity(t, db, 1000, 0, enums.OpportunityStatusOpen)

	rows, err := repo.IncrementRaised(ctx, opportunity.ID, decimal.NewFromInt(600))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.IncrementRaised(ctx, opportunity.ID, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	updated, err := repo.FindByID(ctx, opportunity.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.RaisedAmount.Equal(decimal.NewFromInt(750)), "raised %s", updated.RaisedAmount)
	assert.Equal(t, 2, updated.InvestorCount)
	assert.Equal(t, enums.OpportunityStatusOpen, updated.Status)
}

func TestIncrementRaisedMissingOpportunity(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.IncrementRaised(context.Background(), uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestMarkFundedIfCompleteFlipsOnce(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	opportunity := newOpportunity(t, db, 1000, 600, enums.OpportunityStatusOpen)

	_, err := repo.IncrementRaised(ctx, opportunity.ID, decimal.NewFromInt(400))
	require.NoError(t, err)

	rows, err := repo.MarkFundedIfComplete(ctx, opportunity.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.MarkFundedIfComplete(ctx, opportunity.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "second flip should find no open row")

	updated, err := repo.FindByID(ctx, opportunity.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, enums.OpportunityStatusFunded, updated.Status)
	require.NotNil(t, updated.FundedAt)
}

func TestConcurrentContributionsLoseNoUpdates(t *testing.T) {
	db := setupFundingTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection serializes the writes the way Postgres row locks
	// would; the goroutines still race to submit them.
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	ctx := context.Background()
	opportunity := newOpportunity(t, db, 1000, 0, enums.OpportunityStatusOpen)

	const contributors = 10
	errs := make(chan error, contributors)
	flips := make(chan int64, contributors)
	var wg sync.WaitGroup
	for i := 0; i < contributors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementRaised(ctx, opportunity.ID, decimal.NewFromInt(100)); err != nil {
				errs <- err
				return
			}
			rows, err := repo.MarkFundedIfComplete(ctx, opportunity.ID, time.Now().UTC())
			if err != nil {
				errs <- err
				return
			}
			flips <- rows
		}()
	}
	wg.Wait()
	close(errs)
	close(flips)

	for err := range errs {
		t.Fatalf("contribution failed: %v", err)
	}
	var winners int64
	for rows := range flips {
		winners += rows
	}
	assert.Equal(t, int64(1), winners, "exactly one contribution flips the status")

	updated, err := repo.FindByID(ctx, opportunity.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.RaisedAmount.Equal(decimal.NewFromInt(1000)), "raised %s", updated.RaisedAmount)
	assert.Equal(t, contributors, updated.InvestorCount)
	assert.Equal(t, enums.OpportunityStatusFunded, updated.Status)
	require.NotNil(t, updated.FundedAt)
}

func TestMarkFundedIfCompleteRequiresFullRaise(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	opportunity := newOpportunity(t, db, 1000, 999, enums.OpportunityStatusOpen)

	rows, err := repo.MarkFundedIfComplete(ctx, opportunity.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	updated, err := repo.FindByID(ctx, opportunity.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, enums.OpportunityStatusOpen, updated.Status)
	assert.Nil(t, updated.FundedAt)
}

func TestMarkFundedIfCompleteSkipsClosed(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)

	opportunity := newOpportunity(t, db, 1000, 1200, enums.OpportunityStatusClosed)

	rows, err := repo.MarkFundedIfComplete(context.Background(), opportunity.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	db := setupFundingTestDB(t)
	repo := NewRepository(db)

	opportunity, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, opportunity)
}
