package portfolio

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

func setupPortfolioTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'investor',
  is_active INTEGER NOT NULL DEFAULT 1,
  total_invested NUMERIC NOT NULL DEFAULT 0,
  current_value NUMERIC NOT NULL DEFAULT 0,
  total_return NUMERIC NOT NULL DEFAULT 0,
  active_investments INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, invested, value, ret int64, active int) *models.User {
	t.Helper()

	user := &models.User{
		ID:                uuid.New(),
		Email:             fmt.Sprintf("investor+%s@example.com", uuid.NewString()),
		FirstName:         "Ada",
		LastName:          "Okafor",
		Role:              enums.UserRoleInvestor,
		IsActive:          true,
		TotalInvested:     decimal.NewFromInt(invested),
		CurrentValue:      decimal.NewFromInt(value),
		TotalReturn:       decimal.NewFromInt(ret),
		ActiveInvestments: active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestApplySettlementMovesAggregatesTogether(t *testing.T) {
	db := setupPortfolioTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, 1000, 1100, 100, 4)

	rows, err := repo.ApplySettlement(ctx, user.ID, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	updated, err := repo.FindUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.TotalInvested.Equal(decimal.NewFromInt(1250)), "invested %s", updated.TotalInvested)
	assert.True(t, updated.CurrentValue.Equal(decimal.NewFromInt(1350)), "value %s", updated.CurrentValue)
	assert.True(t, updated.TotalReturn.Equal(decimal.NewFromInt(100)), "return %s", updated.TotalReturn)
	assert.Equal(t, 5, updated.ActiveInvestments)
}

func TestApplySettlementRepairsDriftedReturn(t *testing.T) {
	db := setupPortfolioTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// total_return deliberately out of line with the other two columns.
	user := newUser(t, db, 1000, 1100, 55, 1)

	rows, err := repo.ApplySettlement(ctx, user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	updated, err := repo.FindUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.TotalReturn.Equal(decimal.NewFromInt(100)), "return %s", updated.TotalReturn)
}

func TestApplySettlementMissingUser(t *testing.T) {
	db := setupPortfolioTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.ApplySettlement(context.Background(), uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFindUserMissingReturnsNil(t *testing.T) {
	db := setupPortfolioTestDB(t)
	repo := NewRepository(db)

	user, err := repo.FindUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)
}
