package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// User represents the canonical investor identity. The portfolio columns are
// running aggregates maintained by the reconciliation pipeline.
type User struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string          `gorm:"type:text;not null;uniqueIndex"`
	FirstName         string          `gorm:"column:first_name;not null"`
	LastName          string          `gorm:"column:last_name;not null"`
	Phone             *string         `gorm:"column:phone"`
	Role              enums.UserRole  `gorm:"column:role;type:user_role;not null;default:'investor'"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	TotalInvested     decimal.Decimal `gorm:"column:total_invested;type:numeric(14,2);not null;default:0"`
	CurrentValue      decimal.Decimal `gorm:"column:current_value;type:numeric(14,2);not null;default:0"`
	TotalReturn       decimal.Decimal `gorm:"column:total_return;type:numeric(14,2);not null;default:0"`
	ActiveInvestments int             `gorm:"column:active_investments;not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
