package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Opportunity is a fundable project. RaisedAmount and InvestorCount are
// maintained by the reconciliation pipeline and only ever move forward.
type Opportunity struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string                  `gorm:"column:title;type:text;not null"`
	FarmName      string                  `gorm:"column:farm_name;type:text;not null"`
	Sectors       pq.StringArray          `gorm:"column:sectors;type:text[];not null;default:ARRAY[]::text[]"`
	TargetAmount  decimal.Decimal         `gorm:"column:target_amount;type:numeric(12,2);not null"`
	RaisedAmount  decimal.Decimal         `gorm:"column:raised_amount;type:numeric(12,2);not null;default:0"`
	InvestorCount int                     `gorm:"column:investor_count;not null;default:0"`
	Currency      enums.Currency          `gorm:"column:currency;type:text;not null;default:'USD'"`
	Status        enums.OpportunityStatus `gorm:"column:status;type:opportunity_status;not null;default:'draft'"`
	FundedAt      *time.Time              `gorm:"column:funded_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
