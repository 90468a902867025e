package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Transfer is a bookkeeping record of a payout the processor reported. No
// investor state hangs off these rows.
type Transfer struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderTransferID string                 `gorm:"column:provider_transfer_id;not null;unique"`
	Processor          enums.PaymentProcessor `gorm:"column:processor;type:payment_processor;not null"`
	Amount             decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency           enums.Currency         `gorm:"column:currency;type:text;not null"`
	Destination        *string                `gorm:"column:destination;type:text"`
	CompletedAt        time.Time              `gorm:"column:completed_at;not null"`
	Raw                json.RawMessage        `gorm:"column:raw;type:jsonb"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
}
