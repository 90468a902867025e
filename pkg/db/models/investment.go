package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Investment records a single commitment of funds into an opportunity. The
// row is created at charge time and settled by the webhook pipeline.
type Investment struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OpportunityID  uuid.UUID              `gorm:"column:opportunity_id;type:uuid;not null;index"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Amount         decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency       enums.Currency         `gorm:"column:currency;type:text;not null;default:'USD'"`
	Status         enums.InvestmentStatus `gorm:"column:status;type:investment_status;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus    `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	Processor      enums.PaymentProcessor `gorm:"column:processor;type:payment_processor;not null"`
	PaymentDetails json.RawMessage        `gorm:"column:payment_details;type:jsonb"`
	FailureReason  *string                `gorm:"column:failure_reason"`
	PaidAt         *time.Time             `gorm:"column:paid_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
