package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// Dispute records a chargeback opened against a settled payment. Rows are
// created by the webhook pipeline and resolved by operators.
type Dispute struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderDisputeID string                 `gorm:"column:provider_dispute_id;not null;unique"`
	Processor         enums.PaymentProcessor `gorm:"column:processor;type:payment_processor;not null"`
	ChargeID          string                 `gorm:"column:charge_id;type:text;not null"`
	InvestmentID      *uuid.UUID             `gorm:"column:investment_id;type:uuid;index"`
	Amount            decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency          enums.Currency         `gorm:"column:currency;type:text;not null"`
	Reason            string                 `gorm:"column:reason;type:text;not null"`
	Status            enums.DisputeStatus    `gorm:"column:status;type:dispute_status;not null;default:'needs_response'"`
	EvidenceDueBy     *time.Time             `gorm:"column:evidence_due_by"`
	RequiresAction    bool                   `gorm:"column:requires_action;not null;default:true"`
	ResolvedAt        *time.Time             `gorm:"column:resolved_at"`
	ResolutionNote    *string                `gorm:"column:resolution_note"`
	Raw               json.RawMessage        `gorm:"column:raw;type:jsonb"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
