package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// AuditLogEntry is an append-only record of how a webhook delivery was
// handled. There is one entry per delivery outcome, including no-ops.
type AuditLogEntry struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Processor    enums.PaymentProcessor `gorm:"column:processor;type:payment_processor;not null;index"`
	EventID      string                 `gorm:"column:event_id;type:text;not null"`
	EventKind    enums.PaymentEventKind `gorm:"column:event_kind;type:payment_event_kind;not null"`
	InvestmentID *uuid.UUID             `gorm:"column:investment_id;type:uuid;index"`
	UserID       *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	Outcome      enums.ReconcileOutcome `gorm:"column:outcome;type:reconcile_outcome;not null;index"`
	Detail       json.RawMessage        `gorm:"column:detail;type:jsonb"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}
