package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// ProcessedWebhookEvent is the durable idempotency gate. The unique
// (processor, event_id) pair is written in the same transaction as the
// financial mutations it guards, so a delivery either fully applies once or
// not at all.
type ProcessedWebhookEvent struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Processor    enums.PaymentProcessor `gorm:"column:processor;type:payment_processor;not null;uniqueIndex:idx_processed_events_processor_event_id"`
	EventID      string                 `gorm:"column:event_id;type:text;not null;uniqueIndex:idx_processed_events_processor_event_id"`
	EventKind    enums.PaymentEventKind `gorm:"column:event_kind;type:payment_event_kind;not null"`
	InvestmentID *uuid.UUID             `gorm:"column:investment_id;type:uuid"`
	ReceivedAt   time.Time              `gorm:"column:received_at;not null"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}
