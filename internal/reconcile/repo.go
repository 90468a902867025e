package reconcile

import (
	"context"

	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
)

// GateRepository persists the durable idempotency gate. The unique
// (processor, event_id) index makes the second concurrent insert fail, which
// is how exactly-once application is decided.
type GateRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, row *models.ProcessedWebhookEvent) error
}

type gateRepository struct{}

// NewGateRepository returns the processed-event gate repository.
func NewGateRepository() GateRepository {
	return gateRepository{}
}

func (gateRepository) Insert(ctx context.Context, tx *gorm.DB, row *models.ProcessedWebhookEvent) error {
	return tx.WithContext(ctx).Create(row).Error
}
