package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// Repository manages persistence for audit log entries. The table is
// append-only; nothing here updates or deletes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	List(ctx context.Context, params listAuditParams) ([]models.AuditLogEntry, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listAuditParams struct {
	Processor enums.PaymentProcessor
	Outcome   enums.ReconcileOutcome
	Limit     int
	Cursor    *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, params listAuditParams) ([]models.AuditLogEntry, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.AuditLogEntry{})
	if params.Processor != "" {
		query = query.Where("processor = ?", params.Processor)
	}
	if params.Outcome != "" {
		query = query.Where("outcome = ?", params.Outcome)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var entries []models.AuditLogEntry
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return entries, nil, nil
}
