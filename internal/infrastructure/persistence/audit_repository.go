package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence/models"
)

// GormAuditTrail implements ledger.AuditTrail by appending rows to the
// audit_logs table. Entries are written inside the same transaction as the
// operation they record, so an aborted operation leaves no trace.
type GormAuditTrail struct {
	db *gorm.DB
}

// NewGormAuditTrail creates a new GORM-based audit trail sink
func NewGormAuditTrail(db *gorm.DB) *GormAuditTrail {
	return &GormAuditTrail{db: db}
}

// Record implements ledger.AuditTrail
func (t *GormAuditTrail) Record(ctx context.Context, entry ledger.AuditEntry) error {
	before, err := models.MarshalJSONB(entry.Before)
	if err != nil {
		return fmt.Errorf("failed to serialize audit before snapshot: %w", err)
	}
	after, err := models.MarshalJSONB(entry.After)
	if err != nil {
		return fmt.Errorf("failed to serialize audit after snapshot: %w", err)
	}
	metadata, err := models.MarshalJSONB(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize audit metadata: %w", err)
	}

	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	model := models.AuditLogModel{
		ID:         uuid.New(),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     string(entry.Action),
		Actor:      entry.Actor,
		Before:     before,
		After:      after,
		Metadata:   metadata,
		RecordedAt: recordedAt,
	}

	if err := t.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Compile-time interface check
var _ ledger.AuditTrail = (*GormAuditTrail)(nil)
