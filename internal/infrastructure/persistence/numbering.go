package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence/models"
)

// GormNumberGenerator implements ledger.NumberGenerator by scanning the
// highest number issued today and incrementing its sequence. Uniqueness is
// ultimately guaranteed by the unique index on document_number; a duplicate
// produced under concurrency fails the insert and rolls the transaction back.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GORM-based document number generator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

// Next generates the next document number, e.g. AR-20260831-00042
func (g *GormNumberGenerator) Next(ctx context.Context, kind ledger.DocumentKind, side ledger.Side) (string, error) {
	var prefix string
	var model any
	switch kind {
	case ledger.DocumentKindInvoice:
		prefix = side.InvoicePrefix()
		model = &models.InvoiceModel{}
	case ledger.DocumentKindPayment:
		prefix = side.PaymentPrefix()
		model = &models.PaymentDocumentModel{}
	default:
		return "", fmt.Errorf("unknown document kind %q", kind)
	}

	datePrefix := fmt.Sprintf("%s-%s-", prefix, time.Now().Format("20060102"))

	var lastNumbers []string
	err := g.db.WithContext(ctx).
		Model(model).
		Where("document_number LIKE ?", datePrefix+"%").
		Order("document_number DESC").
		Limit(1).
		Pluck("document_number", &lastNumbers).Error
	if err != nil {
		return "", fmt.Errorf("failed to query last document number: %w", err)
	}

	sequence := 1
	if len(lastNumbers) > 0 {
		var lastSequence int
		if _, err := fmt.Sscanf(lastNumbers[0], datePrefix+"%05d", &lastSequence); err == nil {
			sequence = lastSequence + 1
		}
	}

	return fmt.Sprintf("%s%05d", datePrefix, sequence), nil
}

// Compile-time interface check
var _ ledger.NumberGenerator = (*GormNumberGenerator)(nil)
