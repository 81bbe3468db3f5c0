package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence/models"
)

// GormPaymentDocumentRepository implements ledger.PaymentDocumentRepository
// using GORM
type GormPaymentDocumentRepository struct {
	db *gorm.DB
}

// NewGormPaymentDocumentRepository creates a new GORM-based payment document repository
func NewGormPaymentDocumentRepository(db *gorm.DB) *GormPaymentDocumentRepository {
	return &GormPaymentDocumentRepository{db: db}
}

// FindByID finds a payment document by ID, allocations included
func (r *GormPaymentDocumentRepository) FindByID(ctx context.Context, side ledger.Side, id uuid.UUID) (*ledger.PaymentDocument, error) {
	var model models.PaymentDocumentModel
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("id = ? AND side = ?", id, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Payment document with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find payment document: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a payment document and locks its row for the
// duration of the enclosing transaction. Only the document row is locked;
// allocation rows are immutable after creation.
func (r *GormPaymentDocumentRepository) FindByIDForUpdate(ctx context.Context, side ledger.Side, id uuid.UUID) (*ledger.PaymentDocument, error) {
	var model models.PaymentDocumentModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "payment_documents"}}).
		Preload("Allocations").
		Where("id = ? AND side = ?", id, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Payment document with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find payment document for update: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByDocumentNumber finds a payment document by its document number
func (r *GormPaymentDocumentRepository) FindByDocumentNumber(ctx context.Context, side ledger.Side, documentNumber string) (*ledger.PaymentDocument, error) {
	var model models.PaymentDocumentModel
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("document_number = ? AND side = ?", documentNumber, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Payment document %s not found", documentNumber))
		}
		return nil, fmt.Errorf("failed to find payment document by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll finds payment documents on the given side with filtering
func (r *GormPaymentDocumentRepository) FindAll(ctx context.Context, side ledger.Side, filter ledger.PaymentDocumentFilter) ([]ledger.PaymentDocument, error) {
	var documentModels []models.PaymentDocumentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Preload("Allocations").Where("side = ?", side), filter)

	if err := query.Find(&documentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find payment documents: %w", err)
	}

	documents := make([]ledger.PaymentDocument, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents, nil
}

// FindByInvoice finds payment documents with an allocation against the
// given invoice
func (r *GormPaymentDocumentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.PaymentDocument, error) {
	var documentModels []models.PaymentDocumentModel
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("id IN (?)", r.db.Model(&models.AllocationModel{}).
			Select("payment_document_id").
			Where("invoice_id = ?", invoiceID)).
		Order("document_date DESC, created_at DESC").
		Find(&documentModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find payment documents by invoice: %w", err)
	}

	documents := make([]ledger.PaymentDocument, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents, nil
}

// Save creates or updates a payment document together with its allocation
// rows. Allocations never change after creation, so the upsert is safe to
// run on every save.
func (r *GormPaymentDocumentRepository) Save(ctx context.Context, document *ledger.PaymentDocument) error {
	model := models.PaymentDocumentModelFromDomain(document)
	if err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save payment document: %w", err)
	}
	return nil
}

// Count counts payment documents on the given side with filtering
func (r *GormPaymentDocumentRepository) Count(ctx context.Context, side ledger.Side, filter ledger.PaymentDocumentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PaymentDocumentModel{}).Where("side = ?", side), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count payment documents: %w", err)
	}
	return count, nil
}

// applyFilter applies the payment document filter including pagination
func (r *GormPaymentDocumentRepository) applyFilter(query *gorm.DB, filter ledger.PaymentDocumentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := "created_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "asc" {
		orderDir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyFilterWithoutPagination applies the payment document filter
// conditions only, shared by FindAll and Count
func (r *GormPaymentDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.PaymentDocumentFilter) *gorm.DB {
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.FromDate != nil {
		query = query.Where("document_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("document_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("document_number ILIKE ? OR external_reference ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}

// Compile-time interface check
var _ ledger.PaymentDocumentRepository = (*GormPaymentDocumentRepository)(nil)
