package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM-based invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID on the given side
func (r *GormInvoiceRepository) FindByID(ctx context.Context, side ledger.Side, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND side = ?", id, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Invoice with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an invoice and locks its row for the duration of
// the enclosing transaction
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, side ledger.Side, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND side = ?", id, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Invoice with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find invoice for update: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByDocumentNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByDocumentNumber(ctx context.Context, side ledger.Side, documentNumber string) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("document_number = ? AND side = ?", documentNumber, side).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Invoice %s not found", documentNumber))
		}
		return nil, fmt.Errorf("failed to find invoice by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByOrigin finds the invoice created from a source document. When a
// cancelled invoice coexists with its non-cancelled replacement, the
// non-cancelled one wins.
func (r *GormInvoiceRepository) FindByOrigin(ctx context.Context, side ledger.Side, origin ledger.OriginRef) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("side = ? AND origin_type = ? AND origin_id = ?", side, origin.Type, origin.ID).
		Order("status = 'CANCELLED', created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("No invoice found for origin %s", origin.ID))
		}
		return nil, fmt.Errorf("failed to find invoice by origin: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices on the given side with filtering
func (r *GormInvoiceRepository) FindAll(ctx context.Context, side ledger.Side, filter ledger.InvoiceFilter) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("side = ?", side), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}

	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindOutstanding finds issued or partially paid invoices for a
// counterparty, oldest first
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, side ledger.Side, counterpartyID uuid.UUID) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("side = ? AND counterparty_id = ?", side, counterpartyID).
		Where("status IN ?", []ledger.InvoiceStatus{ledger.InvoiceStatusIssued, ledger.InvoiceStatusPartiallyPaid}).
		Order("document_date ASC, created_at ASC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find outstanding invoices: %w", err)
	}

	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// SaveWithLock saves with optimistic locking. The update only applies when
// the stored version matches the version the aggregate was loaded with; zero
// affected rows means a concurrent writer got there first.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save invoice with lock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError(fmt.Sprintf("Invoice %s was modified concurrently", invoice.DocumentNumber))
	}
	return nil
}

// Count counts invoices on the given side with filtering
func (r *GormInvoiceRepository) Count(ctx context.Context, side ledger.Side, filter ledger.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("side = ?", side), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// SumPostedAllocations sums allocation amounts for an invoice across
// allocations whose parent payment document is posted
func (r *GormInvoiceRepository) SumPostedAllocations(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Select("COALESCE(SUM(allocations.amount), 0) as total").
		Joins("JOIN payment_documents ON payment_documents.id = allocations.payment_document_id").
		Where("allocations.invoice_id = ?", invoiceID).
		Where("payment_documents.status = ?", ledger.PaymentDocumentStatusPosted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted allocations: %w", err)
	}
	return result.Total, nil
}

// SumOpenAmounts sums open amounts over all reconcilable invoices of a
// counterparty on the given side
func (r *GormInvoiceRepository) SumOpenAmounts(ctx context.Context, side ledger.Side, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(open_amount), 0) as total").
		Where("side = ? AND counterparty_id = ?", side, counterpartyID).
		Where("status NOT IN ?", []ledger.InvoiceStatus{ledger.InvoiceStatusDraft, ledger.InvoiceStatusCancelled}).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum open amounts: %w", err)
	}
	return result.Total, nil
}

// applyFilter applies the invoice filter including pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter ledger.InvoiceFilter) *gorm.DB {
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

// applyFilterWithoutPagination applies the invoice filter conditions only,
// shared by FindAll and Count
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.InvoiceFilter) *gorm.DB {
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OriginType != nil {
		query = query.Where("origin_type = ?", *filter.OriginType)
	}
	if filter.OriginID != nil {
		query = query.Where("origin_id = ?", *filter.OriginID)
	}
	if filter.FromDate != nil {
		query = query.Where("document_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("document_date <= ?", *filter.ToDate)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND status IN ?", time.Now(),
			[]ledger.InvoiceStatus{ledger.InvoiceStatusIssued, ledger.InvoiceStatusPartiallyPaid})
	}
	if filter.MinOpenAmount != nil {
		query = query.Where("open_amount >= ?", *filter.MinOpenAmount)
	}
	if filter.MaxOpenAmount != nil {
		query = query.Where("open_amount <= ?", *filter.MaxOpenAmount)
	}
	if filter.Search != "" {
		query = query.Where("document_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Compile-time interface check
var _ ledger.InvoiceRepository = (*GormInvoiceRepository)(nil)
