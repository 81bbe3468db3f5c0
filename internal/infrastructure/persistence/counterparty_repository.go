package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// GormCounterpartyBalanceRepository implements
// ledger.CounterpartyBalanceRepository over the customers and suppliers
// tables. The cached balance column lives on the partner row; which table a
// call touches is decided by the counterparty kind.
type GormCounterpartyBalanceRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyBalanceRepository creates a new GORM-based counterparty balance repository
func NewGormCounterpartyBalanceRepository(db *gorm.DB) *GormCounterpartyBalanceRepository {
	return &GormCounterpartyBalanceRepository{db: db}
}

func (r *GormCounterpartyBalanceRepository) model(kind ledger.CounterpartyKind) (any, error) {
	switch kind {
	case ledger.CounterpartyKindCustomer:
		return &partner.Customer{}, nil
	case ledger.CounterpartyKindSupplier:
		return &partner.Supplier{}, nil
	}
	return nil, shared.NewValidationError(fmt.Sprintf("Counterparty kind %s is not valid", kind))
}

// GetOutstandingBalance reads the cached balance column
func (r *GormCounterpartyBalanceRepository) GetOutstandingBalance(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	model, err := r.model(kind)
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	result := r.db.WithContext(ctx).
		Model(model).
		Select("outstanding_balance").
		Where("id = ?", counterpartyID).
		Scan(&balance)
	if result.Error != nil {
		return decimal.Zero, fmt.Errorf("failed to read outstanding balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, shared.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, counterpartyID))
	}
	return balance, nil
}

// OverwriteOutstandingBalance replaces the cached balance with a freshly
// recomputed value
func (r *GormCounterpartyBalanceRepository) OverwriteOutstandingBalance(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error {
	model, err := r.model(kind)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", counterpartyID).
		Update("outstanding_balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to overwrite outstanding balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, counterpartyID))
	}
	return nil
}

// Exists reports whether the counterparty exists
func (r *GormCounterpartyBalanceRepository) Exists(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) (bool, error) {
	model, err := r.model(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", counterpartyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check counterparty existence: %w", err)
	}
	return count > 0, nil
}

// Compile-time interface check
var _ ledger.CounterpartyBalanceRepository = (*GormCounterpartyBalanceRepository)(nil)
