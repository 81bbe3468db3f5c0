package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM.
// Customer carries its own column mapping, so no separate persistence model
// is needed.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM-based customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Customer with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByCode finds a customer by its unique code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Customer %s not found", code))
		}
		return nil, fmt.Errorf("failed to find customer by code: %w", err)
	}
	return &customer, nil
}

// FindAll finds customers with filtering
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := applyPartnerFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// Count counts customers with filtering
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPartnerSearch(r.db.WithContext(ctx).Model(&partner.Customer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GORM-based supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Supplier with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	return &supplier, nil
}

// FindByCode finds a supplier by its unique code
func (r *GormSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Supplier %s not found", code))
		}
		return nil, fmt.Errorf("failed to find supplier by code: %w", err)
	}
	return &supplier, nil
}

// FindAll finds suppliers with filtering
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := applyPartnerFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to find suppliers: %w", err)
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}
	return nil
}

// Count counts suppliers with filtering
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPartnerSearch(r.db.WithContext(ctx).Model(&partner.Supplier{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}

// applyPartnerSearch applies the shared search condition over the columns
// common to customers and suppliers
func applyPartnerSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	return query
}

// applyPartnerFilter applies search, ordering and pagination shared by the
// customer and supplier repositories
func applyPartnerFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyPartnerSearch(query, filter)

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

// Compile-time interface checks
var (
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
)
