package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
