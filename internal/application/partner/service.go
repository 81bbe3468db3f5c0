package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// CreateCustomerInput carries the caller-supplied fields for a new customer
type CreateCustomerInput struct {
	Code        string               `json:"code" binding:"required"`
	Name        string               `json:"name" binding:"required"`
	Type        partner.CustomerType `json:"type" binding:"required"`
	ContactName string               `json:"contact_name"`
	Phone       string               `json:"phone"`
	Email       string               `json:"email"`
	Address     string               `json:"address"`
	TaxID       string               `json:"tax_id"`
	CreditLimit decimal.Decimal      `json:"credit_limit"`
	Notes       string               `json:"notes"`
}

// CreateSupplierInput carries the caller-supplied fields for a new supplier
type CreateSupplierInput struct {
	Code             string `json:"code" binding:"required"`
	Name             string `json:"name" binding:"required"`
	ContactName      string `json:"contact_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	TaxID            string `json:"tax_id"`
	PaymentTermsDays *int   `json:"payment_terms_days"`
	Notes            string `json:"notes"`
}

// Service exposes customer and supplier management. The cached outstanding
// balance on both aggregates is owned by the ledger reconciler and never
// written here.
type Service struct {
	customers partner.CustomerRepository
	suppliers partner.SupplierRepository
	logger    *zap.Logger
}

// NewService creates a new partner service
func NewService(customers partner.CustomerRepository, suppliers partner.SupplierRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		customers: customers,
		suppliers: suppliers,
		logger:    logger,
	}
}

// CreateCustomer creates a new active customer
func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*partner.Customer, error) {
	if existing, err := s.customers.FindByCode(ctx, input.Code); err != nil && !shared.IsNotFound(err) {
		return nil, err
	} else if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Customer with code %s already exists", existing.Code))
	}

	customer, err := partner.NewCustomer(input.Code, input.Name, input.Type)
	if err != nil {
		return nil, err
	}
	customer.ContactName = input.ContactName
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	customer.TaxID = input.TaxID
	customer.Notes = input.Notes
	if !input.CreditLimit.IsZero() {
		if err := customer.SetCreditLimit(input.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code))
	return customer, nil
}

// GetCustomer fetches a customer by ID
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// ListCustomers lists customers with pagination
func (s *Service) ListCustomers(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(customers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeactivateCustomer marks a customer inactive. Existing invoices are
// unaffected; only new documents check the status.
func (s *Service) DeactivateCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// SetCustomerCreditLimit updates a customer's credit limit
func (s *Service) SetCustomerCreditLimit(ctx context.Context, id uuid.UUID, limit decimal.Decimal) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.SetCreditLimit(limit); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateSupplier creates a new active supplier
func (s *Service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*partner.Supplier, error) {
	if existing, err := s.suppliers.FindByCode(ctx, input.Code); err != nil && !shared.IsNotFound(err) {
		return nil, err
	} else if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Supplier with code %s already exists", existing.Code))
	}

	supplier, err := partner.NewSupplier(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = input.ContactName
	supplier.Phone = input.Phone
	supplier.Email = input.Email
	supplier.Address = input.Address
	supplier.TaxID = input.TaxID
	supplier.Notes = input.Notes
	if input.PaymentTermsDays != nil {
		if err := supplier.SetPaymentTerms(*input.PaymentTermsDays); err != nil {
			return nil, err
		}
	}

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code))
	return supplier, nil
}

// GetSupplier fetches a supplier by ID
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

// ListSuppliers lists suppliers with pagination
func (s *Service) ListSuppliers(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Supplier], error) {
	suppliers, err := s.suppliers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.suppliers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(suppliers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeactivateSupplier marks a supplier inactive
func (s *Service) DeactivateSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// SetSupplierPaymentTerms updates a supplier's default payment terms
func (s *Service) SetSupplierPaymentTerms(ctx context.Context, id uuid.UUID, days int) (*partner.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.SetPaymentTerms(days); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}
