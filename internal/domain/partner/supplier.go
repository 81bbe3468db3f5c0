package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

var supplierCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{1,49}$`)

// Supplier represents a supplier in the partner context. The
// OutstandingBalance field caches the sum of open amounts over the
// supplier's non-cancelled payable invoices; it is written exclusively by
// the ledger reconciler.
type Supplier struct {
	shared.BaseAggregateRoot
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Status             SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName        string          `gorm:"type:varchar(100)"`
	Phone              string          `gorm:"type:varchar(50);index"`
	Email              string          `gorm:"type:varchar(200);index"`
	Address            string          `gorm:"type:text"`
	TaxID              string          `gorm:"type:varchar(50)"`
	PaymentTermsDays   int             `gorm:"not null;default:30"` // Default due-date offset for payable invoices
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cached sum of open payables
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(code, name string) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !supplierCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("Supplier code must be 2-50 uppercase letters, digits or dashes")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Supplier name cannot exceed 200 characters")
	}

	return &Supplier{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		Status:             SupplierStatusActive,
		PaymentTermsDays:   30,
		OutstandingBalance: decimal.Zero,
	}, nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewInvalidStateError("Supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetPaymentTerms updates the default payment terms in days
func (s *Supplier) SetPaymentTerms(days int) error {
	if days < 0 {
		return shared.NewValidationError("Payment terms cannot be negative")
	}
	s.PaymentTermsDays = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
