package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual   CustomerType = "individual"   // Personal customer
	CustomerTypeOrganization CustomerType = "organization" // Business/company
)

var customerCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{1,49}$`)

// Customer represents a customer in the partner context. The
// OutstandingBalance field is a cache over the customer's non-cancelled
// receivable invoices, recomputed in full by the ledger reconciler; nothing
// else writes it.
type Customer struct {
	shared.BaseAggregateRoot
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Type               CustomerType    `gorm:"type:varchar(20);not null;default:'individual'"`
	Status             CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName        string          `gorm:"type:varchar(100)"`
	Phone              string          `gorm:"type:varchar(50);index"`
	Email              string          `gorm:"type:varchar(200);index"`
	Address            string          `gorm:"type:text"`
	TaxID              string          `gorm:"type:varchar(50)"`
	CreditLimit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cached sum of open receivables
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code, name string, customerType CustomerType) (*Customer, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !customerCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("Customer code must be 2-50 uppercase letters, digits or dashes")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	if customerType != CustomerTypeIndividual && customerType != CustomerTypeOrganization {
		return nil, shared.NewValidationError("Customer type is not valid")
	}

	return &Customer{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		Type:               customerType,
		Status:             CustomerStatusActive,
		CreditLimit:        decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}, nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewInvalidStateError("Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetCreditLimit updates the customer's credit limit
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewValidationError("Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// HasCreditRoom reports whether a further receivable of the given amount
// would stay within the credit limit. A zero limit means unlimited.
func (c *Customer) HasCreditRoom(amount decimal.Decimal) bool {
	if c.CreditLimit.IsZero() {
		return true
	}
	return c.OutstandingBalance.Add(amount).LessThanOrEqual(c.CreditLimit)
}
