package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	customer, err := NewCustomer("cust-001", "Harbor Furniture Outlet", CustomerTypeOrganization)

	require.NoError(t, err)
	assert.Equal(t, "CUST-001", customer.Code)
	assert.Equal(t, CustomerStatusActive, customer.Status)
	assert.True(t, customer.OutstandingBalance.IsZero())
	assert.True(t, customer.CreditLimit.IsZero())
}

func TestNewCustomer_Validation(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		customerName string
		customerType CustomerType
	}{
		{"empty code", "", "Name", CustomerTypeIndividual},
		{"code too short", "X", "Name", CustomerTypeIndividual},
		{"code with spaces", "CUST 01", "Name", CustomerTypeIndividual},
		{"empty name", "CUST-01", "", CustomerTypeIndividual},
		{"blank name", "CUST-01", "   ", CustomerTypeIndividual},
		{"invalid type", "CUST-01", "Name", CustomerType("franchise")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomer(tt.code, tt.customerName, tt.customerType)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestCustomer_Deactivate(t *testing.T) {
	customer, err := NewCustomer("CUST-01", "Name", CustomerTypeIndividual)
	require.NoError(t, err)

	require.NoError(t, customer.Deactivate())
	assert.False(t, customer.IsActive())

	err = customer.Deactivate()
	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestCustomer_SetCreditLimit(t *testing.T) {
	customer, err := NewCustomer("CUST-01", "Name", CustomerTypeIndividual)
	require.NoError(t, err)

	require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(50000)))
	assert.True(t, decimal.NewFromInt(50000).Equal(customer.CreditLimit))

	err = customer.SetCreditLimit(decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestCustomer_HasCreditRoom(t *testing.T) {
	customer, err := NewCustomer("CUST-01", "Name", CustomerTypeOrganization)
	require.NoError(t, err)

	// Zero limit means unlimited
	assert.True(t, customer.HasCreditRoom(decimal.NewFromInt(1000000)))

	require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(10000)))
	customer.OutstandingBalance = decimal.NewFromInt(8000)

	assert.True(t, customer.HasCreditRoom(decimal.NewFromInt(2000)))
	assert.False(t, customer.HasCreditRoom(decimal.NewFromInt(2001)))
}

func TestNewSupplier(t *testing.T) {
	supplier, err := NewSupplier("sup-001", "Coastal Lumber Co")

	require.NoError(t, err)
	assert.Equal(t, "SUP-001", supplier.Code)
	assert.Equal(t, SupplierStatusActive, supplier.Status)
	assert.Equal(t, 30, supplier.PaymentTermsDays)
	assert.True(t, supplier.OutstandingBalance.IsZero())
}

func TestNewSupplier_Validation(t *testing.T) {
	_, err := NewSupplier("", "Name")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	_, err = NewSupplier("SUP-01", "")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestSupplier_SetPaymentTerms(t *testing.T) {
	supplier, err := NewSupplier("SUP-01", "Name")
	require.NoError(t, err)

	require.NoError(t, supplier.SetPaymentTerms(60))
	assert.Equal(t, 60, supplier.PaymentTermsDays)

	err = supplier.SetPaymentTerms(-1)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestSupplier_Deactivate(t *testing.T) {
	supplier, err := NewSupplier("SUP-01", "Name")
	require.NoError(t, err)

	require.NoError(t, supplier.Deactivate())
	assert.False(t, supplier.IsActive())

	err = supplier.Deactivate()
	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}
