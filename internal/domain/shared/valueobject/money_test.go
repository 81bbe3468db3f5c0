package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), EUR)
	require.NoError(t, err)
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, decimal.NewFromInt(100).Equal(m.Amount()))

	_, err = NewMoney(decimal.NewFromInt(100), "")
	require.Error(t, err)
}

func TestNewMoneyUSDFromString(t *testing.T) {
	m, err := NewMoneyUSDFromString("10165.00")
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.Equal(t, "10165.00", m.StringFixed(2))

	_, err = NewMoneyUSDFromString("not-a-number")
	require.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(10000.00)
	b := NewMoneyUSDFromFloat(165.00)

	sum, err := a.Add(b)

	require.NoError(t, err)
	assert.Equal(t, "10165.00", sum.StringFixed(2))
	// Operands unchanged
	assert.Equal(t, "10000.00", a.StringFixed(2))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	usd := NewMoneyUSDFromFloat(100)
	eur, err := NewMoney(decimal.NewFromInt(100), EUR)
	require.NoError(t, err)

	_, err = usd.Add(eur)
	require.Error(t, err)

	assert.Panics(t, func() { usd.MustAdd(eur) })
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(10000.00)
	b := NewMoneyUSDFromFloat(500.00)

	diff, err := a.Subtract(b)

	require.NoError(t, err)
	assert.Equal(t, "9500.00", diff.StringFixed(2))
}

func TestMoney_FloorZero(t *testing.T) {
	assert.True(t, NewMoneyUSDFromFloat(-42.50).FloorZero().IsZero())
	assert.Equal(t, "42.50", NewMoneyUSDFromFloat(42.50).FloorZero().StringFixed(2))
	assert.True(t, ZeroUSD().FloorZero().IsZero())
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(10)
	large := NewMoneyUSDFromFloat(20)

	less, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equals(NewMoneyUSDFromFloat(10)))
	assert.False(t, small.Equals(large))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	original := NewMoneyUSDFromFloat(10165.55)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("10165.55"))
	assert.Equal(t, "10165.55", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var fromBytes Money
	require.NoError(t, fromBytes.Scan([]byte("31030")))
	assert.Equal(t, "31030.00", fromBytes.StringFixed(2))

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	var bad Money
	require.Error(t, bad.Scan(42))
}

func TestMoney_Value(t *testing.T) {
	m := NewMoneyUSDFromFloat(99.90)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "99.9", v)
}
