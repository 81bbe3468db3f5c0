package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// Test helpers

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func createTestInvoice(t *testing.T) *Invoice {
	inv, err := NewInvoice(
		SideReceivable,
		"AR-20260831-00001",
		uuid.New(),
		InvoiceAmounts{Subtotal: d("10000"), Discount: d("500"), Tax: d("665")},
		time.Now(),
		nil,
		OriginRef{},
	)
	require.NoError(t, err)
	return inv
}

func createIssuedInvoice(t *testing.T) *Invoice {
	inv := createTestInvoice(t)
	require.NoError(t, inv.Issue())
	return inv
}

// ============================================
// InvoiceStatus Tests
// ============================================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusIssued, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatus("INVALID"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestInvoiceStatus_IsReconcilable(t *testing.T) {
	tests := []struct {
		status       InvoiceStatus
		reconcilable bool
	}{
		{InvoiceStatusDraft, false},
		{InvoiceStatusIssued, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.reconcilable, tt.status.IsReconcilable())
		})
	}
}

func TestInvoiceStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status    InvoiceStatus
		canCancel bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusIssued, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, false},
		{InvoiceStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
		})
	}
}

// ============================================
// InvoiceAmounts Tests
// ============================================

func TestInvoiceAmounts_GrandTotal(t *testing.T) {
	tests := []struct {
		name     string
		amounts  InvoiceAmounts
		expected string
	}{
		{"subtotal minus discount plus tax", InvoiceAmounts{Subtotal: d("10000"), Discount: d("500"), Tax: d("665")}, "10165"},
		{"no discount no tax", InvoiceAmounts{Subtotal: d("29000"), Discount: decimal.Zero, Tax: d("2030")}, "31030"},
		{"all zero", InvoiceAmounts{}, "0"},
		{"discount equals subtotal", InvoiceAmounts{Subtotal: d("100"), Discount: d("100"), Tax: decimal.Zero}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, d(tt.expected).Equal(tt.amounts.GrandTotal()),
				"expected %s, got %s", tt.expected, tt.amounts.GrandTotal())
		})
	}
}

// ============================================
// NewInvoice Tests
// ============================================

func TestNewInvoice(t *testing.T) {
	counterpartyID := uuid.New()
	docDate := time.Now()
	dueDate := docDate.AddDate(0, 1, 0)

	inv, err := NewInvoice(SideReceivable, "AR-20260831-00001", counterpartyID,
		InvoiceAmounts{Subtotal: d("10000"), Discount: d("500"), Tax: d("665")},
		docDate, &dueDate, OriginRef{Type: OriginTypeSalesOrder, ID: uuid.New()})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, inv.ID)
	assert.Equal(t, SideReceivable, inv.Side)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.True(t, d("10165").Equal(inv.GrandTotal))
	assert.True(t, inv.PaidTotal.IsZero())
	assert.True(t, d("10165").Equal(inv.OpenAmount))
	assert.Equal(t, counterpartyID, inv.CounterpartyID)
	assert.Len(t, inv.GetDomainEvents(), 1)
}

func TestNewInvoice_Validation(t *testing.T) {
	counterpartyID := uuid.New()
	docDate := time.Now()
	valid := InvoiceAmounts{Subtotal: d("100"), Discount: decimal.Zero, Tax: decimal.Zero}

	tests := []struct {
		name           string
		side           Side
		documentNumber string
		counterpartyID uuid.UUID
		amounts        InvoiceAmounts
		documentDate   time.Time
		origin         OriginRef
	}{
		{"invalid side", Side("SIDEWAYS"), "AR-1", counterpartyID, valid, docDate, OriginRef{}},
		{"empty document number", SideReceivable, "", counterpartyID, valid, docDate, OriginRef{}},
		{"nil counterparty", SideReceivable, "AR-1", uuid.Nil, valid, docDate, OriginRef{}},
		{"negative subtotal", SideReceivable, "AR-1", counterpartyID, InvoiceAmounts{Subtotal: d("-1")}, docDate, OriginRef{}},
		{"negative discount", SideReceivable, "AR-1", counterpartyID, InvoiceAmounts{Subtotal: d("10"), Discount: d("-1")}, docDate, OriginRef{}},
		{"negative tax", SideReceivable, "AR-1", counterpartyID, InvoiceAmounts{Subtotal: d("10"), Tax: d("-1")}, docDate, OriginRef{}},
		{"negative grand total", SideReceivable, "AR-1", counterpartyID, InvoiceAmounts{Subtotal: d("10"), Discount: d("20")}, docDate, OriginRef{}},
		{"zero document date", SideReceivable, "AR-1", counterpartyID, valid, time.Time{}, OriginRef{}},
		{"invalid origin type", SideReceivable, "AR-1", counterpartyID, valid, docDate, OriginRef{Type: OriginType("BOGUS"), ID: uuid.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInvoice(tt.side, tt.documentNumber, tt.counterpartyID, tt.amounts, tt.documentDate, nil, tt.origin)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestNewInvoice_ZeroGrandTotalAllowedAsDraft(t *testing.T) {
	inv, err := NewInvoice(SideReceivable, "AR-1", uuid.New(), InvoiceAmounts{}, time.Now(), nil, OriginRef{})
	require.NoError(t, err)
	assert.True(t, inv.GrandTotal.IsZero())
	assert.True(t, inv.OpenAmount.IsZero())
}

// ============================================
// Issue Tests
// ============================================

func TestInvoice_Issue(t *testing.T) {
	inv := createTestInvoice(t)

	err := inv.Issue()

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.NotNil(t, inv.IssuedAt)
	assert.Equal(t, 2, inv.Version)
}

func TestInvoice_Issue_NotDraft(t *testing.T) {
	inv := createIssuedInvoice(t)

	err := inv.Issue()

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestInvoice_Issue_ZeroGrandTotal(t *testing.T) {
	inv, err := NewInvoice(SideReceivable, "AR-1", uuid.New(), InvoiceAmounts{}, time.Now(), nil, OriginRef{})
	require.NoError(t, err)

	err = inv.Issue()

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

// ============================================
// Cancel Tests
// ============================================

func TestInvoice_Cancel_Draft(t *testing.T) {
	inv := createTestInvoice(t)

	err := inv.Cancel("duplicate entry")

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	assert.NotNil(t, inv.CancelledAt)
	assert.Equal(t, "duplicate entry", inv.CancelReason)
}

func TestInvoice_Cancel_Issued(t *testing.T) {
	inv := createIssuedInvoice(t)

	err := inv.Cancel("customer withdrew order")

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
}

func TestInvoice_Cancel_WithAppliedPayments(t *testing.T) {
	inv := createIssuedInvoice(t)
	inv.applyReconciliation(d("1000"))
	require.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

	err := inv.Cancel("attempt after payment")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
}

func TestInvoice_Cancel_RequiresReason(t *testing.T) {
	inv := createTestInvoice(t)

	err := inv.Cancel("")

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestInvoice_Cancel_Paid(t *testing.T) {
	inv := createIssuedInvoice(t)
	inv.applyReconciliation(inv.GrandTotal)
	require.Equal(t, InvoiceStatusPaid, inv.Status)

	err := inv.Cancel("too late")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestInvoice_Cancel_FreezesAmounts(t *testing.T) {
	inv := createIssuedInvoice(t)
	require.NoError(t, inv.Cancel("order fell through"))

	openBefore := inv.OpenAmount

	// A cancelled invoice is frozen; reconciliation refuses to touch it at
	// the reconciler level, and the status no longer moves.
	assert.False(t, inv.Status.IsReconcilable())
	assert.True(t, openBefore.Equal(inv.OpenAmount))
}

// ============================================
// UpdateDraft Tests
// ============================================

func TestInvoice_UpdateDraft(t *testing.T) {
	inv := createTestInvoice(t)
	newDate := time.Now().AddDate(0, 0, 1)

	err := inv.UpdateDraft(InvoiceAmounts{Subtotal: d("29000"), Discount: decimal.Zero, Tax: d("2030")}, newDate, nil, "reissued estimate")

	require.NoError(t, err)
	assert.True(t, d("31030").Equal(inv.GrandTotal))
	assert.True(t, d("31030").Equal(inv.OpenAmount))
	assert.Equal(t, "reissued estimate", inv.Remark)
}

func TestInvoice_UpdateDraft_NotDraft(t *testing.T) {
	inv := createIssuedInvoice(t)

	err := inv.UpdateDraft(InvoiceAmounts{Subtotal: d("1")}, time.Now(), nil, "")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestInvoice_UpdateDraft_NegativeGrandTotal(t *testing.T) {
	inv := createTestInvoice(t)

	err := inv.UpdateDraft(InvoiceAmounts{Subtotal: d("10"), Discount: d("20")}, time.Now(), nil, "")

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// ============================================
// Reconciliation Application Tests
// ============================================

func TestInvoice_ApplyReconciliation_FullPayment(t *testing.T) {
	inv := createIssuedInvoice(t)

	inv.applyReconciliation(d("10165"))

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, d("10165").Equal(inv.PaidTotal))
	assert.True(t, inv.OpenAmount.IsZero())
}

func TestInvoice_ApplyReconciliation_PartialPayment(t *testing.T) {
	inv, err := NewInvoice(SideReceivable, "AR-2", uuid.New(),
		InvoiceAmounts{Subtotal: d("29000"), Discount: decimal.Zero, Tax: d("2030")},
		time.Now(), nil, OriginRef{})
	require.NoError(t, err)
	require.NoError(t, inv.Issue())

	inv.applyReconciliation(d("15000"))

	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, d("15000").Equal(inv.PaidTotal))
	assert.True(t, d("16030").Equal(inv.OpenAmount))
}

func TestInvoice_ApplyReconciliation_BackToIssued(t *testing.T) {
	inv := createIssuedInvoice(t)
	inv.applyReconciliation(d("5000"))
	require.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

	// The backing payment document was cancelled; recomputation from the
	// remaining posted allocations yields zero.
	inv.applyReconciliation(decimal.Zero)

	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.True(t, inv.PaidTotal.IsZero())
	assert.True(t, d("10165").Equal(inv.OpenAmount))
}

func TestInvoice_ApplyReconciliation_Idempotent(t *testing.T) {
	inv := createIssuedInvoice(t)

	inv.applyReconciliation(d("5000"))
	statusAfterFirst := inv.Status
	paidAfterFirst := inv.PaidTotal
	openAfterFirst := inv.OpenAmount

	inv.applyReconciliation(d("5000"))

	assert.Equal(t, statusAfterFirst, inv.Status)
	assert.True(t, paidAfterFirst.Equal(inv.PaidTotal))
	assert.True(t, openAfterFirst.Equal(inv.OpenAmount))
}

func TestInvoice_ApplyReconciliation_OverpaymentFloorsOpenAtZero(t *testing.T) {
	inv := createIssuedInvoice(t)

	inv.applyReconciliation(d("99999"))

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, d("99999").Equal(inv.PaidTotal))
	assert.True(t, inv.OpenAmount.IsZero())
}

func TestInvoice_ApplyReconciliation_DraftKeepsStatus(t *testing.T) {
	inv := createTestInvoice(t)

	inv.applyReconciliation(d("100"))

	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.True(t, d("100").Equal(inv.PaidTotal))
}

func TestInvoice_ApplyReconciliation_EmitsEventOnStatusChange(t *testing.T) {
	inv := createIssuedInvoice(t)
	inv.ClearDomainEvents()

	inv.applyReconciliation(inv.GrandTotal)

	require.Len(t, inv.GetDomainEvents(), 1)
	event, ok := inv.GetDomainEvents()[0].(*InvoiceReconciledEvent)
	require.True(t, ok)
	assert.Equal(t, InvoiceStatusIssued, event.PreviousStatus)
	assert.Equal(t, InvoiceStatusPaid, event.Status)
}

// ============================================
// Overdue Tests
// ============================================

func TestInvoice_IsOverdue(t *testing.T) {
	pastDue := time.Now().AddDate(0, 0, -10)
	futureDue := time.Now().AddDate(0, 0, 10)

	tests := []struct {
		name    string
		prepare func(t *testing.T) *Invoice
		overdue bool
	}{
		{"issued past due", func(t *testing.T) *Invoice {
			inv := createIssuedInvoice(t)
			inv.DueDate = &pastDue
			return inv
		}, true},
		{"issued not yet due", func(t *testing.T) *Invoice {
			inv := createIssuedInvoice(t)
			inv.DueDate = &futureDue
			return inv
		}, false},
		{"no due date", func(t *testing.T) *Invoice {
			return createIssuedInvoice(t)
		}, false},
		{"paid past due", func(t *testing.T) *Invoice {
			inv := createIssuedInvoice(t)
			inv.DueDate = &pastDue
			inv.applyReconciliation(inv.GrandTotal)
			return inv
		}, false},
		{"draft past due", func(t *testing.T) *Invoice {
			inv := createTestInvoice(t)
			inv.DueDate = &pastDue
			return inv
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, tt.prepare(t).IsOverdue())
		})
	}
}

func TestInvoice_DaysOverdue(t *testing.T) {
	inv := createIssuedInvoice(t)
	pastDue := time.Now().AddDate(0, 0, -10)
	inv.DueDate = &pastDue

	assert.Equal(t, 10, inv.DaysOverdue())

	futureDue := time.Now().AddDate(0, 0, 5)
	inv.DueDate = &futureDue
	assert.Equal(t, 0, inv.DaysOverdue())
}
