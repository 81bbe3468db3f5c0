package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// fakeReconcilerStore simulates the allocation and balance queries the
// reconciler runs. Posted allocation sums are keyed by invoice ID; open
// amount sums are recomputed from the saved invoices.
type fakeReconcilerStore struct {
	postedAllocations map[uuid.UUID]decimal.Decimal
	savedInvoices     map[uuid.UUID]*Invoice
	balances          map[uuid.UUID]decimal.Decimal
	saveCalls         int
	sumErr            error
	saveErr           error
}

func newFakeReconcilerStore() *fakeReconcilerStore {
	return &fakeReconcilerStore{
		postedAllocations: make(map[uuid.UUID]decimal.Decimal),
		savedInvoices:     make(map[uuid.UUID]*Invoice),
		balances:          make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeReconcilerStore) SumPostedAllocations(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	if f.sumErr != nil {
		return decimal.Zero, f.sumErr
	}
	return f.postedAllocations[invoiceID], nil
}

func (f *fakeReconcilerStore) SumOpenAmounts(ctx context.Context, side Side, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range f.savedInvoices {
		if inv.Side == side && inv.CounterpartyID == counterpartyID && !inv.IsCancelled() && !inv.IsDraft() {
			total = total.Add(inv.OpenAmount)
		}
	}
	return total, nil
}

func (f *fakeReconcilerStore) SaveInvoice(ctx context.Context, invoice *Invoice) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCalls++
	f.savedInvoices[invoice.ID] = invoice
	return nil
}

func (f *fakeReconcilerStore) OverwriteCounterpartyBalance(ctx context.Context, kind CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error {
	f.balances[counterpartyID] = balance
	return nil
}

func issuedInvoiceFor(t *testing.T, counterpartyID uuid.UUID, subtotal string) *Invoice {
	inv, err := NewInvoice(SideReceivable, "AR-"+uuid.NewString()[:8], counterpartyID,
		InvoiceAmounts{Subtotal: d(subtotal)}, time.Now(), nil, OriginRef{})
	require.NoError(t, err)
	require.NoError(t, inv.Issue())
	return inv
}

// ============================================
// ReconcileInvoice Tests
// ============================================

func TestReconciler_ReconcileInvoice_FullSettlement(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "10165")
	store.postedAllocations[inv.ID] = d("10165")

	err := reconciler.ReconcileInvoice(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, d("10165").Equal(inv.PaidTotal))
	assert.True(t, inv.OpenAmount.IsZero())
	assert.Equal(t, 1, store.saveCalls)
}

func TestReconciler_ReconcileInvoice_PartialSettlement(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "31030")
	store.postedAllocations[inv.ID] = d("15000")

	err := reconciler.ReconcileInvoice(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, d("15000").Equal(inv.PaidTotal))
	assert.True(t, d("16030").Equal(inv.OpenAmount))
}

func TestReconciler_ReconcileInvoice_NoAllocations(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "1000")

	err := reconciler.ReconcileInvoice(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.True(t, inv.PaidTotal.IsZero())
	assert.True(t, d("1000").Equal(inv.OpenAmount))
}

func TestReconciler_ReconcileInvoice_Idempotent(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "1000")
	store.postedAllocations[inv.ID] = d("400")

	require.NoError(t, reconciler.ReconcileInvoice(context.Background(), inv))
	statusAfterFirst := inv.Status
	paidAfterFirst := inv.PaidTotal
	openAfterFirst := inv.OpenAmount

	require.NoError(t, reconciler.ReconcileInvoice(context.Background(), inv))

	assert.Equal(t, statusAfterFirst, inv.Status)
	assert.True(t, paidAfterFirst.Equal(inv.PaidTotal))
	assert.True(t, openAfterFirst.Equal(inv.OpenAmount))
}

func TestReconciler_ReconcileInvoice_ReversalRestoresState(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "1000")

	// Payment posted, then cancelled. State after the round trip must match
	// the state before posting.
	store.postedAllocations[inv.ID] = d("1000")
	require.NoError(t, reconciler.ReconcileInvoice(context.Background(), inv))
	require.Equal(t, InvoiceStatusPaid, inv.Status)

	delete(store.postedAllocations, inv.ID)
	require.NoError(t, reconciler.ReconcileInvoice(context.Background(), inv))

	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.True(t, inv.PaidTotal.IsZero())
	assert.True(t, d("1000").Equal(inv.OpenAmount))
}

func TestReconciler_ReconcileInvoice_CancelledIsFrozen(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "1000")
	require.NoError(t, inv.Cancel("order withdrawn"))
	store.postedAllocations[inv.ID] = d("500")

	err := reconciler.ReconcileInvoice(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	assert.True(t, inv.PaidTotal.IsZero())
	assert.Equal(t, 0, store.saveCalls)
}

func TestReconciler_ReconcileInvoice_NilInvoice(t *testing.T) {
	reconciler := NewReconciler(newFakeReconcilerStore())

	err := reconciler.ReconcileInvoice(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestReconciler_ReconcileInvoice_SumError(t *testing.T) {
	store := newFakeReconcilerStore()
	store.sumErr = errors.New("connection reset")
	reconciler := NewReconciler(store)
	inv := issuedInvoiceFor(t, uuid.New(), "1000")

	err := reconciler.ReconcileInvoice(context.Background(), inv)

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

// ============================================
// ReconcileCounterpartyBalance Tests
// ============================================

func TestReconciler_ReconcileCounterpartyBalance(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	counterpartyID := uuid.New()

	first := issuedInvoiceFor(t, counterpartyID, "1000")
	second := issuedInvoiceFor(t, counterpartyID, "2500")
	store.savedInvoices[first.ID] = first
	store.savedInvoices[second.ID] = second

	balance, err := reconciler.ReconcileCounterpartyBalance(context.Background(), SideReceivable, counterpartyID)

	require.NoError(t, err)
	assert.True(t, d("3500").Equal(balance))
	assert.True(t, d("3500").Equal(store.balances[counterpartyID]))
}

func TestReconciler_ReconcileCounterpartyBalance_ExcludesCancelled(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	counterpartyID := uuid.New()

	kept := issuedInvoiceFor(t, counterpartyID, "1000")
	cancelled := issuedInvoiceFor(t, counterpartyID, "9999")
	require.NoError(t, cancelled.Cancel("void"))
	store.savedInvoices[kept.ID] = kept
	store.savedInvoices[cancelled.ID] = cancelled

	balance, err := reconciler.ReconcileCounterpartyBalance(context.Background(), SideReceivable, counterpartyID)

	require.NoError(t, err)
	assert.True(t, d("1000").Equal(balance))
}

func TestReconciler_ReconcileCounterpartyBalance_Validation(t *testing.T) {
	reconciler := NewReconciler(newFakeReconcilerStore())

	_, err := reconciler.ReconcileCounterpartyBalance(context.Background(), Side("BAD"), uuid.New())
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	_, err = reconciler.ReconcileCounterpartyBalance(context.Background(), SideReceivable, uuid.Nil)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// ============================================
// ReconcileInvoices Tests
// ============================================

func TestReconciler_ReconcileInvoices(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	counterpartyID := uuid.New()

	first := issuedInvoiceFor(t, counterpartyID, "1000")
	second := issuedInvoiceFor(t, counterpartyID, "2000")
	store.postedAllocations[first.ID] = d("1000")
	store.postedAllocations[second.ID] = d("500")

	err := reconciler.ReconcileInvoices(context.Background(), []*Invoice{first, second})

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, first.Status)
	assert.Equal(t, InvoiceStatusPartiallyPaid, second.Status)
	// 0 open on first + 1500 open on second
	assert.True(t, d("1500").Equal(store.balances[counterpartyID]))
}

func TestReconciler_ReconcileInvoices_OrderIndependent(t *testing.T) {
	counterpartyID := uuid.New()

	run := func(reverse bool) (decimal.Decimal, decimal.Decimal) {
		store := newFakeReconcilerStore()
		reconciler := NewReconciler(store)
		first := issuedInvoiceFor(t, counterpartyID, "1000")
		second := issuedInvoiceFor(t, counterpartyID, "2000")
		store.postedAllocations[first.ID] = d("300")
		store.postedAllocations[second.ID] = d("700")

		batch := []*Invoice{first, second}
		if reverse {
			batch = []*Invoice{second, first}
		}
		require.NoError(t, reconciler.ReconcileInvoices(context.Background(), batch))
		return first.OpenAmount, second.OpenAmount
	}

	firstOpenA, secondOpenA := run(false)
	firstOpenB, secondOpenB := run(true)

	assert.True(t, firstOpenA.Equal(firstOpenB))
	assert.True(t, secondOpenA.Equal(secondOpenB))
}

func TestReconciler_ReconcileInvoices_SkipsCancelledButUpdatesBalance(t *testing.T) {
	store := newFakeReconcilerStore()
	reconciler := NewReconciler(store)
	counterpartyID := uuid.New()

	cancelled := issuedInvoiceFor(t, counterpartyID, "5000")
	require.NoError(t, cancelled.Cancel("void"))

	err := reconciler.ReconcileInvoices(context.Background(), []*Invoice{cancelled})

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, cancelled.Status)
	// Balance recomputed over non-cancelled invoices only.
	assert.True(t, store.balances[counterpartyID].IsZero())
}
