package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
)

// Stores bundles the transaction-scoped persistence interfaces a lifecycle
// operation works against. Every repository in one Stores value is bound to
// the same database transaction.
type Stores struct {
	Invoices ledger.InvoiceRepository
	Payments ledger.PaymentDocumentRepository
	Balances ledger.CounterpartyBalanceRepository
	Audit    ledger.AuditTrail
	Numbers  ledger.NumberGenerator
}

// TxRunner executes a function within one database transaction, handing it
// transaction-scoped stores. Returning an error rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// BalanceCache is an optional read cache in front of the counterparty
// cached balance column. The database column stays authoritative; the cache
// is invalidated whenever reconciliation rewrites the column.
type BalanceCache interface {
	Get(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) (decimal.Decimal, bool, error)
	Set(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error
	Invalidate(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) error
}

// NopBalanceCache disables balance caching
type NopBalanceCache struct{}

// Get implements BalanceCache
func (NopBalanceCache) Get(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

// Set implements BalanceCache
func (NopBalanceCache) Set(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error {
	return nil
}

// Invalidate implements BalanceCache
func (NopBalanceCache) Invalidate(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) error {
	return nil
}

// reconcilerStore adapts transaction-scoped stores to the narrow surface
// the domain reconciler needs.
type reconcilerStore struct {
	stores Stores
}

func (r reconcilerStore) SumPostedAllocations(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.stores.Invoices.SumPostedAllocations(ctx, invoiceID)
}

func (r reconcilerStore) SumOpenAmounts(ctx context.Context, side ledger.Side, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	return r.stores.Invoices.SumOpenAmounts(ctx, side, counterpartyID)
}

func (r reconcilerStore) SaveInvoice(ctx context.Context, invoice *ledger.Invoice) error {
	return r.stores.Invoices.Save(ctx, invoice)
}

func (r reconcilerStore) OverwriteCounterpartyBalance(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error {
	return r.stores.Balances.OverwriteOutstandingBalance(ctx, kind, counterpartyID, balance)
}

func newReconciler(s Stores) *ledger.Reconciler {
	return ledger.NewReconciler(reconcilerStore{stores: s})
}
