package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// ReconcilerStore is the narrow persistence surface the reconciler needs.
// All methods must run against the same transaction as the lifecycle
// operation that triggered the reconciliation.
type ReconcilerStore interface {
	// SumPostedAllocations returns the sum of allocation amounts for the
	// invoice across allocations whose parent payment document is posted.
	// This is the authoritative paid total.
	SumPostedAllocations(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// SumOpenAmounts returns the sum of open amounts over all non-cancelled
	// invoices of the counterparty on the given side.
	SumOpenAmounts(ctx context.Context, side Side, counterpartyID uuid.UUID) (decimal.Decimal, error)

	// SaveInvoice persists the reconciled invoice state.
	SaveInvoice(ctx context.Context, invoice *Invoice) error

	// OverwriteCounterpartyBalance replaces the counterparty's cached
	// outstanding balance with the freshly computed sum.
	OverwriteCounterpartyBalance(ctx context.Context, kind CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error
}

// Reconciler recomputes derived invoice balances and cached counterparty
// aggregates from the authoritative allocation rows. It never does
// incremental arithmetic: every call recomputes from scratch, which makes
// reconciliation idempotent and order-independent and keeps the cached
// fields honest materialized views.
//
// The reconciler is the single writer of Invoice.PaidTotal,
// Invoice.OpenAmount and the counterparty cached balance.
type Reconciler struct {
	store ReconcilerStore
}

// NewReconciler creates a new Reconciler backed by the given store
func NewReconciler(store ReconcilerStore) *Reconciler {
	return &Reconciler{store: store}
}

// ReconcileInvoice recomputes the invoice's paid total from the posted
// allocation rows, derives the open amount, moves the settlement status and
// persists the result. Drafts and cancelled invoices keep their status; a
// cancelled invoice is not touched at all since its amounts are frozen.
func (r *Reconciler) ReconcileInvoice(ctx context.Context, invoice *Invoice) error {
	if invoice == nil {
		return shared.NewValidationError("Invoice cannot be nil")
	}
	if invoice.IsCancelled() {
		return nil
	}

	paidTotal, err := r.store.SumPostedAllocations(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to sum posted allocations for invoice %s: %w", invoice.DocumentNumber, err)
	}

	invoice.applyReconciliation(paidTotal)

	if err := r.store.SaveInvoice(ctx, invoice); err != nil {
		return fmt.Errorf("failed to persist reconciled invoice %s: %w", invoice.DocumentNumber, err)
	}
	return nil
}

// ReconcileCounterpartyBalance recomputes the counterparty's cached
// outstanding balance as the sum of open amounts over its non-cancelled
// invoices and overwrites the cached field. Must run after any invoice
// reconciliation it depends on, within the same transaction.
func (r *Reconciler) ReconcileCounterpartyBalance(ctx context.Context, side Side, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	if !side.IsValid() {
		return decimal.Zero, shared.NewValidationError("Side is not valid")
	}
	if counterpartyID == uuid.Nil {
		return decimal.Zero, shared.NewValidationError("Counterparty ID cannot be empty")
	}

	balance, err := r.store.SumOpenAmounts(ctx, side, counterpartyID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum open amounts for counterparty %s: %w", counterpartyID, err)
	}

	if err := r.store.OverwriteCounterpartyBalance(ctx, side.CounterpartyKind(), counterpartyID, balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to overwrite cached balance for counterparty %s: %w", counterpartyID, err)
	}
	return balance, nil
}

// ReconcileInvoices reconciles a set of invoices and then recomputes the
// cached balance of every distinct counterparty involved, in that order.
func (r *Reconciler) ReconcileInvoices(ctx context.Context, invoices []*Invoice) error {
	type party struct {
		side Side
		id   uuid.UUID
	}
	seen := make(map[party]bool, len(invoices))
	parties := make([]party, 0, len(invoices))

	for _, inv := range invoices {
		if err := r.ReconcileInvoice(ctx, inv); err != nil {
			return err
		}
		p := party{side: inv.Side, id: inv.CounterpartyID}
		if !seen[p] {
			seen[p] = true
			parties = append(parties, p)
		}
	}

	for _, p := range parties {
		if _, err := r.ReconcileCounterpartyBalance(ctx, p.side, p.id); err != nil {
			return err
		}
	}
	return nil
}
