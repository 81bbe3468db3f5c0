package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"          // Editable, not yet issued
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"         // Issued, no payment applied yet
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // Partially settled, 0 < paid < grand total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully settled, open amount zero
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"      // Cancelled before any payment
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsReconcilable returns true if reconciliation may move the status.
// Drafts are not yet part of the ledger and cancelled invoices are frozen.
func (s InvoiceStatus) IsReconcilable() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusPaid
}

// CanCancel returns true if an invoice in this status may be cancelled
// (subject to the no-payments rule checked on the aggregate)
func (s InvoiceStatus) CanCancel() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// InvoiceAmounts carries the caller-supplied amount components of an invoice.
// The grand total is always derived from these, never supplied directly.
type InvoiceAmounts struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
}

// GrandTotal computes subtotal − discount + tax
func (a InvoiceAmounts) GrandTotal() decimal.Decimal {
	return a.Subtotal.Sub(a.Discount).Add(a.Tax)
}

// Invoice is a billable document owed by a customer (receivable side) or to
// a supplier (payable side). PaidTotal and OpenAmount are derived fields
// owned exclusively by the Reconciler; nothing else in the system writes
// them. A cancelled invoice's amounts are frozen at cancellation time.
type Invoice struct {
	shared.BaseAggregateRoot
	Side           Side            `json:"side"`
	DocumentNumber string          `json:"document_number"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PaidTotal      decimal.Decimal `json:"paid_total"`
	OpenAmount     decimal.Decimal `json:"open_amount"`
	Status         InvoiceStatus   `json:"status"`
	DocumentDate   time.Time       `json:"document_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Origin         OriginRef       `json:"origin,omitempty"`
	Remark         string          `json:"remark,omitempty"`
	IssuedAt       *time.Time      `json:"issued_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
}

// NewInvoice creates a new invoice in draft status. The grand total is
// computed once from the amount components; paid total starts at zero and
// the full grand total is open.
func NewInvoice(
	side Side,
	documentNumber string,
	counterpartyID uuid.UUID,
	amounts InvoiceAmounts,
	documentDate time.Time,
	dueDate *time.Time,
	origin OriginRef,
) (*Invoice, error) {
	if !side.IsValid() {
		return nil, shared.NewValidationError("Invoice side is not valid")
	}
	if documentNumber == "" {
		return nil, shared.NewValidationError("Document number cannot be empty")
	}
	if len(documentNumber) > 50 {
		return nil, shared.NewValidationError("Document number cannot exceed 50 characters")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}
	if amounts.Subtotal.IsNegative() {
		return nil, shared.NewValidationError("Subtotal cannot be negative")
	}
	if amounts.Discount.IsNegative() {
		return nil, shared.NewValidationError("Discount cannot be negative")
	}
	if amounts.Tax.IsNegative() {
		return nil, shared.NewValidationError("Tax cannot be negative")
	}
	grandTotal := amounts.GrandTotal()
	if grandTotal.IsNegative() {
		return nil, shared.NewValidationError("Grand total cannot be negative")
	}
	if documentDate.IsZero() {
		return nil, shared.NewValidationError("Document date is required")
	}
	if !origin.IsZero() && !origin.Type.IsValid() {
		return nil, shared.NewValidationError("Origin type is not valid")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Side:              side,
		DocumentNumber:    documentNumber,
		CounterpartyID:    counterpartyID,
		Subtotal:          amounts.Subtotal,
		Discount:          amounts.Discount,
		Tax:               amounts.Tax,
		GrandTotal:        grandTotal,
		PaidTotal:         decimal.Zero,
		OpenAmount:        grandTotal,
		Status:            InvoiceStatusDraft,
		DocumentDate:      documentDate,
		DueDate:           dueDate,
		Origin:            origin,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Issue moves the invoice from draft into the ledger
func (inv *Invoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}
	if !inv.GrandTotal.IsPositive() {
		return shared.NewInvalidStateError("Cannot issue invoice with non-positive grand total")
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// Cancel cancels the invoice. Only unpaid invoices can be cancelled; once a
// payment has been applied, the correction path is cancelling the payment
// document instead. The invoice's amounts are frozen as they stand.
func (inv *Invoice) Cancel(reason string) error {
	if !inv.Status.CanCancel() {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if inv.PaidTotal.GreaterThan(decimal.Zero) {
		return shared.NewInvalidStateError("Cannot cancel invoice with applied payments")
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// UpdateDraft replaces the amount components and dates of a draft invoice
// and recomputes the grand total. Any other status rejects the edit.
func (inv *Invoice) UpdateDraft(amounts InvoiceAmounts, documentDate time.Time, dueDate *time.Time, remark string) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot update invoice in %s status", inv.Status))
	}
	if amounts.Subtotal.IsNegative() || amounts.Discount.IsNegative() || amounts.Tax.IsNegative() {
		return shared.NewValidationError("Amount components cannot be negative")
	}
	grandTotal := amounts.GrandTotal()
	if grandTotal.IsNegative() {
		return shared.NewValidationError("Grand total cannot be negative")
	}
	if documentDate.IsZero() {
		return shared.NewValidationError("Document date is required")
	}

	inv.Subtotal = amounts.Subtotal
	inv.Discount = amounts.Discount
	inv.Tax = amounts.Tax
	inv.GrandTotal = grandTotal
	inv.OpenAmount = grandTotal
	inv.DocumentDate = documentDate
	inv.DueDate = dueDate
	inv.Remark = remark
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// applyReconciliation overwrites the derived paid/open amounts from the
// authoritative allocation sum and moves the status accordingly. Deliberately
// unexported: the Reconciler is the only writer of these fields. Drafts and
// cancelled invoices keep their status untouched.
func (inv *Invoice) applyReconciliation(paidTotal decimal.Decimal) {
	previousStatus := inv.Status

	inv.PaidTotal = paidTotal
	openAmount := inv.GrandTotal.Sub(paidTotal)
	if openAmount.IsNegative() {
		openAmount = decimal.Zero
	}
	inv.OpenAmount = openAmount

	if inv.Status.IsReconcilable() {
		switch {
		case !openAmount.IsPositive():
			inv.Status = InvoiceStatusPaid
		case paidTotal.IsPositive():
			inv.Status = InvoiceStatusPartiallyPaid
		default:
			inv.Status = InvoiceStatusIssued
		}
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	if inv.Status != previousStatus {
		inv.AddDomainEvent(NewInvoiceReconciledEvent(inv, previousStatus))
	}
}

// Helper methods

// GetGrandTotalMoney returns the grand total as Money
func (inv *Invoice) GetGrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.GrandTotal)
}

// GetPaidTotalMoney returns the paid total as Money
func (inv *Invoice) GetPaidTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.PaidTotal)
}

// GetOpenAmountMoney returns the open amount as Money
func (inv *Invoice) GetOpenAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.OpenAmount)
}

// IsDraft returns true if the invoice is in draft status
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice is fully settled
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsCancelled returns true if the invoice is cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

// IsOverdue returns true if the invoice is past due and not settled
func (inv *Invoice) IsOverdue() bool {
	if !inv.Status.IsReconcilable() || inv.Status == InvoiceStatusPaid {
		return false
	}
	if inv.DueDate == nil {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

// DaysOverdue returns the number of days past due (0 if not overdue)
func (inv *Invoice) DaysOverdue() int {
	if !inv.IsOverdue() {
		return 0
	}
	return int(time.Since(*inv.DueDate).Hours() / 24)
}
