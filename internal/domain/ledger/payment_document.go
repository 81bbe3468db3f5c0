package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared/valueobject"
)

// PaymentDocumentStatus represents the lifecycle status of a payment document
type PaymentDocumentStatus string

const (
	PaymentDocumentStatusDraft     PaymentDocumentStatus = "DRAFT"     // Created with its allocations, not yet affecting balances
	PaymentDocumentStatusPosted    PaymentDocumentStatus = "POSTED"    // Allocations count towards invoice balances
	PaymentDocumentStatusCancelled PaymentDocumentStatus = "CANCELLED" // Reversed, allocations contribute nothing
)

// IsValid checks if the status is a valid PaymentDocumentStatus
func (s PaymentDocumentStatus) IsValid() bool {
	switch s {
	case PaymentDocumentStatusDraft, PaymentDocumentStatusPosted, PaymentDocumentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentDocumentStatus
func (s PaymentDocumentStatus) String() string {
	return string(s)
}

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodFinancing    PaymentMethod = "FINANCING" // In-store financing plan
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodCheck, PaymentMethodFinancing, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentDocument records money moving against one or more invoices: a
// receipt from a customer on the receivable side, a payment to a supplier on
// the payable side. Only posting and cancelling a payment document ever
// affect invoice balances.
type PaymentDocument struct {
	shared.BaseAggregateRoot
	Side              Side                  `json:"side"`
	DocumentNumber    string                `json:"document_number"`
	CounterpartyID    uuid.UUID             `json:"counterparty_id"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	Method            PaymentMethod         `json:"method"`
	ExternalReference string                `json:"external_reference,omitempty"` // Bank transaction, check number
	Status            PaymentDocumentStatus `json:"status"`
	DocumentDate      time.Time             `json:"document_date"`
	Allocations       []Allocation          `json:"allocations"`
	Remark            string                `json:"remark,omitempty"`
	PostedAt          *time.Time            `json:"posted_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
}

// NewPaymentDocument creates a new payment document in draft status with no
// allocations yet. Allocations are added with AddAllocation before the
// document is persisted; creation of document and allocations is one atomic
// operation at the application layer.
func NewPaymentDocument(
	side Side,
	documentNumber string,
	counterpartyID uuid.UUID,
	totalAmount valueobject.Money,
	method PaymentMethod,
	documentDate time.Time,
	externalReference string,
) (*PaymentDocument, error) {
	if !side.IsValid() {
		return nil, shared.NewValidationError("Payment document side is not valid")
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
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Total amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Payment method is not valid")
	}
	if documentDate.IsZero() {
		return nil, shared.NewValidationError("Document date is required")
	}
	if len(externalReference) > 100 {
		return nil, shared.NewValidationError("External reference cannot exceed 100 characters")
	}

	pd := &PaymentDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Side:              side,
		DocumentNumber:    documentNumber,
		CounterpartyID:    counterpartyID,
		TotalAmount:       totalAmount.Amount(),
		Method:            method,
		ExternalReference: externalReference,
		Status:            PaymentDocumentStatusDraft,
		DocumentDate:      documentDate,
		Allocations:       make([]Allocation, 0),
	}

	pd.AddDomainEvent(NewPaymentDocumentCreatedEvent(pd))

	return pd, nil
}

// AddAllocation applies part of the document's total to an invoice. The sum
// of all allocations may never exceed the declared total amount; a violation
// rejects the allocation with an allocation-overflow error before anything
// is persisted.
func (pd *PaymentDocument) AddAllocation(invoiceID uuid.UUID, invoiceNumber string, amount valueobject.Money, remark string) (*Allocation, error) {
	if pd.Status != PaymentDocumentStatusDraft {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Cannot allocate payment document in %s status", pd.Status))
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Allocation amount must be positive")
	}
	newTotal := pd.TotalAllocated().Add(amount.Amount())
	if newTotal.GreaterThan(pd.TotalAmount) {
		return nil, shared.NewAllocationOverflowError(fmt.Sprintf(
			"Allocations of %s would exceed document total %s",
			newTotal.StringFixed(2), pd.TotalAmount.StringFixed(2)))
	}

	allocation := NewAllocation(pd.ID, invoiceID, invoiceNumber, amount, remark)
	pd.Allocations = append(pd.Allocations, *allocation)

	pd.UpdatedAt = time.Now()
	pd.IncrementVersion()

	return allocation, nil
}

// Post moves the document from draft to posted. Requires at least one
// allocation; after posting, the allocations count towards the balances of
// the allocated invoices via reconciliation.
func (pd *PaymentDocument) Post() error {
	if pd.Status != PaymentDocumentStatusDraft {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot post payment document in %s status", pd.Status))
	}
	if !pd.TotalAmount.IsPositive() {
		return shared.NewInvalidStateError("Cannot post payment document with non-positive total")
	}
	if len(pd.Allocations) == 0 {
		return shared.NewInvalidStateError("Cannot post payment document without allocations")
	}

	now := time.Now()
	pd.Status = PaymentDocumentStatusPosted
	pd.PostedAt = &now
	pd.UpdatedAt = now
	pd.IncrementVersion()

	pd.AddDomainEvent(NewPaymentDocumentPostedEvent(pd))

	return nil
}

// Cancel reverses a posted document. Its allocations stop contributing to
// invoice balances; the affected invoices are fully re-reconciled from the
// remaining posted documents.
func (pd *PaymentDocument) Cancel(reason string) error {
	if pd.Status != PaymentDocumentStatusPosted {
		return shared.NewInvalidStateError(fmt.Sprintf("Cannot cancel payment document in %s status", pd.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	pd.Status = PaymentDocumentStatusCancelled
	pd.CancelledAt = &now
	pd.CancelReason = reason
	pd.UpdatedAt = now
	pd.IncrementVersion()

	pd.AddDomainEvent(NewPaymentDocumentCancelledEvent(pd))

	return nil
}

// TotalAllocated returns the sum of all allocation amounts
func (pd *PaymentDocument) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range pd.Allocations {
		total = total.Add(alloc.Amount)
	}
	return total
}

// UnallocatedAmount returns the declared total minus the allocated sum,
// floored at zero
func (pd *PaymentDocument) UnallocatedAmount() decimal.Decimal {
	remaining := pd.TotalAmount.Sub(pd.TotalAllocated())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// GetTotalAmountMoney returns the declared total as Money
func (pd *PaymentDocument) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(pd.TotalAmount)
}

// IsDraft returns true if the document is in draft status
func (pd *PaymentDocument) IsDraft() bool {
	return pd.Status == PaymentDocumentStatusDraft
}

// IsPosted returns true if the document is posted
func (pd *PaymentDocument) IsPosted() bool {
	return pd.Status == PaymentDocumentStatusPosted
}

// IsCancelled returns true if the document is cancelled
func (pd *PaymentDocument) IsCancelled() bool {
	return pd.Status == PaymentDocumentStatusCancelled
}

// AllocationCount returns the number of allocations
func (pd *PaymentDocument) AllocationCount() int {
	return len(pd.Allocations)
}

// InvoiceIDs returns the distinct invoice IDs touched by this document's
// allocations, in first-seen order
func (pd *PaymentDocument) InvoiceIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(pd.Allocations))
	ids := make([]uuid.UUID, 0, len(pd.Allocations))
	for _, alloc := range pd.Allocations {
		if !seen[alloc.InvoiceID] {
			seen[alloc.InvoiceID] = true
			ids = append(ids, alloc.InvoiceID)
		}
	}
	return ids
}
