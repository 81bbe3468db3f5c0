package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// InvoiceCreatedEvent is raised when a new invoice is created in draft
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	DocumentNumber string          `json:"document_number"`
	Side           Side            `json:"side"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	Origin         OriginRef       `json:"origin,omitempty"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		DocumentNumber:  inv.DocumentNumber,
		Side:            inv.Side,
		CounterpartyID:  inv.CounterpartyID,
		GrandTotal:      inv.GrandTotal,
		Origin:          inv.Origin,
	}
}

// InvoiceIssuedEvent is raised when a draft invoice enters the ledger
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	DocumentNumber string          `json:"document_number"`
	Side           Side            `json:"side"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	IssuedAt       time.Time       `json:"issued_at"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	issuedAt := time.Now()
	if inv.IssuedAt != nil {
		issuedAt = *inv.IssuedAt
	}
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceIssued", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		DocumentNumber:  inv.DocumentNumber,
		Side:            inv.Side,
		CounterpartyID:  inv.CounterpartyID,
		GrandTotal:      inv.GrandTotal,
		IssuedAt:        issuedAt,
	}
}

// InvoiceCancelledEvent is raised when an unpaid invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID `json:"invoice_id"`
	DocumentNumber string    `json:"document_number"`
	Side           Side      `json:"side"`
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	CancelReason   string    `json:"cancel_reason"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCancelled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		DocumentNumber:  inv.DocumentNumber,
		Side:            inv.Side,
		CounterpartyID:  inv.CounterpartyID,
		CancelReason:    inv.CancelReason,
	}
}

// InvoiceReconciledEvent is raised when reconciliation moves an invoice to a
// different settlement status
type InvoiceReconciledEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	DocumentNumber string          `json:"document_number"`
	Side           Side            `json:"side"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	PreviousStatus InvoiceStatus   `json:"previous_status"`
	Status         InvoiceStatus   `json:"status"`
	PaidTotal      decimal.Decimal `json:"paid_total"`
	OpenAmount     decimal.Decimal `json:"open_amount"`
}

// NewInvoiceReconciledEvent creates a new InvoiceReconciledEvent
func NewInvoiceReconciledEvent(inv *Invoice, previousStatus InvoiceStatus) *InvoiceReconciledEvent {
	return &InvoiceReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceReconciled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		DocumentNumber:  inv.DocumentNumber,
		Side:            inv.Side,
		CounterpartyID:  inv.CounterpartyID,
		PreviousStatus:  previousStatus,
		Status:          inv.Status,
		PaidTotal:       inv.PaidTotal,
		OpenAmount:      inv.OpenAmount,
	}
}
