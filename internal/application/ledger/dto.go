package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
)

// CreateInvoiceInput carries the caller-supplied fields for a new draft
// invoice. The document number and all derived amounts are assigned by the
// engine, never by the caller.
type CreateInvoiceInput struct {
	CounterpartyID uuid.UUID        `json:"counterparty_id" binding:"required"`
	Subtotal       decimal.Decimal  `json:"subtotal" binding:"required"`
	Discount       decimal.Decimal  `json:"discount"`
	Tax            decimal.Decimal  `json:"tax"`
	DocumentDate   time.Time        `json:"document_date" binding:"required"`
	DueDate        *time.Time       `json:"due_date"`
	Origin         ledger.OriginRef `json:"origin"`
	Remark         string           `json:"remark"`
}

// UpdateDraftInvoiceInput carries the fields that may still change while an
// invoice is a draft.
type UpdateDraftInvoiceInput struct {
	Subtotal     decimal.Decimal `json:"subtotal" binding:"required"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	DocumentDate time.Time       `json:"document_date" binding:"required"`
	DueDate      *time.Time      `json:"due_date"`
	Remark       string          `json:"remark"`
}

// AllocationInput pairs one target invoice with the amount applied to it.
type AllocationInput struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Remark    string          `json:"remark"`
}

// CreatePaymentInput carries the caller-supplied fields for a new draft
// payment document together with its initial allocations.
type CreatePaymentInput struct {
	CounterpartyID uuid.UUID            `json:"counterparty_id" binding:"required"`
	TotalAmount    decimal.Decimal      `json:"total_amount" binding:"required"`
	Method         ledger.PaymentMethod `json:"method" binding:"required"`
	DocumentDate   time.Time            `json:"document_date" binding:"required"`
	Reference      string               `json:"reference"`
	Remark         string               `json:"remark"`
	Allocations    []AllocationInput    `json:"allocations"`
}

// InvoiceResponse is the read model returned for a single invoice.
type InvoiceResponse struct {
	ID             uuid.UUID            `json:"id"`
	Side           ledger.Side          `json:"side"`
	DocumentNumber string               `json:"document_number"`
	CounterpartyID uuid.UUID            `json:"counterparty_id"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Discount       decimal.Decimal      `json:"discount"`
	Tax            decimal.Decimal      `json:"tax"`
	GrandTotal     decimal.Decimal      `json:"grand_total"`
	PaidTotal      decimal.Decimal      `json:"paid_total"`
	OpenAmount     decimal.Decimal      `json:"open_amount"`
	Status         ledger.InvoiceStatus `json:"status"`
	DocumentDate   time.Time            `json:"document_date"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	Origin         *ledger.OriginRef    `json:"origin,omitempty"`
	Remark         string               `json:"remark,omitempty"`
	IssuedAt       *time.Time           `json:"issued_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason   string               `json:"cancel_reason,omitempty"`
	Version        int                  `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its read model.
func ToInvoiceResponse(inv *ledger.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	resp := &InvoiceResponse{
		ID:             inv.ID,
		Side:           inv.Side,
		DocumentNumber: inv.DocumentNumber,
		CounterpartyID: inv.CounterpartyID,
		Subtotal:       inv.Subtotal,
		Discount:       inv.Discount,
		Tax:            inv.Tax,
		GrandTotal:     inv.GrandTotal,
		PaidTotal:      inv.PaidTotal,
		OpenAmount:     inv.OpenAmount,
		Status:         inv.Status,
		DocumentDate:   inv.DocumentDate,
		DueDate:        inv.DueDate,
		Remark:         inv.Remark,
		IssuedAt:       inv.IssuedAt,
		CancelledAt:    inv.CancelledAt,
		CancelReason:   inv.CancelReason,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if !inv.Origin.IsZero() {
		origin := inv.Origin
		resp.Origin = &origin
	}
	return resp
}

// AllocationResponse is the read model for one allocation line.
type AllocationResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	AllocatedAt   time.Time       `json:"allocated_at"`
	Remark        string          `json:"remark,omitempty"`
}

// PaymentDocumentResponse is the read model returned for a payment document.
type PaymentDocumentResponse struct {
	ID             uuid.UUID                    `json:"id"`
	Side           ledger.Side                  `json:"side"`
	DocumentNumber string                       `json:"document_number"`
	CounterpartyID uuid.UUID                    `json:"counterparty_id"`
	TotalAmount    decimal.Decimal              `json:"total_amount"`
	Allocated      decimal.Decimal              `json:"allocated"`
	Unallocated    decimal.Decimal              `json:"unallocated"`
	Method         ledger.PaymentMethod         `json:"method"`
	Status         ledger.PaymentDocumentStatus `json:"status"`
	DocumentDate   time.Time                    `json:"document_date"`
	Reference      string                       `json:"reference,omitempty"`
	Remark         string                       `json:"remark,omitempty"`
	PostedAt       *time.Time                   `json:"posted_at,omitempty"`
	CancelledAt    *time.Time                   `json:"cancelled_at,omitempty"`
	CancelReason   string                       `json:"cancel_reason,omitempty"`
	Allocations    []AllocationResponse         `json:"allocations"`
	Version        int                          `json:"version"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

// ToPaymentDocumentResponse maps a payment document aggregate to its read model.
func ToPaymentDocumentResponse(doc *ledger.PaymentDocument) *PaymentDocumentResponse {
	if doc == nil {
		return nil
	}
	allocations := make([]AllocationResponse, 0, len(doc.Allocations))
	for _, a := range doc.Allocations {
		allocations = append(allocations, AllocationResponse{
			ID:            a.ID,
			InvoiceID:     a.InvoiceID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        a.Amount,
			AllocatedAt:   a.AllocatedAt,
			Remark:        a.Remark,
		})
	}
	return &PaymentDocumentResponse{
		ID:             doc.ID,
		Side:           doc.Side,
		DocumentNumber: doc.DocumentNumber,
		CounterpartyID: doc.CounterpartyID,
		TotalAmount:    doc.TotalAmount,
		Allocated:      doc.TotalAllocated(),
		Unallocated:    doc.UnallocatedAmount(),
		Method:         doc.Method,
		Status:         doc.Status,
		DocumentDate:   doc.DocumentDate,
		Reference:      doc.ExternalReference,
		Remark:         doc.Remark,
		PostedAt:       doc.PostedAt,
		CancelledAt:    doc.CancelledAt,
		CancelReason:   doc.CancelReason,
		Allocations:    allocations,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

// CounterpartyBalanceResponse reports the reconciled outstanding balance for
// one counterparty on one side of the ledger.
type CounterpartyBalanceResponse struct {
	CounterpartyID uuid.UUID              `json:"counterparty_id"`
	Kind           ledger.CounterpartyKind `json:"kind"`
	Outstanding    decimal.Decimal        `json:"outstanding"`
}
