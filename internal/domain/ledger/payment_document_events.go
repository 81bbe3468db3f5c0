package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// PaymentDocumentCreatedEvent is raised when a payment document is created
type PaymentDocumentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentDocumentID uuid.UUID       `json:"payment_document_id"`
	DocumentNumber    string          `json:"document_number"`
	Side              Side            `json:"side"`
	CounterpartyID    uuid.UUID       `json:"counterparty_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Method            PaymentMethod   `json:"method"`
}

// NewPaymentDocumentCreatedEvent creates a new PaymentDocumentCreatedEvent
func NewPaymentDocumentCreatedEvent(pd *PaymentDocument) *PaymentDocumentCreatedEvent {
	return &PaymentDocumentCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("PaymentDocumentCreated", "PaymentDocument", pd.ID),
		PaymentDocumentID: pd.ID,
		DocumentNumber:    pd.DocumentNumber,
		Side:              pd.Side,
		CounterpartyID:    pd.CounterpartyID,
		TotalAmount:       pd.TotalAmount,
		Method:            pd.Method,
	}
}

// PaymentDocumentPostedEvent is raised when a payment document is posted
type PaymentDocumentPostedEvent struct {
	shared.BaseDomainEvent
	PaymentDocumentID uuid.UUID       `json:"payment_document_id"`
	DocumentNumber    string          `json:"document_number"`
	Side              Side            `json:"side"`
	CounterpartyID    uuid.UUID       `json:"counterparty_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalAllocated    decimal.Decimal `json:"total_allocated"`
	InvoiceIDs        []uuid.UUID     `json:"invoice_ids"`
	PostedAt          time.Time       `json:"posted_at"`
}

// NewPaymentDocumentPostedEvent creates a new PaymentDocumentPostedEvent
func NewPaymentDocumentPostedEvent(pd *PaymentDocument) *PaymentDocumentPostedEvent {
	postedAt := time.Now()
	if pd.PostedAt != nil {
		postedAt = *pd.PostedAt
	}
	return &PaymentDocumentPostedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("PaymentDocumentPosted", "PaymentDocument", pd.ID),
		PaymentDocumentID: pd.ID,
		DocumentNumber:    pd.DocumentNumber,
		Side:              pd.Side,
		CounterpartyID:    pd.CounterpartyID,
		TotalAmount:       pd.TotalAmount,
		TotalAllocated:    pd.TotalAllocated(),
		InvoiceIDs:        pd.InvoiceIDs(),
		PostedAt:          postedAt,
	}
}

// PaymentDocumentCancelledEvent is raised when a posted document is reversed
type PaymentDocumentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentDocumentID uuid.UUID   `json:"payment_document_id"`
	DocumentNumber    string      `json:"document_number"`
	Side              Side        `json:"side"`
	CounterpartyID    uuid.UUID   `json:"counterparty_id"`
	InvoiceIDs        []uuid.UUID `json:"invoice_ids"`
	CancelReason      string      `json:"cancel_reason"`
}

// NewPaymentDocumentCancelledEvent creates a new PaymentDocumentCancelledEvent
func NewPaymentDocumentCancelledEvent(pd *PaymentDocument) *PaymentDocumentCancelledEvent {
	return &PaymentDocumentCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("PaymentDocumentCancelled", "PaymentDocument", pd.ID),
		PaymentDocumentID: pd.ID,
		DocumentNumber:    pd.DocumentNumber,
		Side:              pd.Side,
		CounterpartyID:    pd.CounterpartyID,
		InvoiceIDs:        pd.InvoiceIDs(),
		CancelReason:      pd.CancelReason,
	}
}
