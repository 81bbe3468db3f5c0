package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared/valueobject"
)

// Allocation records how much of one payment document is applied to one
// invoice. Allocations are created together with their parent document and
// are never individually updated after posting; corrections happen by
// cancelling the payment document and creating a new one.
type Allocation struct {
	ID                uuid.UUID       `json:"id"`
	PaymentDocumentID uuid.UUID       `json:"payment_document_id"`
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"` // Denormalized for display
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAt       time.Time       `json:"allocated_at"`
	Remark            string          `json:"remark,omitempty"`
}

// NewAllocation creates a new allocation
func NewAllocation(paymentDocumentID, invoiceID uuid.UUID, invoiceNumber string, amount valueobject.Money, remark string) *Allocation {
	return &Allocation{
		ID:                uuid.New(),
		PaymentDocumentID: paymentDocumentID,
		InvoiceID:         invoiceID,
		InvoiceNumber:     invoiceNumber,
		Amount:            amount.Amount(),
		AllocatedAt:       time.Now(),
		Remark:            remark,
	}
}

// GetAmountMoney returns the amount as Money value object
func (a *Allocation) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.Amount)
}
