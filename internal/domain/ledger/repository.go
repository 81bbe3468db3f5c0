package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	CounterpartyID *uuid.UUID       // Filter by counterparty
	Status         *InvoiceStatus   // Filter by status
	OriginType     *OriginType      // Filter by origin document type
	OriginID       *uuid.UUID       // Filter by origin document
	FromDate       *time.Time       // Filter by document date range start
	ToDate         *time.Time       // Filter by document date range end
	Overdue        *bool            // Filter only overdue invoices
	MinOpenAmount  *decimal.Decimal // Filter by minimum open amount
	MaxOpenAmount  *decimal.Decimal // Filter by maximum open amount
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	// FindByID finds an invoice by ID on the given side
	FindByID(ctx context.Context, side Side, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate finds an invoice and locks its row for the duration
	// of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, side Side, id uuid.UUID) (*Invoice, error)

	// FindByDocumentNumber finds an invoice by its document number
	FindByDocumentNumber(ctx context.Context, side Side, documentNumber string) (*Invoice, error)

	// FindByOrigin finds the invoice created from a source document
	FindByOrigin(ctx context.Context, side Side, origin OriginRef) (*Invoice, error)

	// FindAll finds invoices on the given side with filtering
	FindAll(ctx context.Context, side Side, filter InvoiceFilter) ([]Invoice, error)

	// FindOutstanding finds issued or partially paid invoices for a
	// counterparty, oldest first
	FindOutstanding(ctx context.Context, side Side, counterpartyID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Count counts invoices on the given side with filtering
	Count(ctx context.Context, side Side, filter InvoiceFilter) (int64, error)

	// SumPostedAllocations sums allocation amounts for an invoice across
	// allocations whose parent payment document is posted
	SumPostedAllocations(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// SumOpenAmounts sums open amounts over all non-cancelled invoices of a
	// counterparty on the given side
	SumOpenAmounts(ctx context.Context, side Side, counterpartyID uuid.UUID) (decimal.Decimal, error)
}

// PaymentDocumentFilter defines filtering options for payment document queries
type PaymentDocumentFilter struct {
	shared.Filter
	CounterpartyID *uuid.UUID             // Filter by counterparty
	Status         *PaymentDocumentStatus // Filter by status
	Method         *PaymentMethod         // Filter by payment method
	FromDate       *time.Time             // Filter by document date range start
	ToDate         *time.Time             // Filter by document date range end
}

// PaymentDocumentRepository defines the persistence interface for payment
// documents and their allocations
type PaymentDocumentRepository interface {
	// FindByID finds a payment document by ID, allocations included
	FindByID(ctx context.Context, side Side, id uuid.UUID) (*PaymentDocument, error)

	// FindByIDForUpdate finds a payment document and locks its row for the
	// duration of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, side Side, id uuid.UUID) (*PaymentDocument, error)

	// FindByDocumentNumber finds a payment document by its document number
	FindByDocumentNumber(ctx context.Context, side Side, documentNumber string) (*PaymentDocument, error)

	// FindAll finds payment documents on the given side with filtering
	FindAll(ctx context.Context, side Side, filter PaymentDocumentFilter) ([]PaymentDocument, error)

	// FindByInvoice finds payment documents with an allocation against the
	// given invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentDocument, error)

	// Save creates or updates a payment document together with its
	// allocation rows in one statement batch
	Save(ctx context.Context, document *PaymentDocument) error

	// Count counts payment documents on the given side with filtering
	Count(ctx context.Context, side Side, filter PaymentDocumentFilter) (int64, error)
}

// CounterpartyBalanceRepository exposes the cached outstanding balance of a
// customer or supplier. The cached field is written exclusively through the
// reconciler; request handlers only ever read it.
type CounterpartyBalanceRepository interface {
	// GetOutstandingBalance reads the cached balance
	GetOutstandingBalance(ctx context.Context, kind CounterpartyKind, counterpartyID uuid.UUID) (decimal.Decimal, error)

	// OverwriteOutstandingBalance replaces the cached balance with a freshly
	// recomputed value
	OverwriteOutstandingBalance(ctx context.Context, kind CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error

	// Exists reports whether the counterparty exists
	Exists(ctx context.Context, kind CounterpartyKind, counterpartyID uuid.UUID) (bool, error)
}
