package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared/valueobject"
)

// Test helpers

func createTestPaymentDocument(t *testing.T, total string) *PaymentDocument {
	doc, err := NewPaymentDocument(
		SideReceivable,
		"RC-20260831-00001",
		uuid.New(),
		valueobject.NewMoneyUSD(d(total)),
		PaymentMethodBankTransfer,
		time.Now(),
		"TXN-881203",
	)
	require.NoError(t, err)
	return doc
}

func createPostedPaymentDocument(t *testing.T, total string) *PaymentDocument {
	doc := createTestPaymentDocument(t, total)
	_, err := doc.AddAllocation(uuid.New(), "AR-20260831-00001", valueobject.NewMoneyUSD(d(total)), "")
	require.NoError(t, err)
	require.NoError(t, doc.Post())
	return doc
}

// ============================================
// PaymentDocumentStatus Tests
// ============================================

func TestPaymentDocumentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PaymentDocumentStatus
		isValid bool
	}{
		{PaymentDocumentStatusDraft, true},
		{PaymentDocumentStatusPosted, true},
		{PaymentDocumentStatusCancelled, true},
		{PaymentDocumentStatus("INVALID"), false},
		{PaymentDocumentStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	tests := []struct {
		method  PaymentMethod
		isValid bool
	}{
		{PaymentMethodCash, true},
		{PaymentMethodBankTransfer, true},
		{PaymentMethodCard, true},
		{PaymentMethodCheck, true},
		{PaymentMethodFinancing, true},
		{PaymentMethodOther, true},
		{PaymentMethod("BARTER"), false},
		{PaymentMethod(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.method.IsValid())
		})
	}
}

// ============================================
// NewPaymentDocument Tests
// ============================================

func TestNewPaymentDocument(t *testing.T) {
	counterpartyID := uuid.New()

	doc, err := NewPaymentDocument(SidePayable, "PM-20260831-00001", counterpartyID,
		valueobject.NewMoneyUSD(d("5000")), PaymentMethodCheck, time.Now(), "CHK-4471")

	require.NoError(t, err)
	assert.Equal(t, SidePayable, doc.Side)
	assert.Equal(t, PaymentDocumentStatusDraft, doc.Status)
	assert.True(t, d("5000").Equal(doc.TotalAmount))
	assert.Empty(t, doc.Allocations)
	assert.Len(t, doc.GetDomainEvents(), 1)
}

func TestNewPaymentDocument_Validation(t *testing.T) {
	counterpartyID := uuid.New()
	now := time.Now()

	tests := []struct {
		name           string
		side           Side
		documentNumber string
		counterpartyID uuid.UUID
		total          string
		method         PaymentMethod
		documentDate   time.Time
	}{
		{"invalid side", Side("NOPE"), "RC-1", counterpartyID, "100", PaymentMethodCash, now},
		{"empty document number", SideReceivable, "", counterpartyID, "100", PaymentMethodCash, now},
		{"nil counterparty", SideReceivable, "RC-1", uuid.Nil, "100", PaymentMethodCash, now},
		{"zero total", SideReceivable, "RC-1", counterpartyID, "0", PaymentMethodCash, now},
		{"negative total", SideReceivable, "RC-1", counterpartyID, "-100", PaymentMethodCash, now},
		{"invalid method", SideReceivable, "RC-1", counterpartyID, "100", PaymentMethod("IOU"), now},
		{"zero document date", SideReceivable, "RC-1", counterpartyID, "100", PaymentMethodCash, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPaymentDocument(tt.side, tt.documentNumber, tt.counterpartyID,
				valueobject.NewMoneyUSD(d(tt.total)), tt.method, tt.documentDate, "")
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

// ============================================
// AddAllocation Tests
// ============================================

func TestPaymentDocument_AddAllocation(t *testing.T) {
	doc := createTestPaymentDocument(t, "10165")
	invoiceID := uuid.New()

	alloc, err := doc.AddAllocation(invoiceID, "AR-20260831-00001", valueobject.NewMoneyUSD(d("10165")), "full settlement")

	require.NoError(t, err)
	assert.Equal(t, invoiceID, alloc.InvoiceID)
	assert.Equal(t, doc.ID, alloc.PaymentDocumentID)
	assert.True(t, d("10165").Equal(alloc.Amount))
	assert.Equal(t, 1, doc.AllocationCount())
	assert.True(t, d("10165").Equal(doc.TotalAllocated()))
	assert.True(t, doc.UnallocatedAmount().IsZero())
}

func TestPaymentDocument_AddAllocation_Overflow(t *testing.T) {
	doc := createTestPaymentDocument(t, "5000")

	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("10000")), "")

	require.Error(t, err)
	assert.True(t, shared.IsAllocationOverflow(err))
	assert.Empty(t, doc.Allocations)
}

func TestPaymentDocument_AddAllocation_CumulativeOverflow(t *testing.T) {
	doc := createTestPaymentDocument(t, "5000")

	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("3000")), "")
	require.NoError(t, err)
	_, err = doc.AddAllocation(uuid.New(), "AR-2", valueobject.NewMoneyUSD(d("2000")), "")
	require.NoError(t, err)

	_, err = doc.AddAllocation(uuid.New(), "AR-3", valueobject.NewMoneyUSD(d("0.01")), "")

	require.Error(t, err)
	assert.True(t, shared.IsAllocationOverflow(err))
	assert.Equal(t, 2, doc.AllocationCount())
}

func TestPaymentDocument_AddAllocation_ExactTotalAllowed(t *testing.T) {
	doc := createTestPaymentDocument(t, "5000")

	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("2500")), "")
	require.NoError(t, err)
	_, err = doc.AddAllocation(uuid.New(), "AR-2", valueobject.NewMoneyUSD(d("2500")), "")
	require.NoError(t, err)

	assert.True(t, doc.UnallocatedAmount().IsZero())
}

func TestPaymentDocument_AddAllocation_NotDraft(t *testing.T) {
	doc := createPostedPaymentDocument(t, "1000")

	_, err := doc.AddAllocation(uuid.New(), "AR-9", valueobject.NewMoneyUSD(d("1")), "")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestPaymentDocument_AddAllocation_NonPositiveAmount(t *testing.T) {
	doc := createTestPaymentDocument(t, "1000")

	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(decimal.Zero), "")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	_, err = doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("-5")), "")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// ============================================
// Post Tests
// ============================================

func TestPaymentDocument_Post(t *testing.T) {
	doc := createTestPaymentDocument(t, "10165")
	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("10165")), "")
	require.NoError(t, err)

	err = doc.Post()

	require.NoError(t, err)
	assert.Equal(t, PaymentDocumentStatusPosted, doc.Status)
	assert.NotNil(t, doc.PostedAt)
}

func TestPaymentDocument_Post_WithoutAllocations(t *testing.T) {
	doc := createTestPaymentDocument(t, "1000")

	err := doc.Post()

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
	assert.Equal(t, PaymentDocumentStatusDraft, doc.Status)
}

func TestPaymentDocument_Post_AlreadyPosted(t *testing.T) {
	doc := createPostedPaymentDocument(t, "1000")

	err := doc.Post()

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestPaymentDocument_Post_PartialAllocationAllowed(t *testing.T) {
	doc := createTestPaymentDocument(t, "31030")
	_, err := doc.AddAllocation(uuid.New(), "AR-1", valueobject.NewMoneyUSD(d("15000")), "")
	require.NoError(t, err)

	err = doc.Post()

	require.NoError(t, err)
	assert.True(t, d("16030").Equal(doc.UnallocatedAmount()))
}

// ============================================
// Cancel Tests
// ============================================

func TestPaymentDocument_Cancel(t *testing.T) {
	doc := createPostedPaymentDocument(t, "1000")

	err := doc.Cancel("wrong amount entered")

	require.NoError(t, err)
	assert.Equal(t, PaymentDocumentStatusCancelled, doc.Status)
	assert.NotNil(t, doc.CancelledAt)
	assert.Equal(t, "wrong amount entered", doc.CancelReason)
}

func TestPaymentDocument_Cancel_Draft(t *testing.T) {
	doc := createTestPaymentDocument(t, "1000")

	err := doc.Cancel("drafts are deleted, not cancelled")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestPaymentDocument_Cancel_AlreadyCancelled(t *testing.T) {
	doc := createPostedPaymentDocument(t, "1000")
	require.NoError(t, doc.Cancel("first"))

	err := doc.Cancel("second")

	require.Error(t, err)
	assert.True(t, shared.IsInvalidState(err))
}

func TestPaymentDocument_Cancel_RequiresReason(t *testing.T) {
	doc := createPostedPaymentDocument(t, "1000")

	err := doc.Cancel("")

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// ============================================
// InvoiceIDs Tests
// ============================================

func TestPaymentDocument_InvoiceIDs(t *testing.T) {
	doc := createTestPaymentDocument(t, "1000")
	first := uuid.New()
	second := uuid.New()

	_, err := doc.AddAllocation(first, "AR-1", valueobject.NewMoneyUSD(d("300")), "")
	require.NoError(t, err)
	_, err = doc.AddAllocation(second, "AR-2", valueobject.NewMoneyUSD(d("300")), "")
	require.NoError(t, err)
	_, err = doc.AddAllocation(first, "AR-1", valueobject.NewMoneyUSD(d("200")), "second installment")
	require.NoError(t, err)

	ids := doc.InvoiceIDs()

	require.Len(t, ids, 2)
	assert.Equal(t, first, ids[0])
	assert.Equal(t, second, ids[1])
}
