package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Receivable and payable invoices share one table, discriminated by side.
type InvoiceModel struct {
	AggregateModel
	Side           ledger.Side          `gorm:"type:varchar(20);not null;index:idx_invoices_side_counterparty,priority:1"`
	DocumentNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	CounterpartyID uuid.UUID            `gorm:"type:uuid;not null;index:idx_invoices_side_counterparty,priority:2"`
	Subtotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Discount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Tax            decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	GrandTotal     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PaidTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	OpenAmount     decimal.Decimal      `gorm:"type:decimal(18,4);not null;index"`
	Status         ledger.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	DocumentDate   time.Time            `gorm:"not null;index"`
	DueDate        *time.Time           `gorm:"index"`
	OriginType     ledger.OriginType    `gorm:"type:varchar(30);index:idx_invoices_origin,priority:1"`
	OriginID       *uuid.UUID           `gorm:"type:uuid;index:idx_invoices_origin,priority:2"`
	Remark         string               `gorm:"type:text"`
	IssuedAt       *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	origin := ledger.OriginRef{}
	if m.OriginID != nil {
		origin = ledger.OriginRef{Type: m.OriginType, ID: *m.OriginID}
	}
	return &ledger.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Side:              m.Side,
		DocumentNumber:    m.DocumentNumber,
		CounterpartyID:    m.CounterpartyID,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		Tax:               m.Tax,
		GrandTotal:        m.GrandTotal,
		PaidTotal:         m.PaidTotal,
		OpenAmount:        m.OpenAmount,
		Status:            m.Status,
		DocumentDate:      m.DocumentDate,
		DueDate:           m.DueDate,
		Origin:            origin,
		Remark:            m.Remark,
		IssuedAt:          m.IssuedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.Side = inv.Side
	m.DocumentNumber = inv.DocumentNumber
	m.CounterpartyID = inv.CounterpartyID
	m.Subtotal = inv.Subtotal
	m.Discount = inv.Discount
	m.Tax = inv.Tax
	m.GrandTotal = inv.GrandTotal
	m.PaidTotal = inv.PaidTotal
	m.OpenAmount = inv.OpenAmount
	m.Status = inv.Status
	m.DocumentDate = inv.DocumentDate
	m.DueDate = inv.DueDate
	if inv.Origin.IsZero() {
		m.OriginType = ""
		m.OriginID = nil
	} else {
		originID := inv.Origin.ID
		m.OriginType = inv.Origin.Type
		m.OriginID = &originID
	}
	m.Remark = inv.Remark
	m.IssuedAt = inv.IssuedAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentDocumentModel is the persistence model for the PaymentDocument
// aggregate root. Allocations are stored as child rows and loaded eagerly.
type PaymentDocumentModel struct {
	AggregateModel
	Side              ledger.Side                  `gorm:"type:varchar(20);not null;index:idx_payment_documents_side_counterparty,priority:1"`
	DocumentNumber    string                       `gorm:"type:varchar(50);not null;uniqueIndex"`
	CounterpartyID    uuid.UUID                    `gorm:"type:uuid;not null;index:idx_payment_documents_side_counterparty,priority:2"`
	TotalAmount       decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Method            ledger.PaymentMethod         `gorm:"type:varchar(20);not null"`
	ExternalReference string                       `gorm:"type:varchar(100)"`
	Status            ledger.PaymentDocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	DocumentDate      time.Time                    `gorm:"not null;index"`
	Allocations       []AllocationModel            `gorm:"foreignKey:PaymentDocumentID;references:ID"`
	Remark            string                       `gorm:"type:text"`
	PostedAt          *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentDocumentModel) TableName() string {
	return "payment_documents"
}

// ToDomain converts the persistence model to a domain PaymentDocument entity.
func (m *PaymentDocumentModel) ToDomain() *ledger.PaymentDocument {
	allocations := make([]ledger.Allocation, 0, len(m.Allocations))
	for i := range m.Allocations {
		allocations = append(allocations, m.Allocations[i].ToDomain())
	}
	return &ledger.PaymentDocument{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Side:              m.Side,
		DocumentNumber:    m.DocumentNumber,
		CounterpartyID:    m.CounterpartyID,
		TotalAmount:       m.TotalAmount,
		Method:            m.Method,
		ExternalReference: m.ExternalReference,
		Status:            m.Status,
		DocumentDate:      m.DocumentDate,
		Allocations:       allocations,
		Remark:            m.Remark,
		PostedAt:          m.PostedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain PaymentDocument entity.
func (m *PaymentDocumentModel) FromDomain(doc *ledger.PaymentDocument) {
	m.FromDomainAggregateRoot(doc.BaseAggregateRoot)
	m.Side = doc.Side
	m.DocumentNumber = doc.DocumentNumber
	m.CounterpartyID = doc.CounterpartyID
	m.TotalAmount = doc.TotalAmount
	m.Method = doc.Method
	m.ExternalReference = doc.ExternalReference
	m.Status = doc.Status
	m.DocumentDate = doc.DocumentDate
	m.Allocations = make([]AllocationModel, 0, len(doc.Allocations))
	for i := range doc.Allocations {
		m.Allocations = append(m.Allocations, AllocationModelFromDomain(&doc.Allocations[i]))
	}
	m.Remark = doc.Remark
	m.PostedAt = doc.PostedAt
	m.CancelledAt = doc.CancelledAt
	m.CancelReason = doc.CancelReason
}

// PaymentDocumentModelFromDomain creates a new persistence model from a
// domain PaymentDocument.
func PaymentDocumentModelFromDomain(doc *ledger.PaymentDocument) *PaymentDocumentModel {
	m := &PaymentDocumentModel{}
	m.FromDomain(doc)
	return m
}

// AllocationModel is the persistence model for one allocation row
type AllocationModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentDocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber     string          `gorm:"type:varchar(50);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedAt       time.Time       `gorm:"not null"`
	Remark            string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() ledger.Allocation {
	return ledger.Allocation{
		ID:                m.ID,
		PaymentDocumentID: m.PaymentDocumentID,
		InvoiceID:         m.InvoiceID,
		InvoiceNumber:     m.InvoiceNumber,
		Amount:            m.Amount,
		AllocatedAt:       m.AllocatedAt,
		Remark:            m.Remark,
	}
}

// AllocationModelFromDomain creates a persistence model from a domain Allocation
func AllocationModelFromDomain(a *ledger.Allocation) AllocationModel {
	return AllocationModel{
		ID:                a.ID,
		PaymentDocumentID: a.PaymentDocumentID,
		InvoiceID:         a.InvoiceID,
		InvoiceNumber:     a.InvoiceNumber,
		Amount:            a.Amount,
		AllocatedAt:       a.AllocatedAt,
		Remark:            a.Remark,
	}
}
