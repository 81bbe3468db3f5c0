package ledger

import (
	"context"

	"github.com/google/uuid"
)

// OriginType tags the kind of source document an invoice was created from
type OriginType string

const (
	OriginTypeSalesOrder        OriginType = "SALES_ORDER"
	OriginTypePurchaseOrder     OriginType = "PURCHASE_ORDER"
	OriginTypeInstallationOrder OriginType = "INSTALLATION_ORDER"
	OriginTypeManual            OriginType = "MANUAL"
)

// IsValid checks if the origin type is valid
func (t OriginType) IsValid() bool {
	switch t {
	case OriginTypeSalesOrder, OriginTypePurchaseOrder, OriginTypeInstallationOrder, OriginTypeManual:
		return true
	}
	return false
}

// String returns the string representation of OriginType
func (t OriginType) String() string {
	return string(t)
}

// OriginRef is an explicit (type tag, id) reference to the source document
// an invoice was generated from. Modelled as a value pair instead of a
// dynamic type lookup so the ledger never depends on the shape of the
// referencing module.
type OriginRef struct {
	Type OriginType `json:"type"`
	ID   uuid.UUID  `json:"id"`
}

// IsZero returns true if the reference is empty
func (r OriginRef) IsZero() bool {
	return r.Type == "" && r.ID == uuid.Nil
}

// OriginDocument is implemented by any concrete entity that can act as the
// source of an invoice (sales order, purchase order, installation order).
type OriginDocument interface {
	OriginRef() OriginRef
	DocumentNumber() string
}

// OriginResolver resolves an OriginRef back to the concrete source document.
// Implemented outside the ledger; the engine only stores the reference.
type OriginResolver interface {
	Resolve(ctx context.Context, ref OriginRef) (OriginDocument, error)
}
