package ledger

import "context"

// DocumentKind names the document families that receive generated numbers
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "INVOICE"
	DocumentKindPayment DocumentKind = "PAYMENT"
)

// NumberGenerator produces unique, human-readable document numbers per
// document kind and side, sequential within a day (e.g. AR-20260831-00042).
// The engine only relies on uniqueness, not on the format.
type NumberGenerator interface {
	Next(ctx context.Context, kind DocumentKind, side Side) (string, error)
}
