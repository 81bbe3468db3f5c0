package ledger

// Side distinguishes the two instantiations of the ledger engine: the
// receivable side (customer invoices settled by receipts) and the payable
// side (supplier invoices settled by payments). The lifecycle and
// reconciliation rules are identical on both sides.
type Side string

const (
	SideReceivable Side = "RECEIVABLE" // money owed to us by customers
	SidePayable    Side = "PAYABLE"    // money we owe suppliers
)

// IsValid checks if the side is a valid Side
func (s Side) IsValid() bool {
	return s == SideReceivable || s == SidePayable
}

// String returns the string representation of Side
func (s Side) String() string {
	return string(s)
}

// CounterpartyKind returns which kind of partner sits on this side
func (s Side) CounterpartyKind() CounterpartyKind {
	if s == SidePayable {
		return CounterpartyKindSupplier
	}
	return CounterpartyKindCustomer
}

// InvoicePrefix returns the document number prefix for invoices on this side
func (s Side) InvoicePrefix() string {
	if s == SidePayable {
		return "AP"
	}
	return "AR"
}

// PaymentPrefix returns the document number prefix for payment documents on
// this side (receipts for receivables, payments for payables)
func (s Side) PaymentPrefix() string {
	if s == SidePayable {
		return "PM"
	}
	return "RC"
}

// CounterpartyKind identifies the partner type an invoice or payment
// document belongs to
type CounterpartyKind string

const (
	CounterpartyKindCustomer CounterpartyKind = "CUSTOMER"
	CounterpartyKindSupplier CounterpartyKind = "SUPPLIER"
)

// IsValid checks if the counterparty kind is valid
func (k CounterpartyKind) IsValid() bool {
	return k == CounterpartyKindCustomer || k == CounterpartyKindSupplier
}

// String returns the string representation of CounterpartyKind
func (k CounterpartyKind) String() string {
	return string(k)
}
