package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared/valueobject"
)

// Service orchestrates the lifecycle operations of one side of the ledger.
// Every mutating operation runs in a single database transaction: document
// writes, allocation writes, reconciliation and the audit record commit or
// roll back together. Two instances share all of the code below, one per
// ledger side.
type Service struct {
	side   ledger.Side
	stores Stores
	tx     TxRunner
	cache  BalanceCache
	logger *zap.Logger
	tracer trace.Tracer
}

// NewService creates a ledger service for the given side. stores must be
// bound to the base connection for reads; tx opens transactions for
// mutations. cache and logger may be nil.
func NewService(side ledger.Side, stores Stores, tx TxRunner, cache BalanceCache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NopBalanceCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		side:   side,
		stores: stores,
		tx:     tx,
		cache:  cache,
		logger: logger.With(zap.String("side", side.String())),
		tracer: otel.Tracer("application/ledger"),
	}
}

// NewReceivableService creates the customer-facing (AR) ledger service
func NewReceivableService(stores Stores, tx TxRunner, cache BalanceCache, logger *zap.Logger) *Service {
	return NewService(ledger.SideReceivable, stores, tx, cache, logger)
}

// NewPayableService creates the supplier-facing (AP) ledger service
func NewPayableService(stores Stores, tx TxRunner, cache BalanceCache, logger *zap.Logger) *Service {
	return NewService(ledger.SidePayable, stores, tx, cache, logger)
}

// Side returns the ledger side this service operates on
func (s *Service) Side() ledger.Side {
	return s.side
}

// CreateInvoice creates a draft invoice with an engine-assigned document
// number. Derived amounts start at paid zero, open equal to the grand total.
func (s *Service) CreateInvoice(ctx context.Context, actor uuid.UUID, input CreateInvoiceInput) (*InvoiceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CreateInvoice")
	defer span.End()

	var invoice *ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		if err := s.requireCounterparty(ctx, st, input.CounterpartyID); err != nil {
			return err
		}

		if !input.Origin.IsZero() {
			existing, err := st.Invoices.FindByOrigin(ctx, s.side, input.Origin)
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			if existing != nil && !existing.IsCancelled() {
				return shared.NewInvalidStateError(fmt.Sprintf(
					"Origin document %s already has invoice %s", input.Origin.ID, existing.DocumentNumber))
			}
		}

		number, err := st.Numbers.Next(ctx, ledger.DocumentKindInvoice, s.side)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}

		inv, err := ledger.NewInvoice(s.side, number, input.CounterpartyID, ledger.InvoiceAmounts{
			Subtotal: input.Subtotal,
			Discount: input.Discount,
			Tax:      input.Tax,
		}, input.DocumentDate, input.DueDate, input.Origin)
		if err != nil {
			return err
		}
		inv.Remark = input.Remark

		if err := st.Invoices.Save(ctx, inv); err != nil {
			return err
		}

		invoice = inv
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "invoice",
			EntityID:   inv.ID,
			Action:     ledger.AuditActionCreate,
			Actor:      actor,
			After:      ToInvoiceResponse(inv),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(invoice)
	s.logger.Info("invoice created",
		zap.String("document_number", invoice.DocumentNumber),
		zap.String("counterparty_id", invoice.CounterpartyID.String()),
		zap.String("grand_total", invoice.GrandTotal.StringFixed(2)))

	return ToInvoiceResponse(invoice), nil
}

// UpdateDraftInvoice replaces the editable fields of a draft invoice and
// recomputes its grand total. Issued, settled or cancelled invoices reject
// the edit.
func (s *Service) UpdateDraftInvoice(ctx context.Context, actor uuid.UUID, invoiceID uuid.UUID, input UpdateDraftInvoiceInput) (*InvoiceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.UpdateDraftInvoice")
	defer span.End()

	var invoice *ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		inv, err := st.Invoices.FindByIDForUpdate(ctx, s.side, invoiceID)
		if err != nil {
			return err
		}
		before := ToInvoiceResponse(inv)

		if err := inv.UpdateDraft(ledger.InvoiceAmounts{
			Subtotal: input.Subtotal,
			Discount: input.Discount,
			Tax:      input.Tax,
		}, input.DocumentDate, input.DueDate, input.Remark); err != nil {
			return err
		}

		if err := st.Invoices.SaveWithLock(ctx, inv); err != nil {
			return err
		}

		invoice = inv
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "invoice",
			EntityID:   inv.ID,
			Action:     ledger.AuditActionUpdate,
			Actor:      actor,
			Before:     before,
			After:      ToInvoiceResponse(inv),
		})
	})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// IssueInvoice moves a draft invoice into the ledger. From this point its
// open amount counts towards the counterparty's outstanding balance.
func (s *Service) IssueInvoice(ctx context.Context, actor uuid.UUID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.IssueInvoice")
	defer span.End()

	var invoice *ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		inv, err := st.Invoices.FindByIDForUpdate(ctx, s.side, invoiceID)
		if err != nil {
			return err
		}
		before := ToInvoiceResponse(inv)

		if err := inv.Issue(); err != nil {
			return err
		}
		if err := st.Invoices.SaveWithLock(ctx, inv); err != nil {
			return err
		}

		if _, err := newReconciler(st).ReconcileCounterpartyBalance(ctx, s.side, inv.CounterpartyID); err != nil {
			return err
		}

		invoice = inv
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "invoice",
			EntityID:   inv.ID,
			Action:     ledger.AuditActionIssue,
			Actor:      actor,
			Before:     before,
			After:      ToInvoiceResponse(inv),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(invoice)
	s.invalidateBalance(ctx, invoice.CounterpartyID)
	s.logger.Info("invoice issued", zap.String("document_number", invoice.DocumentNumber))

	return ToInvoiceResponse(invoice), nil
}

// CancelInvoice cancels an unpaid invoice and freezes its amounts. Invoices
// with applied payments cannot be cancelled; the payment document must be
// cancelled first.
func (s *Service) CancelInvoice(ctx context.Context, actor uuid.UUID, invoiceID uuid.UUID, reason string) (*InvoiceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CancelInvoice")
	defer span.End()

	var invoice *ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		inv, err := st.Invoices.FindByIDForUpdate(ctx, s.side, invoiceID)
		if err != nil {
			return err
		}
		before := ToInvoiceResponse(inv)

		if err := inv.Cancel(reason); err != nil {
			return err
		}
		if err := st.Invoices.SaveWithLock(ctx, inv); err != nil {
			return err
		}

		if _, err := newReconciler(st).ReconcileCounterpartyBalance(ctx, s.side, inv.CounterpartyID); err != nil {
			return err
		}

		invoice = inv
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "invoice",
			EntityID:   inv.ID,
			Action:     ledger.AuditActionCancel,
			Actor:      actor,
			Before:     before,
			After:      ToInvoiceResponse(inv),
			Metadata:   map[string]any{"reason": reason},
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(invoice)
	s.invalidateBalance(ctx, invoice.CounterpartyID)
	s.logger.Info("invoice cancelled",
		zap.String("document_number", invoice.DocumentNumber),
		zap.String("reason", reason))

	return ToInvoiceResponse(invoice), nil
}

// CreatePaymentWithAllocations creates a draft payment document together
// with its allocations as one atomic operation. The allocation sum is
// validated against the document total before anything is persisted; an
// overflow rolls the whole operation back.
func (s *Service) CreatePaymentWithAllocations(ctx context.Context, actor uuid.UUID, input CreatePaymentInput) (*PaymentDocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CreatePaymentWithAllocations")
	defer span.End()

	var document *ledger.PaymentDocument
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		if err := s.requireCounterparty(ctx, st, input.CounterpartyID); err != nil {
			return err
		}

		number, err := st.Numbers.Next(ctx, ledger.DocumentKindPayment, s.side)
		if err != nil {
			return fmt.Errorf("failed to generate payment number: %w", err)
		}

		doc, err := ledger.NewPaymentDocument(s.side, number, input.CounterpartyID,
			valueobject.NewMoneyUSD(input.TotalAmount), input.Method, input.DocumentDate, input.Reference)
		if err != nil {
			return err
		}
		doc.Remark = input.Remark

		for _, line := range input.Allocations {
			inv, err := st.Invoices.FindByID(ctx, s.side, line.InvoiceID)
			if err != nil {
				return err
			}
			if inv.CounterpartyID != input.CounterpartyID {
				return shared.NewNotFoundError(fmt.Sprintf(
					"Invoice %s not found for counterparty %s", inv.DocumentNumber, input.CounterpartyID))
			}
			if inv.IsDraft() || inv.IsCancelled() {
				return shared.NewInvalidStateError(fmt.Sprintf(
					"Cannot allocate against invoice %s in %s status", inv.DocumentNumber, inv.Status))
			}
			if _, err := doc.AddAllocation(inv.ID, inv.DocumentNumber, valueobject.NewMoneyUSD(line.Amount), line.Remark); err != nil {
				return err
			}
		}

		if err := st.Payments.Save(ctx, doc); err != nil {
			return err
		}

		document = doc
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "payment_document",
			EntityID:   doc.ID,
			Action:     ledger.AuditActionCreate,
			Actor:      actor,
			After:      ToPaymentDocumentResponse(doc),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(document)
	s.logger.Info("payment document created",
		zap.String("document_number", document.DocumentNumber),
		zap.String("total_amount", document.TotalAmount.StringFixed(2)),
		zap.Int("allocations", document.AllocationCount()))

	return ToPaymentDocumentResponse(document), nil
}

// PostPayment posts a draft payment document, then fully reconciles every
// allocated invoice and the counterparty's cached balance in the same
// transaction. Invoices cancelled since the draft was created are skipped by
// reconciliation; their amounts stay frozen.
func (s *Service) PostPayment(ctx context.Context, actor uuid.UUID, paymentID uuid.UUID) (*PaymentDocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.PostPayment")
	defer span.End()

	var document *ledger.PaymentDocument
	var reconciled []*ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		doc, err := st.Payments.FindByIDForUpdate(ctx, s.side, paymentID)
		if err != nil {
			return err
		}
		before := ToPaymentDocumentResponse(doc)

		if err := doc.Post(); err != nil {
			return err
		}
		if err := st.Payments.Save(ctx, doc); err != nil {
			return err
		}

		reconciled, err = s.reconcileAllocatedInvoices(ctx, st, doc)
		if err != nil {
			return err
		}

		document = doc
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "payment_document",
			EntityID:   doc.ID,
			Action:     ledger.AuditActionPost,
			Actor:      actor,
			Before:     before,
			After:      ToPaymentDocumentResponse(doc),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(append(aggregatesOf(reconciled), document)...)
	s.invalidateBalance(ctx, document.CounterpartyID)
	s.logger.Info("payment document posted",
		zap.String("document_number", document.DocumentNumber),
		zap.String("allocated", document.TotalAllocated().StringFixed(2)))

	return ToPaymentDocumentResponse(document), nil
}

// CancelPayment reverses a posted payment document. The same reconciliation
// runs as on posting; because reconciliation always recomputes from the
// remaining posted allocations, cancelling exactly restores the state the
// posting produced.
func (s *Service) CancelPayment(ctx context.Context, actor uuid.UUID, paymentID uuid.UUID, reason string) (*PaymentDocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CancelPayment")
	defer span.End()

	var document *ledger.PaymentDocument
	var reconciled []*ledger.Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		doc, err := st.Payments.FindByIDForUpdate(ctx, s.side, paymentID)
		if err != nil {
			return err
		}
		before := ToPaymentDocumentResponse(doc)

		if err := doc.Cancel(reason); err != nil {
			return err
		}
		if err := st.Payments.Save(ctx, doc); err != nil {
			return err
		}

		reconciled, err = s.reconcileAllocatedInvoices(ctx, st, doc)
		if err != nil {
			return err
		}

		document = doc
		return st.Audit.Record(ctx, ledger.AuditEntry{
			EntityType: "payment_document",
			EntityID:   doc.ID,
			Action:     ledger.AuditActionCancel,
			Actor:      actor,
			Before:     before,
			After:      ToPaymentDocumentResponse(doc),
			Metadata:   map[string]any{"reason": reason},
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(append(aggregatesOf(reconciled), document)...)
	s.invalidateBalance(ctx, document.CounterpartyID)
	s.logger.Info("payment document cancelled",
		zap.String("document_number", document.DocumentNumber),
		zap.String("reason", reason))

	return ToPaymentDocumentResponse(document), nil
}

// GetInvoice returns one invoice by ID
func (s *Service) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.stores.Invoices.FindByID(ctx, s.side, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// GetInvoiceByNumber returns one invoice by document number
func (s *Service) GetInvoiceByNumber(ctx context.Context, documentNumber string) (*InvoiceResponse, error) {
	inv, err := s.stores.Invoices.FindByDocumentNumber(ctx, s.side, documentNumber)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListInvoices returns a page of invoices matching the filter
func (s *Service) ListInvoices(ctx context.Context, filter ledger.InvoiceFilter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, err := s.stores.Invoices.FindAll(ctx, s.side, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.stores.Invoices.Count(ctx, s.side, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *ToInvoiceResponse(&invoices[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListOutstandingInvoices returns the unsettled invoices of a counterparty,
// oldest first
func (s *Service) ListOutstandingInvoices(ctx context.Context, counterpartyID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.stores.Invoices.FindOutstanding(ctx, s.side, counterpartyID)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *ToInvoiceResponse(&invoices[i]))
	}
	return items, nil
}

// GetPayment returns one payment document by ID, allocations included
func (s *Service) GetPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentDocumentResponse, error) {
	doc, err := s.stores.Payments.FindByID(ctx, s.side, paymentID)
	if err != nil {
		return nil, err
	}
	return ToPaymentDocumentResponse(doc), nil
}

// ListPayments returns a page of payment documents matching the filter
func (s *Service) ListPayments(ctx context.Context, filter ledger.PaymentDocumentFilter) (*shared.Paginated[PaymentDocumentResponse], error) {
	documents, err := s.stores.Payments.FindAll(ctx, s.side, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.stores.Payments.Count(ctx, s.side, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentDocumentResponse, 0, len(documents))
	for i := range documents {
		items = append(items, *ToPaymentDocumentResponse(&documents[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPaymentsForInvoice returns the payment documents carrying an
// allocation against the given invoice
func (s *Service) ListPaymentsForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentDocumentResponse, error) {
	documents, err := s.stores.Payments.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentDocumentResponse, 0, len(documents))
	for i := range documents {
		items = append(items, *ToPaymentDocumentResponse(&documents[i]))
	}
	return items, nil
}

// GetCounterpartyOutstanding returns the reconciled outstanding balance of a
// counterparty, served from the cache when warm.
func (s *Service) GetCounterpartyOutstanding(ctx context.Context, counterpartyID uuid.UUID) (*CounterpartyBalanceResponse, error) {
	kind := s.side.CounterpartyKind()

	if balance, ok, err := s.cache.Get(ctx, kind, counterpartyID); err == nil && ok {
		return &CounterpartyBalanceResponse{
			CounterpartyID: counterpartyID,
			Kind:           kind,
			Outstanding:    balance,
		}, nil
	} else if err != nil {
		s.logger.Warn("balance cache read failed", zap.Error(err))
	}

	balance, err := s.stores.Balances.GetOutstandingBalance(ctx, kind, counterpartyID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, kind, counterpartyID, balance); err != nil {
		s.logger.Warn("balance cache write failed", zap.Error(err))
	}

	return &CounterpartyBalanceResponse{
		CounterpartyID: counterpartyID,
		Kind:           kind,
		Outstanding:    balance,
	}, nil
}

// reconcileAllocatedInvoices locks and reconciles every invoice touched by
// the document's allocations, then the counterparty's cached balance.
// Cancelled invoices stay frozen and are skipped. The reconciled invoices
// are returned so the caller can drain their events after commit.
func (s *Service) reconcileAllocatedInvoices(ctx context.Context, st Stores, doc *ledger.PaymentDocument) ([]*ledger.Invoice, error) {
	invoices := make([]*ledger.Invoice, 0, len(doc.Allocations))
	for _, invoiceID := range doc.InvoiceIDs() {
		inv, err := st.Invoices.FindByIDForUpdate(ctx, s.side, invoiceID)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	reconciler := newReconciler(st)
	if err := reconciler.ReconcileInvoices(ctx, invoices); err != nil {
		return nil, err
	}

	// Covers the case where every allocation targets a cancelled invoice and
	// ReconcileInvoices touched no counterparty.
	if _, err := reconciler.ReconcileCounterpartyBalance(ctx, s.side, doc.CounterpartyID); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *Service) requireCounterparty(ctx context.Context, st Stores, counterpartyID uuid.UUID) error {
	if counterpartyID == uuid.Nil {
		return shared.NewValidationError("Counterparty ID cannot be empty")
	}
	exists, err := st.Balances.Exists(ctx, s.side.CounterpartyKind(), counterpartyID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewNotFoundError(fmt.Sprintf("%s %s not found", s.side.CounterpartyKind(), counterpartyID))
	}
	return nil
}

func aggregatesOf(invoices []*ledger.Invoice) []shared.AggregateRoot {
	aggs := make([]shared.AggregateRoot, 0, len(invoices))
	for _, inv := range invoices {
		aggs = append(aggs, inv)
	}
	return aggs
}

// publishEvents drains the pending domain events of persisted aggregates
// into the structured log and clears them. Events survive only until their
// aggregate is saved; a rolled-back transaction never reaches this point.
func (s *Service) publishEvents(aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		for _, event := range agg.GetDomainEvents() {
			s.logger.Info("domain event",
				zap.String("event_type", event.EventType()),
				zap.String("aggregate_type", event.AggregateType()),
				zap.String("aggregate_id", event.AggregateID().String()),
				zap.Time("occurred_at", event.OccurredAt()))
		}
		agg.ClearDomainEvents()
	}
}

func (s *Service) invalidateBalance(ctx context.Context, counterpartyID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, s.side.CounterpartyKind(), counterpartyID); err != nil {
		s.logger.Warn("balance cache invalidation failed",
			zap.String("counterparty_id", counterpartyID.String()),
			zap.Error(err))
	}
}
