package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appledger "github.com/silver-g8/furniture-api-sub000/internal/application/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/dto"
)

// LedgerHandler exposes one side of the ledger over HTTP. It is registered
// twice: under /receivables for the customer side and under /payables for
// the supplier side.
type LedgerHandler struct {
	BaseHandler
	prefix  string
	service *appledger.Service
}

// NewReceivableHandler creates the handler for the receivable side
func NewReceivableHandler(service *appledger.Service) *LedgerHandler {
	return &LedgerHandler{prefix: "receivables", service: service}
}

// NewPayableHandler creates the handler for the payable side
func NewPayableHandler(service *appledger.Service) *LedgerHandler {
	return &LedgerHandler{prefix: "payables", service: service}
}

// RegisterRoutes registers the ledger routes on the given group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.prefix)

	invoices := g.Group("/invoices")
	invoices.POST("", h.CreateInvoice)
	invoices.GET("", h.ListInvoices)
	invoices.GET("/number/:number", h.GetInvoiceByNumber)
	invoices.GET("/:id", h.GetInvoice)
	invoices.PUT("/:id", h.UpdateDraftInvoice)
	invoices.POST("/:id/issue", h.IssueInvoice)
	invoices.POST("/:id/cancel", h.CancelInvoice)
	invoices.GET("/:id/payments", h.ListPaymentsForInvoice)

	payments := g.Group("/payments")
	payments.POST("", h.CreatePayment)
	payments.GET("", h.ListPayments)
	payments.GET("/:id", h.GetPayment)
	payments.POST("/:id/post", h.PostPayment)
	payments.POST("/:id/cancel", h.CancelPayment)

	counterparties := g.Group("/counterparties")
	counterparties.GET("/:id/outstanding", h.GetCounterpartyOutstanding)
	counterparties.GET("/:id/invoices", h.ListOutstandingInvoices)
}

// ===================== Request DTOs =====================

// ListInvoicesRequest carries invoice list query parameters
type ListInvoicesRequest struct {
	dto.ListRequest
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	Status         *string    `form:"status"`
	OriginType     *string    `form:"origin_type"`
	OriginID       *uuid.UUID `form:"origin_id"`
	FromDate       *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"to_date" time_format:"2006-01-02"`
	Overdue        *bool      `form:"overdue"`
	MinOpenAmount  *string    `form:"min_open_amount" binding:"omitempty,decimal"`
	MaxOpenAmount  *string    `form:"max_open_amount" binding:"omitempty,decimal"`
}

// ListPaymentsRequest carries payment document list query parameters
type ListPaymentsRequest struct {
	dto.ListRequest
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	Status         *string    `form:"status"`
	Method         *string    `form:"method"`
	FromDate       *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// CancelRequest carries the mandatory reason for cancelling a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ===================== Invoice endpoints =====================

// CreateInvoice creates a draft invoice
func (h *LedgerHandler) CreateInvoice(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}

	var input appledger.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.service.CreateInvoice(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListInvoices lists invoices with filtering
func (h *LedgerHandler) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ApplyDefaults()

	filter, err := req.toFilter()
	if err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// GetInvoice fetches one invoice by ID
func (h *LedgerHandler) GetInvoice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetInvoiceByNumber fetches one invoice by document number
func (h *LedgerHandler) GetInvoiceByNumber(c *gin.Context) {
	invoice, err := h.service.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateDraftInvoice edits a draft invoice
func (h *LedgerHandler) UpdateDraftInvoice(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var input appledger.UpdateDraftInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.service.UpdateDraftInvoice(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// IssueInvoice moves a draft invoice into the ledger
func (h *LedgerHandler) IssueInvoice(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.service.IssueInvoice(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// CancelInvoice cancels an unpaid invoice
func (h *LedgerHandler) CancelInvoice(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.service.CancelInvoice(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ListPaymentsForInvoice lists the payment documents allocated against an invoice
func (h *LedgerHandler) ListPaymentsForInvoice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.service.ListPaymentsForInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// ===================== Payment endpoints =====================

// CreatePayment creates a draft payment document with its allocations
func (h *LedgerHandler) CreatePayment(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}

	var input appledger.CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.service.CreatePaymentWithAllocations(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments lists payment documents with filtering
func (h *LedgerHandler) ListPayments(c *gin.Context) {
	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ApplyDefaults()

	page, err := h.service.ListPayments(c.Request.Context(), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// GetPayment fetches one payment document by ID
func (h *LedgerHandler) GetPayment(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment document ID")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// PostPayment posts a draft payment document and settles its invoices
func (h *LedgerHandler) PostPayment(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment document ID")
		return
	}

	payment, err := h.service.PostPayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// CancelPayment reverses a posted payment document
func (h *LedgerHandler) CancelPayment(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Missing authenticated user")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment document ID")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.service.CancelPayment(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// ===================== Counterparty endpoints =====================

// GetCounterpartyOutstanding returns the cached outstanding balance of a counterparty
func (h *LedgerHandler) GetCounterpartyOutstanding(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	balance, err := h.service.GetCounterpartyOutstanding(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// ListOutstandingInvoices lists a counterparty's open invoices, oldest first
func (h *LedgerHandler) ListOutstandingInvoices(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	invoices, err := h.service.ListOutstandingInvoices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ===================== Filter mapping =====================

func (r *ListInvoicesRequest) toFilter() (ledger.InvoiceFilter, error) {
	filter := ledger.InvoiceFilter{
		Filter: shared.Filter{
			Page:     r.Page,
			PageSize: r.PageSize,
			OrderBy:  r.OrderBy,
			OrderDir: r.OrderDir,
			Search:   r.Search,
		},
		CounterpartyID: r.CounterpartyID,
		OriginID:       r.OriginID,
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
		Overdue:        r.Overdue,
	}
	if r.Status != nil {
		status := ledger.InvoiceStatus(*r.Status)
		if !status.IsValid() {
			return filter, shared.NewValidationError("Invoice status is not valid")
		}
		filter.Status = &status
	}
	if r.OriginType != nil {
		originType := ledger.OriginType(*r.OriginType)
		if !originType.IsValid() {
			return filter, shared.NewValidationError("Origin type is not valid")
		}
		filter.OriginType = &originType
	}
	if r.MinOpenAmount != nil {
		min, err := decimal.NewFromString(*r.MinOpenAmount)
		if err != nil {
			return filter, shared.NewValidationError("Minimum open amount is not a valid number")
		}
		filter.MinOpenAmount = &min
	}
	if r.MaxOpenAmount != nil {
		max, err := decimal.NewFromString(*r.MaxOpenAmount)
		if err != nil {
			return filter, shared.NewValidationError("Maximum open amount is not a valid number")
		}
		filter.MaxOpenAmount = &max
	}
	return filter, nil
}

func (r *ListPaymentsRequest) toFilter() ledger.PaymentDocumentFilter {
	filter := ledger.PaymentDocumentFilter{
		Filter: shared.Filter{
			Page:     r.Page,
			PageSize: r.PageSize,
			OrderBy:  r.OrderBy,
			OrderDir: r.OrderDir,
			Search:   r.Search,
		},
		CounterpartyID: r.CounterpartyID,
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
	}
	if r.Status != nil {
		status := ledger.PaymentDocumentStatus(*r.Status)
		filter.Status = &status
	}
	if r.Method != nil {
		method := ledger.PaymentMethod(*r.Method)
		filter.Method = &method
	}
	return filter
}
