package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apppartner "github.com/silver-g8/furniture-api-sub000/internal/application/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/shared"
	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/dto"
)

// PartnerHandler handles customer and supplier endpoints
type PartnerHandler struct {
	BaseHandler
	service *apppartner.Service
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service *apppartner.Service) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// RegisterRoutes registers the partner routes on the given group
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.CreateCustomer)
	customers.GET("", h.ListCustomers)
	customers.GET("/:id", h.GetCustomer)
	customers.POST("/:id/deactivate", h.DeactivateCustomer)
	customers.PUT("/:id/credit-limit", h.SetCustomerCreditLimit)

	suppliers := rg.Group("/suppliers")
	suppliers.POST("", h.CreateSupplier)
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.POST("/:id/deactivate", h.DeactivateSupplier)
	suppliers.PUT("/:id/payment-terms", h.SetSupplierPaymentTerms)
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	Status             string    `json:"status"`
	ContactName        string    `json:"contact_name,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	TaxID              string    `json:"tax_id,omitempty"`
	CreditLimit        string    `json:"credit_limit"`
	OutstandingBalance string    `json:"outstanding_balance"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Version            int       `json:"version"`
}

func toCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID.String(),
		Code:               c.Code,
		Name:               c.Name,
		Type:               string(c.Type),
		Status:             string(c.Status),
		ContactName:        c.ContactName,
		Phone:              c.Phone,
		Email:              c.Email,
		Address:            c.Address,
		TaxID:              c.TaxID,
		CreditLimit:        c.CreditLimit.String(),
		OutstandingBalance: c.OutstandingBalance.String(),
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Version:            c.Version,
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	ContactName        string    `json:"contact_name,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	TaxID              string    `json:"tax_id,omitempty"`
	PaymentTermsDays   int       `json:"payment_terms_days"`
	OutstandingBalance string    `json:"outstanding_balance"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Version            int       `json:"version"`
}

func toSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                 s.ID.String(),
		Code:               s.Code,
		Name:               s.Name,
		Status:             string(s.Status),
		ContactName:        s.ContactName,
		Phone:              s.Phone,
		Email:              s.Email,
		Address:            s.Address,
		TaxID:              s.TaxID,
		PaymentTermsDays:   s.PaymentTermsDays,
		OutstandingBalance: s.OutstandingBalance.String(),
		Notes:              s.Notes,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		Version:            s.Version,
	}
}

// CreditLimitRequest carries a new customer credit limit
type CreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// PaymentTermsRequest carries new supplier payment terms
type PaymentTermsRequest struct {
	PaymentTermsDays int `json:"payment_terms_days" binding:"min=0"`
}

// CreateCustomer creates a new customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var input apppartner.CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCustomerResponse(customer))
}

// ListCustomers lists customers with pagination
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ApplyDefaults()

	page, err := h.service.ListCustomers(c.Request.Context(), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CustomerResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = toCustomerResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// GetCustomer fetches one customer by ID
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// DeactivateCustomer marks a customer inactive
func (h *PartnerHandler) DeactivateCustomer(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.service.DeactivateCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// SetCustomerCreditLimit updates a customer's credit limit
func (h *PartnerHandler) SetCustomerCreditLimit(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req CreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.service.SetCustomerCreditLimit(c.Request.Context(), id, req.CreditLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// CreateSupplier creates a new supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var input apppartner.CreateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.service.CreateSupplier(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSupplierResponse(supplier))
}

// ListSuppliers lists suppliers with pagination
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ApplyDefaults()

	page, err := h.service.ListSuppliers(c.Request.Context(), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SupplierResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = toSupplierResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// GetSupplier fetches one supplier by ID
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// DeactivateSupplier marks a supplier inactive
func (h *PartnerHandler) DeactivateSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.service.DeactivateSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// SetSupplierPaymentTerms updates a supplier's default payment terms
func (h *PartnerHandler) SetSupplierPaymentTerms(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req PaymentTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.service.SetSupplierPaymentTerms(c.Request.Context(), id, req.PaymentTermsDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// toSharedFilter maps a list request to the repository filter
func toSharedFilter(req dto.ListRequest) shared.Filter {
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
}
