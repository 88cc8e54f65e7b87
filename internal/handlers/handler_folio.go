package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// folioHandler handles HTTP requests for folios, payments and corporate accounts.
type folioHandler struct {
	folioService          portssvc.FolioSvcFacade
	reconciliationService portssvc.ReconciliationSvc
}

func newFolioHandler(fs portssvc.FolioSvcFacade, rs portssvc.ReconciliationSvc) *folioHandler {
	return &folioHandler{folioService: fs, reconciliationService: rs}
}

// registerFolioRoutes registers folio, corporate account and reconciliation routes.
func registerFolioRoutes(property *gin.RouterGroup, folioService portssvc.FolioSvcFacade, reconciliationService portssvc.ReconciliationSvc) {
	h := newFolioHandler(folioService, reconciliationService)

	folios := property.Group("/folios/:folio_id")
	{
		folios.GET("", h.getFolio)
		folios.GET("/items", h.listFolioItems)
		folios.POST("/charges", h.addCharge)
		folios.POST("/items/:item_id/void", h.voidItem)
		folios.GET("/payments", h.listPayments)
		folios.POST("/payments", h.recordPayment)
		folios.POST("/payments/:payment_id/void", h.voidPayment)
		folios.POST("/close", h.closeFolio)
		folios.GET("/reconcile", h.reconcileFolio)
	}

	property.GET("/reconcile", h.reconcileProperty)

	corporate := property.Group("/corporate-accounts")
	{
		corporate.POST("", h.createCorporateAccount)
		corporate.GET("/:account_id", h.getCorporateAccount)
	}
}

// getFolio godoc
// @Summary Get a folio
// @Tags folios
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Success 200 {object} domain.Folio
// @Failure 404 {object} dto.ErrorResponse "Folio not found"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id} [get]
func (h *folioHandler) getFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folio, err := h.folioService.GetFolio(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve folio")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// listFolioItems godoc
// @Summary List the lines of a folio
// @Description Lines in posting order, voided lines included, using token-based pagination.
// @Tags folios
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListFolioItemsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination token"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/items [get]
func (h *folioHandler) listFolioItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "ListFolioItems query")
		return
	}
	resp, err := h.folioService.ListFolioItems(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list folio items")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// addCharge godoc
// @Summary Post a charge to an open folio
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Param   charge body dto.AddChargeRequest true "Charge line"
// @Success 201 {object} dto.FolioItemResult
// @Failure 400 {object} dto.ErrorResponse "Invalid amounts or item type"
// @Failure 409 {object} dto.ErrorResponse "Folio closed or business date already audited"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/charges [post]
func (h *folioHandler) addCharge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "AddCharge body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.folioService.AddCharge(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post charge")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// voidItem godoc
// @Summary Void a folio line
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Param   item_id path string true "Item ID"
// @Param   request body dto.VoidRequest true "Void reason"
// @Success 200 {object} domain.Folio
// @Failure 409 {object} dto.ErrorResponse "Folio closed or line already voided"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/items/{item_id}/void [post]
func (h *folioHandler) voidItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "VoidItem body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	folio, err := h.folioService.VoidItem(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), c.Param("item_id"), req.Reason, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to void folio item")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// listPayments godoc
// @Summary List the payments of a folio
// @Tags folios
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/payments [get]
func (h *folioHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payments, err := h.folioService.ListPayments(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: payments})
}

// paymentResponse adds the non-fatal warning, if any, to the payment result.
type paymentResponse struct {
	*dto.PaymentResult
	Warning *dto.WarningResponse `json:"warning,omitempty"`
}

// recordPayment godoc
// @Summary Record a payment against a folio
// @Description A corporateAccountID moves the amount onto the corporate account; exceeding its credit limit is reported as a warning, not an error. Reusing an idempotencyKey returns the original payment.
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResult
// @Success 200 {object} dto.PaymentResult "Replayed idempotent request"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or method"
// @Failure 409 {object} dto.ErrorResponse "Folio closed"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/payments [post]
func (h *folioHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "RecordPayment body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.folioService.RecordPayment(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	resp := paymentResponse{PaymentResult: result}
	if result.Warning != nil {
		code := "warning"
		if errors.Is(result.Warning, apperrors.ErrCreditLimitExceeded) {
			code = "credit_limit_exceeded"
		}
		resp.Warning = &dto.WarningResponse{Code: code, Message: result.Warning.Error()}
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// voidPayment godoc
// @Summary Void a payment
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Param   payment_id path string true "Payment ID"
// @Param   request body dto.VoidRequest true "Void reason"
// @Success 200 {object} domain.Folio
// @Failure 409 {object} dto.ErrorResponse "Folio closed or payment already voided"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/payments/{payment_id}/void [post]
func (h *folioHandler) voidPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "VoidPayment body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	folio, err := h.folioService.VoidPayment(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), c.Param("payment_id"), req.Reason, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to void payment")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// closeFolio godoc
// @Summary Close a settled folio
// @Tags folios
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Success 200 {object} domain.Folio
// @Failure 409 {object} dto.ErrorResponse "Guest still checked in, outstanding balance or already closed"
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/close [post]
func (h *folioHandler) closeFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	folio, err := h.folioService.CloseFolio(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to close folio")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// reconcileFolio godoc
// @Summary Recompute a folio's totals from its lines
// @Description Reports drift between stored and recomputed totals. Stored totals are never rewritten.
// @Tags reconciliation
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   folio_id path string true "Folio ID"
// @Success 200 {object} domain.FolioReconciliation
// @Security BearerAuth
// @Router /properties/{property_id}/folios/{folio_id}/reconcile [get]
func (h *folioHandler) reconcileFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rec, err := h.reconciliationService.ReconcileFolio(c.Request.Context(), c.Param("property_id"), c.Param("folio_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile folio")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// reconcileProperty godoc
// @Summary Reconcile every folio of a property
// @Tags reconciliation
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 200 {object} dto.ReconciliationReport
// @Security BearerAuth
// @Router /properties/{property_id}/reconcile [get]
func (h *folioHandler) reconcileProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.reconciliationService.ReconcileProperty(c.Request.Context(), c.Param("property_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile property")
		return
	}
	c.JSON(http.StatusOK, report)
}

// createCorporateAccount godoc
// @Summary Create a corporate billing account
// @Tags corporate-accounts
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   account body dto.CreateCorporateAccountRequest true "Account details"
// @Success 201 {object} domain.CorporateAccount
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /properties/{property_id}/corporate-accounts [post]
func (h *folioHandler) createCorporateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCorporateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "CreateCorporateAccount body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	account, err := h.folioService.CreateCorporateAccount(c.Request.Context(), c.Param("property_id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create corporate account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

// getCorporateAccount godoc
// @Summary Get a corporate billing account
// @Tags corporate-accounts
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   account_id path string true "Corporate account ID"
// @Success 200 {object} domain.CorporateAccount
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /properties/{property_id}/corporate-accounts/{account_id} [get]
func (h *folioHandler) getCorporateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.folioService.GetCorporateAccount(c.Request.Context(), c.Param("property_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve corporate account")
		return
	}
	c.JSON(http.StatusOK, account)
}
