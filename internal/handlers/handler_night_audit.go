package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// nightAuditHandler handles HTTP requests for the night audit.
type nightAuditHandler struct {
	auditService portssvc.NightAuditSvcFacade
	dates        businessDateResolver
}

func newNightAuditHandler(as portssvc.NightAuditSvcFacade, dates businessDateResolver) *nightAuditHandler {
	return &nightAuditHandler{auditService: as, dates: dates}
}

// registerNightAuditRoutes registers the night audit routes under a property group.
func registerNightAuditRoutes(property *gin.RouterGroup, auditService portssvc.NightAuditSvcFacade, dates businessDateResolver) {
	h := newNightAuditHandler(auditService, dates)

	audits := property.Group("/night-audits")
	{
		audits.GET("", h.listAudits)
		audits.GET("/checklist", h.checklist)
		audits.GET("/statistics", h.statistics)
		audits.POST("/start", h.startAudit)
		audits.POST("/post-room-charges", h.postRoomCharges)
		audits.POST("/complete", h.completeAudit)
		audits.POST("/fail", h.failAudit)
		audits.GET("/:business_date", h.getAudit)
	}
}

// businessDate resolves raw against the property in context, writing a 400 on a malformed date.
func (h *nightAuditHandler) businessDate(c *gin.Context, raw string) (time.Time, bool) {
	property := propertyFromContext(c)
	if property == nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Property not found in context")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to resolve property"})
		return time.Time{}, false
	}
	date, err := h.dates.resolve(property, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid business date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// bindOptionalJSON binds the request body when one was sent.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}

// listAudits godoc
// @Summary List night audits
// @Description Audits newest business date first, using token-based pagination.
// @Tags night-audit
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAuditsResponse
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits [get]
func (h *nightAuditHandler) listAudits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "ListAudits query")
		return
	}
	resp, err := h.auditService.ListAudits(c.Request.Context(), c.Param("property_id"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list night audits")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// checklist godoc
// @Summary Pre-audit checklist
// @Description Informational counts of pending arrivals, unposted POS orders and incomplete housekeeping tasks. Never blocks the audit.
// @Tags night-audit
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   businessDate query string false "Business date (YYYY-MM-DD), defaults to the open business date"
// @Success 200 {object} domain.PreAuditChecklist
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/checklist [get]
func (h *nightAuditHandler) checklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AuditDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, logger, err, "Checklist query")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	checklist, err := h.auditService.PreAuditChecklist(c.Request.Context(), c.Param("property_id"), date)
	if err != nil {
		respondError(c, logger, err, "Failed to build checklist")
		return
	}
	c.JSON(http.StatusOK, checklist)
}

// statistics godoc
// @Summary Compute statistics for a business date
// @Tags night-audit
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   businessDate query string false "Business date (YYYY-MM-DD), defaults to the open business date"
// @Success 200 {object} domain.AuditStatistics
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/statistics [get]
func (h *nightAuditHandler) statistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AuditDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, logger, err, "Statistics query")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	stats, err := h.auditService.ComputeStatistics(c.Request.Context(), c.Param("property_id"), date)
	if err != nil {
		respondError(c, logger, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// startAudit godoc
// @Summary Start the night audit
// @Description Creates or resumes the audit for the business date. Rejected once the date is completed.
// @Tags night-audit
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   request body dto.AuditDateRequest false "Business date"
// @Success 200 {object} dto.StartAuditResult
// @Failure 409 {object} dto.ErrorResponse "Business date already audited"
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/start [post]
func (h *nightAuditHandler) startAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AuditDateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, logger, err, "StartAudit body")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.auditService.StartAudit(c.Request.Context(), c.Param("property_id"), date, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to start night audit")
		return
	}
	c.JSON(http.StatusOK, result)
}

// postRoomCharges godoc
// @Summary Post nightly room charges
// @Description Posts one room charge per assigned room of every checked-in reservation. Safe to retry; already-posted rooms are skipped.
// @Tags night-audit
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   request body dto.AuditDateRequest false "Business date"
// @Success 200 {object} domain.PostingResult
// @Failure 409 {object} dto.ErrorResponse "Business date already audited"
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/post-room-charges [post]
func (h *nightAuditHandler) postRoomCharges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AuditDateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, logger, err, "PostRoomCharges body")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.auditService.PostRoomCharges(c.Request.Context(), c.Param("property_id"), date, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post room charges")
		return
	}
	c.JSON(http.StatusOK, result)
}

// completeAudit godoc
// @Summary Complete the night audit
// @Description Snapshots statistics into the audit record and closes the business date.
// @Tags night-audit
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   request body dto.CompleteAuditRequest false "Business date and notes"
// @Success 200 {object} domain.NightAudit
// @Failure 409 {object} dto.ErrorResponse "Business date already audited"
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/complete [post]
func (h *nightAuditHandler) completeAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteAuditRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, logger, err, "CompleteAudit body")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	audit, err := h.auditService.CompleteAudit(c.Request.Context(), c.Param("property_id"), date, actor, req.Notes)
	if err != nil {
		respondError(c, logger, err, "Failed to complete night audit")
		return
	}
	c.JSON(http.StatusOK, audit)
}

// failAudit godoc
// @Summary Mark the night audit as failed
// @Tags night-audit
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   request body dto.FailAuditRequest true "Business date and reason"
// @Success 200 {object} domain.NightAudit
// @Failure 409 {object} dto.ErrorResponse "Business date already audited"
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/fail [post]
func (h *nightAuditHandler) failAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FailAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "FailAudit body")
		return
	}
	date, ok := h.businessDate(c, req.BusinessDate)
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	audit, err := h.auditService.FailAudit(c.Request.Context(), c.Param("property_id"), date, actor, req.Reason)
	if err != nil {
		respondError(c, logger, err, "Failed to record audit failure")
		return
	}
	c.JSON(http.StatusOK, audit)
}

// getAudit godoc
// @Summary Get the night audit of a business date
// @Tags night-audit
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   business_date path string true "Business date (YYYY-MM-DD)"
// @Success 200 {object} domain.NightAudit
// @Failure 404 {object} dto.ErrorResponse "No audit for that date"
// @Security BearerAuth
// @Router /properties/{property_id}/night-audits/{business_date} [get]
func (h *nightAuditHandler) getAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	raw := c.Param("business_date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Business date is required"})
		return
	}
	date, ok := h.businessDate(c, raw)
	if !ok {
		return
	}
	audit, err := h.auditService.GetAudit(c.Request.Context(), c.Param("property_id"), date)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve night audit")
		return
	}
	c.JSON(http.StatusOK, audit)
}
