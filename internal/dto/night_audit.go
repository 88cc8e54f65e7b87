package dto

import "github.com/SscSPs/property_management_app/internal/core/domain"

// --- Night audit DTOs ---

// AuditDateRequest names the business date an audit step applies to.
// When BusinessDate is empty the handler resolves it from the property clock.
type AuditDateRequest struct {
	BusinessDate string `json:"businessDate" form:"businessDate" binding:"omitempty,datetime=2006-01-02" example:"2024-03-01"`
}

// CompleteAuditRequest closes a business date.
type CompleteAuditRequest struct {
	AuditDateRequest
	Notes *string `json:"notes,omitempty"`
}

// FailAuditRequest marks an in-progress audit as failed.
type FailAuditRequest struct {
	AuditDateRequest
	Reason string `json:"reason" binding:"required,max=500"`
}

// StartAuditResult is the audit record together with the informational checklist.
type StartAuditResult struct {
	Audit     domain.NightAudit        `json:"audit"`
	Checklist domain.PreAuditChecklist `json:"checklist"`
}

// ListAuditsResponse is one page of audits, newest business date first.
type ListAuditsResponse struct {
	Audits    []domain.NightAudit `json:"audits"`
	NextToken *string             `json:"nextToken,omitempty"`
}
