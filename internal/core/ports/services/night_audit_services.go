package services

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
)

// NightAuditRunnerSvc closes a business date. Every operation takes the business
// date explicitly; callers resolve it once with domain.ResolveBusinessDate.
type NightAuditRunnerSvc interface {
	StartAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*dto.StartAuditResult, error)
	PostRoomCharges(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*domain.PostingResult, error)
	CompleteAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string, notes *string) (*domain.NightAudit, error)
	FailAudit(ctx context.Context, propertyID string, businessDate time.Time, actor, reason string) (*domain.NightAudit, error)
}

// NightAuditReaderSvc defines read-only audit queries.
type NightAuditReaderSvc interface {
	PreAuditChecklist(ctx context.Context, propertyID string, businessDate time.Time) (*domain.PreAuditChecklist, error)
	ComputeStatistics(ctx context.Context, propertyID string, businessDate time.Time) (*domain.AuditStatistics, error)
	GetAudit(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error)
	ListAudits(ctx context.Context, propertyID string, params dto.ListParams) (*dto.ListAuditsResponse, error)
}

// NightAuditSvcFacade combines all night-audit service interfaces.
type NightAuditSvcFacade interface {
	NightAuditRunnerSvc
	NightAuditReaderSvc
}
