package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
)

// NightAuditReader defines read operations for night audit records
type NightAuditReader interface {
	// FindNightAudit retrieves the audit of a property for a business date.
	FindNightAudit(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error)

	// LatestCompletedBusinessDate returns the most recent completed business date, or nil.
	LatestCompletedBusinessDate(ctx context.Context, propertyID string) (*time.Time, error)

	// ListNightAudits lists a property's audits newest first using token-based pagination.
	ListNightAudits(ctx context.Context, propertyID string, limit int, nextToken *string) ([]domain.NightAudit, *string, error)
}

// NightAuditWriter defines write operations for night audit records
type NightAuditWriter interface {
	// SaveNightAudit inserts a new audit row; one per property and business date.
	SaveNightAudit(ctx context.Context, audit domain.NightAudit) error

	// UpdateNightAudit updates status, timestamps and the statistics snapshot in place.
	UpdateNightAudit(ctx context.Context, audit domain.NightAudit) error
}

// NightAuditTransactionSupport defines operations that must run inside a transaction
type NightAuditTransactionSupport interface {
	// FindNightAuditForUpdate retrieves and locks an audit row.
	FindNightAuditForUpdate(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error)
}

// NightAuditRepositoryFacade combines all night-audit repository interfaces
type NightAuditRepositoryFacade interface {
	NightAuditReader
	NightAuditWriter
	NightAuditTransactionSupport
}

// OperationsReader reads collaborator tables owned by other subsystems
// (point of sale, housekeeping) for the pre-audit checklist.
type OperationsReader interface {
	// CountUnpostedPOSOrders counts closed POS orders not yet posted to a folio.
	CountUnpostedPOSOrders(ctx context.Context, propertyID string, businessDate time.Time) (int, error)

	// CountIncompleteHousekeepingTasks counts open housekeeping tasks.
	CountIncompleteHousekeepingTasks(ctx context.Context, propertyID string) (int, error)
}
