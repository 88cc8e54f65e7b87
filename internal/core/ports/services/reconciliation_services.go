package services

import (
	"context"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
)

// ReconciliationSvc recomputes folio totals from their lines and reports drift.
// It never rewrites stored totals.
type ReconciliationSvc interface {
	ReconcileFolio(ctx context.Context, propertyID, folioID string) (*domain.FolioReconciliation, error)
	ReconcileProperty(ctx context.Context, propertyID string) (*dto.ReconciliationReport, error)
}
