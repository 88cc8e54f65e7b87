package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
)

// reconciliationService recomputes folio totals from the append-only lines and
// compares them with the running totals maintained by the delta updates.
type reconciliationService struct {
	BaseService
	folioRepo   portsrepo.FolioRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
}

// NewReconciliationService creates the read-only reconciliation service.
func NewReconciliationService(folioRepo portsrepo.FolioRepositoryFacade, paymentRepo portsrepo.PaymentRepositoryFacade, opts ...ServiceOption) portssvc.ReconciliationSvc {
	return &reconciliationService{
		BaseService: newBaseService(opts...),
		folioRepo:   folioRepo,
		paymentRepo: paymentRepo,
	}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

func (s *reconciliationService) ReconcileFolio(ctx context.Context, propertyID, folioID string) (*domain.FolioReconciliation, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to get folio %s: %w", folioID, err)
	}
	if err := ensureProperty("folio", folioID, folio.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, *folio)
}

func (s *reconciliationService) reconcile(ctx context.Context, folio domain.Folio) (*domain.FolioReconciliation, error) {
	items, err := s.folioRepo.ListFolioItems(ctx, folio.FolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of folio %s: %w", folio.FolioID, err)
	}
	payments, err := s.paymentRepo.ListPayments(ctx, folio.FolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of folio %s: %w", folio.FolioID, err)
	}
	result := domain.Reconcile(folio, items, payments)
	if !result.Consistent {
		s.LogWarn(ctx, "Folio totals drifted from their lines",
			slog.String("folio_id", folio.FolioID),
			slog.Int("drifted_fields", len(result.Drifts)))
	}
	return &result, nil
}

func (s *reconciliationService) ReconcileProperty(ctx context.Context, propertyID string) (*dto.ReconciliationReport, error) {
	folios, err := s.folioRepo.ListFoliosByProperty(ctx, propertyID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folios for reconciliation", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to list folios: %w", err)
	}

	report := &dto.ReconciliationReport{
		PropertyID: propertyID,
		Drifted:    []domain.FolioReconciliation{},
	}
	for _, folio := range folios {
		result, err := s.reconcile(ctx, folio)
		if err != nil {
			return nil, err
		}
		report.FoliosChecked++
		if !result.Consistent {
			report.Drifted = append(report.Drifted, *result)
		}
	}

	s.LogInfo(ctx, "Property reconciled",
		slog.String("property_id", propertyID),
		slog.Int("folios_checked", report.FoliosChecked),
		slog.Int("folios_drifted", len(report.Drifted)))
	return report, nil
}
