package services

import (
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Property = NewPropertyService(repos.PropertyRepo, opts...)

	// The folio ledger comes first: stays and audits post through it.
	container.Folio = NewFolioService(repos, opts...)
	container.Stay = NewStayService(repos, container.Folio, opts...)
	container.NightAudit = NewNightAuditService(repos, container.Folio, opts...)
	container.Reconciliation = NewReconciliationService(repos.FolioRepo, repos.PaymentRepo, opts...)

	return container
}
