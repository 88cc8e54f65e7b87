package services

// ServiceContainer holds instances of all the application services.
// It is the main entry point for the handlers.
type ServiceContainer struct {
	Property       PropertySvcFacade
	Stay           StaySvcFacade
	Folio          FolioSvcFacade
	NightAudit     NightAuditSvcFacade
	Reconciliation ReconciliationSvc
}
