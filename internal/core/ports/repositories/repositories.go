package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	PropertyRepo    PropertyRepositoryFacade
	RoomRepo        RoomRepositoryFacade
	ReservationRepo ReservationRepositoryFacade
	FolioRepo       FolioRepositoryFacade
	PaymentRepo     PaymentRepositoryFacade
	CorporateRepo   CorporateAccountRepositoryFacade
	NightAuditRepo  NightAuditRepositoryFacade
	OperationsRepo  OperationsReader
}
