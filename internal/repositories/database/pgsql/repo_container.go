package pgsql

import (
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository around one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &BaseRepository{Pool: dbPool},
		PropertyRepo:    newPgxPropertyRepository(dbPool),
		RoomRepo:        newPgxRoomRepository(dbPool),
		ReservationRepo: newPgxReservationRepository(dbPool),
		FolioRepo:       newPgxFolioRepository(dbPool),
		PaymentRepo:     newPgxPaymentRepository(dbPool),
		CorporateRepo:   newPgxCorporateAccountRepository(dbPool),
		NightAuditRepo:  newPgxNightAuditRepository(dbPool),
		OperationsRepo:  newPgxOperationsRepository(dbPool),
	}
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)
