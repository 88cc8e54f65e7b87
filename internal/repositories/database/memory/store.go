// Package memory is an in-process implementation of every repository port.
// It backs local development (STORE=memory) and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
)

// POSOrder is the slice of a POS order the night audit checklist reads.
type POSOrder struct {
	OrderID      string
	PropertyID   string
	BusinessDate string // YYYY-MM-DD
	Posted       bool
}

// HousekeepingTask is the slice of a housekeeping task the checklist reads.
type HousekeepingTask struct {
	TaskID     string
	PropertyID string
	Completed  bool
}

type tables struct {
	properties   map[string]domain.Property
	sequences    map[string]int64
	roomTypes    map[string]domain.RoomType
	rooms        map[string]domain.Room
	reservations map[string]domain.Reservation
	corporate    map[string]domain.CorporateAccount
	folios       map[string]domain.Folio
	items        map[string]domain.FolioItem
	payments     map[string]domain.Payment
	audits       map[string]domain.NightAudit
	posOrders    map[string]POSOrder
	tasks        map[string]HousekeepingTask
}

func newTables() tables {
	return tables{
		properties:   make(map[string]domain.Property),
		sequences:    make(map[string]int64),
		roomTypes:    make(map[string]domain.RoomType),
		rooms:        make(map[string]domain.Room),
		reservations: make(map[string]domain.Reservation),
		corporate:    make(map[string]domain.CorporateAccount),
		folios:       make(map[string]domain.Folio),
		items:        make(map[string]domain.FolioItem),
		payments:     make(map[string]domain.Payment),
		audits:       make(map[string]domain.NightAudit),
		posOrders:    make(map[string]POSOrder),
		tasks:        make(map[string]HousekeepingTask),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Rows are values; the reservation room slices are
// the only nested state that is mutated in place, so they are copied too.
func (t tables) clone() tables {
	out := tables{
		properties:   cloneMap(t.properties),
		sequences:    cloneMap(t.sequences),
		roomTypes:    cloneMap(t.roomTypes),
		rooms:        cloneMap(t.rooms),
		reservations: make(map[string]domain.Reservation, len(t.reservations)),
		corporate:    cloneMap(t.corporate),
		folios:       cloneMap(t.folios),
		items:        cloneMap(t.items),
		payments:     cloneMap(t.payments),
		audits:       cloneMap(t.audits),
		posOrders:    cloneMap(t.posOrders),
		tasks:        cloneMap(t.tasks),
	}
	for id, r := range t.reservations {
		out.reservations[id] = copyReservation(r)
	}
	return out
}

// Store holds every table in memory. Transactions are serialized by txMu and
// roll back by restoring the snapshot taken when they began.
type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	data      tables
	nextTrxID int64
}

// New creates an empty store.
func New() *Store {
	return &Store{data: newTables()}
}

// WithinTx runs fn in a transaction. A ctx that already carries a transaction
// joins it, so services can compose.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := transactionIDFromContext(ctx); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.nextTrxID++
	trxID := fmt.Sprintf("trx-%d", s.nextTrxID)
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(withTransactionID(ctx, trxID)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       store,
		PropertyRepo:    store,
		RoomRepo:        store,
		ReservationRepo: store,
		FolioRepo:       store,
		PaymentRepo:     store,
		CorporateRepo:   store,
		NightAuditRepo:  store,
		OperationsRepo:  store,
	}
}

var (
	_ portsrepo.TransactionManager               = (*Store)(nil)
	_ portsrepo.PropertyRepositoryFacade         = (*Store)(nil)
	_ portsrepo.RoomRepositoryFacade             = (*Store)(nil)
	_ portsrepo.ReservationRepositoryFacade      = (*Store)(nil)
	_ portsrepo.FolioRepositoryFacade            = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade          = (*Store)(nil)
	_ portsrepo.CorporateAccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.NightAuditRepositoryFacade       = (*Store)(nil)
	_ portsrepo.OperationsReader                 = (*Store)(nil)
)
