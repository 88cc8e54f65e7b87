package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemTypeTotal aggregates the non-voided lines of one item type.
type ItemTypeTotal struct {
	ItemType      domain.ItemType
	Count         int
	Total         decimal.Decimal
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
}

// FolioReader defines read operations for folio data
type FolioReader interface {
	// FindFolioByID retrieves a folio by its ID.
	FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)

	// FindFolioByReservationID retrieves the folio owned by a reservation.
	FindFolioByReservationID(ctx context.Context, reservationID string) (*domain.Folio, error)

	// ListFoliosByProperty lists a property's folios, optionally filtered by status.
	ListFoliosByProperty(ctx context.Context, propertyID string, status *domain.FolioStatus) ([]domain.Folio, error)
}

// FolioWriter defines write operations for folio data
type FolioWriter interface {
	// SaveFolio persists a new folio. A second folio for the same reservation fails with ErrDuplicate.
	SaveFolio(ctx context.Context, folio domain.Folio) error

	// ApplyFolioDelta adds a delta to the folio's running totals server-side.
	ApplyFolioDelta(ctx context.Context, folioID string, delta domain.FolioDelta, actor string, now time.Time) error

	// CloseFolio marks a folio closed.
	CloseFolio(ctx context.Context, folioID string, actor string, now time.Time) error
}

// FolioTransactionSupport defines operations that must run inside a transaction
type FolioTransactionSupport interface {
	// FindFolioByIDForUpdate retrieves and locks a folio row.
	FindFolioByIDForUpdate(ctx context.Context, folioID string) (*domain.Folio, error)
}

// FolioItemReader defines read operations for folio charge lines
type FolioItemReader interface {
	// FindFolioItemByID retrieves a charge line.
	FindFolioItemByID(ctx context.Context, itemID string) (*domain.FolioItem, error)

	// ListFolioItems lists every line of a folio in posting order.
	ListFolioItems(ctx context.Context, folioID string) ([]domain.FolioItem, error)

	// ListFolioItemsPage lists a folio's lines in posting order using token-based pagination.
	ListFolioItemsPage(ctx context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioItem, *string, error)

	// RoomChargeExists reports whether a non-voided room charge already exists
	// for a reservation room on a service date.
	RoomChargeExists(ctx context.Context, referenceID string, serviceDate time.Time) (bool, error)

	// SumItemsByType aggregates a property's non-voided lines for a service date.
	SumItemsByType(ctx context.Context, propertyID string, serviceDate time.Time) ([]ItemTypeTotal, error)
}

// FolioItemWriter defines write operations for folio charge lines
type FolioItemWriter interface {
	// SaveFolioItem appends a charge line.
	SaveFolioItem(ctx context.Context, item domain.FolioItem) error

	// MarkFolioItemVoided flips the voided flag and records who and why.
	MarkFolioItemVoided(ctx context.Context, itemID string, reason string, actor string, now time.Time) error
}

// FolioRepositoryFacade combines all folio-related repository interfaces
type FolioRepositoryFacade interface {
	FolioReader
	FolioWriter
	FolioTransactionSupport
	FolioItemReader
	FolioItemWriter
}
