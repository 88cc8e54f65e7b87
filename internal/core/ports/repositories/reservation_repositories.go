package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReservationDayCounts are the reservation movements of one business date.
type ReservationDayCounts struct {
	Arrivals        int // checked in or out, check-in date = day
	Departures      int // checked out, check-out date = day
	NoShows         int // no_show, check-in date = day
	PendingArrivals int // still confirmed, check-in date = day
}

// ReservationReader defines read operations for reservation data
type ReservationReader interface {
	// FindReservationByID retrieves a reservation together with its rooms.
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListReservationsByStatus lists a property's reservations in a status, with rooms.
	ListReservationsByStatus(ctx context.Context, propertyID string, status domain.ReservationStatus) ([]domain.Reservation, error)

	// CountReservationsForDay counts arrivals, departures, no-shows and pending arrivals.
	CountReservationsForDay(ctx context.Context, propertyID string, day time.Time) (ReservationDayCounts, error)
}

// ReservationWriter defines write operations for reservation data
type ReservationWriter interface {
	// SaveReservation persists a new reservation and its rooms.
	SaveReservation(ctx context.Context, reservation domain.Reservation) error

	// UpdateReservation updates status, stay dates, timestamps, totals and room assignments.
	UpdateReservation(ctx context.Context, reservation domain.Reservation) error

	// AdjustPaidAmount adds delta to the reservation's mirrored paid amount.
	AdjustPaidAmount(ctx context.Context, reservationID string, delta decimal.Decimal, actor string, now time.Time) error
}

// ReservationTransactionSupport defines operations that must run inside a transaction
type ReservationTransactionSupport interface {
	// FindReservationByIDForUpdate retrieves and locks a reservation row.
	FindReservationByIDForUpdate(ctx context.Context, reservationID string) (*domain.Reservation, error)
}

// ReservationRepositoryFacade combines all reservation-related repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
	ReservationTransactionSupport
}
