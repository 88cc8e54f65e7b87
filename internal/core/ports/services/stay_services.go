package services

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
)

// ReservationReaderSvc defines read operations for reservations and rooms.
type ReservationReaderSvc interface {
	GetReservation(ctx context.Context, propertyID, reservationID string) (*domain.Reservation, error)
	ListRooms(ctx context.Context, propertyID string) ([]domain.Room, error)
}

// ReservationLifecycleSvc drives the reservation state machine.
// Every operation runs in one store transaction and leaves nothing changed on failure.
type ReservationLifecycleSvc interface {
	CreateReservation(ctx context.Context, propertyID string, req dto.CreateReservationRequest, actor string) (*domain.Reservation, error)

	// CheckIn binds a vacant room to every reserved room, marks them occupied and opens the reservation's folio.
	CheckIn(ctx context.Context, propertyID, reservationID string, assignments []domain.RoomAssignment, actor string) (*dto.CheckInResult, error)

	// CheckOut requires a zero folio balance unless req.Force is set.
	CheckOut(ctx context.Context, propertyID, reservationID string, req dto.CheckOutRequest, actor string) (*dto.CheckOutResult, error)

	Cancel(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error)
	ExtendStay(ctx context.Context, propertyID, reservationID string, newCheckOut time.Time, actor string) (*domain.Reservation, error)
}

// RoomStatusSvc covers housekeeping and maintenance status changes.
type RoomStatusSvc interface {
	UpdateRoomStatus(ctx context.Context, propertyID, roomID string, status domain.RoomStatus, actor string) (*domain.Room, error)
}

// StaySvcFacade combines all stay-related service interfaces.
type StaySvcFacade interface {
	ReservationReaderSvc
	ReservationLifecycleSvc
	RoomStatusSvc
}
