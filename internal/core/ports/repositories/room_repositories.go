package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
)

// RoomReader defines read operations for rooms and room types
type RoomReader interface {
	// FindRoomByID retrieves a room by its ID.
	FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error)

	// FindRoomTypeByID retrieves a room type by its ID.
	FindRoomTypeByID(ctx context.Context, roomTypeID string) (*domain.RoomType, error)

	// ListRoomsByProperty lists every room at a property ordered by number.
	ListRoomsByProperty(ctx context.Context, propertyID string) ([]domain.Room, error)

	// CountRoomsByStatus counts a property's rooms per status.
	CountRoomsByStatus(ctx context.Context, propertyID string) (map[domain.RoomStatus]int, error)
}

// RoomWriter defines write operations for rooms
type RoomWriter interface {
	// SaveRoomType persists a new room type.
	SaveRoomType(ctx context.Context, roomType domain.RoomType) error

	// SaveRoom persists a new room.
	SaveRoom(ctx context.Context, room domain.Room) error

	// UpdateRoomStatus sets a room's status.
	UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus, actor string, now time.Time) error
}

// RoomTransactionSupport defines operations that must run inside a transaction
type RoomTransactionSupport interface {
	// FindRoomsByIDsForUpdate selects rooms and locks them for update.
	FindRoomsByIDsForUpdate(ctx context.Context, roomIDs []string) (map[string]domain.Room, error)
}

// RoomRepositoryFacade combines all room-related repository interfaces
type RoomRepositoryFacade interface {
	RoomReader
	RoomWriter
	RoomTransactionSupport
}
