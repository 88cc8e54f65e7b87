package domain

import "github.com/shopspring/decimal"

// RoomStatus is the housekeeping/occupancy state of a physical room.
type RoomStatus string

const (
	RoomVacant      RoomStatus = "vacant"
	RoomOccupied    RoomStatus = "occupied"
	RoomDirty       RoomStatus = "dirty"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomVacant, RoomOccupied, RoomDirty, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

// RoomType defines the base nightly rate shared by rooms of the same category.
type RoomType struct {
	RoomTypeID string          `json:"roomTypeID"`
	PropertyID string          `json:"propertyID"`
	Name       string          `json:"name"`
	BaseRate   decimal.Decimal `json:"baseRate"`
}

// Room is a physical unit at a property.
type Room struct {
	RoomID     string     `json:"roomID"`
	PropertyID string     `json:"propertyID"`
	RoomTypeID string     `json:"roomTypeID"`
	Number     string     `json:"number"`
	Floor      int        `json:"floor"`
	Status     RoomStatus `json:"status"`
	AuditFields
}

// CanSetRoomStatus reports whether a manual (housekeeping/maintenance) status
// change is allowed. Occupancy is owned by check-in and check-out.
func CanSetRoomStatus(from, to RoomStatus) bool {
	if from == RoomOccupied || to == RoomOccupied {
		return false
	}
	if !from.Valid() || !to.Valid() {
		return false
	}
	return from != to
}
