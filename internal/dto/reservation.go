package dto

import (
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Reservation DTOs ---

// ReservationRoomRequest books one room of a room type. Rate defaults to the room type's base rate.
type ReservationRoomRequest struct {
	RoomTypeID string           `json:"roomTypeID" binding:"required"`
	Rate       *decimal.Decimal `json:"rate,omitempty" swaggertype:"string" example:"1000.00"`
}

// CreateReservationRequest defines data for booking a stay.
type CreateReservationRequest struct {
	GuestID            string                   `json:"guestID" binding:"required"`
	CheckInDate        string                   `json:"checkInDate" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	CheckOutDate       string                   `json:"checkOutDate" binding:"required,datetime=2006-01-02" example:"2024-03-03"`
	Adults             int                      `json:"adults" binding:"omitempty,min=1"`
	Children           int                      `json:"children" binding:"omitempty,min=0"`
	CorporateAccountID *string                  `json:"corporateAccountID,omitempty"`
	Rooms              []ReservationRoomRequest `json:"rooms" binding:"required,min=1,dive"`
}

// CheckInRequest assigns a physical room to every reservation room.
type CheckInRequest struct {
	Assignments []domain.RoomAssignment `json:"assignments" binding:"required,min=1,dive"`
}

// CheckOutRequest optionally overrides the outstanding balance check.
// A forced checkout leaves the folio open with its balance.
type CheckOutRequest struct {
	Force          bool   `json:"force"`
	OverrideReason string `json:"overrideReason" binding:"required_if=Force true"`
}

// ExtendStayRequest moves the check-out date.
type ExtendStayRequest struct {
	CheckOutDate string `json:"checkOutDate" binding:"required,datetime=2006-01-02" example:"2024-03-05"`
}

// UpdateRoomStatusRequest sets a housekeeping or maintenance status.
type UpdateRoomStatusRequest struct {
	Status domain.RoomStatus `json:"status" binding:"required,oneof=vacant dirty maintenance out_of_order"`
}

// CheckInResult is the outcome of a successful check-in.
type CheckInResult struct {
	Reservation domain.Reservation `json:"reservation"`
	Folio       domain.Folio       `json:"folio"`
	FolioOpened bool               `json:"folioOpened"`
}

// CheckOutResult is the outcome of a successful check-out.
type CheckOutResult struct {
	Reservation domain.Reservation `json:"reservation"`
	Folio       *domain.Folio      `json:"folio,omitempty"`
	FolioClosed bool               `json:"folioClosed"`
	Forced      bool               `json:"forced"`
}

// ListRoomsResponse wraps a list of rooms.
type ListRoomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
}
