package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a booking.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

// Terminal reports whether no further transition is possible.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled || s == ReservationNoShow
}

// Reservation is a guest's booked stay.
type Reservation struct {
	ReservationID      string            `json:"reservationID"`
	PropertyID         string            `json:"propertyID"`
	ReservationNumber  string            `json:"reservationNumber"`
	GuestID            string            `json:"guestID"`
	CheckInDate        time.Time         `json:"checkInDate"`
	CheckOutDate       time.Time         `json:"checkOutDate"`
	ActualCheckIn      *time.Time        `json:"actualCheckIn,omitempty"`
	ActualCheckOut     *time.Time        `json:"actualCheckOut,omitempty"`
	Status             ReservationStatus `json:"status"`
	Adults             int               `json:"adults"`
	Children           int               `json:"children"`
	TotalAmount        decimal.Decimal   `json:"totalAmount"`
	PaidAmount         decimal.Decimal   `json:"paidAmount"` // mirror of the folio's paid amount
	CorporateAccountID *string           `json:"corporateAccountID,omitempty"`
	Rooms              []ReservationRoom `json:"rooms,omitempty"`
	AuditFields
}

// ReservationRoom is one physical room slot of a (possibly multi-room) booking.
type ReservationRoom struct {
	ReservationRoomID string          `json:"reservationRoomID"`
	ReservationID     string          `json:"reservationID"`
	RoomTypeID        string          `json:"roomTypeID"`
	Rate              decimal.Decimal `json:"rate"`
	RoomID            *string         `json:"roomID,omitempty"` // nil until assigned at check-in
}

// RoomAssignment binds a physical room to a reservation room slot at check-in.
type RoomAssignment struct {
	ReservationRoomID string `json:"reservationRoomID" binding:"required"`
	RoomID            string `json:"roomID" binding:"required"`
}

// Nights counts the nights between two calendar dates; zero or negative means invalid.
func Nights(checkIn, checkOut time.Time) int {
	in := NormalizeDate(checkIn)
	out := NormalizeDate(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

// Nights returns the number of nights of the stay.
func (r *Reservation) Nights() int {
	return Nights(r.CheckInDate, r.CheckOutDate)
}

// StayTotal is the room revenue of a stay: Σ rate × nights.
func StayTotal(rooms []ReservationRoom, nights int) decimal.Decimal {
	total := decimal.Zero
	n := decimal.NewFromInt(int64(nights))
	for _, rr := range rooms {
		total = total.Add(rr.Rate.Mul(n))
	}
	return RoundMoney(total)
}

// AssignedRoomIDs lists the rooms bound to the reservation.
func (r *Reservation) AssignedRoomIDs() []string {
	ids := make([]string, 0, len(r.Rooms))
	for _, rr := range r.Rooms {
		if rr.RoomID != nil {
			ids = append(ids, *rr.RoomID)
		}
	}
	return ids
}

// ReservationOp names the state machine operations.
type ReservationOp string

const (
	OpCheckIn  ReservationOp = "check_in"
	OpCheckOut ReservationOp = "check_out"
	OpCancel   ReservationOp = "cancel"
	OpNoShow   ReservationOp = "mark_no_show"
	OpExtend   ReservationOp = "extend_stay"
)

// reservationTransitions lists the source states each operation accepts and the target state.
var reservationTransitions = map[ReservationOp]struct {
	from []ReservationStatus
	to   ReservationStatus
}{
	OpCheckIn:  {from: []ReservationStatus{ReservationConfirmed}, to: ReservationCheckedIn},
	OpCheckOut: {from: []ReservationStatus{ReservationCheckedIn}, to: ReservationCheckedOut},
	OpCancel:   {from: []ReservationStatus{ReservationConfirmed}, to: ReservationCancelled},
	OpNoShow:   {from: []ReservationStatus{ReservationConfirmed}, to: ReservationNoShow},
	OpExtend:   {from: []ReservationStatus{ReservationConfirmed, ReservationCheckedIn}},
}

// CanApply reports whether op is legal from status.
func CanApply(op ReservationOp, status ReservationStatus) bool {
	t, ok := reservationTransitions[op]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if s == status {
			return true
		}
	}
	return false
}

// TargetStatus returns the status op moves a reservation into. Operations that
// keep the status (extend) return the empty string.
func TargetStatus(op ReservationOp) ReservationStatus {
	return reservationTransitions[op].to
}
