package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AuditStatus is the state of a night audit for one business date.
type AuditStatus string

const (
	AuditPending    AuditStatus = "pending"
	AuditInProgress AuditStatus = "in_progress"
	AuditCompleted  AuditStatus = "completed"
	AuditFailed     AuditStatus = "failed"
)

// NightAudit is the record of closing one business date at a property.
type NightAudit struct {
	NightAuditID      string          `json:"nightAuditID"`
	PropertyID        string          `json:"propertyID"`
	BusinessDate      time.Time       `json:"businessDate"`
	Status            AuditStatus     `json:"status"`
	StartedAt         *time.Time      `json:"startedAt,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	RunBy             string          `json:"runBy"`
	RoomsCharged      int             `json:"roomsCharged"`
	TotalRoomRevenue  decimal.Decimal `json:"totalRoomRevenue"`
	TotalFBRevenue    decimal.Decimal `json:"totalFbRevenue"`
	TotalOtherRevenue decimal.Decimal `json:"totalOtherRevenue"`
	TotalPayments     decimal.Decimal `json:"totalPayments"`
	OccupancyRate     decimal.Decimal `json:"occupancyRate"`
	ADR               decimal.Decimal `json:"adr"`
	RevPAR            decimal.Decimal `json:"revpar"`
	Report            json.RawMessage `json:"report,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	FailureReason     *string         `json:"failureReason,omitempty"`
	AuditFields
}

// AuditStatistics is the occupancy and revenue snapshot of a business date.
type AuditStatistics struct {
	BusinessDate  time.Time       `json:"businessDate"`
	TotalRooms    int             `json:"totalRooms"`
	OccupiedRooms int             `json:"occupiedRooms"`
	VacantRooms   int             `json:"vacantRooms"`
	Arrivals      int             `json:"arrivals"`
	Departures    int             `json:"departures"`
	NoShows       int             `json:"noShows"`
	RoomsCharged  int             `json:"roomsCharged"`
	RoomRevenue   decimal.Decimal `json:"roomRevenue"`
	FBRevenue     decimal.Decimal `json:"fbRevenue"`
	OtherRevenue  decimal.Decimal `json:"otherRevenue"`
	TaxCollected  decimal.Decimal `json:"taxCollected"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
	OccupancyRate decimal.Decimal `json:"occupancyRate"`
	ADR           decimal.Decimal `json:"adr"`
	RevPAR        decimal.Decimal `json:"revpar"`
}

// RevenueBucket maps an item type to the statistics bucket it is reported in.
// Tax, service charge and deposits are not revenue.
func RevenueBucket(t ItemType) string {
	switch t {
	case ItemRoomCharge:
		return "room"
	case ItemFoodBeverage:
		return "fb"
	case ItemTax, ItemServiceCharge, ItemDeposit:
		return ""
	default:
		return "other"
	}
}

// DeriveRates fills occupancy, ADR and RevPAR. Zero denominators yield zero.
func (s *AuditStatistics) DeriveRates() {
	s.OccupancyRate = decimal.Zero
	s.ADR = decimal.Zero
	s.RevPAR = decimal.Zero
	if s.TotalRooms > 0 {
		total := decimal.NewFromInt(int64(s.TotalRooms))
		s.OccupancyRate = decimal.NewFromInt(int64(s.OccupiedRooms)).DivRound(total, 4)
		s.RevPAR = s.RoomRevenue.DivRound(total, 2)
	}
	if s.OccupiedRooms > 0 {
		s.ADR = s.RoomRevenue.DivRound(decimal.NewFromInt(int64(s.OccupiedRooms)), 2)
	}
}

// PreAuditChecklist is informational gating shown to the operator before an audit.
type PreAuditChecklist struct {
	BusinessDate              time.Time `json:"businessDate"`
	PendingArrivals           int       `json:"pendingArrivals"`
	UnpostedPOSOrders         int       `json:"unpostedPosOrders"`
	IncompleteHousekeeping    int       `json:"incompleteHousekeeping"`
	HasPendingArrivals        bool      `json:"hasPendingArrivals"`
	HasUnpostedPOSOrders      bool      `json:"hasUnpostedPosOrders"`
	HasIncompleteHousekeeping bool      `json:"hasIncompleteHousekeeping"`
}

// PostingFailure records one room charge that could not be posted.
type PostingFailure struct {
	ReservationID     string `json:"reservationID"`
	ReservationRoomID string `json:"reservationRoomID,omitempty"`
	Error             string `json:"error"`
}

// PostingResult summarises one PostRoomCharges run.
type PostingResult struct {
	BusinessDate   time.Time        `json:"businessDate"`
	ChargesPosted  int              `json:"chargesPosted"`
	ChargesSkipped int              `json:"chargesSkipped"`
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	Failures       []PostingFailure `json:"failures"`
}

// RoomChargeAmounts computes one night of room revenue with tax and service charge.
func RoomChargeAmounts(rate, taxRate, serviceRate decimal.Decimal) (base, tax, service decimal.Decimal) {
	base = RoundMoney(rate)
	tax = RoundMoney(base.Mul(taxRate))
	service = RoundMoney(base.Mul(serviceRate))
	return base, tax, service
}
