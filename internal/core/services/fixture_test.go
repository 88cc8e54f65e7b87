package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/core/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testPropertyID = "prop-1"
	testTenantID   = "tenant-1"
	testRoomTypeID = "rt-standard"
	testActor      = "frontdesk-1"
)

var testRooms = []string{"room-101", "room-102", "room-103"}

// hotelSuite runs every test against a fresh in-memory hotel: one property
// with a 10% tax, one room type at 1000/night and three vacant rooms.
type hotelSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	now   time.Time
}

func (s *hotelSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.now = time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.SaveProperty(s.ctx, domain.Property{
		PropertyID:        testPropertyID,
		TenantID:          testTenantID,
		Name:              "Harbour View",
		CurrencyCode:      "BDT",
		TaxRate:           decimal.RequireFromString("0.10"),
		ServiceChargeRate: decimal.Zero,
		Timezone:          "UTC",
		CutoverHour:       6,
		AuditFields:       domain.NewAuditFields("seed", s.now),
	}))
	s.Require().NoError(s.store.SaveRoomType(s.ctx, domain.RoomType{
		RoomTypeID: testRoomTypeID,
		PropertyID: testPropertyID,
		Name:       "Standard",
		BaseRate:   decimal.NewFromInt(1000),
	}))
	for i, id := range testRooms {
		s.Require().NoError(s.store.SaveRoom(s.ctx, domain.Room{
			RoomID:      id,
			PropertyID:  testPropertyID,
			RoomTypeID:  testRoomTypeID,
			Number:      id[len("room-"):],
			Floor:       1,
			Status:      domain.RoomVacant,
			AuditFields: domain.NewAuditFields("seed", s.now.Add(time.Duration(i)*time.Second)),
		}))
	}

	s.svc = services.NewServiceContainer(memory.NewRepositoryProvider(s.store),
		services.WithClock(func() time.Time { return s.now }))
}

func (s *hotelSuite) day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func (s *hotelSuite) money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// assertMoney compares amounts by value so 2200 and 2200.00 are equal.
func (s *hotelSuite) assertMoney(want string, got decimal.Decimal, msgAndArgs ...any) {
	s.T().Helper()
	s.Equal(s.money(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

func (s *hotelSuite) book(checkIn, checkOut string, rooms int) *domain.Reservation {
	s.T().Helper()
	req := dto.CreateReservationRequest{
		GuestID:      "guest-1",
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Adults:       2,
	}
	for i := 0; i < rooms; i++ {
		req.Rooms = append(req.Rooms, dto.ReservationRoomRequest{RoomTypeID: testRoomTypeID})
	}
	reservation, err := s.svc.Stay.CreateReservation(s.ctx, testPropertyID, req, testActor)
	s.Require().NoError(err)
	return reservation
}

func (s *hotelSuite) checkIn(reservation *domain.Reservation, roomIDs ...string) *dto.CheckInResult {
	s.T().Helper()
	result, err := s.svc.Stay.CheckIn(s.ctx, testPropertyID, reservation.ReservationID, s.assignments(reservation, roomIDs...), testActor)
	s.Require().NoError(err)
	return result
}

func (s *hotelSuite) assignments(reservation *domain.Reservation, roomIDs ...string) []domain.RoomAssignment {
	out := make([]domain.RoomAssignment, len(roomIDs))
	for i, roomID := range roomIDs {
		out[i] = domain.RoomAssignment{ReservationRoomID: reservation.Rooms[i].ReservationRoomID, RoomID: roomID}
	}
	return out
}

func (s *hotelSuite) pay(folioID, amount string) *dto.PaymentResult {
	s.T().Helper()
	result, err := s.svc.Folio.RecordPayment(s.ctx, testPropertyID, folioID, dto.RecordPaymentRequest{
		Amount: s.money(amount),
		Method: domain.PaymentCash,
	}, testActor)
	s.Require().NoError(err)
	return result
}

func (s *hotelSuite) folio(folioID string) *domain.Folio {
	s.T().Helper()
	folio, err := s.svc.Folio.GetFolio(s.ctx, testPropertyID, folioID)
	s.Require().NoError(err)
	s.Require().NoError(folio.CheckInvariant())
	return folio
}

func (s *hotelSuite) room(roomID string) *domain.Room {
	s.T().Helper()
	room, err := s.store.FindRoomByID(s.ctx, roomID)
	s.Require().NoError(err)
	return room
}

func (s *hotelSuite) reservation(reservationID string) *domain.Reservation {
	s.T().Helper()
	reservation, err := s.svc.Stay.GetReservation(s.ctx, testPropertyID, reservationID)
	s.Require().NoError(err)
	return reservation
}
