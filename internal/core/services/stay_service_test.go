package services_test

import (
	"testing"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StayServiceTestSuite struct {
	hotelSuite
}

func TestStayService(t *testing.T) {
	suite.Run(t, new(StayServiceTestSuite))
}

func (s *StayServiceTestSuite) TestCreateReservation_TotalsAndNumbers() {
	first := s.book("2024-03-01", "2024-03-04", 2)
	second := s.book("2024-03-05", "2024-03-06", 1)

	s.Equal(domain.ReservationConfirmed, first.Status)
	s.Equal("R-000001", first.ReservationNumber)
	s.Equal("R-000002", second.ReservationNumber)
	s.Len(first.Rooms, 2)
	s.assertMoney("6000", first.TotalAmount, "2 rooms x 3 nights x 1000")
	s.True(first.PaidAmount.IsZero())
}

func (s *StayServiceTestSuite) TestCreateReservation_Rejections() {
	cases := map[string]dto.CreateReservationRequest{
		"zero nights": {GuestID: "g", CheckInDate: "2024-03-01", CheckOutDate: "2024-03-01",
			Rooms: []dto.ReservationRoomRequest{{RoomTypeID: testRoomTypeID}}},
		"no rooms": {GuestID: "g", CheckInDate: "2024-03-01", CheckOutDate: "2024-03-02"},
		"unknown room type": {GuestID: "g", CheckInDate: "2024-03-01", CheckOutDate: "2024-03-02",
			Rooms: []dto.ReservationRoomRequest{{RoomTypeID: "rt-missing"}}},
		"bad date": {GuestID: "g", CheckInDate: "03/01/2024", CheckOutDate: "2024-03-02",
			Rooms: []dto.ReservationRoomRequest{{RoomTypeID: testRoomTypeID}}},
	}
	for name, req := range cases {
		_, err := s.svc.Stay.CreateReservation(s.ctx, testPropertyID, req, testActor)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (s *StayServiceTestSuite) TestCheckIn_OpensEmptyFolioAndOccupiesRoom() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)

	result := s.checkIn(reservation, "room-101")

	s.True(result.FolioOpened)
	s.Equal(domain.ReservationCheckedIn, result.Reservation.Status)
	s.NotNil(result.Reservation.ActualCheckIn)
	s.Equal(domain.FolioOpen, result.Folio.Status)
	s.Equal("F-000001", result.Folio.FolioNumber)
	for _, amount := range []decimal.Decimal{
		result.Folio.Subtotal, result.Folio.TaxAmount, result.Folio.ServiceCharge,
		result.Folio.TotalAmount, result.Folio.PaidAmount, result.Folio.Balance,
	} {
		s.assertMoney("0", amount)
	}
	s.Equal(domain.RoomOccupied, s.room("room-101").Status)

	stored := s.reservation(reservation.ReservationID)
	s.Require().NotNil(stored.Rooms[0].RoomID)
	s.Equal("room-101", *stored.Rooms[0].RoomID)
}

func (s *StayServiceTestSuite) TestCheckIn_UnavailableRoomRollsBackEverything() {
	reservation := s.book("2024-03-01", "2024-03-03", 2)
	_, err := s.svc.Stay.UpdateRoomStatus(s.ctx, testPropertyID, "room-102", domain.RoomMaintenance, testActor)
	s.Require().NoError(err)

	_, err = s.svc.Stay.CheckIn(s.ctx, testPropertyID, reservation.ReservationID,
		s.assignments(reservation, "room-101", "room-102"), testActor)

	s.ErrorIs(err, apperrors.ErrRoomUnavailable)
	var unavailable *apperrors.RoomUnavailableError
	s.Require().ErrorAs(err, &unavailable)
	s.Equal("room-102", unavailable.RoomID)

	s.Equal(domain.RoomVacant, s.room("room-101").Status, "first room must not stay occupied")
	s.Equal(domain.ReservationConfirmed, s.reservation(reservation.ReservationID).Status)
	_, err = s.svc.Folio.GetFolioByReservation(s.ctx, testPropertyID, reservation.ReservationID)
	s.ErrorIs(err, apperrors.ErrNotFound, "no folio may survive the rollback")
}

func (s *StayServiceTestSuite) TestCheckIn_RejectsDuplicateAssignments() {
	reservation := s.book("2024-03-01", "2024-03-03", 2)
	assignments := []domain.RoomAssignment{
		{ReservationRoomID: reservation.Rooms[0].ReservationRoomID, RoomID: "room-101"},
		{ReservationRoomID: reservation.Rooms[1].ReservationRoomID, RoomID: "room-101"},
	}

	_, err := s.svc.Stay.CheckIn(s.ctx, testPropertyID, reservation.ReservationID, assignments, testActor)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StayServiceTestSuite) TestCheckIn_RequiresEveryReservedRoom() {
	reservation := s.book("2024-03-01", "2024-03-03", 2)

	_, err := s.svc.Stay.CheckIn(s.ctx, testPropertyID, reservation.ReservationID,
		s.assignments(reservation, "room-101"), testActor)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(domain.ReservationConfirmed, s.reservation(reservation.ReservationID).Status)
	s.Equal(domain.RoomVacant, s.room("room-101").Status)

	result := s.checkIn(reservation, "room-101", "room-102")
	s.Len(result.Reservation.AssignedRoomIDs(), 2)
}

// Check-in to paid checkout: 1 room at 1000/night for 2 nights with 10% tax.
func (s *StayServiceTestSuite) TestScenario_CheckInToPaidCheckout() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)
	checkIn := s.checkIn(reservation, "room-101")
	folioID := checkIn.Folio.FolioID

	for _, d := range []int{1, 2} {
		posted, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(d), "auditor")
		s.Require().NoError(err)
		s.Equal(1, posted.ChargesPosted)
		s.assertMoney("1000", posted.TotalRevenue)
	}

	folio := s.folio(folioID)
	s.assertMoney("2000", folio.Subtotal)
	s.assertMoney("200", folio.TaxAmount)
	s.assertMoney("2200", folio.TotalAmount)
	s.assertMoney("2200", folio.Balance)

	payment := s.pay(folioID, "2200")
	s.assertMoney("0", payment.Folio.Balance)
	s.assertMoney("2200", s.reservation(reservation.ReservationID).PaidAmount)

	result, err := s.svc.Stay.CheckOut(s.ctx, testPropertyID, reservation.ReservationID, dto.CheckOutRequest{}, testActor)
	s.Require().NoError(err)
	s.True(result.FolioClosed)
	s.False(result.Forced)
	s.Equal(domain.ReservationCheckedOut, result.Reservation.Status)
	s.NotNil(result.Reservation.ActualCheckOut)
	s.Equal(domain.FolioClosed, s.folio(folioID).Status)
	s.Equal(domain.RoomDirty, s.room("room-101").Status)
}

func (s *StayServiceTestSuite) TestScenario_BlockedCheckout() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)
	folioID := s.checkIn(reservation, "room-101").Folio.FolioID
	for _, d := range []int{1, 2} {
		_, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(d), "auditor")
		s.Require().NoError(err)
	}

	payment := s.pay(folioID, "1000")
	s.assertMoney("1200", payment.Folio.Balance)

	_, err := s.svc.Stay.CheckOut(s.ctx, testPropertyID, reservation.ReservationID, dto.CheckOutRequest{}, testActor)
	s.ErrorIs(err, apperrors.ErrOutstandingBalance)
	var outstanding *apperrors.OutstandingBalanceError
	s.Require().ErrorAs(err, &outstanding)
	s.assertMoney("1200", outstanding.Balance)

	s.Equal(domain.ReservationCheckedIn, s.reservation(reservation.ReservationID).Status)
	s.Equal(domain.RoomOccupied, s.room("room-101").Status)
	s.Equal(domain.FolioOpen, s.folio(folioID).Status)
}

func (s *StayServiceTestSuite) TestForcedCheckout_LeavesFolioOpen() {
	reservation := s.book("2024-03-01", "2024-03-02", 1)
	folioID := s.checkIn(reservation, "room-101").Folio.FolioID
	_, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), "auditor")
	s.Require().NoError(err)

	_, err = s.svc.Stay.CheckOut(s.ctx, testPropertyID, reservation.ReservationID, dto.CheckOutRequest{Force: true}, "manager")
	s.ErrorIs(err, apperrors.ErrValidation, "override needs a reason")

	result, err := s.svc.Stay.CheckOut(s.ctx, testPropertyID, reservation.ReservationID,
		dto.CheckOutRequest{Force: true, OverrideReason: "guest left, card on file"}, "manager")
	s.Require().NoError(err)
	s.True(result.Forced)
	s.False(result.FolioClosed)

	folio := s.folio(folioID)
	s.Equal(domain.FolioOpen, folio.Status)
	s.assertMoney("1100", folio.Balance)
	s.Equal(domain.RoomDirty, s.room("room-101").Status)

	// The open folio still accepts the late settlement and can then be closed.
	s.pay(folioID, "1100")
	closed, err := s.svc.Folio.CloseFolio(s.ctx, testPropertyID, folioID, "manager")
	s.Require().NoError(err)
	s.Equal(domain.FolioClosed, closed.Status)
}

func (s *StayServiceTestSuite) TestCheckOut_WithoutFolioSucceeds() {
	reservation := s.book("2024-03-01", "2024-03-02", 1)
	s.checkIn(reservation, "room-101")

	result, err := s.svc.Stay.CheckOut(s.ctx, testPropertyID, reservation.ReservationID, dto.CheckOutRequest{}, testActor)
	s.Require().NoError(err)
	s.True(result.FolioClosed, "an untouched folio has a zero balance")
}

func (s *StayServiceTestSuite) TestStateMachineLegality() {
	confirmed := s.book("2024-03-01", "2024-03-02", 1)

	_, err := s.svc.Stay.CheckOut(s.ctx, testPropertyID, confirmed.ReservationID, dto.CheckOutRequest{}, testActor)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	var transition *apperrors.TransitionError
	s.Require().ErrorAs(err, &transition)
	s.Equal(string(domain.ReservationConfirmed), transition.From)

	checkedIn := s.book("2024-03-01", "2024-03-02", 1)
	s.checkIn(checkedIn, "room-102")
	_, err = s.svc.Stay.Cancel(s.ctx, testPropertyID, checkedIn.ReservationID, testActor)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	_, err = s.svc.Stay.MarkNoShow(s.ctx, testPropertyID, checkedIn.ReservationID, testActor)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	_, err = s.svc.Stay.CheckIn(s.ctx, testPropertyID, checkedIn.ReservationID,
		s.assignments(checkedIn, "room-103"), testActor)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.Equal(domain.ReservationCheckedIn, s.reservation(checkedIn.ReservationID).Status)
	s.Equal(domain.RoomVacant, s.room("room-103").Status)

	cancelled, err := s.svc.Stay.Cancel(s.ctx, testPropertyID, confirmed.ReservationID, testActor)
	s.Require().NoError(err)
	s.Equal(domain.ReservationCancelled, cancelled.Status)
	_, err = s.svc.Stay.CheckIn(s.ctx, testPropertyID, confirmed.ReservationID,
		s.assignments(confirmed, "room-101"), testActor)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.Equal(domain.RoomVacant, s.room("room-101").Status)
}

func (s *StayServiceTestSuite) TestMarkNoShow() {
	reservation := s.book("2024-03-01", "2024-03-02", 1)

	updated, err := s.svc.Stay.MarkNoShow(s.ctx, testPropertyID, reservation.ReservationID, testActor)
	s.Require().NoError(err)
	s.Equal(domain.ReservationNoShow, updated.Status)
}

func (s *StayServiceTestSuite) TestExtendStay_RecomputesTotal() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)
	s.checkIn(reservation, "room-101")

	extended, err := s.svc.Stay.ExtendStay(s.ctx, testPropertyID, reservation.ReservationID, s.day(5), testActor)
	s.Require().NoError(err)
	s.True(s.day(5).Equal(extended.CheckOutDate))
	s.assertMoney("4000", extended.TotalAmount)

	_, err = s.svc.Stay.ExtendStay(s.ctx, testPropertyID, reservation.ReservationID, s.day(1), testActor)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StayServiceTestSuite) TestUpdateRoomStatus() {
	room, err := s.svc.Stay.UpdateRoomStatus(s.ctx, testPropertyID, "room-101", domain.RoomDirty, "housekeeping")
	s.Require().NoError(err)
	s.Equal(domain.RoomDirty, room.Status)

	_, err = s.svc.Stay.UpdateRoomStatus(s.ctx, testPropertyID, "room-101", domain.RoomOccupied, "housekeeping")
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition, "occupancy only changes through check-in")

	_, err = s.svc.Stay.UpdateRoomStatus(s.ctx, "prop-other", "room-101", domain.RoomVacant, "housekeeping")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StayServiceTestSuite) TestGetReservation_ScopedToProperty() {
	reservation := s.book("2024-03-01", "2024-03-02", 1)

	_, err := s.svc.Stay.GetReservation(s.ctx, "prop-other", reservation.ReservationID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StayServiceTestSuite) TestAuthorizeTenant() {
	property, err := s.svc.Property.AuthorizeTenant(s.ctx, testTenantID, testPropertyID)
	s.Require().NoError(err)
	s.Equal(testPropertyID, property.PropertyID)

	_, err = s.svc.Property.AuthorizeTenant(s.ctx, "tenant-other", testPropertyID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
