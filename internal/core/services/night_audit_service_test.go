package services_test

import (
	"testing"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const auditor = "night-auditor"

type NightAuditServiceTestSuite struct {
	hotelSuite
}

func TestNightAuditService(t *testing.T) {
	suite.Run(t, new(NightAuditServiceTestSuite))
}

func (s *NightAuditServiceTestSuite) TestPostRoomCharges_IsIdempotent() {
	reservation := s.book("2024-03-01", "2024-03-03", 2)
	folioID := s.checkIn(reservation, "room-101", "room-102").Folio.FolioID

	first, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	s.Equal(2, first.ChargesPosted)
	s.Equal(0, first.ChargesSkipped)
	s.Empty(first.Failures)
	s.assertMoney("2000", first.TotalRevenue)
	statsBefore, err := s.svc.NightAudit.ComputeStatistics(s.ctx, testPropertyID, s.day(1))
	s.Require().NoError(err)

	second, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	s.Equal(0, second.ChargesPosted)
	s.Equal(2, second.ChargesSkipped)
	s.assertMoney("0", second.TotalRevenue)

	statsAfter, err := s.svc.NightAudit.ComputeStatistics(s.ctx, testPropertyID, s.day(1))
	s.Require().NoError(err)
	s.Equal(statsBefore.RoomsCharged, statsAfter.RoomsCharged)
	s.True(statsBefore.RoomRevenue.Equal(statsAfter.RoomRevenue))

	folio := s.folio(folioID)
	s.assertMoney("2000", folio.Subtotal)
	s.assertMoney("200", folio.TaxAmount)
	s.assertMoney("2200", folio.Balance)
}

func (s *NightAuditServiceTestSuite) TestPostRoomCharges_VoidedChargeCanBeReposted() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)
	folioID := s.checkIn(reservation, "room-101").Folio.FolioID
	_, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)

	page, err := s.svc.Folio.ListFolioItems(s.ctx, testPropertyID, folioID, dto.ListParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal(domain.ItemRoomCharge, page.Items[0].ItemType)
	_, err = s.svc.Folio.VoidItem(s.ctx, testPropertyID, folioID, page.Items[0].ItemID, "wrong rate", "manager")
	s.Require().NoError(err)

	again, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	s.Equal(1, again.ChargesPosted)
	s.assertMoney("1100", s.folio(folioID).Balance)
}

func (s *NightAuditServiceTestSuite) TestPostRoomCharges_OneFailureDoesNotStopTheRun() {
	broken := s.book("2024-03-01", "2024-03-03", 1)
	brokenFolio := s.checkIn(broken, "room-101").Folio.FolioID
	// Closed behind the ledger's back, e.g. by a manual database fix.
	s.Require().NoError(s.store.CloseFolio(s.ctx, brokenFolio, "dba", s.now))

	healthy := s.book("2024-03-01", "2024-03-03", 1)
	healthyFolio := s.checkIn(healthy, "room-102").Folio.FolioID

	result, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	s.Equal(1, result.ChargesPosted)
	s.Require().Len(result.Failures, 1)
	s.Equal(broken.ReservationID, result.Failures[0].ReservationID)
	s.assertMoney("1100", s.folio(healthyFolio).Balance)
	s.assertMoney("0", s.folio(brokenFolio).Balance)
}

func (s *NightAuditServiceTestSuite) TestComputeStatistics() {
	reservation := s.book("2024-03-01", "2024-03-03", 2)
	folioID := s.checkIn(reservation, "room-101", "room-102").Folio.FolioID
	_, err := s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	_, err = s.svc.Folio.AddCharge(s.ctx, testPropertyID, folioID, dto.AddChargeRequest{
		ItemType: domain.ItemFoodBeverage, Description: "Dinner", UnitPrice: s.money("300"),
		Quantity: decimal.NewFromInt(1), TaxAmount: s.money("30"), ServiceDate: "2024-03-01",
	}, testActor)
	s.Require().NoError(err)
	_, err = s.svc.Folio.AddCharge(s.ctx, testPropertyID, folioID, dto.AddChargeRequest{
		ItemType: domain.ItemLaundry, Description: "Shirts", UnitPrice: s.money("80"),
		Quantity: decimal.NewFromInt(1), ServiceDate: "2024-03-01",
	}, testActor)
	s.Require().NoError(err)
	s.pay(folioID, "1000")

	stats, err := s.svc.NightAudit.ComputeStatistics(s.ctx, testPropertyID, s.day(1))
	s.Require().NoError(err)

	s.Equal(3, stats.TotalRooms)
	s.Equal(2, stats.OccupiedRooms)
	s.Equal(1, stats.VacantRooms)
	s.Equal(1, stats.Arrivals)
	s.Equal(2, stats.RoomsCharged)
	s.assertMoney("2000", stats.RoomRevenue)
	s.assertMoney("300", stats.FBRevenue)
	s.assertMoney("80", stats.OtherRevenue)
	s.assertMoney("230", stats.TaxCollected)
	s.assertMoney("1000", stats.TotalPayments)
	s.Equal("0.6667", stats.OccupancyRate.String())
	s.assertMoney("1000", stats.ADR)
	s.assertMoney("666.67", stats.RevPAR)
}

func (s *NightAuditServiceTestSuite) TestComputeStatistics_EmptyHotel() {
	stats, err := s.svc.NightAudit.ComputeStatistics(s.ctx, testPropertyID, s.day(1))
	s.Require().NoError(err)
	s.Equal(3, stats.TotalRooms)
	s.True(stats.OccupancyRate.IsZero())
	s.True(stats.ADR.IsZero())
	s.True(stats.RevPAR.IsZero())
}

func (s *NightAuditServiceTestSuite) TestFullAudit_ClosesTheBusinessDate() {
	reservation := s.book("2024-03-01", "2024-03-03", 1)
	folioID := s.checkIn(reservation, "room-101").Folio.FolioID

	started, err := s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)
	s.Equal(domain.AuditInProgress, started.Audit.Status)
	s.Equal(auditor, started.Audit.RunBy)

	_, err = s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)

	notes := "quiet night"
	audit, err := s.svc.NightAudit.CompleteAudit(s.ctx, testPropertyID, s.day(1), auditor, &notes)
	s.Require().NoError(err)
	s.Equal(domain.AuditCompleted, audit.Status)
	s.NotNil(audit.CompletedAt)
	s.Equal(1, audit.RoomsCharged)
	s.assertMoney("1000", audit.TotalRoomRevenue)
	s.NotEmpty(audit.Report)
	s.Require().NotNil(audit.Notes)
	s.Equal(notes, *audit.Notes)

	stored, err := s.svc.NightAudit.GetAudit(s.ctx, testPropertyID, s.day(1))
	s.Require().NoError(err)
	s.Equal(domain.AuditCompleted, stored.Status)

	// Late charge for the audited date.
	_, err = s.svc.Folio.AddCharge(s.ctx, testPropertyID, folioID, dto.AddChargeRequest{
		ItemType: domain.ItemMinibar, Description: "Late snack", UnitPrice: s.money("50"),
		Quantity: decimal.NewFromInt(1), ServiceDate: "2024-03-01",
	}, testActor)
	s.ErrorIs(err, apperrors.ErrBusinessDateClosed)

	// The next business date is still open.
	_, err = s.svc.Folio.AddCharge(s.ctx, testPropertyID, folioID, dto.AddChargeRequest{
		ItemType: domain.ItemMinibar, Description: "Breakfast snack", UnitPrice: s.money("50"),
		Quantity: decimal.NewFromInt(1), ServiceDate: "2024-03-02",
	}, testActor)
	s.Require().NoError(err)

	_, err = s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(1), auditor)
	s.ErrorIs(err, apperrors.ErrAlreadyCompleted)
	_, err = s.svc.NightAudit.PostRoomCharges(s.ctx, testPropertyID, s.day(1), auditor)
	s.ErrorIs(err, apperrors.ErrAlreadyCompleted)
	_, err = s.svc.NightAudit.CompleteAudit(s.ctx, testPropertyID, s.day(1), auditor, nil)
	s.ErrorIs(err, apperrors.ErrAlreadyCompleted)
	_, err = s.svc.NightAudit.FailAudit(s.ctx, testPropertyID, s.day(1), auditor, "oops")
	s.ErrorIs(err, apperrors.ErrAlreadyCompleted)
}

func (s *NightAuditServiceTestSuite) TestCompleteAudit_RequiresStart() {
	_, err := s.svc.NightAudit.CompleteAudit(s.ctx, testPropertyID, s.day(1), auditor, nil)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	_, err = s.svc.NightAudit.GetAudit(s.ctx, testPropertyID, s.day(1))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *NightAuditServiceTestSuite) TestFailAndRestart() {
	_, err := s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err)

	_, err = s.svc.NightAudit.FailAudit(s.ctx, testPropertyID, s.day(1), auditor, "  ")
	s.ErrorIs(err, apperrors.ErrValidation)

	failed, err := s.svc.NightAudit.FailAudit(s.ctx, testPropertyID, s.day(1), auditor, "power cut")
	s.Require().NoError(err)
	s.Equal(domain.AuditFailed, failed.Status)
	s.Require().NotNil(failed.FailureReason)
	s.Equal("power cut", *failed.FailureReason)

	_, err = s.svc.NightAudit.CompleteAudit(s.ctx, testPropertyID, s.day(1), auditor, nil)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition, "a failed audit must be restarted first")

	restarted, err := s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(1), "second-auditor")
	s.Require().NoError(err)
	s.Equal(domain.AuditInProgress, restarted.Audit.Status)
	s.Nil(restarted.Audit.FailureReason)
	s.Equal("second-auditor", restarted.Audit.RunBy)

	completed, err := s.svc.NightAudit.CompleteAudit(s.ctx, testPropertyID, s.day(1), "second-auditor", nil)
	s.Require().NoError(err)
	s.Equal(domain.AuditCompleted, completed.Status)
}

func (s *NightAuditServiceTestSuite) TestStartAudit_ReportsChecklist() {
	s.book("2024-03-01", "2024-03-02", 1)
	s.store.AddPOSOrder(memory.POSOrder{OrderID: "pos-1", PropertyID: testPropertyID, BusinessDate: "2024-03-01"})
	s.store.AddPOSOrder(memory.POSOrder{OrderID: "pos-2", PropertyID: testPropertyID, BusinessDate: "2024-03-01", Posted: true})
	s.store.AddHousekeepingTask(memory.HousekeepingTask{TaskID: "hk-1", PropertyID: testPropertyID})

	started, err := s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(1), auditor)
	s.Require().NoError(err, "the checklist never blocks the audit")

	checklist := started.Checklist
	s.Equal(1, checklist.PendingArrivals)
	s.Equal(1, checklist.UnpostedPOSOrders)
	s.Equal(1, checklist.IncompleteHousekeeping)
	s.True(checklist.HasPendingArrivals)
	s.True(checklist.HasUnpostedPOSOrders)
	s.True(checklist.HasIncompleteHousekeeping)

	clean, err := s.svc.NightAudit.PreAuditChecklist(s.ctx, testPropertyID, s.day(2))
	s.Require().NoError(err)
	s.False(clean.HasPendingArrivals)
	s.False(clean.HasUnpostedPOSOrders)
}

func (s *NightAuditServiceTestSuite) TestListAudits_NewestFirst() {
	for _, d := range []int{1, 2, 3} {
		_, err := s.svc.NightAudit.StartAudit(s.ctx, testPropertyID, s.day(d), auditor)
		s.Require().NoError(err)
	}

	page, err := s.svc.NightAudit.ListAudits(s.ctx, testPropertyID, dto.ListParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Audits, 2)
	s.True(s.day(3).Equal(page.Audits[0].BusinessDate))
	s.True(s.day(2).Equal(page.Audits[1].BusinessDate))
	s.Require().NotNil(page.NextToken)

	rest, err := s.svc.NightAudit.ListAudits(s.ctx, testPropertyID, dto.ListParams{Limit: 2, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Require().Len(rest.Audits, 1)
	s.True(s.day(1).Equal(rest.Audits[0].BusinessDate))
}
