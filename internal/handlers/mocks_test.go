package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock PropertyService ---
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyService) AuthorizeTenant(ctx context.Context, tenantID, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, tenantID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

var _ portssvc.PropertySvcFacade = (*MockPropertyService)(nil)

// --- Mock StayService ---
type MockStayService struct {
	mock.Mock
}

func (m *MockStayService) reservation(args mock.Arguments) (*domain.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockStayService) GetReservation(ctx context.Context, propertyID, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, propertyID, reservationID))
}

func (m *MockStayService) ListRooms(ctx context.Context, propertyID string) ([]domain.Room, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockStayService) CreateReservation(ctx context.Context, propertyID string, req dto.CreateReservationRequest, actor string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, propertyID, req, actor))
}

func (m *MockStayService) CheckIn(ctx context.Context, propertyID, reservationID string, assignments []domain.RoomAssignment, actor string) (*dto.CheckInResult, error) {
	args := m.Called(ctx, propertyID, reservationID, assignments, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CheckInResult), args.Error(1)
}

func (m *MockStayService) CheckOut(ctx context.Context, propertyID, reservationID string, req dto.CheckOutRequest, actor string) (*dto.CheckOutResult, error) {
	args := m.Called(ctx, propertyID, reservationID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CheckOutResult), args.Error(1)
}

func (m *MockStayService) Cancel(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, propertyID, reservationID, actor))
}

func (m *MockStayService) MarkNoShow(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, propertyID, reservationID, actor))
}

func (m *MockStayService) ExtendStay(ctx context.Context, propertyID, reservationID string, newCheckOut time.Time, actor string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, propertyID, reservationID, newCheckOut, actor))
}

func (m *MockStayService) UpdateRoomStatus(ctx context.Context, propertyID, roomID string, status domain.RoomStatus, actor string) (*domain.Room, error) {
	args := m.Called(ctx, propertyID, roomID, status, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

var _ portssvc.StaySvcFacade = (*MockStayService)(nil)

// --- Mock FolioService ---
type MockFolioService struct {
	mock.Mock
}

func (m *MockFolioService) folio(args mock.Arguments) (*domain.Folio, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioService) GetFolio(ctx context.Context, propertyID, folioID string) (*domain.Folio, error) {
	return m.folio(m.Called(ctx, propertyID, folioID))
}

func (m *MockFolioService) GetFolioByReservation(ctx context.Context, propertyID, reservationID string) (*domain.Folio, error) {
	return m.folio(m.Called(ctx, propertyID, reservationID))
}

func (m *MockFolioService) ListFolioItems(ctx context.Context, propertyID, folioID string, params dto.ListParams) (*dto.ListFolioItemsResponse, error) {
	args := m.Called(ctx, propertyID, folioID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListFolioItemsResponse), args.Error(1)
}

func (m *MockFolioService) ListPayments(ctx context.Context, propertyID, folioID string) ([]domain.Payment, error) {
	args := m.Called(ctx, propertyID, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockFolioService) OpenReservationFolio(ctx context.Context, reservation *domain.Reservation, actor string) (*domain.Folio, bool, error) {
	args := m.Called(ctx, reservation, actor)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Folio), args.Bool(1), args.Error(2)
}

func (m *MockFolioService) AddCharge(ctx context.Context, propertyID, folioID string, req dto.AddChargeRequest, actor string) (*dto.FolioItemResult, error) {
	args := m.Called(ctx, propertyID, folioID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FolioItemResult), args.Error(1)
}

func (m *MockFolioService) VoidItem(ctx context.Context, propertyID, folioID, itemID, reason, actor string) (*domain.Folio, error) {
	return m.folio(m.Called(ctx, propertyID, folioID, itemID, reason, actor))
}

func (m *MockFolioService) RecordPayment(ctx context.Context, propertyID, folioID string, req dto.RecordPaymentRequest, actor string) (*dto.PaymentResult, error) {
	args := m.Called(ctx, propertyID, folioID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentResult), args.Error(1)
}

func (m *MockFolioService) VoidPayment(ctx context.Context, propertyID, folioID, paymentID, reason, actor string) (*domain.Folio, error) {
	return m.folio(m.Called(ctx, propertyID, folioID, paymentID, reason, actor))
}

func (m *MockFolioService) CloseFolio(ctx context.Context, propertyID, folioID, actor string) (*domain.Folio, error) {
	return m.folio(m.Called(ctx, propertyID, folioID, actor))
}

func (m *MockFolioService) CreateCorporateAccount(ctx context.Context, propertyID string, req dto.CreateCorporateAccountRequest, actor string) (*domain.CorporateAccount, error) {
	args := m.Called(ctx, propertyID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorporateAccount), args.Error(1)
}

func (m *MockFolioService) GetCorporateAccount(ctx context.Context, propertyID, accountID string) (*domain.CorporateAccount, error) {
	args := m.Called(ctx, propertyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorporateAccount), args.Error(1)
}

var _ portssvc.FolioSvcFacade = (*MockFolioService)(nil)

// --- Mock NightAuditService ---
type MockNightAuditService struct {
	mock.Mock
}

func (m *MockNightAuditService) audit(args mock.Arguments) (*domain.NightAudit, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NightAudit), args.Error(1)
}

func (m *MockNightAuditService) StartAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*dto.StartAuditResult, error) {
	args := m.Called(ctx, propertyID, businessDate, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StartAuditResult), args.Error(1)
}

func (m *MockNightAuditService) PostRoomCharges(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*domain.PostingResult, error) {
	args := m.Called(ctx, propertyID, businessDate, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

func (m *MockNightAuditService) CompleteAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string, notes *string) (*domain.NightAudit, error) {
	return m.audit(m.Called(ctx, propertyID, businessDate, actor, notes))
}

func (m *MockNightAuditService) FailAudit(ctx context.Context, propertyID string, businessDate time.Time, actor, reason string) (*domain.NightAudit, error) {
	return m.audit(m.Called(ctx, propertyID, businessDate, actor, reason))
}

func (m *MockNightAuditService) PreAuditChecklist(ctx context.Context, propertyID string, businessDate time.Time) (*domain.PreAuditChecklist, error) {
	args := m.Called(ctx, propertyID, businessDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreAuditChecklist), args.Error(1)
}

func (m *MockNightAuditService) ComputeStatistics(ctx context.Context, propertyID string, businessDate time.Time) (*domain.AuditStatistics, error) {
	args := m.Called(ctx, propertyID, businessDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditStatistics), args.Error(1)
}

func (m *MockNightAuditService) GetAudit(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	return m.audit(m.Called(ctx, propertyID, businessDate))
}

func (m *MockNightAuditService) ListAudits(ctx context.Context, propertyID string, params dto.ListParams) (*dto.ListAuditsResponse, error) {
	args := m.Called(ctx, propertyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAuditsResponse), args.Error(1)
}

var _ portssvc.NightAuditSvcFacade = (*MockNightAuditService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileFolio(ctx context.Context, propertyID, folioID string) (*domain.FolioReconciliation, error) {
	args := m.Called(ctx, propertyID, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioReconciliation), args.Error(1)
}

func (m *MockReconciliationService) ReconcileProperty(ctx context.Context, propertyID string) (*dto.ReconciliationReport, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationReport), args.Error(1)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)
