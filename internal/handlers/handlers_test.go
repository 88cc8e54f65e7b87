package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/handlers"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testPropertyID = "prop-1"
	testTenantID   = "tenant-1"
	testUserID     = "frontdesk-1"
)

// --- Test Suite Setup ---
type PropertyHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	jwtSecret      string
	now            time.Time
	property       *domain.Property
	mockProperty   *MockPropertyService
	mockStay       *MockStayService
	mockFolio      *MockFolioService
	mockNightAudit *MockNightAuditService
	mockRecon      *MockReconciliationService
}

func TestPropertyHandlers(t *testing.T) {
	suite.Run(t, new(PropertyHandlerTestSuite))
}

func (suite *PropertyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	// 03:00 is before the 06:00 cutover, so the open business date is still March 1st.
	suite.now = time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)
	suite.property = &domain.Property{
		PropertyID:  testPropertyID,
		TenantID:    testTenantID,
		Name:        "Harbour View",
		Timezone:    "UTC",
		CutoverHour: 6,
	}

	suite.mockProperty = new(MockPropertyService)
	suite.mockStay = new(MockStayService)
	suite.mockFolio = new(MockFolioService)
	suite.mockNightAudit = new(MockNightAuditService)
	suite.mockRecon = new(MockReconciliationService)
	suite.mockProperty.On("AuthorizeTenant", mock.Anything, testTenantID, testPropertyID).Return(suite.property, nil).Maybe()

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterPropertyRoutes(v1, &portssvc.ServiceContainer{
		Property:       suite.mockProperty,
		Stay:           suite.mockStay,
		Folio:          suite.mockFolio,
		NightAudit:     suite.mockNightAudit,
		Reconciliation: suite.mockRecon,
	}, handlers.RouteOptions{
		DefaultCutoverHour: 6,
		Now:                func() time.Time { return suite.now },
	})
}

func (suite *PropertyHandlerTestSuite) generateTestToken(userID, tenantID string) string {
	claims := middleware.Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	return signed
}

// do sends an authenticated request as the front desk user of tenant-1.
func (suite *PropertyHandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return suite.doAs(testTenantID, method, path, body)
}

func (suite *PropertyHandlerTestSuite) doAs(tenantID, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, "/api/v1/properties/"+testPropertyID+path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID, tenantID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PropertyHandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func onDate(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

// --- Auth and property scope ---

func (suite *PropertyHandlerTestSuite) TestMissingToken_Returns401() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties/"+testPropertyID+"/rooms", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockProperty.AssertNotCalled(suite.T(), "AuthorizeTenant", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestOtherTenant_Returns404() {
	suite.mockProperty.On("AuthorizeTenant", mock.Anything, "tenant-2", testPropertyID).
		Return(nil, fmt.Errorf("property %s: %w", testPropertyID, apperrors.ErrNotFound)).Once()

	w := suite.doAs("tenant-2", http.MethodPost, "/night-audits/start", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockNightAudit.AssertNotCalled(suite.T(), "StartAudit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockProperty.AssertExpectations(suite.T())
}

// --- Reservations ---

func (suite *PropertyHandlerTestSuite) TestCheckIn_RoomUnavailableIs409() {
	assignments := []domain.RoomAssignment{{ReservationRoomID: "rr-1", RoomID: "room-102"}}
	suite.mockStay.On("CheckIn", mock.Anything, testPropertyID, "res-1", assignments, testUserID).
		Return(nil, &apperrors.RoomUnavailableError{RoomID: "room-102", Status: string(domain.RoomMaintenance)}).Once()

	w := suite.do(http.MethodPost, "/reservations/res-1/check-in", dto.CheckInRequest{Assignments: assignments})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorBody(w), "room-102")
	suite.mockStay.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestCheckIn_EmptyAssignmentsIs400() {
	w := suite.do(http.MethodPost, "/reservations/res-1/check-in", dto.CheckInRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockStay.AssertNotCalled(suite.T(), "CheckIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestCheckOut_OutstandingBalanceIs409() {
	suite.mockStay.On("CheckOut", mock.Anything, testPropertyID, "res-1", dto.CheckOutRequest{}, testUserID).
		Return(nil, &apperrors.OutstandingBalanceError{FolioID: "folio-1", Balance: decimal.NewFromInt(1200)}).Once()

	w := suite.do(http.MethodPost, "/reservations/res-1/check-out", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorBody(w), "1200.00")
	suite.mockStay.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestCheckOut_ForcedNeedsReason() {
	w := suite.do(http.MethodPost, "/reservations/res-1/check-out", map[string]any{"force": true})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockStay.AssertNotCalled(suite.T(), "CheckOut", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestCheckOut_Forced() {
	req := dto.CheckOutRequest{Force: true, OverrideReason: "guest left"}
	folio := &domain.Folio{FolioID: "folio-1", Status: domain.FolioOpen, Balance: decimal.NewFromInt(1200)}
	suite.mockStay.On("CheckOut", mock.Anything, testPropertyID, "res-1", req, testUserID).
		Return(&dto.CheckOutResult{
			Reservation: domain.Reservation{ReservationID: "res-1", Status: domain.ReservationCheckedOut},
			Folio:       folio,
			Forced:      true,
		}, nil).Once()

	w := suite.do(http.MethodPost, "/reservations/res-1/check-out", req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.CheckOutResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Forced)
	suite.False(body.FolioClosed)
	suite.Equal(domain.ReservationCheckedOut, body.Reservation.Status)
	suite.mockStay.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestCancel_IllegalTransitionIs409() {
	suite.mockStay.On("Cancel", mock.Anything, testPropertyID, "res-1", testUserID).
		Return(nil, &apperrors.TransitionError{Entity: "reservation", ID: "res-1", From: "checked_in", Attempted: "cancel"}).Once()

	w := suite.do(http.MethodPost, "/reservations/res-1/cancel", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockStay.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestGetReservation_StoreFailureIsHidden() {
	suite.mockStay.On("GetReservation", mock.Anything, testPropertyID, "res-1").
		Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")).Once()

	w := suite.do(http.MethodGet, "/reservations/res-1", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to retrieve reservation", suite.errorBody(w))
}

// --- Folios ---

func (suite *PropertyHandlerTestSuite) TestAddCharge_ClosedBusinessDateIs409() {
	suite.mockFolio.On("AddCharge", mock.Anything, testPropertyID, "folio-1",
		mock.MatchedBy(func(req dto.AddChargeRequest) bool {
			return req.ItemType == domain.ItemMinibar && req.UnitPrice.Equal(decimal.NewFromInt(50))
		}), testUserID).
		Return(nil, fmt.Errorf("%w: service date 2024-03-01", apperrors.ErrBusinessDateClosed)).Once()

	w := suite.do(http.MethodPost, "/folios/folio-1/charges", map[string]any{
		"itemType":    "minibar",
		"description": "Late snack",
		"unitPrice":   "50",
		"quantity":    "1",
		"serviceDate": "2024-03-01",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockFolio.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestRecordPayment_CreditLimitWarning() {
	accountID := "acct-1"
	suite.mockFolio.On("RecordPayment", mock.Anything, testPropertyID, "folio-1",
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(500)) && req.CorporateAccountID != nil && *req.CorporateAccountID == accountID
		}), testUserID).
		Return(&dto.PaymentResult{
			Payment: domain.Payment{PaymentID: "pay-1", FolioID: "folio-1", Amount: decimal.NewFromInt(500)},
			Folio:   domain.Folio{FolioID: "folio-1"},
			Warning: &apperrors.CreditLimitWarning{
				AccountID: accountID,
				Limit:     decimal.NewFromInt(5000),
				Balance:   decimal.NewFromInt(5300),
			},
		}, nil).Once()

	w := suite.do(http.MethodPost, "/folios/folio-1/payments", map[string]any{
		"amount":             "500",
		"method":             "bank_transfer",
		"corporateAccountID": accountID,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body struct {
		Payment domain.Payment       `json:"payment"`
		Warning *dto.WarningResponse `json:"warning"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("pay-1", body.Payment.PaymentID)
	suite.Require().NotNil(body.Warning)
	suite.Equal("credit_limit_exceeded", body.Warning.Code)
	suite.Contains(body.Warning.Message, "5300.00")
	suite.mockFolio.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestRecordPayment_ReplayIs200WithoutWarning() {
	suite.mockFolio.On("RecordPayment", mock.Anything, testPropertyID, "folio-1", mock.Anything, testUserID).
		Return(&dto.PaymentResult{
			Payment:  domain.Payment{PaymentID: "pay-1"},
			Replayed: true,
		}, nil).Once()

	w := suite.do(http.MethodPost, "/folios/folio-1/payments", map[string]any{
		"amount":         "100",
		"method":         "cash",
		"idempotencyKey": "till-3-0042",
	})

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(true, body["replayed"])
	suite.NotContains(body, "warning")
}

func (suite *PropertyHandlerTestSuite) TestRecordPayment_RejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-10"} {
		w := suite.do(http.MethodPost, "/folios/folio-1/payments", map[string]any{"amount": amount, "method": "cash"})
		suite.Equal(http.StatusBadRequest, w.Code, amount)
	}
	suite.mockFolio.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestCloseFolio_OutstandingBalanceIs409() {
	suite.mockFolio.On("CloseFolio", mock.Anything, testPropertyID, "folio-1", testUserID).
		Return(nil, &apperrors.OutstandingBalanceError{FolioID: "folio-1", Balance: decimal.NewFromInt(10)}).Once()

	w := suite.do(http.MethodPost, "/folios/folio-1/close", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PropertyHandlerTestSuite) TestCloseFolio_GuestInHouseIs409() {
	suite.mockFolio.On("CloseFolio", mock.Anything, testPropertyID, "folio-1", testUserID).
		Return(nil, &apperrors.TransitionError{Entity: "folio", ID: "folio-1", From: "reservation checked_in", Attempted: "close"}).Once()

	w := suite.do(http.MethodPost, "/folios/folio-1/close", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorBody(w), "cannot close")
}

func (suite *PropertyHandlerTestSuite) TestReconcileProperty() {
	suite.mockRecon.On("ReconcileProperty", mock.Anything, testPropertyID).
		Return(&dto.ReconciliationReport{PropertyID: testPropertyID, FoliosChecked: 4, Drifted: []domain.FolioReconciliation{}}, nil).Once()

	w := suite.do(http.MethodGet, "/reconcile", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ReconciliationReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(4, body.FoliosChecked)
	suite.Empty(body.Drifted)
}

// --- Night audit ---

func (suite *PropertyHandlerTestSuite) TestStartAudit_ResolvesOpenBusinessDate() {
	march1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.mockNightAudit.On("StartAudit", mock.Anything, testPropertyID, onDate(march1), testUserID).
		Return(&dto.StartAuditResult{
			Audit: domain.NightAudit{BusinessDate: march1, Status: domain.AuditInProgress},
		}, nil).Once()

	w := suite.do(http.MethodPost, "/night-audits/start", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockNightAudit.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestPostRoomCharges_ExplicitDate() {
	feb28 := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	suite.mockNightAudit.On("PostRoomCharges", mock.Anything, testPropertyID, onDate(feb28), testUserID).
		Return(&domain.PostingResult{BusinessDate: feb28, ChargesPosted: 0, ChargesSkipped: 12, TotalRevenue: decimal.Zero}, nil).Once()

	w := suite.do(http.MethodPost, "/night-audits/post-room-charges", dto.AuditDateRequest{BusinessDate: "2024-02-28"})

	suite.Equal(http.StatusOK, w.Code)
	var body domain.PostingResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(12, body.ChargesSkipped)
	suite.mockNightAudit.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestCompleteAudit_NotStartedIs409() {
	suite.mockNightAudit.On("CompleteAudit", mock.Anything, testPropertyID, mock.Anything, testUserID, (*string)(nil)).
		Return(nil, &apperrors.TransitionError{Entity: "night audit", ID: "2024-03-01", From: "pending", Attempted: "complete"}).Once()

	w := suite.do(http.MethodPost, "/night-audits/complete", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockNightAudit.AssertExpectations(suite.T())
}

func (suite *PropertyHandlerTestSuite) TestStartAudit_AlreadyCompletedIs409() {
	suite.mockNightAudit.On("StartAudit", mock.Anything, testPropertyID, mock.Anything, testUserID).
		Return(nil, &apperrors.AlreadyCompletedError{PropertyID: testPropertyID, BusinessDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}).Once()

	w := suite.do(http.MethodPost, "/night-audits/start", dto.AuditDateRequest{BusinessDate: "2024-03-01"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PropertyHandlerTestSuite) TestFailAudit_RequiresReason() {
	w := suite.do(http.MethodPost, "/night-audits/fail", map[string]any{"businessDate": "2024-03-01"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockNightAudit.AssertNotCalled(suite.T(), "FailAudit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestGetAudit_BadDateIs400() {
	w := suite.do(http.MethodGet, "/night-audits/03-01-2024", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid business date, expected YYYY-MM-DD", suite.errorBody(w))
}

func (suite *PropertyHandlerTestSuite) TestGetAudit_NotFound() {
	suite.mockNightAudit.On("GetAudit", mock.Anything, testPropertyID, onDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))).
		Return(nil, fmt.Errorf("night audit: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/night-audits/2024-03-01", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PropertyHandlerTestSuite) TestStatistics_BadQueryDateIs400() {
	w := suite.do(http.MethodGet, "/night-audits/statistics?businessDate=2024-13-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockNightAudit.AssertNotCalled(suite.T(), "ComputeStatistics", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyHandlerTestSuite) TestChecklist_ResolvesOpenBusinessDate() {
	march1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.mockNightAudit.On("PreAuditChecklist", mock.Anything, testPropertyID, onDate(march1)).
		Return(&domain.PreAuditChecklist{BusinessDate: march1, PendingArrivals: 2, HasPendingArrivals: true}, nil).Once()

	w := suite.do(http.MethodGet, "/night-audits/checklist", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.PreAuditChecklist
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.HasPendingArrivals)
	suite.Equal(2, body.PendingArrivals)
}
