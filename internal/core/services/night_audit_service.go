package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nightAuditService closes business dates: it posts nightly room charges through
// the folio ledger and snapshots the day's statistics.
type nightAuditService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	propertyRepo    portsrepo.PropertyRepositoryFacade
	roomRepo        portsrepo.RoomRepositoryFacade
	reservationRepo portsrepo.ReservationRepositoryFacade
	folioRepo       portsrepo.FolioRepositoryFacade
	paymentRepo     portsrepo.PaymentRepositoryFacade
	auditRepo       portsrepo.NightAuditRepositoryFacade
	operationsRepo  portsrepo.OperationsReader
	folios          portssvc.FolioLedgerSvc
}

// NewNightAuditService creates the night audit orchestrator.
func NewNightAuditService(repos portsrepo.RepositoryProvider, folios portssvc.FolioLedgerSvc, opts ...ServiceOption) portssvc.NightAuditSvcFacade {
	return &nightAuditService{
		BaseService:     newBaseService(opts...),
		txManager:       repos.TxManager,
		propertyRepo:    repos.PropertyRepo,
		roomRepo:        repos.RoomRepo,
		reservationRepo: repos.ReservationRepo,
		folioRepo:       repos.FolioRepo,
		paymentRepo:     repos.PaymentRepo,
		auditRepo:       repos.NightAuditRepo,
		operationsRepo:  repos.OperationsRepo,
		folios:          folios,
	}
}

var _ portssvc.NightAuditSvcFacade = (*nightAuditService)(nil)

// auditReport is the JSON snapshot stored on a completed audit.
type auditReport struct {
	Statistics domain.AuditStatistics   `json:"statistics"`
	Checklist  domain.PreAuditChecklist `json:"checklist"`
}

func auditTransitionError(businessDate time.Time, from domain.AuditStatus, attempted string) error {
	return &apperrors.TransitionError{
		Entity:    "night audit",
		ID:        businessDate.Format(domain.DateLayout),
		From:      string(from),
		Attempted: attempted,
	}
}

func (s *nightAuditService) StartAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*dto.StartAuditResult, error) {
	businessDate = domain.NormalizeDate(businessDate)
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	var audit domain.NightAudit
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		now := s.Now()
		existing, err := s.auditRepo.FindNightAuditForUpdate(txCtx, propertyID, businessDate)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			audit = domain.NightAudit{
				NightAuditID:      uuid.NewString(),
				PropertyID:        propertyID,
				BusinessDate:      businessDate,
				Status:            domain.AuditInProgress,
				StartedAt:         &now,
				RunBy:             actor,
				TotalRoomRevenue:  decimal.Zero,
				TotalFBRevenue:    decimal.Zero,
				TotalOtherRevenue: decimal.Zero,
				TotalPayments:     decimal.Zero,
				OccupancyRate:     decimal.Zero,
				ADR:               decimal.Zero,
				RevPAR:            decimal.Zero,
				AuditFields:       domain.NewAuditFields(actor, now),
			}
			return s.auditRepo.SaveNightAudit(txCtx, audit)
		case err != nil:
			return fmt.Errorf("failed to lock night audit: %w", err)
		}

		if existing.Status == domain.AuditCompleted {
			return &apperrors.AlreadyCompletedError{PropertyID: propertyID, BusinessDate: businessDate}
		}
		// pending, failed and in_progress audits may all be (re)started.
		existing.Status = domain.AuditInProgress
		existing.StartedAt = &now
		existing.RunBy = actor
		existing.FailureReason = nil
		existing.Touch(actor, now)
		audit = *existing
		return s.auditRepo.UpdateNightAudit(txCtx, audit)
	})
	if err != nil {
		s.logAuditRejection(ctx, err, "Night audit start rejected", propertyID, businessDate)
		return nil, err
	}

	checklist, err := s.PreAuditChecklist(ctx, propertyID, businessDate)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Night audit started",
		slog.String("property_id", propertyID),
		slog.String("business_date", businessDate.Format(domain.DateLayout)),
		slog.Bool("pending_arrivals", checklist.HasPendingArrivals),
		slog.Bool("unposted_pos_orders", checklist.HasUnpostedPOSOrders),
		slog.Bool("incomplete_housekeeping", checklist.HasIncompleteHousekeeping))
	return &dto.StartAuditResult{Audit: audit, Checklist: *checklist}, nil
}

func (s *nightAuditService) PreAuditChecklist(ctx context.Context, propertyID string, businessDate time.Time) (*domain.PreAuditChecklist, error) {
	businessDate = domain.NormalizeDate(businessDate)
	counts, err := s.reservationRepo.CountReservationsForDay(ctx, propertyID, businessDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count arrivals: %w", err)
	}
	posOrders, err := s.operationsRepo.CountUnpostedPOSOrders(ctx, propertyID, businessDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count unposted POS orders: %w", err)
	}
	tasks, err := s.operationsRepo.CountIncompleteHousekeepingTasks(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count housekeeping tasks: %w", err)
	}
	return &domain.PreAuditChecklist{
		BusinessDate:              businessDate,
		PendingArrivals:           counts.PendingArrivals,
		UnpostedPOSOrders:         posOrders,
		IncompleteHousekeeping:    tasks,
		HasPendingArrivals:        counts.PendingArrivals > 0,
		HasUnpostedPOSOrders:      posOrders > 0,
		HasIncompleteHousekeeping: tasks > 0,
	}, nil
}

// ensureNotCompleted fails with AlreadyCompleted when the date is closed.
func (s *nightAuditService) ensureNotCompleted(ctx context.Context, propertyID string, businessDate time.Time) error {
	audit, err := s.auditRepo.FindNightAudit(ctx, propertyID, businessDate)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load night audit: %w", err)
	}
	if audit.Status == domain.AuditCompleted {
		return &apperrors.AlreadyCompletedError{PropertyID: propertyID, BusinessDate: businessDate}
	}
	return nil
}

func (s *nightAuditService) PostRoomCharges(ctx context.Context, propertyID string, businessDate time.Time, actor string) (*domain.PostingResult, error) {
	businessDate = domain.NormalizeDate(businessDate)
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}
	if err := s.ensureNotCompleted(ctx, propertyID, businessDate); err != nil {
		s.logAuditRejection(ctx, err, "Room charge posting rejected", propertyID, businessDate)
		return nil, err
	}

	reservations, err := s.reservationRepo.ListReservationsByStatus(ctx, propertyID, domain.ReservationCheckedIn)
	if err != nil {
		s.LogError(ctx, err, "Failed to list in-house reservations", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to list in-house reservations: %w", err)
	}

	result := &domain.PostingResult{
		BusinessDate: businessDate,
		TotalRevenue: decimal.Zero,
		Failures:     []domain.PostingFailure{},
	}
	for i := range reservations {
		posted, skipped, revenue, err := s.postReservation(ctx, property, &reservations[i], businessDate, actor)
		if err != nil {
			// One reservation's failure never aborts the run; re-running is safe.
			s.LogError(ctx, err, "Failed to post room charges for reservation",
				slog.String("reservation_id", reservations[i].ReservationID),
				slog.String("business_date", businessDate.Format(domain.DateLayout)))
			result.Failures = append(result.Failures, domain.PostingFailure{
				ReservationID: reservations[i].ReservationID,
				Error:         err.Error(),
			})
			continue
		}
		result.ChargesPosted += posted
		result.ChargesSkipped += skipped
		result.TotalRevenue = result.TotalRevenue.Add(revenue)
	}

	s.LogInfo(ctx, "Room charges posted",
		slog.String("property_id", propertyID),
		slog.String("business_date", businessDate.Format(domain.DateLayout)),
		slog.Int("posted", result.ChargesPosted),
		slog.Int("skipped", result.ChargesSkipped),
		slog.Int("failed", len(result.Failures)),
		slog.String("total_revenue", result.TotalRevenue.StringFixed(2)))
	return result, nil
}

// postReservation posts one night for every assigned room of the reservation in a
// single transaction. Rooms already charged for the date are skipped.
func (s *nightAuditService) postReservation(ctx context.Context, property *domain.Property, reservation *domain.Reservation, businessDate time.Time, actor string) (int, int, decimal.Decimal, error) {
	var (
		posted, skipped int
		revenue         = decimal.Zero
	)
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, _, err := s.folios.OpenReservationFolio(txCtx, reservation, actor)
		if err != nil {
			return err
		}
		for _, rr := range reservation.Rooms {
			if rr.RoomID == nil {
				continue
			}
			base, tax, service := domain.RoomChargeAmounts(rr.Rate, property.TaxRate, property.ServiceChargeRate)
			referenceID := rr.ReservationRoomID
			_, err := s.folios.AddCharge(txCtx, property.PropertyID, folio.FolioID, dto.AddChargeRequest{
				ItemType:      domain.ItemRoomCharge,
				Description:   fmt.Sprintf("Room charge %s", businessDate.Format(domain.DateLayout)),
				UnitPrice:     base,
				Quantity:      decimal.NewFromInt(1),
				TaxAmount:     tax,
				ServiceCharge: service,
				ServiceDate:   businessDate.Format(domain.DateLayout),
				ReferenceID:   &referenceID,
			}, actor)
			if errors.Is(err, apperrors.ErrDuplicate) {
				skipped++
				continue
			}
			if err != nil {
				return fmt.Errorf("reservation room %s: %w", rr.ReservationRoomID, err)
			}
			posted++
			revenue = revenue.Add(base)
		}
		return nil
	})
	if err != nil {
		return 0, 0, decimal.Zero, err
	}
	return posted, skipped, revenue, nil
}

func (s *nightAuditService) ComputeStatistics(ctx context.Context, propertyID string, businessDate time.Time) (*domain.AuditStatistics, error) {
	businessDate = domain.NormalizeDate(businessDate)
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	stats := domain.AuditStatistics{
		BusinessDate:  businessDate,
		RoomRevenue:   decimal.Zero,
		FBRevenue:     decimal.Zero,
		OtherRevenue:  decimal.Zero,
		TaxCollected:  decimal.Zero,
		TotalPayments: decimal.Zero,
	}

	byStatus, err := s.roomRepo.CountRoomsByStatus(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	for _, n := range byStatus {
		stats.TotalRooms += n
	}
	stats.OccupiedRooms = byStatus[domain.RoomOccupied]
	stats.VacantRooms = byStatus[domain.RoomVacant]

	counts, err := s.reservationRepo.CountReservationsForDay(ctx, propertyID, businessDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	stats.Arrivals = counts.Arrivals
	stats.Departures = counts.Departures
	stats.NoShows = counts.NoShows

	totals, err := s.folioRepo.SumItemsByType(ctx, propertyID, businessDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted revenue: %w", err)
	}
	for _, t := range totals {
		stats.TaxCollected = stats.TaxCollected.Add(t.Tax)
		switch domain.RevenueBucket(t.ItemType) {
		case "room":
			stats.RoomRevenue = stats.RoomRevenue.Add(t.Total)
			stats.RoomsCharged += t.Count
		case "fb":
			stats.FBRevenue = stats.FBRevenue.Add(t.Total)
		case "other":
			stats.OtherRevenue = stats.OtherRevenue.Add(t.Total)
		default:
			if t.ItemType == domain.ItemTax {
				stats.TaxCollected = stats.TaxCollected.Add(t.Total)
			}
		}
	}

	from, to := domain.DayWindow(businessDate, property.Location())
	stats.TotalPayments, err = s.paymentRepo.SumPayments(ctx, propertyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	stats.DeriveRates()
	return &stats, nil
}

func (s *nightAuditService) CompleteAudit(ctx context.Context, propertyID string, businessDate time.Time, actor string, notes *string) (*domain.NightAudit, error) {
	businessDate = domain.NormalizeDate(businessDate)

	var audit *domain.NightAudit
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.auditRepo.FindNightAuditForUpdate(txCtx, propertyID, businessDate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return auditTransitionError(businessDate, domain.AuditPending, "complete")
		}
		if err != nil {
			return fmt.Errorf("failed to lock night audit: %w", err)
		}
		switch existing.Status {
		case domain.AuditCompleted:
			return &apperrors.AlreadyCompletedError{PropertyID: propertyID, BusinessDate: businessDate}
		case domain.AuditInProgress:
		default:
			return auditTransitionError(businessDate, existing.Status, "complete")
		}

		stats, err := s.ComputeStatistics(txCtx, propertyID, businessDate)
		if err != nil {
			return err
		}
		checklist, err := s.PreAuditChecklist(txCtx, propertyID, businessDate)
		if err != nil {
			return err
		}
		report, err := json.Marshal(auditReport{Statistics: *stats, Checklist: *checklist})
		if err != nil {
			return fmt.Errorf("failed to encode audit report: %w", err)
		}

		now := s.Now()
		existing.Status = domain.AuditCompleted
		existing.CompletedAt = &now
		existing.RoomsCharged = stats.RoomsCharged
		existing.TotalRoomRevenue = stats.RoomRevenue
		existing.TotalFBRevenue = stats.FBRevenue
		existing.TotalOtherRevenue = stats.OtherRevenue
		existing.TotalPayments = stats.TotalPayments
		existing.OccupancyRate = stats.OccupancyRate
		existing.ADR = stats.ADR
		existing.RevPAR = stats.RevPAR
		existing.Report = report
		if notes != nil && strings.TrimSpace(*notes) != "" {
			existing.Notes = notes
		}
		existing.Touch(actor, now)
		if err := s.auditRepo.UpdateNightAudit(txCtx, *existing); err != nil {
			return fmt.Errorf("failed to save night audit: %w", err)
		}
		audit = existing
		return nil
	})
	if err != nil {
		s.logAuditRejection(ctx, err, "Night audit completion rejected", propertyID, businessDate)
		return nil, err
	}

	s.LogInfo(ctx, "Night audit completed",
		slog.String("property_id", propertyID),
		slog.String("business_date", businessDate.Format(domain.DateLayout)),
		slog.Int("rooms_charged", audit.RoomsCharged),
		slog.String("room_revenue", audit.TotalRoomRevenue.StringFixed(2)),
		slog.String("occupancy_rate", audit.OccupancyRate.String()))
	return audit, nil
}

func (s *nightAuditService) FailAudit(ctx context.Context, propertyID string, businessDate time.Time, actor, reason string) (*domain.NightAudit, error) {
	businessDate = domain.NormalizeDate(businessDate)
	if strings.TrimSpace(reason) == "" {
		return nil, validationError("a failure reason is required")
	}

	var audit *domain.NightAudit
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.auditRepo.FindNightAuditForUpdate(txCtx, propertyID, businessDate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return auditTransitionError(businessDate, domain.AuditPending, "fail")
		}
		if err != nil {
			return fmt.Errorf("failed to lock night audit: %w", err)
		}
		if existing.Status == domain.AuditCompleted {
			return &apperrors.AlreadyCompletedError{PropertyID: propertyID, BusinessDate: businessDate}
		}
		if existing.Status != domain.AuditInProgress {
			return auditTransitionError(businessDate, existing.Status, "fail")
		}
		now := s.Now()
		existing.Status = domain.AuditFailed
		existing.FailureReason = &reason
		existing.Touch(actor, now)
		if err := s.auditRepo.UpdateNightAudit(txCtx, *existing); err != nil {
			return fmt.Errorf("failed to save night audit: %w", err)
		}
		audit = existing
		return nil
	})
	if err != nil {
		s.logAuditRejection(ctx, err, "Night audit failure rejected", propertyID, businessDate)
		return nil, err
	}

	s.LogWarn(ctx, "Night audit marked failed",
		slog.String("property_id", propertyID),
		slog.String("business_date", businessDate.Format(domain.DateLayout)),
		slog.String("reason", reason))
	return audit, nil
}

func (s *nightAuditService) GetAudit(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	audit, err := s.auditRepo.FindNightAudit(ctx, propertyID, domain.NormalizeDate(businessDate))
	if err != nil {
		return nil, fmt.Errorf("failed to get night audit for %s: %w", businessDate.Format(domain.DateLayout), err)
	}
	return audit, nil
}

func (s *nightAuditService) ListAudits(ctx context.Context, propertyID string, params dto.ListParams) (*dto.ListAuditsResponse, error) {
	audits, next, err := s.auditRepo.ListNightAudits(ctx, propertyID, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list night audits", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to list night audits: %w", err)
	}
	if audits == nil {
		audits = []domain.NightAudit{}
	}
	return &dto.ListAuditsResponse{Audits: audits, NextToken: next}, nil
}

func (s *nightAuditService) logAuditRejection(ctx context.Context, err error, msg, propertyID string, businessDate time.Time) {
	args := []any{
		slog.String("property_id", propertyID),
		slog.String("business_date", businessDate.Format(domain.DateLayout)),
	}
	if isBusinessError(err) {
		s.LogWarn(ctx, msg, append(args, slog.String("reason", err.Error()))...)
		return
	}
	s.LogError(ctx, err, msg, args...)
}
