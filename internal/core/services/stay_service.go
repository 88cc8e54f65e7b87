package services

import (
	"context"
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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const reservationSequence = "reservation"

// stayService implements the reservation and room state machine.
type stayService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	propertyRepo    portsrepo.PropertyRepositoryFacade
	roomRepo        portsrepo.RoomRepositoryFacade
	reservationRepo portsrepo.ReservationRepositoryFacade
	folioRepo       portsrepo.FolioRepositoryFacade
	corporateRepo   portsrepo.CorporateAccountRepositoryFacade
	folios          portssvc.FolioLedgerSvc
}

// NewStayService creates the reservation/room service. Folios are opened through folios
// so that the ledger stays the only writer of folio rows.
func NewStayService(repos portsrepo.RepositoryProvider, folios portssvc.FolioLedgerSvc, opts ...ServiceOption) portssvc.StaySvcFacade {
	return &stayService{
		BaseService:     newBaseService(opts...),
		txManager:       repos.TxManager,
		propertyRepo:    repos.PropertyRepo,
		roomRepo:        repos.RoomRepo,
		reservationRepo: repos.ReservationRepo,
		folioRepo:       repos.FolioRepo,
		corporateRepo:   repos.CorporateRepo,
		folios:          folios,
	}
}

var _ portssvc.StaySvcFacade = (*stayService)(nil)

func (s *stayService) CreateReservation(ctx context.Context, propertyID string, req dto.CreateReservationRequest, actor string) (*domain.Reservation, error) {
	checkIn, err := time.Parse(domain.DateLayout, req.CheckInDate)
	if err != nil {
		return nil, validationError("invalid check-in date %q", req.CheckInDate)
	}
	checkOut, err := time.Parse(domain.DateLayout, req.CheckOutDate)
	if err != nil {
		return nil, validationError("invalid check-out date %q", req.CheckOutDate)
	}
	nights := domain.Nights(checkIn, checkOut)
	if nights < 1 {
		s.LogWarn(ctx, "Rejected zero-night reservation",
			slog.String("check_in", req.CheckInDate), slog.String("check_out", req.CheckOutDate))
		return nil, validationError("check-out date must be after check-in date")
	}
	if len(req.Rooms) == 0 {
		return nil, validationError("a reservation needs at least one room")
	}
	if strings.TrimSpace(req.GuestID) == "" {
		return nil, validationError("guest is required")
	}
	adults := req.Adults
	if adults == 0 {
		adults = 1
	}
	if adults < 0 || req.Children < 0 {
		return nil, validationError("guest counts cannot be negative")
	}

	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}
	if req.CorporateAccountID != nil && *req.CorporateAccountID != "" {
		account, err := s.corporateRepo.FindCorporateAccountByID(ctx, *req.CorporateAccountID)
		if err != nil || account.PropertyID != propertyID {
			return nil, validationError("corporate account %s not found", *req.CorporateAccountID)
		}
	}

	now := s.Now()
	reservation := domain.Reservation{
		ReservationID:      uuid.NewString(),
		PropertyID:         propertyID,
		GuestID:            req.GuestID,
		CheckInDate:        domain.NormalizeDate(checkIn),
		CheckOutDate:       domain.NormalizeDate(checkOut),
		Status:             domain.ReservationConfirmed,
		Adults:             adults,
		Children:           req.Children,
		PaidAmount:         decimal.Zero,
		CorporateAccountID: req.CorporateAccountID,
		AuditFields:        domain.NewAuditFields(actor, now),
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		for _, roomReq := range req.Rooms {
			roomType, err := s.roomRepo.FindRoomTypeByID(txCtx, roomReq.RoomTypeID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return validationError("room type %s not found", roomReq.RoomTypeID)
				}
				return fmt.Errorf("failed to load room type %s: %w", roomReq.RoomTypeID, err)
			}
			if roomType.PropertyID != propertyID {
				return validationError("room type %s not found", roomReq.RoomTypeID)
			}
			rate := roomType.BaseRate
			if roomReq.Rate != nil {
				rate = *roomReq.Rate
			}
			if rate.IsNegative() {
				return validationError("room rate cannot be negative")
			}
			reservation.Rooms = append(reservation.Rooms, domain.ReservationRoom{
				ReservationRoomID: uuid.NewString(),
				ReservationID:     reservation.ReservationID,
				RoomTypeID:        roomType.RoomTypeID,
				Rate:              domain.RoundMoney(rate),
			})
		}
		reservation.TotalAmount = domain.StayTotal(reservation.Rooms, nights)

		seq, err := s.propertyRepo.NextSequence(txCtx, propertyID, reservationSequence)
		if err != nil {
			return fmt.Errorf("failed to allocate reservation number: %w", err)
		}
		reservation.ReservationNumber = domain.FormatReservationNumber(seq)
		return s.reservationRepo.SaveReservation(txCtx, reservation)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to create reservation", slog.String("property_id", propertyID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Reservation created",
		slog.String("reservation_id", reservation.ReservationID),
		slog.String("reservation_number", reservation.ReservationNumber),
		slog.Int("nights", nights))
	return &reservation, nil
}

func (s *stayService) GetReservation(ctx context.Context, propertyID, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation %s: %w", reservationID, err)
	}
	if err := ensureProperty("reservation", reservationID, reservation.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *stayService) ListRooms(ctx context.Context, propertyID string) ([]domain.Room, error) {
	rooms, err := s.roomRepo.ListRoomsByProperty(ctx, propertyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rooms", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// lockReservation loads the reservation FOR UPDATE and checks that op is legal from its status.
func (s *stayService) lockReservation(ctx context.Context, propertyID, reservationID string, op domain.ReservationOp) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.FindReservationByIDForUpdate(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock reservation %s: %w", reservationID, err)
	}
	if err := ensureProperty("reservation", reservationID, reservation.PropertyID, propertyID); err != nil {
		return nil, err
	}
	if !domain.CanApply(op, reservation.Status) {
		return nil, &apperrors.TransitionError{
			Entity:    "reservation",
			ID:        reservationID,
			From:      string(reservation.Status),
			Attempted: string(op),
		}
	}
	return reservation, nil
}

func (s *stayService) CheckIn(ctx context.Context, propertyID, reservationID string, assignments []domain.RoomAssignment, actor string) (*dto.CheckInResult, error) {
	if len(assignments) == 0 {
		return nil, validationError("at least one room assignment is required")
	}

	var result *dto.CheckInResult
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.lockReservation(txCtx, propertyID, reservationID, domain.OpCheckIn)
		if err != nil {
			return err
		}

		slots := make(map[string]int, len(reservation.Rooms))
		for i, rr := range reservation.Rooms {
			slots[rr.ReservationRoomID] = i
		}
		seenSlots := make(map[string]bool, len(assignments))
		roomIDs := make([]string, 0, len(assignments))
		seenRooms := make(map[string]bool, len(assignments))
		for _, a := range assignments {
			if _, ok := slots[a.ReservationRoomID]; !ok {
				return validationError("reservation room %s does not belong to reservation %s", a.ReservationRoomID, reservationID)
			}
			if seenSlots[a.ReservationRoomID] {
				return validationError("reservation room %s is assigned twice", a.ReservationRoomID)
			}
			if seenRooms[a.RoomID] {
				return validationError("room %s is assigned twice", a.RoomID)
			}
			seenSlots[a.ReservationRoomID] = true
			seenRooms[a.RoomID] = true
			roomIDs = append(roomIDs, a.RoomID)
		}
		// Slots left unbound here could never be charged by the night audit.
		if len(seenSlots) != len(reservation.Rooms) {
			return validationError("all %d reserved rooms must be assigned at check-in, got %d", len(reservation.Rooms), len(seenSlots))
		}

		rooms, err := s.roomRepo.FindRoomsByIDsForUpdate(txCtx, roomIDs)
		if err != nil {
			return fmt.Errorf("failed to lock rooms: %w", err)
		}
		now := s.Now()
		for _, a := range assignments {
			room, ok := rooms[a.RoomID]
			if !ok || room.PropertyID != propertyID {
				return fmt.Errorf("room %s: %w", a.RoomID, apperrors.ErrNotFound)
			}
			if room.Status != domain.RoomVacant {
				return &apperrors.RoomUnavailableError{RoomID: room.RoomID, Status: string(room.Status)}
			}
			if err := s.roomRepo.UpdateRoomStatus(txCtx, room.RoomID, domain.RoomOccupied, actor, now); err != nil {
				return fmt.Errorf("failed to occupy room %s: %w", room.RoomID, err)
			}
			roomID := room.RoomID
			reservation.Rooms[slots[a.ReservationRoomID]].RoomID = &roomID
		}

		reservation.Status = domain.TargetStatus(domain.OpCheckIn)
		reservation.ActualCheckIn = &now
		reservation.Touch(actor, now)
		if err := s.reservationRepo.UpdateReservation(txCtx, *reservation); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		folio, opened, err := s.folios.OpenReservationFolio(txCtx, reservation, actor)
		if err != nil {
			return err
		}
		result = &dto.CheckInResult{Reservation: *reservation, Folio: *folio, FolioOpened: opened}
		return nil
	})
	if err != nil {
		s.logRejected(ctx, err, "Check-in rejected", reservationID)
		return nil, err
	}

	s.LogInfo(ctx, "Reservation checked in",
		slog.String("reservation_id", reservationID),
		slog.String("folio_id", result.Folio.FolioID),
		slog.Int("rooms", len(assignments)))
	return result, nil
}

func (s *stayService) CheckOut(ctx context.Context, propertyID, reservationID string, req dto.CheckOutRequest, actor string) (*dto.CheckOutResult, error) {
	if req.Force && strings.TrimSpace(req.OverrideReason) == "" {
		return nil, validationError("a forced check-out needs an override reason")
	}

	var result *dto.CheckOutResult
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		// Folio before reservation: payments take the same lock order.
		var folio *domain.Folio
		current, err := s.folioRepo.FindFolioByReservationID(txCtx, reservationID)
		switch {
		case err == nil:
			folio, err = s.folioRepo.FindFolioByIDForUpdate(txCtx, current.FolioID)
			if err != nil {
				return fmt.Errorf("failed to lock folio %s: %w", current.FolioID, err)
			}
		case errors.Is(err, apperrors.ErrNotFound):
			// Nothing was ever posted for this stay.
		default:
			return fmt.Errorf("failed to load folio for reservation %s: %w", reservationID, err)
		}

		reservation, err := s.lockReservation(txCtx, propertyID, reservationID, domain.OpCheckOut)
		if err != nil {
			return err
		}

		now := s.Now()
		closeFolio := folio != nil && folio.IsOpen()
		if closeFolio && !folio.Balance.IsZero() {
			if !req.Force {
				return &apperrors.OutstandingBalanceError{FolioID: folio.FolioID, Balance: folio.Balance}
			}
			// The folio can never close with a balance; it stays open for collection.
			closeFolio = false
			s.LogWarn(txCtx, "Forced check-out with outstanding balance",
				slog.String("reservation_id", reservationID),
				slog.String("folio_id", folio.FolioID),
				slog.String("balance", folio.Balance.StringFixed(2)),
				slog.String("override_reason", req.OverrideReason),
				slog.String("actor", actor))
		}

		roomIDs := reservation.AssignedRoomIDs()
		if len(roomIDs) > 0 {
			if _, err := s.roomRepo.FindRoomsByIDsForUpdate(txCtx, roomIDs); err != nil {
				return fmt.Errorf("failed to lock rooms: %w", err)
			}
			for _, roomID := range roomIDs {
				if err := s.roomRepo.UpdateRoomStatus(txCtx, roomID, domain.RoomDirty, actor, now); err != nil {
					return fmt.Errorf("failed to release room %s: %w", roomID, err)
				}
			}
		}

		reservation.Status = domain.TargetStatus(domain.OpCheckOut)
		reservation.ActualCheckOut = &now
		reservation.Touch(actor, now)
		if err := s.reservationRepo.UpdateReservation(txCtx, *reservation); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		if closeFolio {
			if err := s.folioRepo.CloseFolio(txCtx, folio.FolioID, actor, now); err != nil {
				return fmt.Errorf("failed to close folio %s: %w", folio.FolioID, err)
			}
			folio.Status = domain.FolioClosed
			folio.ClosedAt = &now
			folio.Touch(actor, now)
		}
		result = &dto.CheckOutResult{
			Reservation: *reservation,
			Folio:       folio,
			FolioClosed: closeFolio,
			Forced:      req.Force,
		}
		return nil
	})
	if err != nil {
		s.logRejected(ctx, err, "Check-out rejected", reservationID)
		return nil, err
	}

	s.LogInfo(ctx, "Reservation checked out",
		slog.String("reservation_id", reservationID),
		slog.Bool("folio_closed", result.FolioClosed),
		slog.Bool("forced", result.Forced))
	return result, nil
}

func (s *stayService) Cancel(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error) {
	return s.transition(ctx, propertyID, reservationID, domain.OpCancel, actor)
}

func (s *stayService) MarkNoShow(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error) {
	return s.transition(ctx, propertyID, reservationID, domain.OpNoShow, actor)
}

// transition applies a status-only operation with no folio or room side effects.
func (s *stayService) transition(ctx context.Context, propertyID, reservationID string, op domain.ReservationOp, actor string) (*domain.Reservation, error) {
	var updated *domain.Reservation
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.lockReservation(txCtx, propertyID, reservationID, op)
		if err != nil {
			return err
		}
		reservation.Status = domain.TargetStatus(op)
		reservation.Touch(actor, s.Now())
		if err := s.reservationRepo.UpdateReservation(txCtx, *reservation); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		updated = reservation
		return nil
	})
	if err != nil {
		s.logRejected(ctx, err, "Reservation transition rejected", reservationID, slog.String("operation", string(op)))
		return nil, err
	}
	s.LogInfo(ctx, "Reservation status changed",
		slog.String("reservation_id", reservationID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *stayService) ExtendStay(ctx context.Context, propertyID, reservationID string, newCheckOut time.Time, actor string) (*domain.Reservation, error) {
	var updated *domain.Reservation
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.lockReservation(txCtx, propertyID, reservationID, domain.OpExtend)
		if err != nil {
			return err
		}
		checkOut := domain.NormalizeDate(newCheckOut)
		nights := domain.Nights(reservation.CheckInDate, checkOut)
		if nights < 1 {
			return validationError("check-out date must be after check-in date")
		}
		reservation.CheckOutDate = checkOut
		reservation.TotalAmount = domain.StayTotal(reservation.Rooms, nights)
		reservation.Touch(actor, s.Now())
		if err := s.reservationRepo.UpdateReservation(txCtx, *reservation); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		updated = reservation
		return nil
	})
	if err != nil {
		s.logRejected(ctx, err, "Stay change rejected", reservationID)
		return nil, err
	}
	s.LogInfo(ctx, "Stay dates changed",
		slog.String("reservation_id", reservationID),
		slog.String("check_out", updated.CheckOutDate.Format(domain.DateLayout)),
		slog.String("total_amount", updated.TotalAmount.StringFixed(2)))
	return updated, nil
}

func (s *stayService) UpdateRoomStatus(ctx context.Context, propertyID, roomID string, status domain.RoomStatus, actor string) (*domain.Room, error) {
	if !status.Valid() {
		return nil, validationError("unknown room status %q", status)
	}

	var updated *domain.Room
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		rooms, err := s.roomRepo.FindRoomsByIDsForUpdate(txCtx, []string{roomID})
		if err != nil {
			return fmt.Errorf("failed to lock room %s: %w", roomID, err)
		}
		room, ok := rooms[roomID]
		if !ok {
			return fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
		}
		if err := ensureProperty("room", roomID, room.PropertyID, propertyID); err != nil {
			return err
		}
		if room.Status == status && status != domain.RoomOccupied {
			updated = &room
			return nil
		}
		if !domain.CanSetRoomStatus(room.Status, status) {
			return &apperrors.TransitionError{Entity: "room", ID: roomID, From: string(room.Status), Attempted: "set " + string(status)}
		}
		now := s.Now()
		if err := s.roomRepo.UpdateRoomStatus(txCtx, roomID, status, actor, now); err != nil {
			return fmt.Errorf("failed to update room %s: %w", roomID, err)
		}
		room.Status = status
		room.Touch(actor, now)
		updated = &room
		return nil
	})
	if err != nil {
		s.logRejected(ctx, err, "Room status change rejected", roomID)
		return nil, err
	}
	s.LogInfo(ctx, "Room status changed", slog.String("room_id", roomID), slog.String("status", string(status)))
	return updated, nil
}

// logRejected logs business rejections at WARN and store failures at ERROR.
func (s *stayService) logRejected(ctx context.Context, err error, msg, id string, keyvals ...any) {
	args := append([]any{slog.String("id", id), slog.String("reason", err.Error())}, keyvals...)
	if isBusinessError(err) {
		s.LogWarn(ctx, msg, args...)
		return
	}
	s.LogError(ctx, err, msg, append([]any{slog.String("id", id)}, keyvals...)...)
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrInvalidStateTransition,
		apperrors.ErrRoomUnavailable, apperrors.ErrFolioClosed, apperrors.ErrOutstandingBalance,
		apperrors.ErrAlreadyCompleted, apperrors.ErrBusinessDateClosed, apperrors.ErrAlreadyVoided,
		apperrors.ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
