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
	"github.com/SscSPs/property_management_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const folioSequence = "folio"

// folioService is the only writer of folio monetary fields. Every mutation
// locks the folio row, writes one line and applies that line's delta.
type folioService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	propertyRepo    portsrepo.PropertyRepositoryFacade
	reservationRepo portsrepo.ReservationRepositoryFacade
	folioRepo       portsrepo.FolioRepositoryFacade
	paymentRepo     portsrepo.PaymentRepositoryFacade
	corporateRepo   portsrepo.CorporateAccountRepositoryFacade
	auditRepo       portsrepo.NightAuditReader
}

// NewFolioService creates the folio ledger service.
func NewFolioService(repos portsrepo.RepositoryProvider, opts ...ServiceOption) portssvc.FolioSvcFacade {
	return &folioService{
		BaseService:     newBaseService(opts...),
		txManager:       repos.TxManager,
		propertyRepo:    repos.PropertyRepo,
		reservationRepo: repos.ReservationRepo,
		folioRepo:       repos.FolioRepo,
		paymentRepo:     repos.PaymentRepo,
		corporateRepo:   repos.CorporateRepo,
		auditRepo:       repos.NightAuditRepo,
	}
}

var _ portssvc.FolioSvcFacade = (*folioService)(nil)

func (s *folioService) GetFolio(ctx context.Context, propertyID, folioID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to get folio %s: %w", folioID, err)
	}
	if err := ensureProperty("folio", folioID, folio.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *folioService) GetFolioByReservation(ctx context.Context, propertyID, reservationID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByReservationID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get folio of reservation %s: %w", reservationID, err)
	}
	if err := ensureProperty("folio", folio.FolioID, folio.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *folioService) ListFolioItems(ctx context.Context, propertyID, folioID string, params dto.ListParams) (*dto.ListFolioItemsResponse, error) {
	if _, err := s.GetFolio(ctx, propertyID, folioID); err != nil {
		return nil, err
	}
	items, next, err := s.folioRepo.ListFolioItemsPage(ctx, folioID, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folio items", slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to list folio items: %w", err)
	}
	if items == nil {
		items = []domain.FolioItem{}
	}
	return &dto.ListFolioItemsResponse{Items: items, NextToken: next}, nil
}

func (s *folioService) ListPayments(ctx context.Context, propertyID, folioID string) ([]domain.Payment, error) {
	if _, err := s.GetFolio(ctx, propertyID, folioID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPayments(ctx, folioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *folioService) OpenReservationFolio(ctx context.Context, reservation *domain.Reservation, actor string) (*domain.Folio, bool, error) {
	var (
		folio  *domain.Folio
		opened bool
	)
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.folioRepo.FindFolioByReservationID(txCtx, reservation.ReservationID)
		if err == nil {
			folio = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to look up folio: %w", err)
		}

		seq, err := s.propertyRepo.NextSequence(txCtx, reservation.PropertyID, folioSequence)
		if err != nil {
			return fmt.Errorf("failed to allocate folio number: %w", err)
		}
		reservationID := reservation.ReservationID
		created := domain.NewFolio(uuid.NewString(), reservation.PropertyID, domain.FormatFolioNumber(seq),
			reservation.GuestID, &reservationID, actor, s.Now())
		if err := s.folioRepo.SaveFolio(txCtx, created); err != nil {
			return fmt.Errorf("failed to save folio: %w", err)
		}
		folio = &created
		opened = true
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to open reservation folio", slog.String("reservation_id", reservation.ReservationID))
		return nil, false, err
	}
	if opened {
		s.LogInfo(ctx, "Folio opened",
			slog.String("folio_id", folio.FolioID),
			slog.String("folio_number", folio.FolioNumber),
			slog.String("reservation_id", reservation.ReservationID))
	}
	return folio, opened, nil
}

// lockFolio loads the folio FOR UPDATE, scoped to propertyID.
func (s *folioService) lockFolio(ctx context.Context, propertyID, folioID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByIDForUpdate(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock folio %s: %w", folioID, err)
	}
	if err := ensureProperty("folio", folioID, folio.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return folio, nil
}

func (s *folioService) lockOpenFolio(ctx context.Context, propertyID, folioID string) (*domain.Folio, error) {
	folio, err := s.lockFolio(ctx, propertyID, folioID)
	if err != nil {
		return nil, err
	}
	if !folio.IsOpen() {
		return nil, &apperrors.FolioClosedError{FolioID: folioID}
	}
	return folio, nil
}

// applyDelta persists d and mirrors it on the in-memory folio.
func (s *folioService) applyDelta(ctx context.Context, folio *domain.Folio, d domain.FolioDelta, actor string, now time.Time) error {
	if err := s.folioRepo.ApplyFolioDelta(ctx, folio.FolioID, d, actor, now); err != nil {
		return fmt.Errorf("failed to update folio totals: %w", err)
	}
	folio.Apply(d)
	folio.Touch(actor, now)
	return nil
}

// adjustReservationPaid keeps the reservation's paid amount equal to its folio's.
func (s *folioService) adjustReservationPaid(ctx context.Context, folio *domain.Folio, delta decimal.Decimal, actor string, now time.Time) error {
	if folio.ReservationID == nil {
		return nil
	}
	if err := s.reservationRepo.AdjustPaidAmount(ctx, *folio.ReservationID, delta, actor, now); err != nil {
		return fmt.Errorf("failed to update reservation paid amount: %w", err)
	}
	return nil
}

func validateCharge(req dto.AddChargeRequest) error {
	if !req.ItemType.Valid() {
		return validationError("unknown item type %q", req.ItemType)
	}
	if strings.TrimSpace(req.Description) == "" {
		return validationError("description is required")
	}
	if !req.Quantity.IsPositive() {
		return validationError("quantity must be greater than zero")
	}
	if req.ItemType == domain.ItemDiscount {
		if req.UnitPrice.IsPositive() || req.TaxAmount.IsPositive() || req.ServiceCharge.IsPositive() {
			return validationError("discount amounts must not be positive")
		}
		return nil
	}
	if req.UnitPrice.IsNegative() || req.TaxAmount.IsNegative() || req.ServiceCharge.IsNegative() {
		return validationError("charge amounts must not be negative")
	}
	return nil
}

// ensureDateOpen rejects charges dated on or before the last audited business date.
func (s *folioService) ensureDateOpen(ctx context.Context, propertyID string, serviceDate time.Time) error {
	closed, err := s.auditRepo.LatestCompletedBusinessDate(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("failed to read audited business date: %w", err)
	}
	if closed != nil && !serviceDate.After(*closed) {
		return fmt.Errorf("%w: service date %s, audited through %s", apperrors.ErrBusinessDateClosed,
			serviceDate.Format(domain.DateLayout), closed.Format(domain.DateLayout))
	}
	return nil
}

func (s *folioService) AddCharge(ctx context.Context, propertyID, folioID string, req dto.AddChargeRequest, actor string) (*dto.FolioItemResult, error) {
	if err := validateCharge(req); err != nil {
		return nil, err
	}
	serviceDate, err := time.Parse(domain.DateLayout, req.ServiceDate)
	if err != nil {
		return nil, validationError("invalid service date %q", req.ServiceDate)
	}
	serviceDate = domain.NormalizeDate(serviceDate)

	var result *dto.FolioItemResult
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, err := s.lockOpenFolio(txCtx, propertyID, folioID)
		if err != nil {
			return err
		}
		if err := s.ensureDateOpen(txCtx, propertyID, serviceDate); err != nil {
			return err
		}
		if req.ItemType == domain.ItemRoomCharge && req.ReferenceID != nil {
			exists, err := s.folioRepo.RoomChargeExists(txCtx, *req.ReferenceID, serviceDate)
			if err != nil {
				return fmt.Errorf("failed to check for posted room charge: %w", err)
			}
			if exists {
				return fmt.Errorf("room charge for %s on %s: %w", *req.ReferenceID, req.ServiceDate, apperrors.ErrDuplicate)
			}
		}

		now := s.Now()
		item := domain.FolioItem{
			ItemID:        uuid.NewString(),
			FolioID:       folioID,
			ItemType:      req.ItemType,
			Description:   req.Description,
			UnitPrice:     req.UnitPrice,
			Quantity:      req.Quantity,
			TotalPrice:    domain.RoundMoney(req.UnitPrice.Mul(req.Quantity)),
			TaxAmount:     domain.RoundMoney(req.TaxAmount),
			ServiceCharge: domain.RoundMoney(req.ServiceCharge),
			ServiceDate:   serviceDate,
			ReferenceID:   req.ReferenceID,
			AuditFields:   domain.NewAuditFields(actor, now),
		}
		if err := s.folioRepo.SaveFolioItem(txCtx, item); err != nil {
			return fmt.Errorf("failed to save folio item: %w", err)
		}
		if err := s.applyDelta(txCtx, folio, item.ChargeDelta(), actor, now); err != nil {
			return err
		}
		result = &dto.FolioItemResult{Item: item, Folio: *folio}
		return nil
	})
	if err != nil {
		s.logFolioRejection(ctx, err, "Charge rejected", folioID, slog.String("item_type", string(req.ItemType)))
		return nil, err
	}

	s.LogInfo(ctx, "Charge posted",
		slog.String("folio_id", folioID),
		slog.String("item_id", result.Item.ItemID),
		slog.String("item_type", string(result.Item.ItemType)),
		slog.String("total_price", result.Item.TotalPrice.StringFixed(2)),
		slog.String("balance", result.Folio.Balance.StringFixed(2)))
	return result, nil
}

func (s *folioService) VoidItem(ctx context.Context, propertyID, folioID, itemID, reason, actor string) (*domain.Folio, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, validationError("a void reason is required")
	}

	var updated *domain.Folio
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, err := s.lockOpenFolio(txCtx, propertyID, folioID)
		if err != nil {
			return err
		}
		item, err := s.folioRepo.FindFolioItemByID(txCtx, itemID)
		if err != nil {
			return fmt.Errorf("failed to load folio item %s: %w", itemID, err)
		}
		if item.FolioID != folioID {
			return fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrNotFound)
		}
		if item.Voided {
			return fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrAlreadyVoided)
		}

		now := s.Now()
		if err := s.folioRepo.MarkFolioItemVoided(txCtx, itemID, reason, actor, now); err != nil {
			return fmt.Errorf("failed to void folio item: %w", err)
		}
		// Subtract exactly what was added; never recompute from the lines.
		if err := s.applyDelta(txCtx, folio, item.ChargeDelta().Neg(), actor, now); err != nil {
			return err
		}
		updated = folio
		return nil
	})
	if err != nil {
		s.logFolioRejection(ctx, err, "Void rejected", folioID, slog.String("item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Folio item voided",
		slog.String("folio_id", folioID),
		slog.String("item_id", itemID),
		slog.String("reason", reason),
		slog.String("balance", updated.Balance.StringFixed(2)))
	return updated, nil
}

func (s *folioService) RecordPayment(ctx context.Context, propertyID, folioID string, req dto.RecordPaymentRequest, actor string) (*dto.PaymentResult, error) {
	// Checked after rounding: 0.004 posts as 0.00.
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, validationError("payment amount must be at least 0.01")
	}
	if !req.Method.Valid() {
		return nil, validationError("unknown payment method %q", req.Method)
	}
	if req.IdempotencyKey != nil && strings.TrimSpace(*req.IdempotencyKey) == "" {
		req.IdempotencyKey = nil
	}

	var result *dto.PaymentResult
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, err := s.lockFolio(txCtx, propertyID, folioID)
		if err != nil {
			return err
		}
		// Replays are answered before the open check so a retry after close still succeeds.
		if req.IdempotencyKey != nil {
			previous, err := s.paymentRepo.FindPaymentByIdempotencyKey(txCtx, folioID, *req.IdempotencyKey)
			if err == nil {
				result = &dto.PaymentResult{Payment: *previous, Folio: *folio, Replayed: true}
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to look up idempotency key: %w", err)
			}
		}
		if !folio.IsOpen() {
			return &apperrors.FolioClosedError{FolioID: folioID}
		}

		now := s.Now()
		payment := domain.Payment{
			PaymentID:       uuid.NewString(),
			FolioID:         folioID,
			Amount:          amount,
			Method:          req.Method,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
			IdempotencyKey:  req.IdempotencyKey,
			AuditFields:     domain.NewAuditFields(actor, now),
		}
		result = &dto.PaymentResult{}

		switch route := domain.RouteFor(req.CorporateAccountID).(type) {
		case domain.CorporateBilled:
			account, warning, err := s.chargeCorporateAccount(txCtx, propertyID, route.AccountID, amount, actor, now)
			if err != nil {
				return err
			}
			accountID := route.AccountID
			payment.CorporateAccountID = &accountID
			result.CorporateAccount = account
			if warning != nil {
				result.Warning = warning
			}
		case domain.GuestBilled:
		}

		if err := s.paymentRepo.SavePayment(txCtx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if err := s.applyDelta(txCtx, folio, payment.PaidDelta(), actor, now); err != nil {
			return err
		}
		if err := s.adjustReservationPaid(txCtx, folio, amount, actor, now); err != nil {
			return err
		}
		result.Payment = payment
		result.Folio = *folio
		return nil
	})
	if err != nil {
		s.logFolioRejection(ctx, err, "Payment rejected", folioID)
		return nil, err
	}

	if result.Replayed {
		s.LogInfo(ctx, "Payment replayed for idempotency key",
			slog.String("folio_id", folioID),
			slog.String("payment_id", result.Payment.PaymentID))
		return result, nil
	}
	if result.Warning != nil {
		s.LogWarn(ctx, "Corporate payment exceeded credit limit",
			slog.String("folio_id", folioID),
			slog.String("warning", result.Warning.Error()))
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("folio_id", folioID),
		slog.String("payment_id", result.Payment.PaymentID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance", result.Folio.Balance.StringFixed(2)))
	return result, nil
}

// chargeCorporateAccount moves amount onto the account's balance. Exceeding the
// credit limit never blocks the payment; it comes back as a warning.
func (s *folioService) chargeCorporateAccount(ctx context.Context, propertyID, accountID string, amount decimal.Decimal, actor string, now time.Time) (*domain.CorporateAccount, *apperrors.CreditLimitWarning, error) {
	account, err := s.corporateRepo.FindCorporateAccountByIDForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, validationError("corporate account %s not found", accountID)
		}
		return nil, nil, fmt.Errorf("failed to lock corporate account %s: %w", accountID, err)
	}
	if account.PropertyID != propertyID {
		return nil, nil, validationError("corporate account %s not found", accountID)
	}
	if !account.IsActive {
		return nil, nil, validationError("corporate account %s is inactive", accountID)
	}
	if err := s.corporateRepo.AdjustCorporateBalance(ctx, accountID, amount, actor, now); err != nil {
		return nil, nil, fmt.Errorf("failed to update corporate balance: %w", err)
	}
	account.CurrentBalance = account.CurrentBalance.Add(amount)
	account.Touch(actor, now)

	var warning *apperrors.CreditLimitWarning
	if account.ExceedsLimit(account.CurrentBalance) {
		warning = &apperrors.CreditLimitWarning{
			AccountID: accountID,
			Limit:     account.CreditLimit,
			Balance:   account.CurrentBalance,
		}
	}
	return account, warning, nil
}

func (s *folioService) VoidPayment(ctx context.Context, propertyID, folioID, paymentID, reason, actor string) (*domain.Folio, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, validationError("a void reason is required")
	}

	var updated *domain.Folio
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, err := s.lockOpenFolio(txCtx, propertyID, folioID)
		if err != nil {
			return err
		}
		payment, err := s.paymentRepo.FindPaymentByID(txCtx, paymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
		}
		if payment.FolioID != folioID {
			return fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
		}
		if payment.Voided {
			return fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrAlreadyVoided)
		}

		now := s.Now()
		if err := s.paymentRepo.MarkPaymentVoided(txCtx, paymentID, reason, actor, now); err != nil {
			return fmt.Errorf("failed to void payment: %w", err)
		}
		if payment.CorporateAccountID != nil {
			if _, err := s.corporateRepo.FindCorporateAccountByIDForUpdate(txCtx, *payment.CorporateAccountID); err != nil {
				return fmt.Errorf("failed to lock corporate account: %w", err)
			}
			if err := s.corporateRepo.AdjustCorporateBalance(txCtx, *payment.CorporateAccountID, payment.Amount.Neg(), actor, now); err != nil {
				return fmt.Errorf("failed to reverse corporate balance: %w", err)
			}
		}
		if err := s.applyDelta(txCtx, folio, payment.PaidDelta().Neg(), actor, now); err != nil {
			return err
		}
		if err := s.adjustReservationPaid(txCtx, folio, payment.Amount.Neg(), actor, now); err != nil {
			return err
		}
		updated = folio
		return nil
	})
	if err != nil {
		s.logFolioRejection(ctx, err, "Payment void rejected", folioID, slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment voided",
		slog.String("folio_id", folioID),
		slog.String("payment_id", paymentID),
		slog.String("reason", reason),
		slog.String("balance", updated.Balance.StringFixed(2)))
	return updated, nil
}

func (s *folioService) CloseFolio(ctx context.Context, propertyID, folioID, actor string) (*domain.Folio, error) {
	var updated *domain.Folio
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		folio, err := s.lockOpenFolio(txCtx, propertyID, folioID)
		if err != nil {
			return err
		}
		if err := s.ensureGuestDeparted(txCtx, folio); err != nil {
			return err
		}
		if !folio.Balance.IsZero() {
			return &apperrors.OutstandingBalanceError{FolioID: folioID, Balance: folio.Balance}
		}
		now := s.Now()
		if err := s.folioRepo.CloseFolio(txCtx, folioID, actor, now); err != nil {
			return fmt.Errorf("failed to close folio: %w", err)
		}
		folio.Status = domain.FolioClosed
		folio.ClosedAt = &now
		folio.Touch(actor, now)
		updated = folio
		return nil
	})
	if err != nil {
		s.logFolioRejection(ctx, err, "Folio close rejected", folioID)
		return nil, err
	}
	s.LogInfo(ctx, "Folio closed", slog.String("folio_id", folioID), slog.String("folio_number", updated.FolioNumber))
	return updated, nil
}

// ensureGuestDeparted rejects closing a stay folio while the guest is in house.
// Check-out closes it; a closed folio would block the remaining room charges.
func (s *folioService) ensureGuestDeparted(ctx context.Context, folio *domain.Folio) error {
	if folio.ReservationID == nil {
		return nil
	}
	reservation, err := s.reservationRepo.FindReservationByID(ctx, *folio.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to load reservation %s: %w", *folio.ReservationID, err)
	}
	if reservation.Status == domain.ReservationCheckedIn {
		return &apperrors.TransitionError{
			Entity:    "folio",
			ID:        folio.FolioID,
			From:      "reservation " + string(reservation.Status),
			Attempted: "close",
		}
	}
	return nil
}

func (s *folioService) CreateCorporateAccount(ctx context.Context, propertyID string, req dto.CreateCorporateAccountRequest, actor string) (*domain.CorporateAccount, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, validationError("company name is required")
	}
	if req.CreditLimit.IsNegative() {
		return nil, validationError("credit limit cannot be negative")
	}
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	account := domain.CorporateAccount{
		CorporateAccountID: uuid.NewString(),
		PropertyID:         propertyID,
		CompanyName:        req.CompanyName,
		CreditLimit:        domain.RoundMoney(req.CreditLimit),
		CurrentBalance:     decimal.Zero,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(actor, s.Now()),
	}
	if err := s.corporateRepo.SaveCorporateAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save corporate account", slog.String("company_name", req.CompanyName))
		return nil, fmt.Errorf("failed to create corporate account: %w", err)
	}
	s.LogInfo(ctx, "Corporate account created", slog.String("corporate_account_id", account.CorporateAccountID))
	return &account, nil
}

func (s *folioService) GetCorporateAccount(ctx context.Context, propertyID, accountID string) (*domain.CorporateAccount, error) {
	account, err := s.corporateRepo.FindCorporateAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get corporate account %s: %w", accountID, err)
	}
	if err := ensureProperty("corporate account", accountID, account.PropertyID, propertyID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *folioService) logFolioRejection(ctx context.Context, err error, msg, folioID string, keyvals ...any) {
	args := append([]any{slog.String("folio_id", folioID)}, keyvals...)
	if isBusinessError(err) {
		s.LogWarn(ctx, msg, append(args, slog.String("reason", err.Error()))...)
		return
	}
	s.LogError(ctx, err, msg, args...)
}
