package services

import (
	"context"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/dto"
)

// FolioReaderSvc defines read operations for folios.
type FolioReaderSvc interface {
	GetFolio(ctx context.Context, propertyID, folioID string) (*domain.Folio, error)
	GetFolioByReservation(ctx context.Context, propertyID, reservationID string) (*domain.Folio, error)
	ListFolioItems(ctx context.Context, propertyID, folioID string, params dto.ListParams) (*dto.ListFolioItemsResponse, error)
	ListPayments(ctx context.Context, propertyID, folioID string) ([]domain.Payment, error)
}

// FolioLedgerSvc mutates folio lines. Totals are maintained as deltas under a folio row lock.
type FolioLedgerSvc interface {
	// OpenReservationFolio returns the reservation's folio, creating it when absent.
	// The boolean reports whether a folio was created. It joins the caller's transaction.
	OpenReservationFolio(ctx context.Context, reservation *domain.Reservation, actor string) (*domain.Folio, bool, error)

	AddCharge(ctx context.Context, propertyID, folioID string, req dto.AddChargeRequest, actor string) (*dto.FolioItemResult, error)
	VoidItem(ctx context.Context, propertyID, folioID, itemID, reason, actor string) (*domain.Folio, error)
	RecordPayment(ctx context.Context, propertyID, folioID string, req dto.RecordPaymentRequest, actor string) (*dto.PaymentResult, error)
	VoidPayment(ctx context.Context, propertyID, folioID, paymentID, reason, actor string) (*domain.Folio, error)
	CloseFolio(ctx context.Context, propertyID, folioID, actor string) (*domain.Folio, error)
}

// CorporateAccountSvc manages corporate billing accounts.
type CorporateAccountSvc interface {
	CreateCorporateAccount(ctx context.Context, propertyID string, req dto.CreateCorporateAccountRequest, actor string) (*domain.CorporateAccount, error)
	GetCorporateAccount(ctx context.Context, propertyID, accountID string) (*domain.CorporateAccount, error)
}

// FolioSvcFacade combines all folio-related service interfaces.
type FolioSvcFacade interface {
	FolioReaderSvc
	FolioLedgerSvc
	CorporateAccountSvc
}
