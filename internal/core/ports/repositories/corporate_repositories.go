package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CorporateAccountRepositoryFacade defines persistence for corporate billing accounts
type CorporateAccountRepositoryFacade interface {
	// SaveCorporateAccount persists a new corporate account.
	SaveCorporateAccount(ctx context.Context, account domain.CorporateAccount) error

	// FindCorporateAccountByID retrieves a corporate account.
	FindCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error)

	// FindCorporateAccountByIDForUpdate retrieves and locks a corporate account row.
	FindCorporateAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.CorporateAccount, error)

	// AdjustCorporateBalance adds delta to the account's current balance.
	AdjustCorporateBalance(ctx context.Context, accountID string, delta decimal.Decimal, actor string, now time.Time) error
}
