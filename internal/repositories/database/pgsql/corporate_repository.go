package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxCorporateAccountRepository implements the CorporateAccountRepositoryFacade interface using pgx.
type PgxCorporateAccountRepository struct {
	BaseRepository
}

func newPgxCorporateAccountRepository(pool *pgxpool.Pool) portsrepo.CorporateAccountRepositoryFacade {
	return &PgxCorporateAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CorporateAccountRepositoryFacade = (*PgxCorporateAccountRepository)(nil)

const corporateColumns = `corporate_account_id, property_id, company_name, credit_limit, current_balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCorporateAccount(row pgx.Row) (domain.CorporateAccount, error) {
	var a domain.CorporateAccount
	err := row.Scan(
		&a.CorporateAccountID,
		&a.PropertyID,
		&a.CompanyName,
		&a.CreditLimit,
		&a.CurrentBalance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

// SaveCorporateAccount persists a new corporate account.
func (r *PgxCorporateAccountRepository) SaveCorporateAccount(ctx context.Context, a domain.CorporateAccount) error {
	query := `INSERT INTO corporate_accounts (` + corporateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.q(ctx).Exec(ctx, query,
		a.CorporateAccountID, a.PropertyID, a.CompanyName, a.CreditLimit, a.CurrentBalance, a.IsActive,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save corporate account %s", a.CorporateAccountID))
}

// FindCorporateAccountByID retrieves a corporate account.
func (r *PgxCorporateAccountRepository) FindCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error) {
	query := `SELECT ` + corporateColumns + ` FROM corporate_accounts WHERE corporate_account_id = $1;`
	a, err := scanCorporateAccount(r.q(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("corporate account %s", accountID))
	}
	return &a, nil
}

// FindCorporateAccountByIDForUpdate retrieves and locks a corporate account row.
func (r *PgxCorporateAccountRepository) FindCorporateAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.CorporateAccount, error) {
	query := `SELECT ` + corporateColumns + ` FROM corporate_accounts WHERE corporate_account_id = $1 FOR UPDATE;`
	a, err := scanCorporateAccount(r.q(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("corporate account %s", accountID))
	}
	return &a, nil
}

// AdjustCorporateBalance adds delta to the account's current balance.
func (r *PgxCorporateAccountRepository) AdjustCorporateBalance(ctx context.Context, accountID string, delta decimal.Decimal, actor string, now time.Time) error {
	query := `
		UPDATE corporate_accounts
		SET current_balance = current_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE corporate_account_id = $1;
	`
	tag, err := r.q(ctx).Exec(ctx, query, accountID, delta, now, actor)
	if err != nil {
		return fmt.Errorf("failed to adjust corporate account %s: %w", accountID, err)
	}
	return expectOne(tag, fmt.Sprintf("corporate account %s", accountID))
}
