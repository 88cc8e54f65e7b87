package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxPaymentRepository implements the PaymentRepositoryFacade interface using pgx.
type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment lines.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, folio_id, amount, method, reference_number, notes, corporate_account_id,
	idempotency_key, voided, void_reason, voided_by, voided_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.FolioID,
		&p.Amount,
		&p.Method,
		&p.ReferenceNumber,
		&p.Notes,
		&p.CorporateAccountID,
		&p.IdempotencyKey,
		&p.Voided,
		&p.VoidReason,
		&p.VoidedBy,
		&p.VoidedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// FindPaymentByID retrieves a payment line.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.q(ctx).QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("payment %s", paymentID))
	}
	return &p, nil
}

// FindPaymentByIdempotencyKey retrieves the payment posted to a folio with a caller key.
func (r *PgxPaymentRepository) FindPaymentByIdempotencyKey(ctx context.Context, folioID string, key string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE folio_id = $1 AND idempotency_key = $2;`
	p, err := scanPayment(r.q(ctx).QueryRow(ctx, query, folioID, key))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("payment with idempotency key %s", key))
	}
	return &p, nil
}

// ListPayments lists a folio's payments in posting order.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, folioID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE folio_id = $1 ORDER BY created_at, payment_id;`
	rows, err := r.q(ctx).Query(ctx, query, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of folio %s: %w", folioID, err)
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments: %w", err)
	}
	return payments, nil
}

// SumPayments totals a property's non-voided payments created in [from, to).
func (r *PgxPaymentRepository) SumPayments(ctx context.Context, propertyID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN folios f ON f.folio_id = p.folio_id
		WHERE f.property_id = $1 AND p.voided = FALSE AND p.created_at >= $2 AND p.created_at < $3;
	`
	var total decimal.Decimal
	if err := r.q(ctx).QueryRow(ctx, query, propertyID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for property %s: %w", propertyID, err)
	}
	return total, nil
}

// SavePayment appends a payment line. A reused idempotency key surfaces as ErrDuplicate.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.q(ctx).Exec(ctx, query,
		p.PaymentID, p.FolioID, p.Amount, p.Method, p.ReferenceNumber, p.Notes, p.CorporateAccountID,
		p.IdempotencyKey, p.Voided, p.VoidReason, p.VoidedBy, p.VoidedAt,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save payment %s", p.PaymentID))
}

// MarkPaymentVoided flips the voided flag once.
func (r *PgxPaymentRepository) MarkPaymentVoided(ctx context.Context, paymentID string, reason string, actor string, now time.Time) error {
	query := `
		UPDATE payments
		SET voided = TRUE, void_reason = $2, voided_by = $3, voided_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE payment_id = $1 AND voided = FALSE;
	`
	tag, err := r.q(ctx).Exec(ctx, query, paymentID, reason, actor, now)
	if err != nil {
		return fmt.Errorf("failed to void payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindPaymentByID(ctx, paymentID); err != nil {
			return err
		}
		return fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrAlreadyVoided)
	}
	return nil
}
