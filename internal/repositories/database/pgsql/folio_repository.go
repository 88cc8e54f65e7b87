package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/property_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFolioRepository implements the FolioRepositoryFacade interface using pgx.
type PgxFolioRepository struct {
	BaseRepository
}

// newPgxFolioRepository creates a new repository for folios and their charge lines.
func newPgxFolioRepository(pool *pgxpool.Pool) portsrepo.FolioRepositoryFacade {
	return &PgxFolioRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FolioRepositoryFacade = (*PgxFolioRepository)(nil)

const folioColumns = `folio_id, property_id, folio_number, guest_id, reservation_id, status,
	subtotal, tax_amount, service_charge, total_amount, paid_amount, balance, closed_at,
	created_at, created_by, last_updated_at, last_updated_by`

const folioItemColumns = `item_id, folio_id, item_type, description, unit_price, quantity, total_price,
	tax_amount, service_charge, service_date, reference_id, voided, void_reason, voided_by, voided_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFolio(row pgx.Row) (domain.Folio, error) {
	var f domain.Folio
	err := row.Scan(
		&f.FolioID,
		&f.PropertyID,
		&f.FolioNumber,
		&f.GuestID,
		&f.ReservationID,
		&f.Status,
		&f.Subtotal,
		&f.TaxAmount,
		&f.ServiceCharge,
		&f.TotalAmount,
		&f.PaidAmount,
		&f.Balance,
		&f.ClosedAt,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	return f, err
}

func scanFolioItem(row pgx.Row) (domain.FolioItem, error) {
	var item domain.FolioItem
	err := row.Scan(
		&item.ItemID,
		&item.FolioID,
		&item.ItemType,
		&item.Description,
		&item.UnitPrice,
		&item.Quantity,
		&item.TotalPrice,
		&item.TaxAmount,
		&item.ServiceCharge,
		&item.ServiceDate,
		&item.ReferenceID,
		&item.Voided,
		&item.VoidReason,
		&item.VoidedBy,
		&item.VoidedAt,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	return item, err
}

func collectFolioItems(rows pgx.Rows) ([]domain.FolioItem, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FolioItem, error) {
		return scanFolioItem(row)
	})
}

// FindFolioByID retrieves a folio by its ID.
func (r *PgxFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE folio_id = $1;`
	f, err := scanFolio(r.q(ctx).QueryRow(ctx, query, folioID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("folio %s", folioID))
	}
	return &f, nil
}

// FindFolioByIDForUpdate retrieves and locks a folio row.
func (r *PgxFolioRepository) FindFolioByIDForUpdate(ctx context.Context, folioID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE folio_id = $1 FOR UPDATE;`
	f, err := scanFolio(r.q(ctx).QueryRow(ctx, query, folioID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("folio %s", folioID))
	}
	return &f, nil
}

// FindFolioByReservationID retrieves the folio owned by a reservation.
func (r *PgxFolioRepository) FindFolioByReservationID(ctx context.Context, reservationID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE reservation_id = $1;`
	f, err := scanFolio(r.q(ctx).QueryRow(ctx, query, reservationID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("folio for reservation %s", reservationID))
	}
	return &f, nil
}

// ListFoliosByProperty lists a property's folios, optionally filtered by status.
func (r *PgxFolioRepository) ListFoliosByProperty(ctx context.Context, propertyID string, status *domain.FolioStatus) ([]domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios
		WHERE property_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY folio_number;`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	rows, err := r.q(ctx).Query(ctx, query, propertyID, statusArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query folios for property %s: %w", propertyID, err)
	}
	folios, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Folio, error) {
		return scanFolio(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan folios: %w", err)
	}
	return folios, nil
}

// SaveFolio persists a new folio.
func (r *PgxFolioRepository) SaveFolio(ctx context.Context, f domain.Folio) error {
	query := `INSERT INTO folios (` + folioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err := r.q(ctx).Exec(ctx, query,
		f.FolioID, f.PropertyID, f.FolioNumber, f.GuestID, f.ReservationID, f.Status,
		f.Subtotal, f.TaxAmount, f.ServiceCharge, f.TotalAmount, f.PaidAmount, f.Balance, f.ClosedAt,
		f.CreatedAt, f.CreatedBy, f.LastUpdatedAt, f.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save folio %s", f.FolioNumber))
}

// ApplyFolioDelta adds the delta server-side so the row never holds a stale total.
func (r *PgxFolioRepository) ApplyFolioDelta(ctx context.Context, folioID string, delta domain.FolioDelta, actor string, now time.Time) error {
	query := `
		UPDATE folios
		SET subtotal       = subtotal + $2,
		    tax_amount     = tax_amount + $3,
		    service_charge = service_charge + $4,
		    total_amount   = total_amount + $5,
		    paid_amount    = paid_amount + $6,
		    balance        = balance + $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE folio_id = $1;
	`
	tag, err := r.q(ctx).Exec(ctx, query, folioID,
		delta.Subtotal, delta.Tax, delta.ServiceCharge, delta.Total(), delta.Paid, delta.Balance(),
		now, actor,
	)
	if err != nil {
		return fmt.Errorf("failed to apply delta to folio %s: %w", folioID, err)
	}
	return expectOne(tag, fmt.Sprintf("folio %s", folioID))
}

// CloseFolio marks a folio closed.
func (r *PgxFolioRepository) CloseFolio(ctx context.Context, folioID string, actor string, now time.Time) error {
	query := `
		UPDATE folios
		SET status = 'closed', closed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE folio_id = $1;
	`
	tag, err := r.q(ctx).Exec(ctx, query, folioID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to close folio %s: %w", folioID, err)
	}
	return expectOne(tag, fmt.Sprintf("folio %s", folioID))
}

// FindFolioItemByID retrieves a charge line.
func (r *PgxFolioRepository) FindFolioItemByID(ctx context.Context, itemID string) (*domain.FolioItem, error) {
	query := `SELECT ` + folioItemColumns + ` FROM folio_items WHERE item_id = $1;`
	item, err := scanFolioItem(r.q(ctx).QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("folio item %s", itemID))
	}
	return &item, nil
}

// ListFolioItems lists every line of a folio in posting order.
func (r *PgxFolioRepository) ListFolioItems(ctx context.Context, folioID string) ([]domain.FolioItem, error) {
	query := `SELECT ` + folioItemColumns + ` FROM folio_items WHERE folio_id = $1 ORDER BY created_at, item_id;`
	rows, err := r.q(ctx).Query(ctx, query, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of folio %s: %w", folioID, err)
	}
	items, err := collectFolioItems(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan folio items: %w", err)
	}
	return items, nil
}

// ListFolioItemsPage lists a folio's lines in posting order using a keyset cursor.
func (r *PgxFolioRepository) ListFolioItemsPage(ctx context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioItem, *string, error) {
	args := []any{folioID}
	query := `SELECT ` + folioItemColumns + ` FROM folio_items WHERE folio_id = $1`
	if nextToken != nil && *nextToken != "" {
		afterAt, afterID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, item_id) > ($2, $3)`
		args = append(args, afterAt, afterID)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at, item_id LIMIT %d;`, limit+1)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query items of folio %s: %w", folioID, err)
	}
	items, err := collectFolioItems(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan folio items: %w", err)
	}

	if len(items) <= limit {
		return items, nil, nil
	}
	items = items[:limit]
	last := items[limit-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.ItemID)
	return items, &token, nil
}

// RoomChargeExists reports whether a live room charge exists for a reservation room and night.
func (r *PgxFolioRepository) RoomChargeExists(ctx context.Context, referenceID string, serviceDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM folio_items
			WHERE reference_id = $1 AND service_date = $2
			  AND item_type = 'room_charge' AND voided = FALSE
		);
	`
	var exists bool
	if err := r.q(ctx).QueryRow(ctx, query, referenceID, domain.NormalizeDate(serviceDate)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check room charge for %s: %w", referenceID, err)
	}
	return exists, nil
}

// SumItemsByType aggregates a property's non-voided lines for a service date.
func (r *PgxFolioRepository) SumItemsByType(ctx context.Context, propertyID string, serviceDate time.Time) ([]portsrepo.ItemTypeTotal, error) {
	query := `
		SELECT i.item_type, COUNT(*),
		       COALESCE(SUM(i.total_price), 0), COALESCE(SUM(i.tax_amount), 0), COALESCE(SUM(i.service_charge), 0)
		FROM folio_items i
		JOIN folios f ON f.folio_id = i.folio_id
		WHERE f.property_id = $1 AND i.service_date = $2 AND i.voided = FALSE
		GROUP BY i.item_type
		ORDER BY i.item_type;
	`
	rows, err := r.q(ctx).Query(ctx, query, propertyID, domain.NormalizeDate(serviceDate))
	if err != nil {
		return nil, fmt.Errorf("failed to sum folio items: %w", err)
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.ItemTypeTotal, error) {
		var t portsrepo.ItemTypeTotal
		err := row.Scan(&t.ItemType, &t.Count, &t.Total, &t.Tax, &t.ServiceCharge)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan folio item totals: %w", err)
	}
	return totals, nil
}

// SaveFolioItem appends a charge line. A second live room charge for the same
// night is dropped by uq_folio_items_room_charge and reported as ErrDuplicate
// without aborting the surrounding transaction.
func (r *PgxFolioRepository) SaveFolioItem(ctx context.Context, item domain.FolioItem) error {
	query := `INSERT INTO folio_items (` + folioItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (reference_id, service_date) WHERE item_type = 'room_charge' AND voided = FALSE DO NOTHING;`
	tag, err := r.q(ctx).Exec(ctx, query,
		item.ItemID, item.FolioID, item.ItemType, item.Description, item.UnitPrice, item.Quantity, item.TotalPrice,
		item.TaxAmount, item.ServiceCharge, domain.NormalizeDate(item.ServiceDate), item.ReferenceID,
		item.Voided, item.VoidReason, item.VoidedBy, item.VoidedAt,
		item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("save folio item %s", item.ItemID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room charge for %s on %s: %w", *item.ReferenceID, item.ServiceDate.Format(domain.DateLayout), apperrors.ErrDuplicate)
	}
	return nil
}

// MarkFolioItemVoided flips the voided flag once.
func (r *PgxFolioRepository) MarkFolioItemVoided(ctx context.Context, itemID string, reason string, actor string, now time.Time) error {
	query := `
		UPDATE folio_items
		SET voided = TRUE, void_reason = $2, voided_by = $3, voided_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE item_id = $1 AND voided = FALSE;
	`
	tag, err := r.q(ctx).Exec(ctx, query, itemID, reason, actor, now)
	if err != nil {
		return fmt.Errorf("failed to void folio item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindFolioItemByID(ctx, itemID); err != nil {
			return err
		}
		return fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrAlreadyVoided)
	}
	return nil
}
