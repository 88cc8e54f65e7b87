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

// PgxNightAuditRepository implements the NightAuditRepositoryFacade interface using pgx.
type PgxNightAuditRepository struct {
	BaseRepository
}

// newPgxNightAuditRepository creates a new repository for night audit records.
func newPgxNightAuditRepository(pool *pgxpool.Pool) portsrepo.NightAuditRepositoryFacade {
	return &PgxNightAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NightAuditRepositoryFacade = (*PgxNightAuditRepository)(nil)

const nightAuditColumns = `night_audit_id, property_id, business_date, status, started_at, completed_at, run_by,
	rooms_charged, total_room_revenue, total_fb_revenue, total_other_revenue, total_payments,
	occupancy_rate, adr, revpar, report, notes, failure_reason,
	created_at, created_by, last_updated_at, last_updated_by`

func scanNightAudit(row pgx.Row) (domain.NightAudit, error) {
	var a domain.NightAudit
	var report []byte
	err := row.Scan(
		&a.NightAuditID,
		&a.PropertyID,
		&a.BusinessDate,
		&a.Status,
		&a.StartedAt,
		&a.CompletedAt,
		&a.RunBy,
		&a.RoomsCharged,
		&a.TotalRoomRevenue,
		&a.TotalFBRevenue,
		&a.TotalOtherRevenue,
		&a.TotalPayments,
		&a.OccupancyRate,
		&a.ADR,
		&a.RevPAR,
		&report,
		&a.Notes,
		&a.FailureReason,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if len(report) > 0 {
		a.Report = report
	}
	return a, err
}

// reportArg maps an empty report to SQL NULL.
func reportArg(a domain.NightAudit) any {
	if len(a.Report) == 0 {
		return nil
	}
	return string(a.Report)
}

// FindNightAudit retrieves the audit of a property for a business date.
func (r *PgxNightAuditRepository) FindNightAudit(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	query := `SELECT ` + nightAuditColumns + ` FROM night_audits WHERE property_id = $1 AND business_date = $2;`
	a, err := scanNightAudit(r.q(ctx).QueryRow(ctx, query, propertyID, domain.NormalizeDate(businessDate)))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("night audit %s", businessDate.Format(domain.DateLayout)))
	}
	return &a, nil
}

// FindNightAuditForUpdate retrieves and locks an audit row.
func (r *PgxNightAuditRepository) FindNightAuditForUpdate(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	query := `SELECT ` + nightAuditColumns + ` FROM night_audits WHERE property_id = $1 AND business_date = $2 FOR UPDATE;`
	a, err := scanNightAudit(r.q(ctx).QueryRow(ctx, query, propertyID, domain.NormalizeDate(businessDate)))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("night audit %s", businessDate.Format(domain.DateLayout)))
	}
	return &a, nil
}

// LatestCompletedBusinessDate returns the most recent completed business date, or nil.
func (r *PgxNightAuditRepository) LatestCompletedBusinessDate(ctx context.Context, propertyID string) (*time.Time, error) {
	query := `SELECT MAX(business_date) FROM night_audits WHERE property_id = $1 AND status = 'completed';`
	var latest *time.Time
	if err := r.q(ctx).QueryRow(ctx, query, propertyID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to find latest closed business date for property %s: %w", propertyID, err)
	}
	return latest, nil
}

// ListNightAudits lists a property's audits newest first.
func (r *PgxNightAuditRepository) ListNightAudits(ctx context.Context, propertyID string, limit int, nextToken *string) ([]domain.NightAudit, *string, error) {
	args := []any{propertyID}
	query := `SELECT ` + nightAuditColumns + ` FROM night_audits WHERE property_id = $1`
	if nextToken != nil && *nextToken != "" {
		before, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND business_date < $2`
		args = append(args, domain.NormalizeDate(before))
	}
	query += fmt.Sprintf(` ORDER BY business_date DESC LIMIT %d;`, limit+1)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query night audits: %w", err)
	}
	audits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NightAudit, error) {
		return scanNightAudit(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan night audits: %w", err)
	}

	if len(audits) <= limit {
		return audits, nil, nil
	}
	audits = audits[:limit]
	token := pagination.EncodeDateBasedToken(audits[limit-1].BusinessDate)
	return audits, &token, nil
}

// SaveNightAudit inserts a new audit row; one per property and business date.
func (r *PgxNightAuditRepository) SaveNightAudit(ctx context.Context, a domain.NightAudit) error {
	query := `INSERT INTO night_audits (` + nightAuditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`
	_, err := r.q(ctx).Exec(ctx, query,
		a.NightAuditID, a.PropertyID, domain.NormalizeDate(a.BusinessDate), a.Status, a.StartedAt, a.CompletedAt, a.RunBy,
		a.RoomsCharged, a.TotalRoomRevenue, a.TotalFBRevenue, a.TotalOtherRevenue, a.TotalPayments,
		a.OccupancyRate, a.ADR, a.RevPAR, reportArg(a), a.Notes, a.FailureReason,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save night audit %s", a.BusinessDate.Format(domain.DateLayout)))
}

// UpdateNightAudit updates status, timestamps and the statistics snapshot in place.
func (r *PgxNightAuditRepository) UpdateNightAudit(ctx context.Context, a domain.NightAudit) error {
	query := `
		UPDATE night_audits
		SET status = $3, started_at = $4, completed_at = $5, run_by = $6,
		    rooms_charged = $7, total_room_revenue = $8, total_fb_revenue = $9, total_other_revenue = $10,
		    total_payments = $11, occupancy_rate = $12, adr = $13, revpar = $14,
		    report = $15, notes = $16, failure_reason = $17,
		    last_updated_at = $18, last_updated_by = $19
		WHERE property_id = $1 AND business_date = $2;
	`
	tag, err := r.q(ctx).Exec(ctx, query,
		a.PropertyID, domain.NormalizeDate(a.BusinessDate), a.Status, a.StartedAt, a.CompletedAt, a.RunBy,
		a.RoomsCharged, a.TotalRoomRevenue, a.TotalFBRevenue, a.TotalOtherRevenue,
		a.TotalPayments, a.OccupancyRate, a.ADR, a.RevPAR,
		reportArg(a), a.Notes, a.FailureReason,
		a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update night audit %s: %w", a.BusinessDate.Format(domain.DateLayout), err)
	}
	return expectOne(tag, fmt.Sprintf("night audit %s", a.BusinessDate.Format(domain.DateLayout)))
}
