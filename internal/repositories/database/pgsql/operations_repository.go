package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOperationsRepository reads the POS and housekeeping tables for the pre-audit checklist.
type PgxOperationsRepository struct {
	BaseRepository
}

func newPgxOperationsRepository(pool *pgxpool.Pool) portsrepo.OperationsReader {
	return &PgxOperationsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OperationsReader = (*PgxOperationsRepository)(nil)

// CountUnpostedPOSOrders counts closed POS orders not yet posted to a folio.
func (r *PgxOperationsRepository) CountUnpostedPOSOrders(ctx context.Context, propertyID string, businessDate time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM pos_orders
		WHERE property_id = $1 AND business_date = $2 AND status = 'closed' AND posted = FALSE;
	`
	var n int
	if err := r.q(ctx).QueryRow(ctx, query, propertyID, domain.NormalizeDate(businessDate)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unposted POS orders: %w", err)
	}
	return n, nil
}

// CountIncompleteHousekeepingTasks counts open housekeeping tasks.
func (r *PgxOperationsRepository) CountIncompleteHousekeepingTasks(ctx context.Context, propertyID string) (int, error) {
	query := `SELECT COUNT(*) FROM housekeeping_tasks WHERE property_id = $1 AND completed = FALSE;`
	var n int
	if err := r.q(ctx).QueryRow(ctx, query, propertyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count incomplete housekeeping tasks: %w", err)
	}
	return n, nil
}
