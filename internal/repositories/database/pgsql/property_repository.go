package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPropertyRepository implements the PropertyRepositoryFacade interface using pgx.
type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

// FindPropertyByID retrieves a property by its ID.
func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `
		SELECT property_id, tenant_id, name, currency_code, tax_rate, service_charge_rate, timezone,
		       business_day_cutover_hour, created_at, created_by, last_updated_at, last_updated_by
		FROM properties
		WHERE property_id = $1;
	`
	var p domain.Property
	err := r.q(ctx).QueryRow(ctx, query, propertyID).Scan(
		&p.PropertyID,
		&p.TenantID,
		&p.Name,
		&p.CurrencyCode,
		&p.TaxRate,
		&p.ServiceChargeRate,
		&p.Timezone,
		&p.CutoverHour,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("property %s", propertyID))
	}
	return &p, nil
}

// SaveProperty persists a new property.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, p domain.Property) error {
	query := `
		INSERT INTO properties (property_id, tenant_id, name, currency_code, tax_rate, service_charge_rate,
		                        timezone, business_day_cutover_hour, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q(ctx).Exec(ctx, query,
		p.PropertyID, p.TenantID, p.Name, p.CurrencyCode, p.TaxRate, p.ServiceChargeRate,
		p.Timezone, p.CutoverHour, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save property %s", p.PropertyID))
}

// NextSequence increments a per-property counter, creating it on first use.
func (r *PgxPropertyRepository) NextSequence(ctx context.Context, propertyID string, name string) (int64, error) {
	query := `
		INSERT INTO property_counters (property_id, name, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (property_id, name) DO UPDATE SET value = property_counters.value + 1
		RETURNING value;
	`
	var value int64
	if err := r.q(ctx).QueryRow(ctx, query, propertyID, name).Scan(&value); err != nil {
		return 0, mapError(err, fmt.Sprintf("next %s sequence for property %s", name, propertyID))
	}
	return value, nil
}
