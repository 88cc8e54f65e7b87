package repositories

import (
	"context"

	"github.com/SscSPs/property_management_app/internal/core/domain"
)

// PropertyReader defines read operations for property data
type PropertyReader interface {
	// FindPropertyByID retrieves a property by its ID.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)
}

// PropertyWriter defines write operations for property data
type PropertyWriter interface {
	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error

	// NextSequence atomically increments and returns a named per-property counter
	// (folio and reservation numbers).
	NextSequence(ctx context.Context, propertyID string, name string) (int64, error)
}

// PropertyRepositoryFacade combines all property-related repository interfaces
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
}
