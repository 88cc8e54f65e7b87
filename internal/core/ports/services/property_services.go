package services

import (
	"context"

	"github.com/SscSPs/property_management_app/internal/core/domain"
)

// PropertyReaderSvc defines read operations for properties.
type PropertyReaderSvc interface {
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)
}

// PropertyAuthorizerSvc scopes callers to the properties of their tenant.
type PropertyAuthorizerSvc interface {
	// AuthorizeTenant returns the property when it belongs to tenantID.
	// Properties of other tenants are reported as not found.
	AuthorizeTenant(ctx context.Context, tenantID, propertyID string) (*domain.Property, error)
}

// PropertySvcFacade combines all property-related service interfaces.
type PropertySvcFacade interface {
	PropertyReaderSvc
	PropertyAuthorizerSvc
}
