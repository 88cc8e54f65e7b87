package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
)

// propertyService resolves properties and scopes them to the caller's tenant.
type propertyService struct {
	BaseService
	propertyRepo portsrepo.PropertyRepositoryFacade
}

// NewPropertyService creates a new property service.
func NewPropertyService(repo portsrepo.PropertyRepositoryFacade, opts ...ServiceOption) portssvc.PropertySvcFacade {
	return &propertyService{
		BaseService:  newBaseService(opts...),
		propertyRepo: repo,
	}
}

var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

func (s *propertyService) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load property", slog.String("property_id", propertyID))
		}
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}
	return property, nil
}

func (s *propertyService) AuthorizeTenant(ctx context.Context, tenantID, propertyID string) (*domain.Property, error) {
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.TenantID != tenantID {
		s.LogWarn(ctx, "Property requested by another tenant",
			slog.String("property_id", propertyID),
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
	}
	return property, nil
}
