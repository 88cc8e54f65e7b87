package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
)

func (s *Store) FindPropertyByID(_ context.Context, propertyID string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) SaveProperty(_ context.Context, property domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.properties[property.PropertyID]; ok {
		return fmt.Errorf("property %s: %w", property.PropertyID, apperrors.ErrDuplicate)
	}
	s.data.properties[property.PropertyID] = property
	return nil
}

func (s *Store) NextSequence(_ context.Context, propertyID string, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := propertyID + "/" + name
	s.data.sequences[key]++
	return s.data.sequences[key], nil
}
