package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/SscSPs/property_management_app/internal/utils/pagination"
)

func auditKey(propertyID string, businessDate time.Time) string {
	return propertyID + "/" + domain.NormalizeDate(businessDate).Format(domain.DateLayout)
}

func (s *Store) FindNightAudit(_ context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data.audits[auditKey(propertyID, businessDate)]
	if !ok {
		return nil, fmt.Errorf("night audit %s: %w", businessDate.Format(domain.DateLayout), apperrors.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) FindNightAuditForUpdate(ctx context.Context, propertyID string, businessDate time.Time) (*domain.NightAudit, error) {
	return s.FindNightAudit(ctx, propertyID, businessDate)
}

func (s *Store) LatestCompletedBusinessDate(_ context.Context, propertyID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *time.Time
	for _, a := range s.data.audits {
		if a.PropertyID != propertyID || a.Status != domain.AuditCompleted {
			continue
		}
		if latest == nil || a.BusinessDate.After(*latest) {
			d := a.BusinessDate
			latest = &d
		}
	}
	return latest, nil
}

func (s *Store) ListNightAudits(_ context.Context, propertyID string, limit int, nextToken *string) ([]domain.NightAudit, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var before *time.Time
	if nextToken != nil && *nextToken != "" {
		d, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = &d
	}

	audits := []domain.NightAudit{}
	for _, a := range s.data.audits {
		if a.PropertyID != propertyID {
			continue
		}
		if before != nil && !a.BusinessDate.Before(*before) {
			continue
		}
		audits = append(audits, a)
	}
	sort.Slice(audits, func(i, j int) bool { return audits[i].BusinessDate.After(audits[j].BusinessDate) })

	if len(audits) <= limit {
		return audits, nil, nil
	}
	audits = audits[:limit]
	token := pagination.EncodeDateBasedToken(audits[limit-1].BusinessDate)
	return audits, &token, nil
}

func (s *Store) SaveNightAudit(_ context.Context, audit domain.NightAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := auditKey(audit.PropertyID, audit.BusinessDate)
	if _, ok := s.data.audits[key]; ok {
		return fmt.Errorf("night audit %s: %w", key, apperrors.ErrDuplicate)
	}
	s.data.audits[key] = audit
	return nil
}

func (s *Store) UpdateNightAudit(_ context.Context, audit domain.NightAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := auditKey(audit.PropertyID, audit.BusinessDate)
	if _, ok := s.data.audits[key]; !ok {
		return fmt.Errorf("night audit %s: %w", key, apperrors.ErrNotFound)
	}
	s.data.audits[key] = audit
	return nil
}
