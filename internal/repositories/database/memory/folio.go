package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/property_management_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) FindFolioByID(_ context.Context, folioID string) (*domain.Folio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.data.folios[folioID]
	if !ok {
		return nil, fmt.Errorf("folio %s: %w", folioID, apperrors.ErrNotFound)
	}
	return &f, nil
}

func (s *Store) FindFolioByIDForUpdate(ctx context.Context, folioID string) (*domain.Folio, error) {
	return s.FindFolioByID(ctx, folioID)
}

func (s *Store) FindFolioByReservationID(_ context.Context, reservationID string) (*domain.Folio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.data.folios {
		if f.ReservationID != nil && *f.ReservationID == reservationID {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("folio for reservation %s: %w", reservationID, apperrors.ErrNotFound)
}

func (s *Store) ListFoliosByProperty(_ context.Context, propertyID string, status *domain.FolioStatus) ([]domain.Folio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Folio{}
	for _, f := range s.data.folios {
		if f.PropertyID != propertyID || (status != nil && f.Status != *status) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FolioNumber < out[j].FolioNumber })
	return out, nil
}

func (s *Store) SaveFolio(_ context.Context, folio domain.Folio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.folios {
		if existing.FolioID == folio.FolioID {
			return fmt.Errorf("folio %s: %w", folio.FolioID, apperrors.ErrDuplicate)
		}
		if existing.PropertyID == folio.PropertyID && existing.FolioNumber == folio.FolioNumber {
			return fmt.Errorf("folio number %s: %w", folio.FolioNumber, apperrors.ErrDuplicate)
		}
		if folio.ReservationID != nil && existing.ReservationID != nil && *existing.ReservationID == *folio.ReservationID {
			return fmt.Errorf("folio for reservation %s: %w", *folio.ReservationID, apperrors.ErrDuplicate)
		}
	}
	s.data.folios[folio.FolioID] = folio
	return nil
}

func (s *Store) ApplyFolioDelta(_ context.Context, folioID string, delta domain.FolioDelta, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.data.folios[folioID]
	if !ok {
		return fmt.Errorf("folio %s: %w", folioID, apperrors.ErrNotFound)
	}
	f.Apply(delta)
	f.Touch(actor, now)
	s.data.folios[folioID] = f
	return nil
}

func (s *Store) CloseFolio(_ context.Context, folioID string, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.data.folios[folioID]
	if !ok {
		return fmt.Errorf("folio %s: %w", folioID, apperrors.ErrNotFound)
	}
	closedAt := now
	f.Status = domain.FolioClosed
	f.ClosedAt = &closedAt
	f.Touch(actor, now)
	s.data.folios[folioID] = f
	return nil
}

func (s *Store) FindFolioItemByID(_ context.Context, itemID string) (*domain.FolioItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.data.items[itemID]
	if !ok {
		return nil, fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return &item, nil
}

func (s *Store) folioItems(folioID string) []domain.FolioItem {
	out := []domain.FolioItem{}
	for _, item := range s.data.items {
		if item.FolioID == folioID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

func (s *Store) ListFolioItems(_ context.Context, folioID string) ([]domain.FolioItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.folioItems(folioID), nil
}

func (s *Store) ListFolioItemsPage(_ context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioItem, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.folioItems(folioID)

	start := 0
	if nextToken != nil && *nextToken != "" {
		afterAt, afterID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start = sort.Search(len(items), func(i int) bool {
			if !items[i].CreatedAt.Equal(afterAt) {
				return items[i].CreatedAt.After(afterAt)
			}
			return items[i].ItemID > afterID
		})
	}

	end := start + limit
	if end >= len(items) {
		return items[start:], nil, nil
	}
	last := items[end-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.ItemID)
	return items[start:end], &token, nil
}

func (s *Store) RoomChargeExists(_ context.Context, referenceID string, serviceDate time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	serviceDate = domain.NormalizeDate(serviceDate)
	for _, item := range s.data.items {
		if item.ItemType == domain.ItemRoomCharge && !item.Voided &&
			item.ReferenceID != nil && *item.ReferenceID == referenceID &&
			item.ServiceDate.Equal(serviceDate) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SumItemsByType(_ context.Context, propertyID string, serviceDate time.Time) ([]portsrepo.ItemTypeTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	serviceDate = domain.NormalizeDate(serviceDate)
	byType := make(map[domain.ItemType]*portsrepo.ItemTypeTotal)
	for _, item := range s.data.items {
		if item.Voided || !item.ServiceDate.Equal(serviceDate) {
			continue
		}
		if f, ok := s.data.folios[item.FolioID]; !ok || f.PropertyID != propertyID {
			continue
		}
		t, ok := byType[item.ItemType]
		if !ok {
			t = &portsrepo.ItemTypeTotal{ItemType: item.ItemType, Total: decimal.Zero, Tax: decimal.Zero, ServiceCharge: decimal.Zero}
			byType[item.ItemType] = t
		}
		t.Count++
		t.Total = t.Total.Add(item.TotalPrice)
		t.Tax = t.Tax.Add(item.TaxAmount)
		t.ServiceCharge = t.ServiceCharge.Add(item.ServiceCharge)
	}
	out := make([]portsrepo.ItemTypeTotal, 0, len(byType))
	for _, t := range byType {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemType < out[j].ItemType })
	return out, nil
}

func (s *Store) SaveFolioItem(_ context.Context, item domain.FolioItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.items[item.ItemID]; ok {
		return fmt.Errorf("folio item %s: %w", item.ItemID, apperrors.ErrDuplicate)
	}
	if item.ItemType == domain.ItemRoomCharge && item.ReferenceID != nil {
		for _, existing := range s.data.items {
			if existing.ItemType == domain.ItemRoomCharge && !existing.Voided &&
				existing.ReferenceID != nil && *existing.ReferenceID == *item.ReferenceID &&
				existing.ServiceDate.Equal(item.ServiceDate) {
				return fmt.Errorf("room charge %s on %s: %w", *item.ReferenceID, item.ServiceDate.Format(domain.DateLayout), apperrors.ErrDuplicate)
			}
		}
	}
	s.data.items[item.ItemID] = item
	return nil
}

func (s *Store) MarkFolioItemVoided(_ context.Context, itemID string, reason string, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.data.items[itemID]
	if !ok {
		return fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrNotFound)
	}
	if item.Voided {
		return fmt.Errorf("folio item %s: %w", itemID, apperrors.ErrAlreadyVoided)
	}
	voidedAt, voidedBy, voidReason := now, actor, reason
	item.Voided = true
	item.VoidReason = &voidReason
	item.VoidedBy = &voidedBy
	item.VoidedAt = &voidedAt
	item.Touch(actor, now)
	s.data.items[itemID] = item
	return nil
}
