package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveCorporateAccount(_ context.Context, account domain.CorporateAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.corporate[account.CorporateAccountID]; ok {
		return fmt.Errorf("corporate account %s: %w", account.CorporateAccountID, apperrors.ErrDuplicate)
	}
	s.data.corporate[account.CorporateAccountID] = account
	return nil
}

func (s *Store) FindCorporateAccountByID(_ context.Context, accountID string) (*domain.CorporateAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data.corporate[accountID]
	if !ok {
		return nil, fmt.Errorf("corporate account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) FindCorporateAccountByIDForUpdate(ctx context.Context, accountID string) (*domain.CorporateAccount, error) {
	return s.FindCorporateAccountByID(ctx, accountID)
}

func (s *Store) AdjustCorporateBalance(_ context.Context, accountID string, delta decimal.Decimal, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.corporate[accountID]
	if !ok {
		return fmt.Errorf("corporate account %s: %w", accountID, apperrors.ErrNotFound)
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.Touch(actor, now)
	s.data.corporate[accountID] = a
	return nil
}
