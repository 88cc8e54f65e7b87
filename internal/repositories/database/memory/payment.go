package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) FindPaymentByIdempotencyKey(_ context.Context, folioID string, key string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data.payments {
		if p.FolioID == folioID && p.IdempotencyKey != nil && *p.IdempotencyKey == key {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("payment with idempotency key %s: %w", key, apperrors.ErrNotFound)
}

func (s *Store) ListPayments(_ context.Context, folioID string) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Payment{}
	for _, p := range s.data.payments {
		if p.FolioID == folioID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PaymentID < out[j].PaymentID
	})
	return out, nil
}

func (s *Store) SumPayments(_ context.Context, propertyID string, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range s.data.payments {
		if p.Voided || p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
			continue
		}
		if f, ok := s.data.folios[p.FolioID]; ok && f.PropertyID == propertyID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (s *Store) SavePayment(_ context.Context, payment domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.payments {
		if existing.PaymentID == payment.PaymentID {
			return fmt.Errorf("payment %s: %w", payment.PaymentID, apperrors.ErrDuplicate)
		}
		if payment.IdempotencyKey != nil && existing.IdempotencyKey != nil &&
			existing.FolioID == payment.FolioID && *existing.IdempotencyKey == *payment.IdempotencyKey {
			return fmt.Errorf("payment with idempotency key %s: %w", *payment.IdempotencyKey, apperrors.ErrDuplicate)
		}
	}
	s.data.payments[payment.PaymentID] = payment
	return nil
}

func (s *Store) MarkPaymentVoided(_ context.Context, paymentID string, reason string, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.payments[paymentID]
	if !ok {
		return fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
	}
	if p.Voided {
		return fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrAlreadyVoided)
	}
	voidedAt, voidedBy, voidReason := now, actor, reason
	p.Voided = true
	p.VoidReason = &voidReason
	p.VoidedBy = &voidedBy
	p.VoidedAt = &voidedAt
	p.Touch(actor, now)
	s.data.payments[paymentID] = p
	return nil
}
