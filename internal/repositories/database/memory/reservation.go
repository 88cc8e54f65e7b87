package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func copyReservation(r domain.Reservation) domain.Reservation {
	rooms := make([]domain.ReservationRoom, len(r.Rooms))
	copy(rooms, r.Rooms)
	r.Rooms = rooms
	return r
}

func (s *Store) FindReservationByID(_ context.Context, reservationID string) (*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
	}
	r = copyReservation(r)
	return &r, nil
}

func (s *Store) FindReservationByIDForUpdate(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.FindReservationByID(ctx, reservationID)
}

func (s *Store) ListReservationsByStatus(_ context.Context, propertyID string, status domain.ReservationStatus) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Reservation{}
	for _, r := range s.data.reservations {
		if r.PropertyID == propertyID && r.Status == status {
			out = append(out, copyReservation(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationNumber < out[j].ReservationNumber })
	return out, nil
}

func (s *Store) CountReservationsForDay(_ context.Context, propertyID string, day time.Time) (portsrepo.ReservationDayCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day = domain.NormalizeDate(day)
	var counts portsrepo.ReservationDayCounts
	for _, r := range s.data.reservations {
		if r.PropertyID != propertyID {
			continue
		}
		arrivesToday := r.CheckInDate.Equal(day)
		switch r.Status {
		case domain.ReservationConfirmed:
			if arrivesToday {
				counts.PendingArrivals++
			}
		case domain.ReservationCheckedIn:
			if arrivesToday {
				counts.Arrivals++
			}
		case domain.ReservationCheckedOut:
			if arrivesToday {
				counts.Arrivals++
			}
			if r.CheckOutDate.Equal(day) {
				counts.Departures++
			}
		case domain.ReservationNoShow:
			if arrivesToday {
				counts.NoShows++
			}
		}
	}
	return counts, nil
}

func (s *Store) SaveReservation(_ context.Context, reservation domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.reservations[reservation.ReservationID]; ok {
		return fmt.Errorf("reservation %s: %w", reservation.ReservationID, apperrors.ErrDuplicate)
	}
	s.data.reservations[reservation.ReservationID] = copyReservation(reservation)
	return nil
}

func (s *Store) UpdateReservation(_ context.Context, reservation domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.reservations[reservation.ReservationID]; !ok {
		return fmt.Errorf("reservation %s: %w", reservation.ReservationID, apperrors.ErrNotFound)
	}
	s.data.reservations[reservation.ReservationID] = copyReservation(reservation)
	return nil
}

func (s *Store) AdjustPaidAmount(_ context.Context, reservationID string, delta decimal.Decimal, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[reservationID]
	if !ok {
		return fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
	}
	r.PaidAmount = r.PaidAmount.Add(delta)
	r.Touch(actor, now)
	s.data.reservations[reservationID] = r
	return nil
}
