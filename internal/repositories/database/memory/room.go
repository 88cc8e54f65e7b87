package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/property_management_app/internal/apperrors"
	"github.com/SscSPs/property_management_app/internal/core/domain"
)

func (s *Store) FindRoomByID(_ context.Context, roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.data.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}
	return &room, nil
}

func (s *Store) FindRoomTypeByID(_ context.Context, roomTypeID string) (*domain.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.data.roomTypes[roomTypeID]
	if !ok {
		return nil, fmt.Errorf("room type %s: %w", roomTypeID, apperrors.ErrNotFound)
	}
	return &rt, nil
}

func (s *Store) ListRoomsByProperty(_ context.Context, propertyID string) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := []domain.Room{}
	for _, room := range s.data.rooms {
		if room.PropertyID == propertyID {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (s *Store) CountRoomsByStatus(_ context.Context, propertyID string) (map[domain.RoomStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.RoomStatus]int)
	for _, room := range s.data.rooms {
		if room.PropertyID == propertyID {
			counts[room.Status]++
		}
	}
	return counts, nil
}

func (s *Store) SaveRoomType(_ context.Context, roomType domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.roomTypes[roomType.RoomTypeID]; ok {
		return fmt.Errorf("room type %s: %w", roomType.RoomTypeID, apperrors.ErrDuplicate)
	}
	s.data.roomTypes[roomType.RoomTypeID] = roomType
	return nil
}

func (s *Store) SaveRoom(_ context.Context, room domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.rooms {
		if existing.RoomID == room.RoomID ||
			(existing.PropertyID == room.PropertyID && existing.Number == room.Number) {
			return fmt.Errorf("room %s: %w", room.Number, apperrors.ErrDuplicate)
		}
	}
	s.data.rooms[room.RoomID] = room
	return nil
}

func (s *Store) UpdateRoomStatus(_ context.Context, roomID string, status domain.RoomStatus, actor string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.data.rooms[roomID]
	if !ok {
		return fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}
	room.Status = status
	room.Touch(actor, now)
	s.data.rooms[roomID] = room
	return nil
}

// FindRoomsByIDsForUpdate omits unknown ids; transactions are already serialized.
func (s *Store) FindRoomsByIDsForUpdate(_ context.Context, roomIDs []string) (map[string]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Room, len(roomIDs))
	for _, id := range roomIDs {
		if room, ok := s.data.rooms[id]; ok {
			out[id] = room
		}
	}
	return out, nil
}
