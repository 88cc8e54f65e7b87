package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRoomRepository implements the RoomRepositoryFacade interface using pgx.
type PgxRoomRepository struct {
	BaseRepository
}

// newPgxRoomRepository creates a new repository for rooms and room types.
func newPgxRoomRepository(pool *pgxpool.Pool) portsrepo.RoomRepositoryFacade {
	return &PgxRoomRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RoomRepositoryFacade = (*PgxRoomRepository)(nil)

const roomColumns = `room_id, property_id, room_type_id, number, floor, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRoom(row pgx.Row) (domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.RoomID,
		&room.PropertyID,
		&room.RoomTypeID,
		&room.Number,
		&room.Floor,
		&room.Status,
		&room.CreatedAt,
		&room.CreatedBy,
		&room.LastUpdatedAt,
		&room.LastUpdatedBy,
	)
	return room, err
}

func collectRooms(rows pgx.Rows) ([]domain.Room, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Room, error) {
		return scanRoom(row)
	})
}

// FindRoomByID retrieves a room by its ID.
func (r *PgxRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = $1;`
	room, err := scanRoom(r.q(ctx).QueryRow(ctx, query, roomID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("room %s", roomID))
	}
	return &room, nil
}

// FindRoomTypeByID retrieves a room type by its ID.
func (r *PgxRoomRepository) FindRoomTypeByID(ctx context.Context, roomTypeID string) (*domain.RoomType, error) {
	query := `SELECT room_type_id, property_id, name, base_rate FROM room_types WHERE room_type_id = $1;`
	var rt domain.RoomType
	err := r.q(ctx).QueryRow(ctx, query, roomTypeID).Scan(&rt.RoomTypeID, &rt.PropertyID, &rt.Name, &rt.BaseRate)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("room type %s", roomTypeID))
	}
	return &rt, nil
}

// ListRoomsByProperty lists every room at a property ordered by number.
func (r *PgxRoomRepository) ListRoomsByProperty(ctx context.Context, propertyID string) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE property_id = $1 ORDER BY number;`
	rows, err := r.q(ctx).Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms for property %s: %w", propertyID, err)
	}
	rooms, err := collectRooms(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan rooms for property %s: %w", propertyID, err)
	}
	return rooms, nil
}

// CountRoomsByStatus counts a property's rooms per status.
func (r *PgxRoomRepository) CountRoomsByStatus(ctx context.Context, propertyID string) (map[domain.RoomStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM rooms WHERE property_id = $1 GROUP BY status;`
	rows, err := r.q(ctx).Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms for property %s: %w", propertyID, err)
	}
	defer rows.Close()

	counts := make(map[domain.RoomStatus]int)
	for rows.Next() {
		var status domain.RoomStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan room count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SaveRoomType persists a new room type.
func (r *PgxRoomRepository) SaveRoomType(ctx context.Context, rt domain.RoomType) error {
	query := `INSERT INTO room_types (room_type_id, property_id, name, base_rate) VALUES ($1, $2, $3, $4);`
	_, err := r.q(ctx).Exec(ctx, query, rt.RoomTypeID, rt.PropertyID, rt.Name, rt.BaseRate)
	return mapError(err, fmt.Sprintf("save room type %s", rt.RoomTypeID))
}

// SaveRoom persists a new room.
func (r *PgxRoomRepository) SaveRoom(ctx context.Context, room domain.Room) error {
	query := `INSERT INTO rooms (` + roomColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.q(ctx).Exec(ctx, query,
		room.RoomID, room.PropertyID, room.RoomTypeID, room.Number, room.Floor, room.Status,
		room.CreatedAt, room.CreatedBy, room.LastUpdatedAt, room.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save room %s", room.Number))
}

// UpdateRoomStatus sets a room's status.
func (r *PgxRoomRepository) UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus, actor string, now time.Time) error {
	query := `UPDATE rooms SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE room_id = $1;`
	tag, err := r.q(ctx).Exec(ctx, query, roomID, status, now, actor)
	if err != nil {
		return fmt.Errorf("failed to update room %s status: %w", roomID, err)
	}
	return expectOne(tag, fmt.Sprintf("room %s", roomID))
}

// FindRoomsByIDsForUpdate locks the rooms in id order so concurrent check-ins
// cannot deadlock. Unknown ids are omitted from the result.
func (r *PgxRoomRepository) FindRoomsByIDsForUpdate(ctx context.Context, roomIDs []string) (map[string]domain.Room, error) {
	if len(roomIDs) == 0 {
		return map[string]domain.Room{}, nil
	}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = ANY($1) ORDER BY room_id FOR UPDATE;`
	rows, err := r.q(ctx).Query(ctx, query, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock rooms: %w", err)
	}
	rooms, err := collectRooms(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locked rooms: %w", err)
	}
	out := make(map[string]domain.Room, len(rooms))
	for _, room := range rooms {
		out[room.RoomID] = room
	}
	return out, nil
}
