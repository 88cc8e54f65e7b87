package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxReservationRepository implements the ReservationRepositoryFacade interface using pgx.
type PgxReservationRepository struct {
	BaseRepository
}

// newPgxReservationRepository creates a new repository for reservations and their rooms.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

const reservationColumns = `reservation_id, property_id, reservation_number, guest_id, check_in_date, check_out_date,
	actual_check_in, actual_check_out, status, adults, children, total_amount, paid_amount, corporate_account_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ReservationID,
		&res.PropertyID,
		&res.ReservationNumber,
		&res.GuestID,
		&res.CheckInDate,
		&res.CheckOutDate,
		&res.ActualCheckIn,
		&res.ActualCheckOut,
		&res.Status,
		&res.Adults,
		&res.Children,
		&res.TotalAmount,
		&res.PaidAmount,
		&res.CorporateAccountID,
		&res.CreatedAt,
		&res.CreatedBy,
		&res.LastUpdatedAt,
		&res.LastUpdatedBy,
	)
	return res, err
}

// loadRooms attaches reservation_rooms to each reservation in one query.
func (r *PgxReservationRepository) loadRooms(ctx context.Context, reservations []domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	ids := make([]string, len(reservations))
	index := make(map[string]int, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ReservationID
		index[res.ReservationID] = i
		reservations[i].Rooms = []domain.ReservationRoom{}
	}

	query := `
		SELECT reservation_room_id, reservation_id, room_type_id, rate, room_id
		FROM reservation_rooms
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, position;
	`
	rows, err := r.q(ctx).Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query reservation rooms: %w", err)
	}
	rooms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ReservationRoom, error) {
		var rr domain.ReservationRoom
		err := row.Scan(&rr.ReservationRoomID, &rr.ReservationID, &rr.RoomTypeID, &rr.Rate, &rr.RoomID)
		return rr, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan reservation rooms: %w", err)
	}
	for _, rr := range rooms {
		i := index[rr.ReservationID]
		reservations[i].Rooms = append(reservations[i].Rooms, rr)
	}
	return nil
}

func (r *PgxReservationRepository) findOne(ctx context.Context, reservationID string, lock bool) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	res, err := scanReservation(r.q(ctx).QueryRow(ctx, query, reservationID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("reservation %s", reservationID))
	}
	list := []domain.Reservation{res}
	if err := r.loadRooms(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// FindReservationByID retrieves a reservation together with its rooms.
func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return r.findOne(ctx, reservationID, false)
}

// FindReservationByIDForUpdate retrieves and locks a reservation row.
func (r *PgxReservationRepository) FindReservationByIDForUpdate(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return r.findOne(ctx, reservationID, true)
}

// ListReservationsByStatus lists a property's reservations in a status, with rooms.
func (r *PgxReservationRepository) ListReservationsByStatus(ctx context.Context, propertyID string, status domain.ReservationStatus) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE property_id = $1 AND status = $2
		ORDER BY reservation_number;`
	rows, err := r.q(ctx).Query(ctx, query, propertyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s reservations: %w", status, err)
	}
	reservations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Reservation, error) {
		return scanReservation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reservations: %w", err)
	}
	if err := r.loadRooms(ctx, reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// CountReservationsForDay counts arrivals, departures, no-shows and pending arrivals.
func (r *PgxReservationRepository) CountReservationsForDay(ctx context.Context, propertyID string, day time.Time) (portsrepo.ReservationDayCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE check_in_date = $2 AND status IN ('checked_in', 'checked_out')),
			COUNT(*) FILTER (WHERE check_out_date = $2 AND status = 'checked_out'),
			COUNT(*) FILTER (WHERE check_in_date = $2 AND status = 'no_show'),
			COUNT(*) FILTER (WHERE check_in_date = $2 AND status = 'confirmed')
		FROM reservations
		WHERE property_id = $1;
	`
	var counts portsrepo.ReservationDayCounts
	err := r.q(ctx).QueryRow(ctx, query, propertyID, domain.NormalizeDate(day)).Scan(
		&counts.Arrivals,
		&counts.Departures,
		&counts.NoShows,
		&counts.PendingArrivals,
	)
	if err != nil {
		return counts, fmt.Errorf("failed to count reservations for %s: %w", day.Format(domain.DateLayout), err)
	}
	return counts, nil
}

// SaveReservation persists a new reservation and its rooms in one batch.
func (r *PgxReservationRepository) SaveReservation(ctx context.Context, res domain.Reservation) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		res.ReservationID, res.PropertyID, res.ReservationNumber, res.GuestID,
		domain.NormalizeDate(res.CheckInDate), domain.NormalizeDate(res.CheckOutDate),
		res.ActualCheckIn, res.ActualCheckOut, res.Status, res.Adults, res.Children,
		res.TotalAmount, res.PaidAmount, res.CorporateAccountID,
		res.CreatedAt, res.CreatedBy, res.LastUpdatedAt, res.LastUpdatedBy,
	)
	for i, rr := range res.Rooms {
		batch.Queue(`INSERT INTO reservation_rooms (reservation_room_id, reservation_id, room_type_id, rate, room_id, position)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			rr.ReservationRoomID, res.ReservationID, rr.RoomTypeID, rr.Rate, rr.RoomID, i,
		)
	}
	return r.sendBatch(ctx, batch, fmt.Sprintf("save reservation %s", res.ReservationID))
}

// UpdateReservation updates status, stay dates, timestamps, totals and room assignments.
func (r *PgxReservationRepository) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE reservations
		SET check_in_date = $2, check_out_date = $3, actual_check_in = $4, actual_check_out = $5,
		    status = $6, total_amount = $7, last_updated_at = $8, last_updated_by = $9
		WHERE reservation_id = $1;`,
		res.ReservationID, domain.NormalizeDate(res.CheckInDate), domain.NormalizeDate(res.CheckOutDate),
		res.ActualCheckIn, res.ActualCheckOut, res.Status, res.TotalAmount, res.LastUpdatedAt, res.LastUpdatedBy,
	)
	for _, rr := range res.Rooms {
		batch.Queue(`UPDATE reservation_rooms SET room_id = $2, rate = $3 WHERE reservation_room_id = $1;`,
			rr.ReservationRoomID, rr.RoomID, rr.Rate,
		)
	}
	return r.sendBatch(ctx, batch, fmt.Sprintf("update reservation %s", res.ReservationID))
}

// AdjustPaidAmount adds delta to the reservation's mirrored paid amount.
func (r *PgxReservationRepository) AdjustPaidAmount(ctx context.Context, reservationID string, delta decimal.Decimal, actor string, now time.Time) error {
	query := `
		UPDATE reservations
		SET paid_amount = paid_amount + $2, last_updated_at = $3, last_updated_by = $4
		WHERE reservation_id = $1;
	`
	tag, err := r.q(ctx).Exec(ctx, query, reservationID, delta, now, actor)
	if err != nil {
		return fmt.Errorf("failed to adjust paid amount of reservation %s: %w", reservationID, err)
	}
	return expectOne(tag, fmt.Sprintf("reservation %s", reservationID))
}

// sendBatch runs a batch inside the caller's transaction, or a fresh one.
func (r *PgxReservationRepository) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		tx := ctx.Value(txKey{}).(pgx.Tx)
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return mapError(err, what)
			}
			if i == 0 && tag.RowsAffected() == 0 {
				_ = br.Close()
				return expectOne(tag, what)
			}
		}
		if err := br.Close(); err != nil {
			return mapError(err, what)
		}
		return nil
	})
}
