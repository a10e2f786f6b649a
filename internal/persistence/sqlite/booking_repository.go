package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository on SQLite.
//
// Overlap enforcement happens here, not only in the validator: every write
// re-checks the candidate interval against the room's bookings inside the
// write transaction. SQLite serializes writers, so two clients that both
// passed the optimistic validation cannot both commit overlapping bookings;
// the loser gets persistence.ErrConflict.
type BookingRepository struct {
	pool *ConnectionPool
}

var _ persistence.BookingRepository = (*BookingRepository)(nil)

// NewBookingRepository creates a SQLite-backed booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, room_id, user_id, start_time, end_time, created_at, updated_at`

// CreateBooking inserts an accepted booking, failing with ErrConflict when
// the interval overlaps an existing booking for the same room.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if strings.TrimSpace(booking.ID) == "" || strings.TrimSpace(booking.RoomID) == "" {
		return persistence.ErrConstraintViolation
	}
	if !booking.End.After(booking.Start) {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := ensureNoOverlap(tx, booking.RoomID, booking.Start, booking.End, ""); err != nil {
			return err
		}

		query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query,
			booking.ID,
			booking.RoomID,
			nullString(booking.UserID),
			booking.Start.Unix(),
			booking.End.Unix(),
			booking.CreatedAt.Unix(),
			booking.UpdatedAt.Unix(),
		)
		return mapError(err)
	})
}

// UpdateBookingTimes moves an existing booking to a new interval. The booking
// itself is excluded from the overlap check so unchanged times always pass.
func (r *BookingRepository) UpdateBookingTimes(ctx context.Context, id string, start, end, updatedAt time.Time) error {
	if strings.TrimSpace(id) == "" {
		return persistence.ErrNotFound
	}
	if !end.After(start) {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var roomID string
		err := tx.QueryRow(`SELECT room_id FROM bookings WHERE id = ?`, id).Scan(&roomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return persistence.ErrNotFound
			}
			return mapError(err)
		}

		if err := ensureNoOverlap(tx, roomID, start, end, id); err != nil {
			return err
		}

		_, err = tx.Exec(`UPDATE bookings SET start_time = ?, end_time = ?, updated_at = ? WHERE id = ?`,
			start.Unix(), end.Unix(), updatedAt.Unix(), id)
		return mapError(err)
	})
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	booking, err := scanBooking(row)
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}
	return booking, nil
}

// ListBookings returns bookings matching the filter ordered by start time.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var (
		clauses []string
		args    []any
	)
	if filter.RoomID != "" {
		clauses = append(clauses, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.EndsAfter != nil {
		clauses = append(clauses, "end_time >= ?")
		args = append(args, filter.EndsAfter.Unix())
	}
	if filter.StartsBy != nil {
		clauses = append(clauses, "start_time < ?")
		args = append(args, filter.StartsBy.Unix())
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking unconditionally.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ensureNoOverlap runs the half-open interval test [start, end) against the
// room's stored bookings inside the caller's transaction.
func ensureNoOverlap(tx *sql.Tx, roomID string, start, end time.Time, excludeID string) error {
	query := `SELECT COUNT(1) FROM bookings WHERE room_id = ? AND start_time < ? AND ? < end_time`
	args := []any{roomID, end.Unix(), start.Unix()}
	if excludeID != "" {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var overlapping int
	if err := tx.QueryRow(query, args...).Scan(&overlapping); err != nil {
		return mapError(err)
	}
	if overlapping > 0 {
		return persistence.ErrConflict
	}
	return nil
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking       persistence.Booking
		userID        sql.NullString
		startUnix     int64
		endUnix       int64
		createdAtUnix int64
		updatedAtUnix int64
	)
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&userID,
		&startUnix,
		&endUnix,
		&createdAtUnix,
		&updatedAtUnix,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, err
	}

	booking.UserID = stringPtr(userID)
	booking.Start = time.Unix(startUnix, 0)
	booking.End = time.Unix(endUnix, 0)
	booking.CreatedAt = time.Unix(createdAtUnix, 0)
	booking.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return booking, nil
}
