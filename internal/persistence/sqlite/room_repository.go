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

// RoomRepository implements persistence.RoomRepository on SQLite.
type RoomRepository struct {
	pool *ConnectionPool
}

var _ persistence.RoomRepository = (*RoomRepository)(nil)

// NewRoomRepository creates a SQLite-backed room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const roomColumns = `id, name, type, capacity, features, description, image_url, created_at, updated_at`

// CreateRoom inserts a new room into the catalog.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if strings.TrimSpace(room.ID) == "" || strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO rooms (` + roomColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.pool.db.ExecContext(ctx, query,
		room.ID,
		room.Name,
		room.Type,
		nullInt(room.Capacity),
		nullString(room.Features),
		nullString(room.Description),
		nullString(room.ImageURL),
		room.CreatedAt.Unix(),
		room.UpdatedAt.Unix(),
	)
	return mapError(err)
}

// UpdateRoom rewrites an existing room's attributes.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if strings.TrimSpace(room.ID) == "" {
		return persistence.ErrNotFound
	}
	if strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	query := `UPDATE rooms
		SET name = ?, type = ?, capacity = ?, features = ?, description = ?, image_url = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.pool.db.ExecContext(ctx, query,
		room.Name,
		room.Type,
		nullInt(room.Capacity),
		nullString(room.Features),
		nullString(room.Description),
		nullString(room.ImageURL),
		room.UpdatedAt.Unix(),
		room.ID,
	)
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

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name then ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, mapError(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room; its bookings go with it via the cascade.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room          persistence.Room
		capacity      sql.NullInt64
		features      sql.NullString
		description   sql.NullString
		imageURL      sql.NullString
		createdAtUnix int64
		updatedAtUnix int64
	)
	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Type,
		&capacity,
		&features,
		&description,
		&imageURL,
		&createdAtUnix,
		&updatedAtUnix,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, err
	}

	room.Capacity = intPtr(capacity)
	room.Features = stringPtr(features)
	room.Description = stringPtr(description)
	room.ImageURL = stringPtr(imageURL)
	room.CreatedAt = time.Unix(createdAtUnix, 0)
	room.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return room, nil
}
