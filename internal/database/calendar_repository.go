package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
)

const calendarColumns = `id, user_id, encrypted_data, iv, salt, is_default, created_at, updated_at`

// CalendarRepo implements domain.CalendarRepository backed by PostgreSQL.
type CalendarRepo struct {
	pool *pgxpool.Pool
}

func NewCalendarRepo(pool *pgxpool.Pool) *CalendarRepo {
	return &CalendarRepo{pool: pool}
}

func (r *CalendarRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.Calendar, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+calendarColumns+` FROM calendars WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer rows.Close()

	calendars := []domain.Calendar{}
	for rows.Next() {
		var c domain.Calendar
		if err := scanCalendar(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan calendar: %w", err)
		}
		calendars = append(calendars, c)
	}
	return calendars, rows.Err()
}

func (r *CalendarRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Calendar, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+calendarColumns+` FROM calendars WHERE id = $1 AND user_id = $2`,
		id, userID)

	var c domain.Calendar
	err := scanCalendar(row, &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return &c, nil
}

func (r *CalendarRepo) Create(ctx context.Context, calendar *domain.Calendar) (*domain.Calendar, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO calendars (user_id, encrypted_data, iv, salt, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+calendarColumns,
		calendar.UserID, calendar.EncryptedData, calendar.IV, calendar.Salt, calendar.IsDefault)

	var created domain.Calendar
	if err := scanCalendar(row, &created); err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}
	return &created, nil
}

func (r *CalendarRepo) Update(ctx context.Context, calendar *domain.Calendar) (*domain.Calendar, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE calendars
		SET encrypted_data = $3, iv = $4, salt = $5, is_default = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+calendarColumns,
		calendar.ID, calendar.UserID,
		calendar.EncryptedData, calendar.IV, calendar.Salt, calendar.IsDefault)

	var updated domain.Calendar
	err := scanCalendar(row, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar: %w", err)
	}
	return &updated, nil
}

func (r *CalendarRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendars WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCalendarNotFound
	}
	return nil
}

func scanCalendar(row pgx.Row, c *domain.Calendar) error {
	return row.Scan(
		&c.ID, &c.UserID, &c.EncryptedData, &c.IV, &c.Salt,
		&c.IsDefault, &c.CreatedAt, &c.UpdatedAt,
	)
}
