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

const calendarEventColumns = `id, user_id, encrypted_data, iv, salt, created_at, updated_at`

// CalendarEventRepo implements domain.CalendarEventRepository backed by PostgreSQL.
type CalendarEventRepo struct {
	pool *pgxpool.Pool
}

func NewCalendarEventRepo(pool *pgxpool.Pool) *CalendarEventRepo {
	return &CalendarEventRepo{pool: pool}
}

func (r *CalendarEventRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.CalendarEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+calendarEventColumns+` FROM calendar_events WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	events := []domain.CalendarEvent{}
	for rows.Next() {
		var e domain.CalendarEvent
		if err := scanCalendarEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *CalendarEventRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.CalendarEvent, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+calendarEventColumns+` FROM calendar_events WHERE id = $1 AND user_id = $2`,
		id, userID)

	var e domain.CalendarEvent
	err := scanCalendarEvent(row, &e)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCalendarEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	return &e, nil
}

func (r *CalendarEventRepo) Create(ctx context.Context, event *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO calendar_events (user_id, encrypted_data, iv, salt)
		VALUES ($1, $2, $3, $4)
		RETURNING `+calendarEventColumns,
		event.UserID, event.EncryptedData, event.IV, event.Salt)

	var created domain.CalendarEvent
	if err := scanCalendarEvent(row, &created); err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return &created, nil
}

func (r *CalendarEventRepo) Update(ctx context.Context, event *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE calendar_events
		SET encrypted_data = $3, iv = $4, salt = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+calendarEventColumns,
		event.ID, event.UserID, event.EncryptedData, event.IV, event.Salt)

	var updated domain.CalendarEvent
	err := scanCalendarEvent(row, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCalendarEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar event: %w", err)
	}
	return &updated, nil
}

func (r *CalendarEventRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCalendarEventNotFound
	}
	return nil
}

func scanCalendarEvent(row pgx.Row, e *domain.CalendarEvent) error {
	return row.Scan(
		&e.ID, &e.UserID, &e.EncryptedData, &e.IV, &e.Salt,
		&e.CreatedAt, &e.UpdatedAt,
	)
}
