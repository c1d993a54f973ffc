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

const settingsColumns = `user_id, encrypted_data, iv, salt, created_at, updated_at`

// SettingsRepo implements domain.SettingsRepository backed by PostgreSQL.
// Each user has at most one settings row, keyed by user_id.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM user_settings WHERE user_id = $1`,
		userID)

	var s domain.UserSettings
	err := scanSettings(row, &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, encrypted_data, iv, salt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET encrypted_data = EXCLUDED.encrypted_data,
		    iv = EXCLUDED.iv,
		    salt = EXCLUDED.salt,
		    updated_at = now()
		RETURNING `+settingsColumns,
		settings.UserID, settings.EncryptedData, settings.IV, settings.Salt)

	var saved domain.UserSettings
	if err := scanSettings(row, &saved); err != nil {
		return nil, fmt.Errorf("failed to upsert user settings: %w", err)
	}
	return &saved, nil
}

func scanSettings(row pgx.Row, s *domain.UserSettings) error {
	return row.Scan(
		&s.UserID, &s.EncryptedData, &s.IV, &s.Salt,
		&s.CreatedAt, &s.UpdatedAt,
	)
}
