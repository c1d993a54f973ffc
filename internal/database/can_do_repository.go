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

const canDoColumns = `id, user_id, project_id, encrypted_data, iv, salt, display_order, created_at, updated_at`

// CanDoRepo implements domain.CanDoRepository backed by PostgreSQL.
type CanDoRepo struct {
	pool *pgxpool.Pool
}

func NewCanDoRepo(pool *pgxpool.Pool) *CanDoRepo {
	return &CanDoRepo{pool: pool}
}

func (r *CanDoRepo) List(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) ([]domain.CanDoItem, error) {
	query := `SELECT ` + canDoColumns + ` FROM can_do_list WHERE user_id = $1`
	args := []any{userID}
	if projectID != nil {
		query += ` AND project_id = $2`
		args = append(args, *projectID)
	}
	query += ` ORDER BY display_order, created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list can-do items: %w", err)
	}
	defer rows.Close()

	items := []domain.CanDoItem{}
	for rows.Next() {
		var item domain.CanDoItem
		if err := scanCanDoItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan can-do item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CanDoRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.CanDoItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+canDoColumns+` FROM can_do_list WHERE id = $1 AND user_id = $2`,
		id, userID)

	var item domain.CanDoItem
	err := scanCanDoItem(row, &item)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCanDoItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get can-do item: %w", err)
	}
	return &item, nil
}

func (r *CanDoRepo) Create(ctx context.Context, item *domain.CanDoItem) (*domain.CanDoItem, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO can_do_list (user_id, project_id, encrypted_data, iv, salt, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+canDoColumns,
		item.UserID, item.ProjectID, item.EncryptedData, item.IV, item.Salt, item.DisplayOrder)

	var created domain.CanDoItem
	if err := scanCanDoItem(row, &created); err != nil {
		return nil, fmt.Errorf("failed to create can-do item: %w", err)
	}
	return &created, nil
}

func (r *CanDoRepo) Update(ctx context.Context, item *domain.CanDoItem) (*domain.CanDoItem, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE can_do_list
		SET project_id = $3, encrypted_data = $4, iv = $5, salt = $6,
		    display_order = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+canDoColumns,
		item.ID, item.UserID,
		item.ProjectID, item.EncryptedData, item.IV, item.Salt, item.DisplayOrder)

	var updated domain.CanDoItem
	err := scanCanDoItem(row, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCanDoItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update can-do item: %w", err)
	}
	return &updated, nil
}

func (r *CanDoRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM can_do_list WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete can-do item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCanDoItemNotFound
	}
	return nil
}

func scanCanDoItem(row pgx.Row, item *domain.CanDoItem) error {
	return row.Scan(
		&item.ID, &item.UserID, &item.ProjectID,
		&item.EncryptedData, &item.IV, &item.Salt,
		&item.DisplayOrder, &item.CreatedAt, &item.UpdatedAt,
	)
}
