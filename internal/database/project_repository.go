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

const projectColumns = `id, user_id, encrypted_data, iv, salt, is_default, parent_id, display_order, is_collapsed, created_at, updated_at`

// ProjectRepo implements domain.ProjectRepository backed by PostgreSQL.
type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func (r *ProjectRepo) List(ctx context.Context, userID uuid.UUID, filter domain.ProjectFilter) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1`
	args := []any{userID}

	switch {
	case filter.RootsOnly:
		query += ` AND parent_id IS NULL`
	case filter.ParentID != nil:
		query += ` AND parent_id = $2`
		args = append(args, *filter.ParentID)
	}
	query += ` ORDER BY display_order, created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`,
		id, userID)

	var p domain.Project
	err := scanProject(row, &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (user_id, encrypted_data, iv, salt, is_default, parent_id, display_order, is_collapsed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		project.UserID, project.EncryptedData, project.IV, project.Salt,
		project.IsDefault, project.ParentID, project.DisplayOrder, project.IsCollapsed)

	var created domain.Project
	if err := scanProject(row, &created); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &created, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects
		SET encrypted_data = $3, iv = $4, salt = $5, is_default = $6,
		    parent_id = $7, display_order = $8, is_collapsed = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+projectColumns,
		project.ID, project.UserID,
		project.EncryptedData, project.IV, project.Salt, project.IsDefault,
		project.ParentID, project.DisplayOrder, project.IsCollapsed)

	var updated domain.Project
	err := scanProject(row, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &updated, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row pgx.Row, p *domain.Project) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.EncryptedData, &p.IV, &p.Salt,
		&p.IsDefault, &p.ParentID, &p.DisplayOrder, &p.IsCollapsed,
		&p.CreatedAt, &p.UpdatedAt,
	)
}
