package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/folio/internal/domain"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	portproject "github.com/alanyang/folio/internal/port/project"
)

var _ portproject.Repository = (*Repository)(nil)

const columns = `id, name, description, url, image, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (`+columns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+columns,
		p.ID, p.Name, p.Description, p.URL, p.Image, p.CreatedAt, p.UpdatedAt,
	)

	out, err := scanProject(row)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return out, nil
}

func (r *Repository) List(ctx context.Context) ([]domainproject.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []domainproject.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainproject.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM projects WHERE id = $1`, id)

	out, err := scanProject(row)
	if err != nil {
		return domainproject.Project{}, notFound(id, "get project", err)
	}
	return out, nil
}

func (r *Repository) Replace(ctx context.Context, id uuid.UUID, rep domainproject.Replacement) (domainproject.Project, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE projects
		 SET name = $2, description = $3, url = $4, image = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING `+columns,
		id, rep.Name, rep.Description, rep.URL, rep.Image, rep.UpdatedAt,
	)

	out, err := scanProject(row)
	if err != nil {
		return domainproject.Project{}, notFound(id, "replace project", err)
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (domainproject.Project, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM projects WHERE id = $1 RETURNING `+columns, id)

	out, err := scanProject(row)
	if err != nil {
		return domainproject.Project{}, notFound(id, "delete project", err)
	}
	return out, nil
}

func scanProject(row pgx.Row) (domainproject.Project, error) {
	var p domainproject.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.URL, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func notFound(id uuid.UUID, op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
