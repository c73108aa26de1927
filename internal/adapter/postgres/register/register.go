package register

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	domainregister "github.com/alanyang/folio/internal/domain/register"
	portregister "github.com/alanyang/folio/internal/port/register"
)

var _ portregister.Repository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]domainregister.Register, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, email, password FROM registers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing registers: %w", err)
	}
	defer rows.Close()

	users := []domainregister.Register{}
	for rows.Next() {
		var u domainregister.Register
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("scanning register row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
