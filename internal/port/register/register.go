package register

import (
	"context"

	domainregister "github.com/alanyang/folio/internal/domain/register"
)

type Repository interface {
	List(ctx context.Context) ([]domainregister.Register, error)
}
