package project

import (
	"context"

	"github.com/google/uuid"

	domainproject "github.com/alanyang/folio/internal/domain/project"
)

// Repository manages project persistence.
// Lookups, replaces and deletes of a missing id return an error wrapping
// domain.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error)
	List(ctx context.Context) ([]domainproject.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainproject.Project, error)
	Replace(ctx context.Context, id uuid.UUID, r domainproject.Replacement) (domainproject.Project, error)
	// Delete removes the record and returns it so callers can release its media.
	Delete(ctx context.Context, id uuid.UUID) (domainproject.Project, error)
}
