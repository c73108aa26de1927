package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/alanyang/folio/internal/domain"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	portproject "github.com/alanyang/folio/internal/port/project"
)

var _ portproject.Repository = (*ProjectRepository)(nil)

type projectEntry struct {
	project domainproject.Project
	seq     uint64
}

// ProjectRepository keeps projects in process memory. It backs tests and
// local runs that do not need durability.
type ProjectRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]projectEntry
	seq     uint64
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		entries: make(map[uuid.UUID]projectEntry),
	}
}

func (r *ProjectRepository) Create(_ context.Context, p domainproject.Project) (domainproject.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[p.ID]; ok {
		return domainproject.Project{}, fmt.Errorf("project %s already exists", p.ID)
	}
	r.seq++
	r.entries[p.ID] = projectEntry{project: p, seq: r.seq}
	return p, nil
}

// List orders by CreatedAt descending; equal timestamps fall back to
// insertion order, newest first.
func (r *ProjectRepository) List(_ context.Context) ([]domainproject.Project, error) {
	r.mu.RLock()
	entries := make([]projectEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.project.CreatedAt.Equal(b.project.CreatedAt) {
			return a.project.CreatedAt.After(b.project.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domainproject.Project, len(entries))
	for i, e := range entries {
		out[i] = e.project
	}
	return out, nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id uuid.UUID) (domainproject.Project, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return domainproject.Project{}, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return e.project, nil
}

func (r *ProjectRepository) Replace(_ context.Context, id uuid.UUID, rep domainproject.Replacement) (domainproject.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return domainproject.Project{}, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	e.project.Name = rep.Name
	e.project.Description = rep.Description
	e.project.URL = rep.URL
	e.project.Image = rep.Image
	e.project.UpdatedAt = rep.UpdatedAt
	r.entries[id] = e
	return e.project, nil
}

func (r *ProjectRepository) Delete(_ context.Context, id uuid.UUID) (domainproject.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return domainproject.Project{}, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(r.entries, id)
	return e.project, nil
}
