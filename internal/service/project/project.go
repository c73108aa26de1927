package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/folio/internal/domain"
	"github.com/alanyang/folio/internal/domain/event"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	porteventbus "github.com/alanyang/folio/internal/port/eventbus"
	portmedia "github.com/alanyang/folio/internal/port/media"
	portproject "github.com/alanyang/folio/internal/port/project"
)

// MediaNamespace is where project images are stored.
const MediaNamespace = "projects"

const defaultTimeout = 5 * time.Second

// Service runs the project lifecycle: validate, talk to the media store,
// persist, and release orphaned media when a later step fails.
type Service struct {
	repo    portproject.Repository
	media   portmedia.Store
	bus     porteventbus.Publisher
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Service)

// WithPublisher enables change events. Without it nothing is published.
func WithPublisher(bus porteventbus.Publisher) Option {
	return func(s *Service) { s.bus = bus }
}

// WithTimeout bounds each repository and media store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo portproject.Repository, media portmedia.Store, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		media:   media,
		timeout: defaultTimeout,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates fields, stores the optional image, then inserts the record.
// If the insert fails the stored image is released again.
func (s *Service) Create(ctx context.Context, fields domainproject.Fields, file *portmedia.File) (domainproject.Project, error) {
	if err := fields.Validate(); err != nil {
		return domainproject.Project{}, fmt.Errorf("create project: %w: %w", domain.ErrValidation, err)
	}
	fields = fields.Normalize()

	image, err := s.store(ctx, file)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("create project: %w", err)
	}

	now := s.now()
	p := domainproject.Project{
		ID:          uuid.New(),
		Name:        fields.Name,
		Description: fields.Description,
		URL:         fields.URL,
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	created, err := s.repo.Create(callCtx, p)
	cancel()
	if err != nil {
		s.compensate(ctx, image, "create")
		return domainproject.Project{}, fmt.Errorf("create project: %w: %w", domain.ErrPersistence, err)
	}

	s.publish(ctx, event.TypeProjectCreated, created.ID)
	s.logger.Info("project created", "id", created.ID, "name", created.Name, "has_image", image != "")
	return created, nil
}

// List returns every project, newest first.
func (s *Service) List(ctx context.Context) ([]domainproject.Project, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	projects, err := s.repo.List(callCtx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w: %w", domain.ErrPersistence, err)
	}
	if projects == nil {
		projects = []domainproject.Project{}
	}
	return projects, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domainproject.Project, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.repo.GetByID(callCtx, id)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("get project: %w", classify(err))
	}
	return p, nil
}

// Update fully replaces the business fields of a project. Without a file the
// current image is kept; with one, the previous image is released after the
// replace succeeds.
func (s *Service) Update(ctx context.Context, id uuid.UUID, fields domainproject.Fields, file *portmedia.File) (domainproject.Project, error) {
	if err := fields.Validate(); err != nil {
		return domainproject.Project{}, fmt.Errorf("update project: %w: %w", domain.ErrValidation, err)
	}
	fields = fields.Normalize()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	existing, err := s.repo.GetByID(callCtx, id)
	cancel()
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("update project: %w", classify(err))
	}

	image := existing.Image
	if file != nil {
		image, err = s.store(ctx, file)
		if err != nil {
			return domainproject.Project{}, fmt.Errorf("update project: %w", err)
		}
	}

	callCtx, cancel = context.WithTimeout(ctx, s.timeout)
	updated, err := s.repo.Replace(callCtx, id, domainproject.Replacement{
		Fields:    fields,
		Image:     image,
		UpdatedAt: s.now(),
	})
	cancel()
	if err != nil {
		if file != nil {
			s.compensate(ctx, image, "update")
		}
		return domainproject.Project{}, fmt.Errorf("update project: %w", classify(err))
	}

	if file != nil && existing.Image != "" && existing.Image != image {
		s.release(ctx, existing.Image, "previous image")
	}

	s.publish(ctx, event.TypeProjectUpdated, updated.ID)
	s.logger.Info("project updated", "id", updated.ID, "image_replaced", file != nil)
	return updated, nil
}

// Delete removes the project and then releases its image. A failed release is
// logged and does not fail the delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	deleted, err := s.repo.Delete(callCtx, id)
	cancel()
	if err != nil {
		return fmt.Errorf("delete project: %w", classify(err))
	}

	if deleted.Image != "" {
		s.release(ctx, deleted.Image, "deleted project image")
	}

	s.publish(ctx, event.TypeProjectDeleted, id)
	s.logger.Info("project deleted", "id", id)
	return nil
}

func (s *Service) store(ctx context.Context, file *portmedia.File) (string, error) {
	if file == nil {
		return "", nil
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ref, err := s.media.Store(callCtx, *file, MediaNamespace)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return ref, nil
}

// compensate undoes an upload whose record was never written.
func (s *Service) compensate(ctx context.Context, ref, op string) {
	if ref == "" {
		return
	}
	s.release(ctx, ref, "orphaned upload after failed "+op)
}

// release runs detached from the request so an aborted client does not leave
// the object behind.
func (s *Service) release(ctx context.Context, ref, reason string) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.media.Release(callCtx, ref); err != nil {
		s.logger.Warn("media release failed", "ref", ref, "reason", reason, "error", err)
		return
	}
	s.logger.Debug("media released", "ref", ref, "reason", reason)
}

func (s *Service) publish(ctx context.Context, t event.Type, id uuid.UUID) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.New(t, id)); err != nil {
		s.logger.Error("failed to publish project event", "type", t, "id", id, "error", err)
	}
}

// classify keeps ErrNotFound visible and tags everything else as a
// persistence failure.
func classify(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
