package register

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyang/folio/internal/domain"
	domainregister "github.com/alanyang/folio/internal/domain/register"
	portregister "github.com/alanyang/folio/internal/port/register"
)

// Service lists admin records. It exposes no mutation.
type Service struct {
	repo    portregister.Repository
	timeout time.Duration
}

func NewService(repo portregister.Repository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{repo: repo, timeout: timeout}
}

func (s *Service) List(ctx context.Context) ([]domainregister.Register, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registers: %w: %w", domain.ErrPersistence, err)
	}
	if users == nil {
		users = []domainregister.Register{}
	}
	return users, nil
}
