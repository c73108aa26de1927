package project_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/folio/internal/adapter/memory"
	"github.com/alanyang/folio/internal/domain"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	portmedia "github.com/alanyang/folio/internal/port/media"
	projectsvc "github.com/alanyang/folio/internal/service/project"
)

// recordingStore hands out sequential references and remembers releases.
type recordingStore struct {
	mu       sync.Mutex
	n        int
	live     map[string]bool
	released []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{live: map[string]bool{}}
}

func (s *recordingStore) Store(_ context.Context, _ portmedia.File, namespace string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	ref := fmt.Sprintf("/%s/%d.png", namespace, s.n)
	s.live[ref] = true
	return ref, nil
}

func (s *recordingStore) Release(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, ref)
	s.released = append(s.released, ref)
	return nil
}

// steppingClock advances one second per call so creation order is observable.
func steppingClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newLifecycle() (*projectsvc.Service, *recordingStore) {
	store := newRecordingStore()
	svc := projectsvc.NewService(memory.NewProjectRepository(), store, projectsvc.WithClock(steppingClock()))
	return svc, store
}

func TestLifecycle_ListAfterNCreates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle()

	const n = 7
	for i := 0; i < n; i++ {
		_, err := svc.Create(ctx, domainproject.Fields{
			Name:        fmt.Sprintf("p%d", i),
			Description: "d",
			URL:         "https://example.com",
		}, nil)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt), "list must be newest first")
	}
	assert.Equal(t, "p6", got[0].Name)
	assert.Equal(t, "p0", got[n-1].Name)
}

func TestLifecycle_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle()

	created, err := svc.Create(ctx, domainproject.Fields{
		Name: " Portfolio Site ", Description: " A site. ", URL: " https://example.com/p ",
	}, &portmedia.File{Name: "a.png", Data: []byte("x")})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio Site", got.Name)
	assert.Equal(t, "A site.", got.Description)
	assert.Equal(t, "https://example.com/p", got.URL)
	assert.Equal(t, created.Image, got.Image)
}

func TestLifecycle_GetUnknownID(t *testing.T) {
	svc, _ := newLifecycle()
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycle_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc, store := newLifecycle()

	created, err := svc.Create(ctx, domainproject.Fields{
		Name: "n", Description: "d", URL: "https://example.com",
	}, &portmedia.File{Name: "a.png", Data: []byte("x")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, store.live)

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotFound)
}

// Create without image, then update with a new URL and a file.
func TestLifecycle_CreateThenUpdateWithFile(t *testing.T) {
	ctx := context.Background()
	svc, store := newLifecycle()

	created, err := svc.Create(ctx, domainproject.Fields{
		Name: "Portfolio Site", Description: "A site.", URL: "https://example.com/p",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", created.Image)

	updated, err := svc.Update(ctx, created.ID, domainproject.Fields{
		Name: "Portfolio Site", Description: "A site.", URL: "https://example.org",
	}, &portmedia.File{Name: "b.png", Data: []byte("y")})
	require.NoError(t, err)
	assert.NotEqual(t, "", updated.Image)
	assert.Equal(t, "https://example.org", updated.URL)
	assert.Equal(t, "Portfolio Site", updated.Name)
	assert.Equal(t, "A site.", updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Empty(t, store.released)

	second, err := svc.Update(ctx, created.ID, domainproject.Fields{
		Name: "Portfolio Site", Description: "A site.", URL: "https://example.org",
	}, &portmedia.File{Name: "c.png", Data: []byte("z")})
	require.NoError(t, err)
	assert.Equal(t, []string{updated.Image}, store.released)
	assert.True(t, store.live[second.Image])
	assert.Len(t, store.live, 1)
}
