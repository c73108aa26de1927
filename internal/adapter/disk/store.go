package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	portmedia "github.com/alanyang/folio/internal/port/media"
)

var _ portmedia.Store = (*Store)(nil)

// Store keeps media under a local directory that the HTTP layer serves
// statically. References are publicPrefix + "/" + namespace + "/" + file.
type Store struct {
	root         string
	publicPrefix string
}

// New creates root if it does not exist yet.
func New(root, publicPrefix string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	return &Store{root: root, publicPrefix: strings.TrimRight(publicPrefix, "/")}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) Store(ctx context.Context, f portmedia.File, namespace string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validSegment(namespace) {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}

	dir := filepath.Join(s.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating namespace dir: %w", err)
	}

	name := uuid.NewString() + extension(f)
	target := filepath.Join(dir, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := file.Write(f.Data); err != nil {
		file.Close()
		os.Remove(target)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("closing %s: %w", name, err)
	}

	return s.publicPrefix + "/" + namespace + "/" + name, nil
}

// Release removes the file behind ref. References outside this store and
// files that are already gone are ignored.
func (s *Store) Release(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, ok := strings.CutPrefix(ref, s.publicPrefix+"/")
	if !ok || rel == "" {
		return nil
	}
	clean := path.Clean(rel)
	if clean != rel || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return fmt.Errorf("refusing to release suspicious reference %q", ref)
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", clean, err)
	}
	return nil
}

func extension(f portmedia.File) string {
	if ext := mimetype.Detect(f.Data).Extension(); ext != "" {
		return ext
	}
	return strings.ToLower(filepath.Ext(f.Name))
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
