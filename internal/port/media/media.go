package media

import "context"

// File is an upload that already passed the transport's size and type checks.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store holds image binaries and hands back durable references to them.
type Store interface {
	// Store persists the file under namespace and returns its reference.
	Store(ctx context.Context, f File, namespace string) (string, error)
	// Release deletes the object behind ref. Unknown references are not an error.
	Release(ctx context.Context, ref string) error
}
