package snapshot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vango-dev/race/internal/errors"
)

// ErrNotFound is returned by Get when no snapshot has the given name.
var ErrNotFound = stderrors.New("snapshot: not found")

// Store keeps encoded snapshots by name.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// storeError tags err with the snapshot store code.
func storeError(op, name string, err error) error {
	return errors.New(errors.CodeSnapshotStore).WithDetailf("%s %q", op, name).Wrap(err)
}

// validName rejects names that would escape the store's namespace.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}

// FileStore keeps snapshots as files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeError("open", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Put writes data atomically.
func (s *FileStore) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return storeError("put", name, err)
	}
	if err := ctx.Err(); err != nil {
		return storeError("put", name, err)
	}

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return storeError("put", name, err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return storeError("put", name, err)
	}
	if err := f.Close(); err != nil {
		return storeError("put", name, err)
	}
	if err := os.Rename(f.Name(), filepath.Join(s.dir, name)); err != nil {
		return storeError("put", name, err)
	}
	return nil
}

// Get reads a snapshot.
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, storeError("get", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, storeError("get", name, err)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, storeError("get", name, ErrNotFound)
	}
	if err != nil {
		return nil, storeError("get", name, err)
	}
	return data, nil
}

// List returns the stored names in sorted order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("list", s.dir, err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storeError("list", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}
