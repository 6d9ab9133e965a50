package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/filex"
)

// FSStore keeps the durable photo as a file in the data directory.
type FSStore struct {
	path string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{path: filepath.Join(dir, common.PhotoFileName)}
}

func (s *FSStore) Location() string {
	return s.path
}

func (s *FSStore) Exists(ctx context.Context) (bool, error) {
	return filex.Exists(s.path)
}

func (s *FSStore) Read(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("durable photo: %w", common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read durable photo: %w", err)
	}
	return b, nil
}

func (s *FSStore) Replace(ctx context.Context, r io.ReadSeeker) error {
	if err := filex.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("prepare photo dir: %w", err)
	}
	if err := filex.WriteAtomic(s.path, r); err != nil {
		return fmt.Errorf("replace durable photo: %w", err)
	}
	return nil
}
