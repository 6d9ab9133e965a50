package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/filex"
)

// Staging is the fixed temporary slot for a freshly captured photo.
type Staging struct {
	path string
}

// NewStaging places the slot directly in dir under its well-known name.
func NewStaging(dir string) *Staging {
	return &Staging{path: filepath.Join(dir, common.TempPhotoFileName)}
}

// Path is the output target handed to the capture device.
func (s *Staging) Path() string {
	return s.path
}

// Prepare makes sure the slot's directory exists.
func (s *Staging) Prepare() error {
	if err := filex.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("prepare staging dir: %w", err)
	}
	return nil
}

func (s *Staging) Exists() (bool, error) {
	return filex.Exists(s.path)
}

func (s *Staging) Read() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("staged photo: %w", common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read staged photo: %w", err)
	}
	return b, nil
}

// Remove deletes the staged photo; it reports whether something was removed.
func (s *Staging) Remove() (bool, error) {
	return filex.RemoveIfExists(s.path)
}
