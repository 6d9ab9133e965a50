package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesDirectory(t *testing.T) {
	got := filepath.Join(t.TempDir(), "data", "photos")

	require.NoError(t, EnsureDir(got))

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "staging"), []byte("x"), 0o660))

	err := EnsureDir(filepath.Join(base, "staging"))
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jpg")

	ok, err := Exists(p)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	ok, err = Exists(p)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Exists(dir)
	require.NoError(t, err)
	require.False(t, ok, "directories are not artifacts")
}

func TestRemoveIfExists(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	removed, err := RemoveIfExists(p)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = RemoveIfExists(p)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestWriteAtomic_ReplacesContentAndLeavesNoPartFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))

	require.NoError(t, WriteAtomic(p, strings.NewReader("new-content")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "new-content", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriteAtomic_FailureKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))

	err := WriteAtomic(p, failingReader{})
	require.Error(t, err)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "old", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestWriteAtomic_DirSync(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directories are not synced on windows")
	}

	tests := []struct {
		name    string
		syncErr error
		wantErr bool
	}{
		{name: "ok"},
		{name: "unsupported by filesystem", syncErr: syscall.EINVAL},
		{name: "io error", syncErr: syscall.EIO, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := syncHandle
			syncHandle = func(f *os.File) error {
				if fi, err := f.Stat(); err == nil && fi.IsDir() {
					return tt.syncErr
				}
				return f.Sync()
			}
			t.Cleanup(func() { syncHandle = orig })

			p := filepath.Join(t.TempDir(), "photo.jpg")
			err := WriteAtomic(p, strings.NewReader("new"))
			if tt.wantErr {
				require.ErrorIs(t, err, syscall.EIO)
				return
			}
			require.NoError(t, err)

			b, err := os.ReadFile(p)
			require.NoError(t, err)
			require.Equal(t, "new", string(b))
		})
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte{1, 2, 3}, 0o600))

	require.NoError(t, CopyFile(src, dst))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	require.Error(t, CopyFile(filepath.Join(dir, "missing"), dst))
}
