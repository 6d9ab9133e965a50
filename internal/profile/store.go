package profile

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/repositories/metadata"
)

// RecordStore persists the profile record as a whole.
type RecordStore interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
}

// SQLRecordStore keeps each field under its own metadata key. Save writes
// all keys in one transaction, so a record is never partially persisted.
type SQLRecordStore struct {
	db   *sql.DB
	repo metadata.Factory
}

func NewSQLRecordStore(db *sql.DB, repo metadata.Factory) *SQLRecordStore {
	return &SQLRecordStore{db: db, repo: repo}
}

func (s *SQLRecordStore) Load(ctx context.Context) (Record, error) {
	repo := s.repo(s.db)

	values := make(map[string]string, len(Keys))
	for _, k := range Keys {
		v, err := repo.Get(ctx, k)
		if err != nil {
			return Record{}, fmt.Errorf("load profile: %w", err)
		}
		values[k] = string(v)
	}

	return RecordFromValues(values), nil
}

func (s *SQLRecordStore) Save(ctx context.Context, r Record) error {
	values := r.Values()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for _, k := range Keys {
			if err := repo.Set(ctx, k, []byte(values[k])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

// SQLMarkerStore persists the pending-capture marker under a fixed key.
// It is the session persistence boundary: the marker outlives the process.
type SQLMarkerStore struct {
	repo metadata.Repository
}

func NewSQLMarkerStore(repo metadata.Repository) *SQLMarkerStore {
	return &SQLMarkerStore{repo: repo}
}

func (s *SQLMarkerStore) Load(ctx context.Context) (string, bool, error) {
	v, err := s.repo.Get(ctx, common.PendingCaptureKey)
	if err != nil {
		return "", false, fmt.Errorf("load marker: %w", err)
	}
	if v == nil {
		return "", false, nil
	}
	return string(v), true, nil
}

func (s *SQLMarkerStore) Save(ctx context.Context, marker string) error {
	if err := s.repo.Set(ctx, common.PendingCaptureKey, []byte(marker)); err != nil {
		return fmt.Errorf("save marker: %w", err)
	}
	return nil
}

func (s *SQLMarkerStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.PendingCaptureKey); err != nil {
		return fmt.Errorf("clear marker: %w", err)
	}
	return nil
}

// MarkerFor renders the marker value for a temp artifact path: a file:// URI.
func MarkerFor(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// PathFromMarker reverses MarkerFor. Non-file markers yield "".
func PathFromMarker(marker string) string {
	u, err := url.Parse(marker)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}
