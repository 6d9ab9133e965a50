package profile

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.Open(context.Background(), dbx.DialectSQLite, filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLRecordStore_LoadEmptyProfile(t *testing.T) {
	s := NewSQLRecordStore(openDB(t), metadata.ForDialect(dbx.DialectSQLite))

	r, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Record{}, r)
}

func TestSQLRecordStore_SaveOverwritesWholesale(t *testing.T) {
	s := NewSQLRecordStore(openDB(t), metadata.ForDialect(dbx.DialectSQLite))
	ctx := context.Background()

	first := Record{Name: "Ann", Email: "ann@example.com", Phone: "1", Class: "A", Major: "CS", Gender: GenderFemale}
	require.NoError(t, s.Save(ctx, first))

	second := Record{Name: "Ann B"}
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got, "fields missing from the new record are cleared")
}

func TestSQLRecordStore_RoundTripsGeneratedRecords(t *testing.T) {
	s := NewSQLRecordStore(openDB(t), metadata.ForDialect(dbx.DialectSQLite))
	ctx := context.Background()
	faker := gofakeit.New(42)

	for i := 0; i < 20; i++ {
		want := Record{
			Name:   faker.Name(),
			Email:  faker.Email(),
			Phone:  faker.Phone(),
			Class:  faker.Word(),
			Major:  faker.JobTitle(),
			Gender: Gender(faker.RandomString([]string{"", "male", "female"})),
		}
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSQLRecordStore_SaveFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs(KeyName, []byte("Ann")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs(KeyEmail, []byte{}).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewSQLRecordStore(db, metadata.ForDialect(dbx.DialectSQLite))
	err = s.Save(context.Background(), Record{Name: "Ann"})
	require.ErrorContains(t, err, "save profile")
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRecordStore_PostgresDialect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range Keys {
		mock.ExpectExec(`INSERT INTO metadata \(key, value\) VALUES \(\$1, \$2\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	s := NewSQLRecordStore(db, metadata.ForDialect(dbx.DialectPostgres))
	require.NoError(t, s.Save(context.Background(), Record{Name: "Ann", Gender: GenderMale}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMarkerStore_Lifecycle(t *testing.T) {
	m := NewSQLMarkerStore(metadata.NewSQLiteRepository(openDB(t)))
	ctx := context.Background()

	_, ok, err := m.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Save(ctx, "file:///data/temp_profile_photo_filename.jpg"))

	v, ok, err := m.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "file:///data/temp_profile_photo_filename.jpg", v)

	require.NoError(t, m.Clear(ctx))
	require.NoError(t, m.Clear(ctx), "clearing twice is fine")

	_, ok, err = m.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLMarkerStore_SurvivesReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "profile.db")
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DialectSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, NewSQLMarkerStore(metadata.NewSQLiteRepository(db)).Save(ctx, "file:///x"))
	require.NoError(t, db.Close())

	db, err = dbx.Open(ctx, dbx.DialectSQLite, dsn)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewSQLMarkerStore(metadata.NewSQLiteRepository(db)).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "file:///x", v)
}

func TestMarkerFor_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "temp_profile_photo_filename.jpg")

	marker := MarkerFor(p)
	assert.Contains(t, marker, "file://")
	assert.Equal(t, p, PathFromMarker(marker))

	assert.Equal(t, "", PathFromMarker("s3://bucket/key"))
	assert.Equal(t, "", PathFromMarker("::not a url"))
}
