// Package sqldbtest seeds in-memory sqlite databases for tests.
package sqldbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/beat-sheets/pkg/store/sqldb"
	"github.com/stretchr/testify/require"
)

type Act struct {
	ID    int64
	ActNo int
	Title string
}

type Beat struct {
	ActID       int64
	BeatNumber  int
	SceneNumber *int
	Title       *string
	Description *string
	Conflict    *string
	Emotion     *string
	Location    *string
	TimeOfDay   *string
	Characters  *string
	Version     int
	IsCurrent   bool
	Deleted     bool
	CreatedAt   time.Time
}

// Str and Int build optional column values
func Str(s string) *string { return &s }
func Int(n int) *int       { return &n }

// NewDB opens a bootstrapped in-memory sqlite database closed with the test
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqldb.NewDB(context.Background(), sqldb.Settings{
		Driver:    sqldb.DriverSQLite,
		DSN:       ":memory:",
		Bootstrap: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func InsertActs(t *testing.T, db *sql.DB, acts ...Act) {
	t.Helper()
	for _, a := range acts {
		_, err := db.Exec(`INSERT INTO acts (id, act_no, title) VALUES (?, ?, ?)`, a.ID, a.ActNo, a.Title)
		require.NoError(t, err)
	}
}

func InsertBeats(t *testing.T, db *sql.DB, beats ...Beat) {
	t.Helper()
	for _, b := range beats {
		created := b.CreatedAt
		if created.IsZero() {
			created = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		}
		version := b.Version
		if version == 0 {
			version = 1
		}
		var deletedAt any
		if b.Deleted {
			deletedAt = created
		}
		_, err := db.Exec(`
			INSERT INTO beats (
				act_id, beat_number, scene_number, title, description, conflict, emotion,
				location, time_of_day, characters, version, is_current, created_at, updated_at, deleted_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ActID, b.BeatNumber, optInt(b.SceneNumber), opt(b.Title), opt(b.Description),
			opt(b.Conflict), opt(b.Emotion), opt(b.Location), opt(b.TimeOfDay), opt(b.Characters),
			version, flag(b.IsCurrent), created, created, deletedAt,
		)
		require.NoError(t, err)
	}
}

func opt(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func optInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func flag(v bool) int {
	if v {
		return 1
	}
	return 0
}
