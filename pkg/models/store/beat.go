package store

import (
	"database/sql"
	"time"
)

// BeatRow is one current beat joined with its act, as scanned from the store
type BeatRow struct {
	ID          int64
	ActID       int64
	ActNo       int
	ActTitle    string
	BeatNumber  int
	SceneNumber sql.NullInt64
	Title       sql.NullString
	Description sql.NullString
	Conflict    sql.NullString
	Emotion     sql.NullString
	Location    sql.NullString
	TimeOfDay   sql.NullString
	Characters  sql.NullString
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ActRow struct {
	ID    int64
	ActNo int
	Title string
}

type ActOverviewRow struct {
	ActRow
	BeatCount int
}
