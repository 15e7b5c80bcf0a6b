package beats

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb/sqldbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var beatRowColumns = []string{
	"id", "act_id", "act_no", "title", "beat_number", "scene_number",
	"title", "description", "conflict", "emotion", "location",
	"time_of_day", "characters", "version", "created_at", "updated_at",
}

func TestNewStore(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_ListCurrentBeats_ScansNullableColumns(t *testing.T) {
	// Given: a sqlmock DB with one complete and one sparse row
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(beatRowColumns).
		AddRow(1, 10, 1, "Setup", 1, 4, "Opening", "Hero wakes", "Alarm", "Dread", "Flat", "Dawn", "Ana", 2, ts, ts).
		AddRow(2, 10, 1, "Setup", 2, nil, nil, nil, nil, nil, nil, nil, nil, 1, ts, ts)
	mock.ExpectQuery(regexp.QuoteMeta(listCurrentBeatsQuery)).WillReturnRows(rows)

	s, err := NewStore(db)
	require.NoError(t, err)

	// When
	records, err := s.ListCurrentBeats(context.Background())

	// Then
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Setup", records[0].ActTitle)
	assert.True(t, records[0].SceneNumber.Valid)
	assert.EqualValues(t, 4, records[0].SceneNumber.Int64)
	assert.Equal(t, "Alarm", records[0].Conflict.String)
	assert.False(t, records[1].SceneNumber.Valid)
	assert.False(t, records[1].Conflict.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListCurrentBeats_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(listCurrentBeatsQuery)).WillReturnError(errors.New("connection refused"))

	s, err := NewStore(db)
	require.NoError(t, err)

	records, err := s.ListCurrentBeats(context.Background())
	assert.Nil(t, records)
	require.Error(t, err)

	var dae *domain.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Contains(t, dae.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetBeat_UsesParameters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getBeatQuery)).
		WithArgs(2, 5).
		WillReturnRows(sqlmock.NewRows(beatRowColumns))

	s, err := NewStore(db)
	require.NoError(t, err)

	beat, err := s.GetBeat(context.Background(), 2, 5)
	assert.Nil(t, beat)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetAct_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getActQuery)).
		WithArgs(1).
		WillReturnError(errors.New("database is locked"))

	s, err := NewStore(db)
	require.NoError(t, err)

	act, err := s.GetAct(context.Background(), 1)
	assert.Nil(t, act)
	assert.True(t, domain.IsDataAccess(err))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

type fixture struct {
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db := sqldbtest.NewDB(t)

	sqldbtest.InsertActs(t, db,
		sqldbtest.Act{ID: 20, ActNo: 2, Title: "Confrontation"},
		sqldbtest.Act{ID: 10, ActNo: 1, Title: "Setup"},
		sqldbtest.Act{ID: 30, ActNo: 3, Title: "Resolution"},
	)
	sqldbtest.InsertBeats(t, db,
		sqldbtest.Beat{ActID: 20, BeatNumber: 1, Title: sqldbtest.Str("Midpoint"), IsCurrent: true},
		sqldbtest.Beat{ActID: 10, BeatNumber: 2, Title: sqldbtest.Str("Catalyst"), IsCurrent: true, Version: 3},
		sqldbtest.Beat{ActID: 10, BeatNumber: 2, Title: sqldbtest.Str("Catalyst draft"), IsCurrent: false, Version: 2},
		sqldbtest.Beat{ActID: 10, BeatNumber: 1, Title: sqldbtest.Str("Opening Image"), SceneNumber: sqldbtest.Int(1), IsCurrent: true},
		sqldbtest.Beat{ActID: 10, BeatNumber: 3, Title: sqldbtest.Str("Cut scene"), IsCurrent: true, Deleted: true},
	)

	s, err := NewStore(db)
	require.NoError(t, err)
	return &fixture{store: s}
}

func TestStore_SQLite(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("list current beats ordered by act then beat", func(t *testing.T) {
		records, err := f.store.ListCurrentBeats(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, 1, records[0].ActNo)
		assert.Equal(t, 1, records[0].BeatNumber)
		assert.Equal(t, 1, records[1].ActNo)
		assert.Equal(t, 2, records[1].BeatNumber)
		assert.Equal(t, "Catalyst", records[1].Title.String)
		assert.Equal(t, 3, records[1].Version)
		assert.Equal(t, 2, records[2].ActNo)
		assert.Equal(t, "Confrontation", records[2].ActTitle)
	})

	t.Run("list act beats skips other acts", func(t *testing.T) {
		records, err := f.store.ListActBeats(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Midpoint", records[0].Title.String)
	})

	t.Run("get beat", func(t *testing.T) {
		beat, err := f.store.GetBeat(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "Opening Image", beat.Title.String)
		assert.EqualValues(t, 1, beat.SceneNumber.Int64)
		assert.False(t, beat.Description.Valid)
	})

	t.Run("deleted beat is not found", func(t *testing.T) {
		_, err := f.store.GetBeat(ctx, 1, 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get act", func(t *testing.T) {
		act, err := f.store.GetAct(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Resolution", act.Title)

		_, err = f.store.GetAct(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list acts counts current beats only", func(t *testing.T) {
		acts, err := f.store.ListActs(ctx)
		require.NoError(t, err)
		require.Len(t, acts, 3)
		assert.Equal(t, 1, acts[0].ActNo)
		assert.Equal(t, 2, acts[0].BeatCount)
		assert.Equal(t, 1, acts[1].BeatCount)
		assert.Equal(t, 0, acts[2].BeatCount)
	})
}
