package beats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/models/store"
	"github.com/rs/zerolog"
)

// Querier is the single capability the store needs from the database:
// run a parameterized query and return rows. *sql.DB satisfies it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store reads current, non-deleted beats and their acts. It never writes.
type Store interface {
	ListCurrentBeats(ctx context.Context) ([]store.BeatRow, error)
	ListActBeats(ctx context.Context, actNo int) ([]store.BeatRow, error)
	GetBeat(ctx context.Context, actNo, beatNumber int) (*store.BeatRow, error)
	GetAct(ctx context.Context, actNo int) (*store.ActRow, error)
	ListActs(ctx context.Context) ([]store.ActOverviewRow, error)
}

const beatColumns = `
		b.id, b.act_id, a.act_no, a.title, b.beat_number, b.scene_number,
		b.title, b.description, b.conflict, b.emotion, b.location,
		b.time_of_day, b.characters, b.version, b.created_at, b.updated_at`

const listCurrentBeatsQuery = `
	SELECT` + beatColumns + `
	FROM beats b
	JOIN acts a ON a.id = b.act_id
	WHERE b.is_current = 1 AND b.deleted_at IS NULL
	ORDER BY a.act_no ASC, b.beat_number ASC
`

const listActBeatsQuery = `
	SELECT` + beatColumns + `
	FROM beats b
	JOIN acts a ON a.id = b.act_id
	WHERE a.act_no = ? AND b.is_current = 1 AND b.deleted_at IS NULL
	ORDER BY b.beat_number ASC
`

const getBeatQuery = `
	SELECT` + beatColumns + `
	FROM beats b
	JOIN acts a ON a.id = b.act_id
	WHERE a.act_no = ? AND b.beat_number = ? AND b.is_current = 1 AND b.deleted_at IS NULL
	LIMIT 1
`

const getActQuery = `
	SELECT id, act_no, title
	FROM acts
	WHERE act_no = ?
	LIMIT 1
`

const listActsQuery = `
	SELECT a.id, a.act_no, a.title, COUNT(b.id) AS beat_count
	FROM acts a
	LEFT JOIN beats b ON b.act_id = a.id AND b.is_current = 1 AND b.deleted_at IS NULL
	GROUP BY a.id, a.act_no, a.title
	ORDER BY a.act_no ASC
`

type defaultStore struct {
	db Querier
}

func NewStore(db Querier) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) ListCurrentBeats(ctx context.Context) ([]store.BeatRow, error) {
	return s.queryBeats(ctx, "list current beats", listCurrentBeatsQuery)
}

func (s *defaultStore) ListActBeats(ctx context.Context, actNo int) ([]store.BeatRow, error) {
	return s.queryBeats(ctx, "list act beats", listActBeatsQuery, actNo)
}

func (s *defaultStore) GetBeat(ctx context.Context, actNo, beatNumber int) (*store.BeatRow, error) {
	rows, err := s.queryBeats(ctx, "get beat", getBeatQuery, actNo, beatNumber)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func (s *defaultStore) GetAct(ctx context.Context, actNo int) (*store.ActRow, error) {
	rows, err := s.db.QueryContext(ctx, getActQuery, actNo)
	if err != nil {
		return nil, domain.NewDataAccessError("get act", err)
	}
	defer closeRows(ctx, rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, domain.NewDataAccessError("get act", err)
		}
		return nil, domain.ErrNotFound
	}

	var act store.ActRow
	if err := rows.Scan(&act.ID, &act.ActNo, &act.Title); err != nil {
		return nil, domain.NewDataAccessError("scan act", err)
	}
	return &act, nil
}

func (s *defaultStore) ListActs(ctx context.Context) ([]store.ActOverviewRow, error) {
	rows, err := s.db.QueryContext(ctx, listActsQuery)
	if err != nil {
		return nil, domain.NewDataAccessError("list acts", err)
	}
	defer closeRows(ctx, rows)

	acts := make([]store.ActOverviewRow, 0)
	for rows.Next() {
		var act store.ActOverviewRow
		if err := rows.Scan(&act.ID, &act.ActNo, &act.Title, &act.BeatCount); err != nil {
			return nil, domain.NewDataAccessError("scan act overview", err)
		}
		acts = append(acts, act)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDataAccessError("list acts", err)
	}
	return acts, nil
}

func (s *defaultStore) queryBeats(ctx context.Context, op, query string, args ...any) ([]store.BeatRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewDataAccessError(op, err)
	}
	defer closeRows(ctx, rows)

	records, err := scanBeatRows(rows)
	if err != nil {
		return nil, domain.NewDataAccessError(op, err)
	}
	return records, nil
}

func scanBeatRows(rows *sql.Rows) ([]store.BeatRow, error) {
	records := make([]store.BeatRow, 0)
	for rows.Next() {
		var r store.BeatRow
		if err := rows.Scan(
			&r.ID, &r.ActID, &r.ActNo, &r.ActTitle, &r.BeatNumber, &r.SceneNumber,
			&r.Title, &r.Description, &r.Conflict, &r.Emotion, &r.Location,
			&r.TimeOfDay, &r.Characters, &r.Version, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan beat: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close beat query rows")
	}
}
