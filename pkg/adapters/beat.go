package adapters

import (
	"database/sql"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/models/store"
)

func MapStoreBeatToDomain(r store.BeatRow) domain.Beat {
	return domain.Beat{
		ID:          r.ID,
		ActID:       r.ActID,
		ActNo:       r.ActNo,
		ActTitle:    r.ActTitle,
		BeatNumber:  r.BeatNumber,
		SceneNumber: nullInt(r.SceneNumber),
		Title:       nullString(r.Title),
		Description: nullString(r.Description),
		Conflict:    nullString(r.Conflict),
		Emotion:     nullString(r.Emotion),
		Location:    nullString(r.Location),
		TimeOfDay:   nullString(r.TimeOfDay),
		Characters:  nullString(r.Characters),
		Version:     r.Version,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func MapStoreBeatsToDomain(rows []store.BeatRow) []domain.Beat {
	beats := make([]domain.Beat, 0, len(rows))
	for _, r := range rows {
		beats = append(beats, MapStoreBeatToDomain(r))
	}
	return beats
}

func MapStoreActToDomain(r store.ActRow) domain.Act {
	return domain.Act{
		ID:    r.ID,
		ActNo: r.ActNo,
		Title: r.Title,
	}
}

func MapStoreActOverviewToDomain(r store.ActOverviewRow) domain.ActOverview {
	return domain.ActOverview{
		Act:       MapStoreActToDomain(r.ActRow),
		BeatCount: r.BeatCount,
	}
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
