package domain

import "time"

// Act is a top-level grouping of beats, ordered by ActNo
type Act struct {
	ID    int64
	ActNo int
	Title string
}

// ActOverview is an act together with the number of its current beats
type ActOverview struct {
	Act
	BeatCount int
}

// Beat is the current version of one scene, joined with its act
type Beat struct {
	ID          int64
	ActID       int64
	ActNo       int
	ActTitle    string
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
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View drops the act columns, keeping what a report entry carries
func (b Beat) View() BeatView {
	return BeatView{
		ID:          b.ID,
		BeatNumber:  b.BeatNumber,
		SceneNumber: b.SceneNumber,
		Title:       b.Title,
		Description: b.Description,
		Conflict:    b.Conflict,
		Emotion:     b.Emotion,
		Location:    b.Location,
		TimeOfDay:   b.TimeOfDay,
		Characters:  b.Characters,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
