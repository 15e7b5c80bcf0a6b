package domain

import (
	"strconv"
	"time"
)

const ReportTypeBeatsByAct = "beats_by_act"

// Report is the aggregate shared by every export format.
// It is built once per request and never mutated afterwards.
type Report struct {
	ReportType  string     `json:"report_type"`
	GeneratedAt time.Time  `json:"generated_at"`
	Summary     Summary    `json:"summary"`
	Acts        []ActGroup `json:"acts"`
}

// Summary holds the global counts of a report
type Summary struct {
	TotalActs   int            `json:"total_acts"`
	TotalBeats  int            `json:"total_beats"`
	BeatsPerAct []ActBeatCount `json:"beats_per_act"`
}

type ActBeatCount struct {
	ActNo     int    `json:"act_no"`
	ActTitle  string `json:"act_title"`
	BeatCount int    `json:"beat_count"`
}

// ActGroup holds the current beats of one act, ordered by beat number
type ActGroup struct {
	ActNo     int        `json:"act_no"`
	ActID     int64      `json:"act_id"`
	ActTitle  string     `json:"act_title"`
	Beats     []BeatView `json:"beats"`
	BeatCount int        `json:"beat_count"`
}

// BeatView is the report projection of a beat. Optional fields stay nil
// when the store has no value; placeholders are a rendering concern.
type BeatView struct {
	ID          int64     `json:"id"`
	BeatNumber  int       `json:"beat_number"`
	SceneNumber *int      `json:"scene_number"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Conflict    *string   `json:"conflict"`
	Emotion     *string   `json:"emotion"`
	Location    *string   `json:"location"`
	TimeOfDay   *string   `json:"time_of_day"`
	Characters  *string   `json:"characters"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Count renders n with noun in singular or plural form, as in "1 beat" or "3 beats"
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// Heading is "Beat N", with " (Scene M)" appended when the scene is known
func (v BeatView) Heading() string {
	h := "Beat " + strconv.Itoa(v.BeatNumber)
	if v.SceneNumber != nil {
		h += " (Scene " + strconv.Itoa(*v.SceneNumber) + ")"
	}
	return h
}
