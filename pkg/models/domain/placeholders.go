package domain

import "strings"

// Field names a displayable beat attribute
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldConflict    Field = "conflict"
	FieldEmotion     Field = "emotion"
	FieldLocation    Field = "location"
	FieldTimeOfDay   Field = "time_of_day"
	FieldCharacters  Field = "characters"
	FieldScene       Field = "scene_number"
	FieldActTitle    Field = "act_title"
)

// placeholders is the single source of fallback wording for report and page renderers.
var placeholders = map[Field]string{
	FieldTitle:       "Untitled Beat",
	FieldDescription: "No description available.",
	FieldConflict:    "Not specified",
	FieldEmotion:     "Not specified",
	FieldLocation:    "Not specified",
	FieldTimeOfDay:   "Not specified",
	FieldCharacters:  "Not specified",
	FieldScene:       "Unknown",
	FieldActTitle:    "Unknown Act",
}

// Placeholder returns the display text used when field has no value
func Placeholder(field Field) string {
	return placeholders[field]
}

// Present reports whether an optional text value should be displayed
func Present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// TextOr returns the value of v, or the placeholder of field when v is absent
func TextOr(v *string, field Field) string {
	if Present(v) {
		return *v
	}
	return Placeholder(field)
}

// Labels are the optional beat attributes rendered as label/value pairs, in display order.
var Labels = []struct {
	Field Field
	Label string
}{
	{FieldConflict, "Conflict"},
	{FieldEmotion, "Emotion"},
	{FieldLocation, "Location"},
	{FieldTimeOfDay, "Time of Day"},
	{FieldCharacters, "Characters"},
}

// Value returns the optional text attribute named by field
func (v BeatView) Value(field Field) *string {
	switch field {
	case FieldTitle:
		return v.Title
	case FieldDescription:
		return v.Description
	case FieldConflict:
		return v.Conflict
	case FieldEmotion:
		return v.Emotion
	case FieldLocation:
		return v.Location
	case FieldTimeOfDay:
		return v.TimeOfDay
	case FieldCharacters:
		return v.Characters
	}
	return nil
}
