package activity

import (
	"database/sql"
	"time"
)

// Kind identifies the type of a logged activity.
type Kind string

const (
	KindMeal       Kind = "meal"
	KindSnack      Kind = "snack"
	KindNap        Kind = "nap"
	KindDiaper     Kind = "diaper"
	KindMood       Kind = "mood"
	KindMilestone  Kind = "milestone"
	KindMedication Kind = "medication"
	KindGeneral    Kind = "general"
)

// Event is one immutable logged fact about a child.
// Rows are written by the activity-logging endpoints; this service only reads them.
// Corresponds to the 'activities' table.
type Event struct {
	ID             string
	OrganizationID string
	ClassroomID    sql.NullString
	ChildID        string
	Kind           Kind
	Title          sql.NullString
	Description    sql.NullString
	OccurredAt     time.Time

	// Meal fields
	MealType   sql.NullString
	MealItems  []string
	MealAmount sql.NullString

	// Nap fields
	NapStartTime sql.NullTime
	NapEndTime   sql.NullTime
	NapQuality   sql.NullString

	DiaperType sql.NullString
	Mood       sql.NullString

	MilestoneCategory sql.NullString
	MilestoneName     sql.NullString

	MedicationName sql.NullString
	MedicationDose sql.NullString

	VisibleToParents bool
	MediaCount       int

	CreatedAt time.Time
}

// NapMinutes returns the nap duration in whole minutes, rounded half away
// from zero, and whether both start and end times are present.
func (e *Event) NapMinutes() (int, bool) {
	if !e.NapStartTime.Valid || !e.NapEndTime.Valid {
		return 0, false
	}
	d := e.NapEndTime.Time.Sub(e.NapStartTime.Time)
	mins := float64(d) / float64(time.Minute)
	if mins >= 0 {
		return int(mins + 0.5), true
	}
	return int(mins - 0.5), true
}
