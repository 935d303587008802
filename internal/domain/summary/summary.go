package summary

import (
	"database/sql"
	"time"
)

// ModelFallback is recorded as the model identifier whenever the narrative
// came from the deterministic template instead of a model call.
const ModelFallback = "template"

// DailySummary is the persisted output of the generation pipeline.
// At most one row exists per (child_id, date) pair; regeneration updates the
// existing row in place. Corresponds to the 'daily_summaries' table.
type DailySummary struct {
	ID              string
	OrganizationID  string
	ChildID         string
	Date            time.Time // local midnight of the summarized day
	SummaryText     string
	Highlights      []string
	TotalActivities int
	MealsEaten      int
	NapDurationMins int
	PhotosCount     int
	Model           string
	GeneratedAt     time.Time
	TeacherReviewed bool
	SentToParents   bool
	SentAt          sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Stats are the four derived counters computed from one day of activities.
type Stats struct {
	TotalActivities int `json:"totalActivities"`
	MealsEaten      int `json:"mealsEaten"`
	NapMinutes      int `json:"napMinutes"`
	PhotosCount     int `json:"photosCount"`
}

// GenerationResult is the transient outcome of generating one child's narrative.
type GenerationResult struct {
	SummaryText string   `json:"summaryText"`
	Highlights  []string `json:"highlights"`
	Stats       Stats    `json:"stats"`
	Model       string   `json:"model"`
}

// SentimentResult is the outcome of classifying a single free-text message.
type SentimentResult struct {
	Sentiment        string  `json:"sentiment"`
	RequiresResponse bool    `json:"requiresResponse"`
	Confidence       float64 `json:"confidence"`
}

// NeutralSentiment is returned when no model is configured or the model's
// output could not be used.
func NeutralSentiment() *SentimentResult {
	return &SentimentResult{Sentiment: "neutral", RequiresResponse: false, Confidence: 0.5}
}

// ChildResult is one child's outcome within a classroom batch.
type ChildResult struct {
	ChildID string `json:"childId"`
	Name    string `json:"name"`
	Status  string `json:"status"` // "success" or "error"
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates a classroom fan-out. It is never persisted.
type BatchResult struct {
	Generated int           `json:"generated"`
	Total     int           `json:"total"`
	Results   []ChildResult `json:"results"`
}

// DayOf normalizes t to local midnight, the canonical key for one summarized day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
