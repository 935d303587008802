package notification

import "time"

// ReferenceTypeDailySummary tags records that point back at a daily summary.
const ReferenceTypeDailySummary = "daily_summary"

// ActionOpenSummary is the client-side action attached to summary notifications.
const ActionOpenSummary = "open_summary"

// Record is one delivered (or queued) notification for one guardian.
// Records are created by the dispatcher and never mutated afterwards.
// Corresponds to the 'notifications' table.
type Record struct {
	ID             string
	UserID         string
	OrganizationID string
	Channel        string
	Title          string
	Body           string
	ActionType     string
	ReferenceID    string
	ReferenceType  string
	SentAt         time.Time
	CreatedAt      time.Time
}
