package activity

import (
	"context"
	"time"
)

// Repository defines read operations over logged activity events.
type Repository interface {
	// ListForChildOnDate returns the child's events whose occurred_at falls
	// within the local calendar day of date, ordered by occurred_at ascending.
	ListForChildOnDate(ctx context.Context, childID string, date time.Time) ([]*Event, error)
}
