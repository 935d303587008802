package summary

import (
	"context"
	"time"
)

// Repository defines persistence operations for daily summaries.
type Repository interface {
	// Upsert creates the summary for (childID, date) or overwrites the existing
	// one. On update the narrative, highlights, stats, model and generated_at
	// are replaced and teacher_reviewed is reset to false; the sent flag and
	// timestamp are left untouched. Uniqueness on (child_id, date) is enforced
	// by the store.
	Upsert(ctx context.Context, childID, organizationID string, date time.Time, res *GenerationResult) (*DailySummary, error)

	GetByID(ctx context.Context, id string) (*DailySummary, error)

	// MarkSent sets sent_to_parents and the sent timestamp. Calling it on an
	// already-sent summary is a no-op keeping the original timestamp.
	MarkSent(ctx context.Context, id string) error
}
