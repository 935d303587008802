package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"childcare_summary_service/internal/domain/summary"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom errors
var ErrSummaryNotFound = fmt.Errorf("summary not found")

type PostgresSummaryRepository struct {
	db *sql.DB
}

func NewPostgresSummaryRepository(db *sql.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

const summaryColumns = `id, organization_id, child_id, date, summary_text, highlights,
                        total_activities, meals_eaten, nap_duration_mins, photos_count,
                        ai_model, ai_generated_at, teacher_reviewed, sent_to_parents, sent_at,
                        created_at, updated_at`

// Upsert writes the generation result for (childID, date). The unique
// constraint on (child_id, date) makes regeneration overwrite in place: the
// update branch replaces the derived fields and resets teacher_reviewed, and
// leaves sent_to_parents/sent_at as they are.
func (r *PostgresSummaryRepository) Upsert(ctx context.Context, childID, organizationID string, date time.Time, res *summary.GenerationResult) (*summary.DailySummary, error) {
	query := `INSERT INTO daily_summaries (
                   id, organization_id, child_id, date, summary_text, highlights,
                   total_activities, meals_eaten, nap_duration_mins, photos_count,
                   ai_model, ai_generated_at, teacher_reviewed, sent_to_parents
               ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), FALSE, FALSE)
               ON CONFLICT (child_id, date) DO UPDATE SET
                   summary_text      = EXCLUDED.summary_text,
                   highlights        = EXCLUDED.highlights,
                   total_activities  = EXCLUDED.total_activities,
                   meals_eaten       = EXCLUDED.meals_eaten,
                   nap_duration_mins = EXCLUDED.nap_duration_mins,
                   photos_count      = EXCLUDED.photos_count,
                   ai_model          = EXCLUDED.ai_model,
                   ai_generated_at   = NOW(),
                   teacher_reviewed  = FALSE,
                   updated_at        = NOW()
               RETURNING ` + summaryColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), organizationID, childID, date,
		res.SummaryText, pq.Array(res.Highlights),
		res.Stats.TotalActivities, res.Stats.MealsEaten, res.Stats.NapMinutes, res.Stats.PhotosCount,
		res.Model,
	)

	s, err := scanSummary(row)
	if err != nil {
		return nil, fmt.Errorf("error upserting summary: %w", err)
	}
	return s, nil
}

func (r *PostgresSummaryRepository) GetByID(ctx context.Context, id string) (*summary.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("error getting summary by ID: %w", err)
	}
	return s, nil
}

// MarkSent flips the sent flag. COALESCE keeps the first sent timestamp, so
// repeated calls are no-ops rather than errors.
func (r *PostgresSummaryRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE daily_summaries
               SET sent_to_parents = TRUE, sent_at = COALESCE(sent_at, NOW()), updated_at = NOW()
               WHERE id = $1
               RETURNING id`

	var returned string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&returned); err != nil {
		if err == sql.ErrNoRows {
			return ErrSummaryNotFound
		}
		return fmt.Errorf("error marking summary sent: %w", err)
	}
	return nil
}

func scanSummary(row *sql.Row) (*summary.DailySummary, error) {
	s := &summary.DailySummary{}
	var highlights pq.StringArray
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.ChildID, &s.Date, &s.SummaryText, &highlights,
		&s.TotalActivities, &s.MealsEaten, &s.NapDurationMins, &s.PhotosCount,
		&s.Model, &s.GeneratedAt, &s.TeacherReviewed, &s.SentToParents, &s.SentAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Highlights = highlights
	return s, nil
}
