package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"childcare_summary_service/internal/domain/activity"

	"github.com/lib/pq"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// ListForChildOnDate returns the child's events inside the local calendar day
// of date, oldest first.
func (r *PostgresActivityRepository) ListForChildOnDate(ctx context.Context, childID string, date time.Time) ([]*activity.Event, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

	query := `SELECT a.id, a.organization_id, a.classroom_id, a.child_id, a.activity_type,
                      a.title, a.description, a.occurred_at,
                      a.meal_type, a.meal_items, a.meal_amount,
                      a.nap_start_time, a.nap_end_time, a.nap_quality,
                      a.diaper_type, a.mood,
                      a.milestone_category, a.milestone_name,
                      a.medication_name, a.medication_dose,
                      a.visible_to_parents,
                      (SELECT COUNT(*) FROM activity_media am WHERE am.activity_id = a.id) AS media_count,
                      a.created_at
               FROM activities a
               WHERE a.child_id = $1 AND a.occurred_at >= $2 AND a.occurred_at <= $3
               ORDER BY a.occurred_at ASC`

	rows, err := r.db.QueryContext(ctx, query, childID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	defer rows.Close()

	events := make([]*activity.Event, 0)
	for rows.Next() {
		e := &activity.Event{}
		var mealItems pq.StringArray
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.ClassroomID, &e.ChildID, &e.Kind,
			&e.Title, &e.Description, &e.OccurredAt,
			&e.MealType, &mealItems, &e.MealAmount,
			&e.NapStartTime, &e.NapEndTime, &e.NapQuality,
			&e.DiaperType, &e.Mood,
			&e.MilestoneCategory, &e.MilestoneName,
			&e.MedicationName, &e.MedicationDose,
			&e.VisibleToParents, &e.MediaCount, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning activity: %w", err)
		}
		e.MealItems = mealItems
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return events, nil
}
