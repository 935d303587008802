package database

import (
	"context"
	"database/sql"
	"fmt"

	"childcare_summary_service/internal/domain/notification"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, rec *notification.Record) error {
	query := `INSERT INTO notifications (
                   id, user_id, organization_id, channel, title, body,
                   action_type, reference_id, reference_type, sent_at
               ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, rec.OrganizationID, rec.Channel, rec.Title, rec.Body,
		rec.ActionType, rec.ReferenceID, rec.ReferenceType, rec.SentAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}
