package database

import (
	"context"
	"database/sql"
	"fmt"

	"childcare_summary_service/internal/domain/child"
)

// Custom errors
var ErrChildNotFound = fmt.Errorf("child not found")

type PostgresChildRepository struct {
	db *sql.DB
}

func NewPostgresChildRepository(db *sql.DB) *PostgresChildRepository {
	return &PostgresChildRepository{db: db}
}

func (r *PostgresChildRepository) GetByID(ctx context.Context, id string) (*child.Profile, error) {
	query := `SELECT id, organization_id, classroom_id, first_name, last_name, preferred_name,
                      enrollment_status, created_at, updated_at
               FROM children WHERE id = $1 AND deleted_at IS NULL`
	p := &child.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OrganizationID, &p.ClassroomID, &p.FirstName, &p.LastName, &p.PreferredName,
		&p.EnrollmentStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("error getting child by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresChildRepository) ListEnrolled(ctx context.Context, classroomID, organizationID string) ([]*child.Profile, error) {
	query := `SELECT id, organization_id, classroom_id, first_name, last_name, preferred_name,
                      enrollment_status, created_at, updated_at
               FROM children
               WHERE classroom_id = $1 AND organization_id = $2
                 AND enrollment_status = 'enrolled' AND deleted_at IS NULL
               ORDER BY first_name, last_name`

	rows, err := r.db.QueryContext(ctx, query, classroomID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled children: %w", err)
	}
	defer rows.Close()

	children := make([]*child.Profile, 0)
	for rows.Next() {
		p := &child.Profile{}
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.ClassroomID, &p.FirstName, &p.LastName, &p.PreferredName,
			&p.EnrollmentStatus, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrolled child: %w", err)
		}
		children = append(children, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrolled children: %w", err)
	}
	return children, nil
}

func (r *PostgresChildRepository) ListGuardians(ctx context.Context, childID string) ([]*child.Guardian, error) {
	query := `SELECT u.id, g.child_id, g.relationship,
                      COALESCE(u.notification_channel, 'push'), u.telegram_chat_id
               FROM child_guardians g
               JOIN users u ON u.id = g.user_id
               WHERE g.child_id = $1
               ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("error listing guardians: %w", err)
	}
	defer rows.Close()

	guardians := make([]*child.Guardian, 0)
	for rows.Next() {
		g := &child.Guardian{}
		if err := rows.Scan(&g.UserID, &g.ChildID, &g.Relationship, &g.Channel, &g.TelegramChatID); err != nil {
			return nil, fmt.Errorf("error scanning guardian: %w", err)
		}
		guardians = append(guardians, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guardians: %w", err)
	}
	return guardians, nil
}
