package database

import (
	"context"
	"database/sql"
	"fmt"

	"childcare_summary_service/internal/domain/classroom"
)

type PostgresClassroomRepository struct {
	db *sql.DB
}

func NewPostgresClassroomRepository(db *sql.DB) *PostgresClassroomRepository {
	return &PostgresClassroomRepository{db: db}
}

func (r *PostgresClassroomRepository) ListActive(ctx context.Context) ([]*classroom.Classroom, error) {
	query := `SELECT id, organization_id, name, created_at
               FROM classrooms WHERE deleted_at IS NULL
               ORDER BY organization_id, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active classrooms: %w", err)
	}
	defer rows.Close()

	classrooms := make([]*classroom.Classroom, 0)
	for rows.Next() {
		c := &classroom.Classroom{}
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning classroom: %w", err)
		}
		classrooms = append(classrooms, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classrooms: %w", err)
	}
	return classrooms, nil
}
