package classroom

import "context"

// Repository defines read operations over classrooms.
type Repository interface {
	// ListActive returns all non-deleted classrooms across every organization.
	ListActive(ctx context.Context) ([]*Classroom, error)
}
