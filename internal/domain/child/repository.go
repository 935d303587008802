package child

import (
	"context"
)

// Repository defines read operations over child profiles and their guardians.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	// ListEnrolled returns enrolled, non-deleted children of a classroom,
	// ordered by first name then last name.
	ListEnrolled(ctx context.Context, classroomID, organizationID string) ([]*Profile, error)
	ListGuardians(ctx context.Context, childID string) ([]*Guardian, error)
}
