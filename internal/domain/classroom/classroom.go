package classroom

import "time"

// Classroom is the projection needed by the scheduled fan-out: enough to
// enumerate rooms and tag generated summaries with their organization.
type Classroom struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}
