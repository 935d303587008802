package child

import (
	"database/sql"
	"time"
)

// Profile is the identity projection of a child that the summary pipeline needs.
// Full child records are owned by the profile CRUD module; this service reads them.
type Profile struct {
	ID               string
	OrganizationID   string
	ClassroomID      sql.NullString
	FirstName        string
	LastName         string
	PreferredName    sql.NullString
	EnrollmentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayName returns the preferred name when set, else the first name.
func (p *Profile) DisplayName() string {
	if p.PreferredName.Valid && p.PreferredName.String != "" {
		return p.PreferredName.String
	}
	return p.FirstName
}

// FullName is "<first> <last>", used in batch results and notification titles.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Guardian is a user eligible to receive notifications about a child.
type Guardian struct {
	UserID         string
	ChildID        string
	Relationship   sql.NullString
	Channel        string // preferred delivery channel, e.g. "push"
	TelegramChatID sql.NullInt64
}
