package notification

import "context"

// Repository is the sink for guardian notification records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
}
