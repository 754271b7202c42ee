package records

import "context"

// Repo defines persistence operations for records.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
