package repository

import (
	"context"

	"github.com/taskpro/backend/domain"
)

// Order fields accepted by task listing.
const (
	OrderByDueDate   = "due_date"
	OrderByPriority  = "priority"
	OrderByCreatedAt = "created_at"
)

// TaskQuery is the complete specification for one list call: owner scope,
// optional exact-match filters, search text and ordering, resolved up front
// instead of being accumulated in a chained builder.
type TaskQuery struct {
	UserID     string
	Status     domain.Status
	Priority   domain.Priority
	Search     string
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, query TaskQuery) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, id string) error
	SetStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error)
	Summary(ctx context.Context, userID string) (*domain.TaskSummary, error)
}
