package usecase

import (
	"context"
	"time"

	"github.com/taskpro/backend/domain"
)

// ActivityEvent is one recorded task event as exposed to callers.
type ActivityEvent struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLog abstracts the activity journal so use cases stay storage-agnostic.
type ActivityLog interface {
	RecordTask(ctx context.Context, action string, task *domain.Task) error
	RecentActivity(ctx context.Context, userID string, limit int) ([]ActivityEvent, error)
}
