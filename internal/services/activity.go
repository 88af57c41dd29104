package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/internal/infrastructure/journal"
	"github.com/taskpro/backend/usecase"
)

// ActivityRecorder bridges the use-case activity port onto the bbolt journal.
type ActivityRecorder struct {
	store  *journal.Store
	logger *zap.Logger
}

func NewActivityRecorder(store *journal.Store, logger *zap.Logger) *ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRecorder{store: store, logger: logger}
}

func (r *ActivityRecorder) RecordTask(ctx context.Context, action string, task *domain.Task) error {
	if r.store == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	return r.store.Append(journal.Entry{
		UserID: task.UserID,
		TaskID: task.ID,
		Action: action,
		Title:  task.Title,
	})
}

func (r *ActivityRecorder) RecentActivity(ctx context.Context, userID string, limit int) ([]usecase.ActivityEvent, error) {
	if r.store == nil {
		return nil, nil
	}
	entries, err := r.store.Recent(userID, limit)
	if err != nil {
		return nil, err
	}
	events := make([]usecase.ActivityEvent, 0, len(entries))
	for _, entry := range entries {
		events = append(events, usecase.ActivityEvent{
			ID:        entry.ID,
			TaskID:    entry.TaskID,
			Action:    entry.Action,
			Title:     entry.Title,
			Timestamp: entry.Timestamp,
		})
	}
	return events, nil
}

var _ usecase.ActivityLog = (*ActivityRecorder)(nil)
