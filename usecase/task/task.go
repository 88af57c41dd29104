package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/repository"
	"github.com/taskpro/backend/usecase"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Input carries the client-settable task fields. Nil means the field was not
// supplied, which matters for partial updates. Owner, id and timestamps are
// never read from input.
type Input struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
}

// ListOptions carries the raw list query parameters before validation.
type ListOptions struct {
	Status   string
	Priority string
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

type UseCase struct {
	tasks    repository.TaskRepository
	activity usecase.ActivityLog
	logger   *zap.Logger
	now      func() time.Time
}

func New(tasks repository.TaskRepository, activity usecase.ActivityLog, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the caller's tasks, filtered, searched and ordered per opts.
// The default ordering is ascending due date.
func (uc *UseCase) List(ctx context.Context, userID string, opts ListOptions) ([]domain.Task, error) {
	query := repository.TaskQuery{
		UserID:  userID,
		Search:  strings.TrimSpace(opts.Search),
		OrderBy: repository.OrderByDueDate,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}

	fields := map[string]string{}
	if opts.Status != "" {
		status := domain.Status(opts.Status)
		if !status.Valid() {
			fields["status"] = "status must be one of PENDING, COMPLETED"
		}
		query.Status = status
	}
	if opts.Priority != "" {
		priority := domain.Priority(opts.Priority)
		if !priority.Valid() {
			fields["priority"] = "priority must be one of LOW, MEDIUM, HIGH"
		}
		query.Priority = priority
	}
	if opts.Ordering != "" {
		field := opts.Ordering
		if strings.HasPrefix(field, "-") {
			query.Descending = true
			field = field[1:]
		}
		switch field {
		case repository.OrderByDueDate, repository.OrderByPriority, repository.OrderByCreatedAt:
			query.OrderBy = field
		default:
			fields["ordering"] = "ordering must be one of due_date, priority, created_at"
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	return uc.tasks.List(ctx, query)
}

func (uc *UseCase) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return uc.tasks.GetByID(ctx, userID, id)
}

// Create validates the input, binds ownership to the caller and persists the
// task. The due date must not lie before today's date.
func (uc *UseCase) Create(ctx context.Context, userID string, in Input) (*domain.Task, error) {
	task := &domain.Task{
		UserID:   userID,
		Priority: domain.PriorityMedium,
		Status:   domain.StatusPending,
	}

	fields := map[string]string{}
	uc.applyTitle(task, in.Title, true, fields)
	uc.applyDescription(task, in.Description)
	uc.applyPriority(task, in.Priority, fields)
	uc.applyStatus(task, in.Status, fields)
	uc.applyDueDate(task, in.DueDate, true, fields)
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, "created", created)
	return created, nil
}

// Update applies the supplied fields to the caller's task. With partial set,
// absent fields keep their stored values; otherwise title and due date are
// required, matching a full replace.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in Input, partial bool) (*domain.Task, error) {
	task, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	uc.applyTitle(task, in.Title, !partial, fields)
	uc.applyDescription(task, in.Description)
	uc.applyPriority(task, in.Priority, fields)
	uc.applyStatus(task, in.Status, fields)
	uc.applyDueDate(task, in.DueDate, !partial, fields)
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.record(ctx, "updated", task)
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrTaskNotFound
	}
	if err := uc.tasks.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.record(ctx, "deleted", &domain.Task{ID: id, UserID: userID})
	return nil
}

// MarkComplete forces the status to COMPLETED. It has no precondition on the
// prior status and skips due-date validation.
func (uc *UseCase) MarkComplete(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.setStatus(ctx, userID, id, domain.StatusCompleted, "completed")
}

// MarkPending is the symmetric transition back to PENDING.
func (uc *UseCase) MarkPending(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.setStatus(ctx, userID, id, domain.StatusPending, "reopened")
}

func (uc *UseCase) setStatus(ctx context.Context, userID, id string, status domain.Status, action string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTaskNotFound
	}
	task, err := uc.tasks.SetStatus(ctx, userID, id, status)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, action, task)
	return task, nil
}

func (uc *UseCase) Summary(ctx context.Context, userID string) (*domain.TaskSummary, error) {
	return uc.tasks.Summary(ctx, userID)
}

func (uc *UseCase) Activity(ctx context.Context, userID string, limit int) ([]usecase.ActivityEvent, error) {
	if uc.activity == nil {
		return nil, nil
	}
	return uc.activity.RecentActivity(ctx, userID, limit)
}

func (uc *UseCase) applyTitle(task *domain.Task, title *string, required bool, fields map[string]string) {
	if title == nil {
		if required {
			fields["title"] = "title is required"
		}
		return
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		fields["title"] = "title is required"
		return
	}
	task.Title = trimmed
}

func (uc *UseCase) applyDescription(task *domain.Task, description *string) {
	if description != nil {
		task.Description = *description
	}
}

func (uc *UseCase) applyPriority(task *domain.Task, priority *string, fields map[string]string) {
	if priority == nil {
		return
	}
	p := domain.Priority(*priority)
	if !p.Valid() {
		fields["priority"] = "priority must be one of LOW, MEDIUM, HIGH"
		return
	}
	task.Priority = p
}

func (uc *UseCase) applyStatus(task *domain.Task, status *string, fields map[string]string) {
	if status == nil {
		return
	}
	s := domain.Status(*status)
	if !s.Valid() {
		fields["status"] = "status must be one of PENDING, COMPLETED"
		return
	}
	task.Status = s
}

func (uc *UseCase) applyDueDate(task *domain.Task, dueDate *string, required bool, fields map[string]string) {
	if dueDate == nil {
		if required {
			fields["due_date"] = "due date is required"
		}
		return
	}
	parsed, err := time.ParseInLocation(DateLayout, *dueDate, time.Local)
	if err != nil {
		fields["due_date"] = "due date must be formatted as YYYY-MM-DD"
		return
	}
	if parsed.Before(domain.DateOf(uc.now())) {
		fields["due_date"] = "due date cannot be in the past"
		return
	}
	task.DueDate = parsed
}

func (uc *UseCase) record(ctx context.Context, action string, task *domain.Task) {
	if uc.activity == nil {
		return
	}
	if err := uc.activity.RecordTask(ctx, action, task); err != nil {
		uc.logger.Warn("failed to record task activity",
			zap.String("action", action),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
}
