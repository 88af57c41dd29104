package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `t.id, t.user_id, u.username, t.title, t.description, t.priority, t.status, t.due_date, t.created_at, t.updated_at`

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks t
	JOIN users u ON u.id = t.user_id
	WHERE t.id = $1 AND t.user_id = $2
	`, taskColumns)
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, q repository.TaskQuery) ([]domain.Task, error) {
	query, args := buildListQuery(q)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// buildListQuery resolves one TaskQuery into a single SQL statement. The
// owner predicate is always first; filters and search stack with AND.
func buildListQuery(q repository.TaskQuery) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(taskColumns)
	sb.WriteString(" FROM tasks t JOIN users u ON u.id = t.user_id WHERE t.user_id = $1")

	args := []interface{}{q.UserID}

	if q.Status != "" {
		args = append(args, string(q.Status))
		fmt.Fprintf(&sb, " AND t.status = $%d", len(args))
	}
	if q.Priority != "" {
		args = append(args, string(q.Priority))
		fmt.Fprintf(&sb, " AND t.priority = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (t.title ILIKE $%d OR t.description ILIKE $%d)", n, n)
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(q.OrderBy, q.Descending))

	args = append(args, clampLimit(q.Limit))
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, q.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}

// orderClause maps the requested ordering onto a deterministic ORDER BY.
// Priority sorts by severity rank, not by the literal strings.
func orderClause(orderBy string, descending bool) string {
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	switch orderBy {
	case repository.OrderByPriority:
		return "CASE t.priority WHEN 'LOW' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'HIGH' THEN 3 ELSE 0 END " + dir + ", t.due_date ASC"
	case repository.OrderByCreatedAt:
		return "t.created_at " + dir
	default:
		return "t.due_date " + dir
	}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, priority, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at, (SELECT username FROM users WHERE id = $2)
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt, &task.Username); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks t
	SET title = $3,
		description = $4,
		priority = $5,
		status = $6,
		due_date = $7,
		updated_at = NOW()
	FROM users u
	WHERE t.id = $1 AND t.user_id = $2 AND u.id = t.user_id
	RETURNING t.updated_at, u.username
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.DueDate,
	).Scan(&task.UpdatedAt, &task.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) SetStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
	const query = `
	UPDATE tasks t
	SET status = $3, updated_at = NOW()
	FROM users u
	WHERE t.id = $1 AND t.user_id = $2 AND u.id = t.user_id
	RETURNING t.id, t.user_id, u.username, t.title, t.description, t.priority, t.status, t.due_date, t.created_at, t.updated_at
	`
	row := r.pool.QueryRow(ctx, query, id, userID, string(status))
	return scanTask(row)
}

func (r *taskRepository) Summary(ctx context.Context, userID string) (*domain.TaskSummary, error) {
	const query = `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'PENDING'),
		COUNT(*) FILTER (WHERE status = 'COMPLETED'),
		COUNT(*) FILTER (WHERE status = 'PENDING' AND due_date < CURRENT_DATE),
		COUNT(*) FILTER (WHERE priority = 'LOW'),
		COUNT(*) FILTER (WHERE priority = 'MEDIUM'),
		COUNT(*) FILTER (WHERE priority = 'HIGH')
	FROM tasks
	WHERE user_id = $1
	`
	var summary domain.TaskSummary
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&summary.Total,
		&summary.Pending,
		&summary.Completed,
		&summary.Overdue,
		&summary.Low,
		&summary.Medium,
		&summary.High,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var priority, status string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Username,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
