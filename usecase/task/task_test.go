package task

import (
	"context"
	"testing"
	"time"

	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/repository"
	"github.com/taskpro/backend/usecase"
)

// MockTaskRepository implements repository.TaskRepository for tests.
type MockTaskRepository struct {
	GetByIDFunc   func(ctx context.Context, userID, id string) (*domain.Task, error)
	ListFunc      func(ctx context.Context, query repository.TaskQuery) ([]domain.Task, error)
	CreateFunc    func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateFunc    func(ctx context.Context, task *domain.Task) error
	DeleteFunc    func(ctx context.Context, userID, id string) error
	SetStatusFunc func(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error)
	SummaryFunc   func(ctx context.Context, userID string) (*domain.TaskSummary, error)
}

var _ repository.TaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *MockTaskRepository) List(ctx context.Context, query repository.TaskQuery) ([]domain.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return task, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockTaskRepository) SetStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, userID, id, status)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *MockTaskRepository) Summary(ctx context.Context, userID string) (*domain.TaskSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, userID)
	}
	return &domain.TaskSummary{}, nil
}

// MockActivityLog implements usecase.ActivityLog for tests.
type MockActivityLog struct {
	RecordTaskFunc     func(ctx context.Context, action string, task *domain.Task) error
	RecentActivityFunc func(ctx context.Context, userID string, limit int) ([]usecase.ActivityEvent, error)
}

var _ usecase.ActivityLog = (*MockActivityLog)(nil)

func (m *MockActivityLog) RecordTask(ctx context.Context, action string, task *domain.Task) error {
	if m.RecordTaskFunc != nil {
		return m.RecordTaskFunc(ctx, action, task)
	}
	return nil
}

func (m *MockActivityLog) RecentActivity(ctx context.Context, userID string, limit int) ([]usecase.ActivityEvent, error) {
	if m.RecentActivityFunc != nil {
		return m.RecentActivityFunc(ctx, userID, limit)
	}
	return nil, nil
}

const (
	testUserID = "c1f09a9e-6d3b-4f9d-9e7a-52a9b7d1a001"
	testTaskID = "9b2c5d84-3f1a-4e6b-8c7d-0a1b2c3d4e02"
	otherID    = "4e1f2a3b-5c6d-4e7f-8a9b-0c1d2e3f4a03"
)

func strPtr(s string) *string { return &s }

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 15, 0, 0, 0, time.Local)
}

func newUseCase(repo *MockTaskRepository) *UseCase {
	uc := New(repo, &MockActivityLog{}, nil)
	uc.now = fixedNow
	return uc
}

func TestCreateDueDateValidation(t *testing.T) {
	tests := []struct {
		name    string
		dueDate *string
		wantErr bool
	}{
		{name: "yesterday rejected", dueDate: strPtr("2026-03-09"), wantErr: true},
		{name: "today accepted", dueDate: strPtr("2026-03-10"), wantErr: false},
		{name: "tomorrow accepted", dueDate: strPtr("2026-03-11"), wantErr: false},
		{name: "missing rejected", dueDate: nil, wantErr: true},
		{name: "malformed rejected", dueDate: strPtr("10/03/2026"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			repo := &MockTaskRepository{
				CreateFunc: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
					created = true
					return task, nil
				},
			}
			uc := newUseCase(repo)

			_, err := uc.Create(context.Background(), testUserID, Input{
				Title:   strPtr("Ship report"),
				DueDate: tt.dueDate,
			})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				fields := domain.FieldsOf(err)
				if _, ok := fields["due_date"]; !ok {
					t.Errorf("expected field error on due_date, got %v", fields)
				}
				if created {
					t.Error("task must not be persisted when validation fails")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !created {
				t.Error("expected task to be persisted")
			}
		})
	}
}

func TestCreateBindsOwnerAndDefaults(t *testing.T) {
	var saved *domain.Task
	repo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			saved = task
			return task, nil
		},
	}
	uc := newUseCase(repo)

	_, err := uc.Create(context.Background(), testUserID, Input{
		Title:   strPtr("  Ship report  "),
		DueDate: strPtr("2026-03-11"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.UserID != testUserID {
		t.Errorf("owner = %q, want %q", saved.UserID, testUserID)
	}
	if saved.Title != "Ship report" {
		t.Errorf("title = %q, want trimmed title", saved.Title)
	}
	if saved.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want default MEDIUM", saved.Priority)
	}
	if saved.Status != domain.StatusPending {
		t.Errorf("status = %q, want default PENDING", saved.Status)
	}
}

func TestCreateFieldValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     Input
		wantField string
	}{
		{
			name:      "missing title",
			input:     Input{DueDate: strPtr("2026-03-11")},
			wantField: "title",
		},
		{
			name:      "blank title",
			input:     Input{Title: strPtr("   "), DueDate: strPtr("2026-03-11")},
			wantField: "title",
		},
		{
			name:      "unknown priority",
			input:     Input{Title: strPtr("x"), Priority: strPtr("URGENT"), DueDate: strPtr("2026-03-11")},
			wantField: "priority",
		},
		{
			name:      "unknown status",
			input:     Input{Title: strPtr("x"), Status: strPtr("IN_PROGRESS"), DueDate: strPtr("2026-03-11")},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&MockTaskRepository{})
			_, err := uc.Create(context.Background(), testUserID, tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			fields := domain.FieldsOf(err)
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("expected field error on %q, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestUpdatePartialSkipsAbsentFields(t *testing.T) {
	existing := &domain.Task{
		ID:       testTaskID,
		UserID:   testUserID,
		Title:    "Ship report",
		Priority: domain.PriorityHigh,
		Status:   domain.StatusPending,
		// already overdue; not re-validated when the update omits due_date
		DueDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local),
	}

	var updated *domain.Task
	repo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, userID, id string) (*domain.Task, error) {
			if userID != testUserID || id != testTaskID {
				return nil, domain.ErrTaskNotFound
			}
			copied := *existing
			return &copied, nil
		},
		UpdateFunc: func(ctx context.Context, task *domain.Task) error {
			updated = task
			return nil
		},
	}
	uc := newUseCase(repo)

	result, err := uc.Update(context.Background(), testUserID, testTaskID, Input{
		Description: strPtr("quarterly numbers"),
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected repository update")
	}
	if result.Title != "Ship report" {
		t.Errorf("title = %q, want unchanged", result.Title)
	}
	if result.Description != "quarterly numbers" {
		t.Errorf("description = %q, want applied patch", result.Description)
	}
	if !result.DueDate.Equal(existing.DueDate) {
		t.Errorf("due date changed on partial update without due_date")
	}
}

func TestUpdateFullRequiresTitleAndDueDate(t *testing.T) {
	repo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, userID, id string) (*domain.Task, error) {
			return &domain.Task{ID: id, UserID: userID, Title: "old"}, nil
		},
	}
	uc := newUseCase(repo)

	_, err := uc.Update(context.Background(), testUserID, testTaskID, Input{
		Description: strPtr("only a description"),
	}, false)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	fields := domain.FieldsOf(err)
	if _, ok := fields["title"]; !ok {
		t.Errorf("expected field error on title, got %v", fields)
	}
	if _, ok := fields["due_date"]; !ok {
		t.Errorf("expected field error on due_date, got %v", fields)
	}
}

func TestUpdateRejectsPastDueDate(t *testing.T) {
	repo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, userID, id string) (*domain.Task, error) {
			return &domain.Task{ID: id, UserID: userID, Title: "old"}, nil
		},
		UpdateFunc: func(ctx context.Context, task *domain.Task) error {
			t.Fatal("update must not reach the repository")
			return nil
		},
	}
	uc := newUseCase(repo)

	_, err := uc.Update(context.Background(), testUserID, testTaskID, Input{
		DueDate: strPtr("2026-03-09"),
	}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if _, ok := domain.FieldsOf(err)["due_date"]; !ok {
		t.Errorf("expected field error on due_date")
	}
}

func TestScopedLookupsTreatForeignIDsAsNotFound(t *testing.T) {
	// The repository only matches owner+id pairs; a foreign id behaves like a
	// missing row for every operation.
	repo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, userID, id string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			return domain.ErrTaskNotFound
		},
		SetStatusFunc: func(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	uc := newUseCase(repo)
	ctx := context.Background()

	if _, err := uc.Get(ctx, testUserID, otherID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Get: got %v, want not found", err)
	}
	if err := uc.Delete(ctx, testUserID, otherID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Delete: got %v, want not found", err)
	}
	if _, err := uc.MarkComplete(ctx, testUserID, otherID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("MarkComplete: got %v, want not found", err)
	}
	if _, err := uc.MarkPending(ctx, testUserID, otherID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("MarkPending: got %v, want not found", err)
	}
	// malformed ids short-circuit before the repository
	if _, err := uc.Get(ctx, testUserID, "not-a-uuid"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Get malformed id: got %v, want not found", err)
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	status := domain.StatusPending
	repo := &MockTaskRepository{
		SetStatusFunc: func(ctx context.Context, userID, id string, next domain.Status) (*domain.Task, error) {
			status = next
			return &domain.Task{ID: id, UserID: userID, Title: "Ship report", Status: status}, nil
		},
	}
	uc := newUseCase(repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		task, err := uc.MarkComplete(ctx, testUserID, testTaskID)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if task.Status != domain.StatusCompleted {
			t.Fatalf("call %d: status = %q, want COMPLETED", i+1, task.Status)
		}
		if task.ID != testTaskID || task.Title != "Ship report" {
			t.Fatalf("call %d: id/title changed", i+1)
		}
	}

	for i := 0; i < 2; i++ {
		task, err := uc.MarkPending(ctx, testUserID, testTaskID)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if task.Status != domain.StatusPending {
			t.Fatalf("call %d: status = %q, want PENDING", i+1, task.Status)
		}
	}
}

func TestListQueryComposition(t *testing.T) {
	tests := []struct {
		name    string
		opts    ListOptions
		want    repository.TaskQuery
		wantErr string
	}{
		{
			name: "defaults to ascending due date",
			opts: ListOptions{},
			want: repository.TaskQuery{UserID: testUserID, OrderBy: repository.OrderByDueDate},
		},
		{
			name: "filters and search compose",
			opts: ListOptions{Status: "COMPLETED", Priority: "HIGH", Search: "report"},
			want: repository.TaskQuery{
				UserID:   testUserID,
				Status:   domain.StatusCompleted,
				Priority: domain.PriorityHigh,
				Search:   "report",
				OrderBy:  repository.OrderByDueDate,
			},
		},
		{
			name: "explicit descending ordering replaces default",
			opts: ListOptions{Ordering: "-due_date"},
			want: repository.TaskQuery{UserID: testUserID, OrderBy: repository.OrderByDueDate, Descending: true},
		},
		{
			name: "ordering by created_at",
			opts: ListOptions{Ordering: "created_at"},
			want: repository.TaskQuery{UserID: testUserID, OrderBy: repository.OrderByCreatedAt},
		},
		{
			name:    "unknown ordering field",
			opts:    ListOptions{Ordering: "title"},
			wantErr: "ordering",
		},
		{
			name:    "unknown status filter",
			opts:    ListOptions{Status: "DONE"},
			wantErr: "status",
		},
		{
			name:    "unknown priority filter",
			opts:    ListOptions{Priority: "CRITICAL"},
			wantErr: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got repository.TaskQuery
			repo := &MockTaskRepository{
				ListFunc: func(ctx context.Context, query repository.TaskQuery) ([]domain.Task, error) {
					got = query
					return nil, nil
				},
			}
			uc := newUseCase(repo)

			_, err := uc.List(context.Background(), testUserID, tt.opts)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if _, ok := domain.FieldsOf(err)[tt.wantErr]; !ok {
					t.Errorf("expected field error on %q, got %v", tt.wantErr, domain.FieldsOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("query = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMutationsRecordActivity(t *testing.T) {
	var actions []string
	activity := &MockActivityLog{
		RecordTaskFunc: func(ctx context.Context, action string, task *domain.Task) error {
			actions = append(actions, action)
			return nil
		},
	}
	repo := &MockTaskRepository{
		SetStatusFunc: func(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
			return &domain.Task{ID: id, UserID: userID, Status: status}, nil
		},
	}
	uc := New(repo, activity, nil)
	uc.now = fixedNow
	ctx := context.Background()

	if _, err := uc.Create(ctx, testUserID, Input{Title: strPtr("x"), DueDate: strPtr("2026-03-11")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.MarkComplete(ctx, testUserID, testTaskID); err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if err := uc.Delete(ctx, testUserID, testTaskID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"created", "completed", "deleted"}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("action[%d] = %q, want %q", i, actions[i], want[i])
		}
	}
}
