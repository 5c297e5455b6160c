package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/jobs"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	List(ctx context.Context, projectID, assigneeID *int64, status string, limit, offset int) ([]Task, int, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, projectID int64, title, description string, assigneeID *int64, dueDate *time.Time, createdBy int64) (Task, error)
	Update(ctx context.Context, id int64, title, description, status *string, assigneeID *int64, dueDate *time.Time) (Task, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]Task, error)
}

// Notifier enqueues a notification fan-out.
type Notifier interface {
	EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) error
}

// Service handles task business logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
}

// NewService builds a Service instance. notifier may be nil in tests.
func NewService(repo RepositoryPort, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// List returns a page of tasks.
func (s *Service) List(ctx context.Context, projectID, assigneeID *int64, status string, page, limit int) ([]Task, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, projectID, assigneeID, status, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Get loads one task.
func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a task and notifies the assignee, if any.
func (s *Service) Create(ctx context.Context, projectID int64, title, description string, assigneeID *int64, dueDate *time.Time, createdBy int64) (Task, error) {
	task, err := s.repo.Create(ctx, projectID, strings.TrimSpace(title), description, assigneeID, dueDate, createdBy)
	if err != nil {
		return Task{}, err
	}
	s.notifyAssignment(ctx, task, createdBy, nil)
	return task, nil
}

// Update patches a task. A changed assignee gets notified.
func (s *Service) Update(ctx context.Context, id int64, title, description, status *string, assigneeID *int64, dueDate *time.Time, actorID int64) (Task, error) {
	var previous *int64
	if assigneeID != nil {
		before, err := s.repo.Get(ctx, id)
		if err != nil {
			return Task{}, err
		}
		previous = before.AssigneeID
	}
	task, err := s.repo.Update(ctx, id, title, description, status, assigneeID, dueDate)
	if err != nil {
		return Task{}, err
	}
	if assigneeID != nil {
		s.notifyAssignment(ctx, task, actorID, previous)
	}
	return task, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Search finds tasks for the global search fan-out.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Task, error) {
	return s.repo.Search(ctx, query, limit)
}

func (s *Service) notifyAssignment(ctx context.Context, task Task, actorID int64, previous *int64) {
	if s.notifier == nil || task.AssigneeID == nil {
		return
	}
	if previous != nil && *previous == *task.AssigneeID {
		return
	}
	_ = s.notifier.EnqueueNotify(ctx, jobs.NotifyPayload{
		UserIDs: []int64{*task.AssigneeID},
		ActorID: actorID,
		Kind:    "task_assigned",
		RefType: "task",
		RefID:   task.ID,
	})
}
