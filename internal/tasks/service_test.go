package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/jobs"
	_ "github.com/intralink/intralink/testing"
)

type memoryRepo struct {
	tasks  map[int64]Task
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tasks: map[int64]Task{}}
}

func (r *memoryRepo) List(ctx context.Context, projectID, assigneeID *int64, status string, limit, offset int) ([]Task, int, error) {
	var list []Task
	for id := int64(1); id <= r.nextID; id++ {
		t, ok := r.tasks[id]
		if !ok {
			continue
		}
		if projectID != nil && t.ProjectID != *projectID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		list = append(list, t)
	}
	return list, len(list), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, shared.ErrNotFound
	}
	return t, nil
}

func (r *memoryRepo) Create(ctx context.Context, projectID int64, title, description string, assigneeID *int64, dueDate *time.Time, createdBy int64) (Task, error) {
	r.nextID++
	t := Task{ID: r.nextID, ProjectID: projectID, Title: title, Description: description, AssigneeID: assigneeID, Status: StatusTodo, DueDate: dueDate, CreatedBy: createdBy}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, title, description, status *string, assigneeID *int64, dueDate *time.Time) (Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, shared.ErrNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if status != nil {
		t.Status = *status
	}
	if assigneeID != nil {
		t.AssigneeID = assigneeID
	}
	r.tasks[id] = t
	return t, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memoryRepo) Search(ctx context.Context, query string, limit int) ([]Task, error) {
	return nil, nil
}

type recordingNotifier struct {
	payloads []jobs.NotifyPayload
}

func (n *recordingNotifier) EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) error {
	n.payloads = append(n.payloads, payload)
	return nil
}

func TestCreateNotifiesAssignee(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier)
	assignee := int64(5)

	task, err := svc.Create(context.Background(), 1, "Ship it", "", &assignee, nil, 2)
	require.NoError(t, err)
	require.Equal(t, StatusTodo, task.Status)

	require.Len(t, notifier.payloads, 1)
	payload := notifier.payloads[0]
	require.Equal(t, []int64{5}, payload.UserIDs)
	require.Equal(t, "task_assigned", payload.Kind)
	require.Equal(t, "task", payload.RefType)
	require.Equal(t, task.ID, payload.RefID)
}

func TestCreateWithoutAssigneeStaysQuiet(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier)

	_, err := svc.Create(context.Background(), 1, "Unassigned", "", nil, nil, 2)
	require.NoError(t, err)
	require.Empty(t, notifier.payloads)
}

func TestUpdateNotifiesOnAssigneeChange(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier)
	first, second := int64(5), int64(6)

	task, err := svc.Create(context.Background(), 1, "Ship it", "", &first, nil, 2)
	require.NoError(t, err)
	require.Len(t, notifier.payloads, 1)

	_, err = svc.Update(context.Background(), task.ID, nil, nil, nil, &second, nil, 2)
	require.NoError(t, err)
	require.Len(t, notifier.payloads, 2)
	require.Equal(t, []int64{6}, notifier.payloads[1].UserIDs)
}

func TestUpdateSameAssigneeDoesNotRenotify(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier)
	assignee := int64(5)

	task, err := svc.Create(context.Background(), 1, "Ship it", "", &assignee, nil, 2)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), task.ID, nil, nil, nil, &assignee, nil, 2)
	require.NoError(t, err)
	require.Len(t, notifier.payloads, 1)
}

func TestUpdateStatusOnlySkipsAssigneeLookup(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier)
	assignee := int64(5)

	task, err := svc.Create(context.Background(), 1, "Ship it", "", &assignee, nil, 2)
	require.NoError(t, err)

	done := StatusDone
	updated, err := svc.Update(context.Background(), task.ID, nil, nil, &done, nil, nil, 2)
	require.NoError(t, err)
	require.Equal(t, StatusDone, updated.Status)
	require.Len(t, notifier.payloads, 1)
}
