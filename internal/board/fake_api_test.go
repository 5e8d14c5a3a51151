package board

import (
	"context"
	"errors"
	"sync"
	"time"
	"todoTracker/internal/client"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/task"
)

var errNetwork = errors.New("dial tcp: connection refused")

// fakeAPI - сервис в памяти с подменой ошибок по операциям
type fakeAPI struct {
	mtx    sync.Mutex
	tasks  []task.Task
	lastID int64
	errs   map[string]error
	calls  map[string]int

	lastCreate  dto.CreateTaskRequest
	lastEdit    client.EditRequest
	lastReorder []int64
}

func newFakeAPI(tasks ...task.Task) *fakeAPI {
	f := &fakeAPI{
		tasks: tasks,
		errs:  map[string]error{},
		calls: map[string]int{},
	}
	for _, t := range tasks {
		if t.ID > f.lastID {
			f.lastID = t.ID
		}
	}
	return f
}

func (f *fakeAPI) fail(op string, err error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.errs[op] = err
}

func (f *fakeAPI) count(op string) int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) enter(op string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeAPI) List(ctx context.Context) ([]task.Task, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	return append([]task.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Create(ctx context.Context, req dto.CreateTaskRequest) (task.Task, error) {
	f.lastCreate = req
	if err := f.enter("create"); err != nil {
		return task.Task{}, err
	}
	max := 0
	for _, t := range f.tasks {
		if t.SortOrder > max {
			max = t.SortOrder
		}
	}
	f.lastID++
	created := task.Task{
		ID:        f.lastID,
		Title:     req.Title,
		Status:    task.StatusTodo,
		Priority:  task.Priority(req.Priority),
		SortOrder: max + 1,
		CreatedAt: time.Now(),
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

func (f *fakeAPI) SetStatus(ctx context.Context, id int64, status task.Status) (task.Task, error) {
	if err := f.enter("status"); err != nil {
		return task.Task{}, err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = status
			f.tasks[i].UpdatedAt = time.Now()
			return f.tasks[i], nil
		}
	}
	return task.Task{}, &client.APIError{Status: 404, Message: "Task not found"}
}

func (f *fakeAPI) Edit(ctx context.Context, id int64, req client.EditRequest) (task.Task, error) {
	f.lastEdit = req
	if err := f.enter("edit"); err != nil {
		return task.Task{}, err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Title = req.Title
			f.tasks[i].Priority = task.Priority(req.Priority)
			return f.tasks[i], nil
		}
	}
	return task.Task{}, &client.APIError{Status: 404, Message: "Task not found"}
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	return f.enter("delete")
}

func (f *fakeAPI) Reorder(ctx context.Context, ids []int64) error {
	f.lastReorder = append([]int64(nil), ids...)
	if err := f.enter("reorder"); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	// как сервер: sortOrder = позиция в списке, начиная с 1
	for pos, id := range ids {
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				f.tasks[i].SortOrder = pos + 1
			}
		}
	}
	return nil
}
