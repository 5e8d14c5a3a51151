package board

import (
	"context"
	"errors"
	"sync"
	"time"
	"todoTracker/internal/client"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"

	"go.uber.org/zap"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrNotEditing    = errors.New("no task is being edited")
)

type API interface {
	List(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, req dto.CreateTaskRequest) (task.Task, error)
	SetStatus(ctx context.Context, id int64, status task.Status) (task.Task, error)
	Edit(ctx context.Context, id int64, req client.EditRequest) (task.Task, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64) error
}

// Controller связывает чистые переходы State с сетевыми вызовами.
// Сеть вызывается без блокировки: интерфейс может читать State во время запроса
type Controller struct {
	api   API
	mtx   sync.Mutex
	state State
	now   func() time.Time
}

func NewController(api API) *Controller {
	return &Controller{
		api:   api,
		state: NewState(),
		now:   time.Now,
	}
}

func (c *Controller) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state
}

func (c *Controller) Visible() []task.Task {
	return c.State().Visible(c.now())
}

func (c *Controller) update(fn func(State) State) State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.state = fn(c.state)
	return c.state
}

func (c *Controller) Load(ctx context.Context) error {
	c.update(State.LoadStarted)

	tasks, err := c.api.List(ctx)
	if err != nil {
		logger.Warn("Board: Не удалось загрузить задачи", zap.Error(err))
		message := MsgLoadFailed
		if serverMsg, ok := client.ServerMessage(err); ok {
			message = serverMsg
		}
		c.update(func(s State) State { return s.LoadFailed(message) })
		return err
	}

	c.update(func(s State) State { return s.Loaded(tasks) })
	logger.Info("Board: Задачи загружены", zap.Int("count", len(tasks)))
	return nil
}

func (c *Controller) SetFilter(f Filter) {
	c.update(func(s State) State { return s.WithFilter(f) })
}

func (c *Controller) SetForm(f Form) {
	c.update(func(s State) State { return s.WithForm(f) })
}

func (c *Controller) SetEdit(f Form) {
	c.update(func(s State) State { return s.WithEdit(f) })
}

// Create ждёт ответа сервиса; пустое название - молчаливый отказ без запроса
func (c *Controller) Create(ctx context.Context) error {
	form := trimmed(c.State().Form)
	if form.Title == "" {
		return ErrTitleRequired
	}
	c.update(func(s State) State { return s.WithError("") })

	created, err := c.api.Create(ctx, dto.CreateTaskRequest{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     form.DueDate,
		Priority:    string(form.Priority),
	})
	if err != nil {
		logger.Warn("Board: Не удалось создать задачу", zap.Error(err))
		c.update(func(s State) State { return s.WithError(createErrorMessage(err)) })
		return err
	}

	c.update(func(s State) State { return s.Created(created) })
	return nil
}

// ответ сервиса показываем как есть, сетевую ошибку - общим текстом
func createErrorMessage(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return MsgCreateNetwork
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgCreateFailed
}

// Toggle без оптимизма: список меняется только ответом сервиса
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	current, ok := c.State().Find(id)
	if !ok {
		return nil
	}

	updated, err := c.api.SetStatus(ctx, id, current.Status.Toggled())
	if err != nil {
		logger.Warn("Board: Не удалось сменить статус", zap.Int64("task_id", id), zap.Error(err))
		c.update(func(s State) State { return s.WithError(MsgUpdateFailed) })
		return err
	}

	c.update(func(s State) State { return s.Replaced(updated) })
	return nil
}

func (c *Controller) StartEdit(id int64) {
	c.update(func(s State) State { return s.StartEdit(id) })
}

func (c *Controller) CancelEdit() {
	c.update(State.CancelEdit)
}

// SaveEdit при ошибке оставляет режим редактирования
func (c *Controller) SaveEdit(ctx context.Context) error {
	st := c.State()
	if st.EditingID == 0 {
		return ErrNotEditing
	}
	edit := trimmed(st.Edit)
	if edit.Title == "" {
		c.update(func(s State) State { return s.WithError(MsgTitleIsRequired) })
		return ErrTitleRequired
	}
	c.update(func(s State) State { return s.WithError("") })

	req := client.EditRequest{
		Title:       edit.Title,
		Description: edit.Description,
		Priority:    string(edit.Priority),
	}
	if edit.DueDate != "" {
		req.DueDate = &edit.DueDate
	}

	updated, err := c.api.Edit(ctx, st.EditingID, req)
	if err != nil {
		logger.Warn("Board: Не удалось сохранить задачу", zap.Int64("task_id", st.EditingID), zap.Error(err))
		c.update(func(s State) State { return s.WithError(MsgUpdateFailed) })
		return err
	}

	c.update(func(s State) State { return s.Saved(updated) })
	return nil
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, id); err != nil {
		logger.Warn("Board: Не удалось удалить задачу", zap.Int64("task_id", id), zap.Error(err))
		c.update(func(s State) State { return s.WithError(MsgDeleteFailed) })
		return err
	}

	c.update(func(s State) State { return s.Removed(id) })
	return nil
}

// ApplyMove сразу применяет перестановку к локальному списку и возвращает
// новый полный порядок id. Перенос возможен только при фильтре "all": на суженном
// списке позиции не переводятся в перестановку полного списка
func (c *Controller) ApplyMove(activeID, overID int64) ([]int64, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state.Filter != FilterAll {
		return nil, false
	}
	next, moved := c.state.Moved(activeID, overID)
	if !moved {
		return nil, false
	}
	c.state = next
	return next.IDs(), true
}

// SaveOrder отправляет порядок сервису. Локальный порядок при ошибке не откатывается
func (c *Controller) SaveOrder(ctx context.Context, ids []int64) error {
	if err := c.api.Reorder(ctx, ids); err != nil {
		logger.Warn("Board: Порядок не сохранён, локальный порядок оставлен",
			zap.Int("count", len(ids)), zap.Error(err))
		c.update(func(s State) State { return s.WithError(MsgReorderFailed) })
		return err
	}
	return nil
}

func (c *Controller) Move(ctx context.Context, activeID, overID int64) (bool, error) {
	ids, moved := c.ApplyMove(activeID, overID)
	if !moved {
		return false, nil
	}
	return true, c.SaveOrder(ctx, ids)
}

// Neighbor - id задачи на delta позиций от id в полном списке
func (c *Controller) Neighbor(id int64, delta int) (int64, bool) {
	st := c.State()
	from := st.indexOf(id)
	to := from + delta
	if from == -1 || to < 0 || to >= len(st.Tasks) {
		return 0, false
	}
	return st.Tasks[to].ID, true
}

// MoveBy - клавиатурный аналог перетаскивания
func (c *Controller) MoveBy(ctx context.Context, id int64, delta int) (bool, error) {
	over, ok := c.Neighbor(id, delta)
	if !ok {
		return false, nil
	}
	return c.Move(ctx, id, over)
}
