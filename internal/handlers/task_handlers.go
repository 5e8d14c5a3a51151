package handlers

import (
	"net/http"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceName = "todo-tracker"

// фиксированные тексты ответов: детали ошибок хранилища клиенту не отдаём
const (
	msgFetchFailed   = "Failed to fetch tasks"
	msgCreateFailed  = "Failed to create task"
	msgUpdateFailed  = "Failed to update task"
	msgDeleteFailed  = "Failed to delete task"
	msgReorderFailed = "Failed to reorder"
	msgNotFound      = "Task not found"
	msgBadBody       = "Invalid request body"
	msgContentType   = "Content-Type must be application/json"
)

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

// Routes монтирует REST-ресурс /todos
func (s *TaskHandler) Routes(r chi.Router) {
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.ListTasks)             // GET /todos
		r.Post("/", s.PostTask)             // POST /todos
		r.Patch("/reorder", s.ReorderTasks) // PATCH /todos/reorder

		r.Route("/{id}", func(r chi.Router) {
			r.Patch("/", s.UpdateTaskByID)  // PATCH /todos/{id}
			r.Delete("/", s.DeleteTaskByID) // DELETE /todos/{id}
		})
	})

	r.Get("/health", s.HealthCheck)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName))
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := s.TaskService.ListTasks(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "list_tasks"))
		responseWithError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

// PostTask создаёт задачу: 201 с задачей; 400 "Title is required" при пустом
// заголовке и 400 "Invalid due date", если dueDate не разбирается как дата
func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, msgContentType)
		return
	}

	fields, err := decodeObject(w, r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), parseCreateInput(fields))
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

// UpdateTaskByID частично обновляет задачу; неразборчивый dueDate
// отклоняется с 400 "Invalid due date", null очищает срок
func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(urlParam(r, "id"))
	if !ok {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", urlParam(r, "id")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusNotFound, msgNotFound)
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")))

		responseWithError(w, http.StatusUnsupportedMediaType, msgContentType)
		return
	}

	fields, err := decodeObject(w, r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, parseUpdateInput(fields))
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_task"),
			zap.Int64("task_id", id))

		responseWithError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(urlParam(r, "id"))
	if !ok {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", urlParam(r, "id")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_task"),
			zap.Int64("task_id", id))

		responseWithError(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseOK(w)
}

func (s *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, msgContentType)
		return
	}

	fields, err := decodeObject(w, r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	ids, err := parseReorderIDs(fields)
	if err != nil {
		logger.Warn("HTTP: Неверный список id", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, msgReorderFailed)
		return
	}

	if err := s.TaskService.ReorderTasks(r.Context(), ids); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "reorder_tasks"))
		responseWithError(w, http.StatusBadRequest, msgReorderFailed)
		return
	}

	logger.Info("HTTP_OUT: Порядок изменён",
		zap.Int("count", len(ids)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseOK(w)
}

func urlParam(r *http.Request, key string) string {
	if value := chi.URLParam(r, key); value != "" {
		return value
	}
	return r.PathValue(key)
}
