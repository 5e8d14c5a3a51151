package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/task"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 15 * time.Second

// APIError - ответ сервиса с кодом не из 2xx; Message берётся из поля error тела, если оно есть
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: статус %d", e.Status)
	}
	return fmt.Sprintf("api: статус %d: %s", e.Status, e.Message)
}

// ServerMessage возвращает текст ошибки от сервиса, если err - APIError с непустым сообщением
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// EditRequest - тело PATCH из формы редактирования.
// Сервис игнорирует null в description, поэтому очистка описания - пустая строка; пустой срок уходит как null
type EditRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{
		Timeout:   defaultTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var resp []dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &resp); err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(resp))
	for _, r := range resp {
		tasks = append(tasks, r.ToTask())
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, req dto.CreateTaskRequest) (task.Task, error) {
	var resp *dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/todos", req, &resp); err != nil {
		return task.Task{}, err
	}
	// пустое тело при 2xx считаем ошибкой сервиса
	if resp == nil {
		return task.Task{}, &APIError{Status: http.StatusOK}
	}
	return resp.ToTask(), nil
}

func (c *Client) SetStatus(ctx context.Context, id int64, status task.Status) (task.Task, error) {
	return c.patch(ctx, id, map[string]string{"status": string(status)})
}

func (c *Client) Edit(ctx context.Context, id int64, req EditRequest) (task.Task, error) {
	return c.patch(ctx, id, req)
}

func (c *Client) patch(ctx context.Context, id int64, body any) (task.Task, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPatch, "/todos/"+strconv.FormatInt(id, 10), body, &resp); err != nil {
		return task.Task{}, err
	}
	return resp.ToTask(), nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) Reorder(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPatch, "/todos/reorder", dto.ReorderRequest{IDs: ids}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("кодирование запроса: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("чтение ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody dto.ErrorResponse
		if len(data) > 0 && json.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("разбор ответа: %w", err)
	}
	return nil
}
