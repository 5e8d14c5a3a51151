package service

import "fmt"

const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeReorderFailed = "REORDER_FAILED"
)

// BusinessError - ожидаемая ошибка бизнес-логики, Message можно показывать клиенту
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(id int64) *BusinessError {
	return NewBusinessError(CodeNotFound, "Task not found", ToDetail("id", id))
}

func NewValidationError(field, message string) *BusinessError {
	return NewBusinessError(CodeValidation, message, ToDetail("field", field))
}

// детали хранилища остаются в Err и в логах, клиент видит только общий текст
func NewReorderFailed(err error) *BusinessError {
	busErr := NewBusinessError(CodeReorderFailed, "Failed to reorder")
	busErr.Err = err
	return busErr
}
