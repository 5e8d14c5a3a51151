package handlers

import (
	"errors"
	"net/http"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError отвечает клиенту, если err - бизнес-ошибка, и сообщает об этом
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	fields := []zap.Field{
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode),
	}
	if businessErr.Err != nil {
		fields = append(fields, zap.Error(businessErr.Err))
	}
	logger.Warn("HTTP: Бизнес-ошибка", fields...)

	writeJSON(w, statusCode, dto.ErrorResponse{
		Error: businessErr.Message,
		Code:  businessErr.Code,
	})
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeReorderFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
