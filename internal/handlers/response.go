package handlers

import (
	"encoding/json"
	"net/http"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		storage[pl.Key] = pl.Payload
	}
	writeJSON(w, code, storage)
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, dto.ErrorResponse{Error: message})
}

func responseOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
