package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"todoTracker/internal/service"
)

const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeObject читает тело как JSON-объект, не навязывая типы полям:
// поле неверного типа просто игнорируется дальше
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("чтение тела: %w", err)
	}
	defer r.Body.Close()

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("разбор JSON: %w", err)
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

func isNull(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func optionalString(fields map[string]json.RawMessage, key string) *string {
	value, ok := stringField(fields, key)
	if !ok {
		return nil
	}
	return &value
}

func parseCreateInput(fields map[string]json.RawMessage) service.CreateInput {
	var in service.CreateInput
	in.Title, _ = stringField(fields, "title")
	in.Description, _ = stringField(fields, "description")
	in.Status, _ = stringField(fields, "status")
	in.Priority, _ = stringField(fields, "priority")
	in.DueDate, _ = stringField(fields, "dueDate")
	return in
}

func parseUpdateInput(fields map[string]json.RawMessage) service.UpdateInput {
	return service.UpdateInput{
		Title:        optionalString(fields, "title"),
		Description:  optionalString(fields, "description"),
		Status:       optionalString(fields, "status"),
		Priority:     optionalString(fields, "priority"),
		DueDate:      optionalString(fields, "dueDate"),
		ClearDueDate: isNull(fields, "dueDate"),
	}
}

// parseReorderIDs принимает числа и числовые строки; не массив считается пустым списком
func parseReorderIDs(fields map[string]json.RawMessage) ([]int64, error) {
	raw, ok := fields["ids"]
	if !ok {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		var number int64
		if err := json.Unmarshal(item, &number); err == nil {
			ids = append(ids, number)
			continue
		}
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			return nil, fmt.Errorf("неверный id %s", string(item))
		}
		number, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("неверный id %q", text)
		}
		ids = append(ids, number)
	}
	return ids, nil
}

func parseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
