package task

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDueDate разбирает дату из формы (2006-01-02, полночь UTC) или полную метку времени RFC3339
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("пустая дата")
	}

	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	for _, layout := range dueDateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("неверный формат даты %q", value)
}

// DayKey - календарный день срока в формате 2006-01-02
func DayKey(d time.Time) string {
	return d.UTC().Format(DateLayout)
}
