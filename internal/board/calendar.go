package board

import (
	"time"
	"todoTracker/internal/models/task"
)

type CalendarView string

const (
	ViewWeek  CalendarView = "week"
	ViewMonth CalendarView = "month"
)

// Day - клетка календаря
type Day struct {
	Date  time.Time
	Tasks []task.Task
}

func (d Day) Key() string {
	return d.Date.Format(task.DateLayout)
}

// GroupByDay раскладывает задачи по дню срока; задачи без срока не попадают никуда
func GroupByDay(tasks []task.Task) map[string][]task.Task {
	res := make(map[string][]task.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := task.DayKey(*t.DueDate)
		res[key] = append(res[key], t)
	}
	return res
}

// WeekDays - семь дней, начиная с понедельника недели now
func WeekDays(now time.Time) []time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthDays - все дни месяца now
func MonthDays(now time.Time) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	next := first.AddDate(0, 1, 0)

	var days []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func Calendar(tasks []task.Task, view CalendarView, now time.Time) []Day {
	dates := WeekDays(now)
	if view == ViewMonth {
		dates = MonthDays(now)
	}

	grouped := GroupByDay(tasks)
	days := make([]Day, len(dates))
	for i, d := range dates {
		days[i] = Day{Date: d, Tasks: grouped[d.Format(task.DateLayout)]}
	}
	return days
}
