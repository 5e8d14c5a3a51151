package board

import (
	"time"
	"todoTracker/internal/models/task"
)

type Filter string

const (
	FilterAll   Filter = "all"
	FilterTodo  Filter = "todo"
	FilterDone  Filter = "done"
	FilterToday Filter = "today"
)

// Filters - порядок переключения фильтров в интерфейсе
var Filters = []Filter{FilterAll, FilterTodo, FilterDone, FilterToday}

func ParseFilter(s string) (Filter, bool) {
	for _, f := range Filters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f Filter) Label() string {
	switch f {
	case FilterTodo:
		return "Todo"
	case FilterDone:
		return "Done"
	case FilterToday:
		return "Due today"
	default:
		return "All"
	}
}

// ApplyFilter - чистая проекция списка; исходный порядок сохраняется.
// "today" - календарный день срока (task.DayKey, как в календаре) равен
// локальной дате now; время суток не учитывается
func ApplyFilter(tasks []task.Task, f Filter, now time.Time) []task.Task {
	today := now.Format(task.DateLayout)

	res := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterTodo:
			if t.Status != task.StatusTodo {
				continue
			}
		case FilterDone:
			if t.Status != task.StatusDone {
				continue
			}
		case FilterToday:
			if t.DueDate == nil || task.DayKey(*t.DueDate) != today {
				continue
			}
		}
		res = append(res, t)
	}
	return res
}

func (s State) Visible(now time.Time) []task.Task {
	return ApplyFilter(s.Tasks, s.Filter, now)
}
