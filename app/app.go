package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ticklist/model"
	"ticklist/store"
)

var (
	ErrEmptyTitle    = errors.New("task title must not be empty")
	ErrTaskNotFound  = errors.New("task not found")
	ErrAmbiguousRef  = errors.New("task reference matches more than one task")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// Service holds domain rules on top of the persisted slots. Task and theme
// state lives in the slots; the active filter is session-only and resets to
// "all" on every start.
type Service struct {
	todos  *store.Slot[[]model.Task]
	theme  *store.Slot[model.Theme]
	filter model.Filter
}

// NewService wires a service over the task and theme slots.
func NewService(todos *store.Slot[[]model.Task], theme *store.Slot[model.Theme]) *Service {
	return &Service{todos: todos, theme: theme, filter: model.FilterAll}
}

// Tasks returns all tasks as a copy, newest first.
func (s *Service) Tasks() []model.Task {
	tasks := s.todos.Get()
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}

// VisibleTasks returns the tasks that pass the active filter, preserving
// the stored order.
func (s *Service) VisibleTasks() []model.Task {
	all := s.Tasks()
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if matchesFilter(s.filter, t.Completed) {
			out = append(out, t)
		}
	}
	return out
}

// FindTask resolves a full task id or unique id prefix.
func (s *Service) FindTask(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, ErrTaskNotFound
	}

	tasks := s.todos.Get()
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}

	matches := make([]model.Task, 0, 1)
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
	}
}

func (s *Service) AddTask(title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: false,
		CreatedAt: time.Now().UnixMilli(),
	}

	tasks := s.Tasks()
	next := make([]model.Task, 0, len(tasks)+1)
	next = append(next, task)
	next = append(next, tasks...)
	s.todos.Set(next)
	return task, nil
}

func (s *Service) ToggleTask(id string) (model.Task, error) {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = !tasks[i].Completed
			s.todos.Set(tasks)
			return tasks[i], nil
		}
	}
	return model.Task{}, ErrTaskNotFound
}

func (s *Service) CompleteTask(id string) (model.Task, error) {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			if tasks[i].Completed {
				return tasks[i], nil
			}
			tasks[i].Completed = true
			s.todos.Set(tasks)
			return tasks[i], nil
		}
	}
	return model.Task{}, ErrTaskNotFound
}

func (s *Service) EditTask(id, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			if tasks[i].Title == title {
				return tasks[i], nil
			}
			tasks[i].Title = title
			s.todos.Set(tasks)
			return tasks[i], nil
		}
	}
	return model.Task{}, ErrTaskNotFound
}

func (s *Service) RemoveTask(id string) error {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			s.todos.Set(append(tasks[:i], tasks[i+1:]...))
			return nil
		}
	}
	return ErrTaskNotFound
}

// ClearCompleted removes every completed task and reports how many were
// removed. Nothing is written when there is nothing to clear.
func (s *Service) ClearCompleted() int {
	tasks := s.Tasks()
	kept := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(tasks) - len(kept)
	if removed == 0 {
		return 0
	}
	s.todos.Set(kept)
	return removed
}

// ReplaceTasks swaps the whole task list, dropping entries that fail
// normalization. It returns the tasks actually stored.
func (s *Service) ReplaceTasks(tasks []model.Task) []model.Task {
	next := model.NormalizeTasks(tasks)
	s.todos.Set(next)
	return next
}

func (s *Service) HasCompleted() bool {
	for _, t := range s.todos.Get() {
		if t.Completed {
			return true
		}
	}
	return false
}

// Stats summarizes the task list regardless of the active filter.
type Stats struct {
	Total     int
	Done      int
	Remaining int
}

func (s *Service) Stats() Stats {
	var st Stats
	for _, t := range s.todos.Get() {
		st.Total++
		if t.Completed {
			st.Done++
		} else {
			st.Remaining++
		}
	}
	return st
}

func (s *Service) Filter() model.Filter {
	return s.filter
}

func (s *Service) SetFilter(filter model.Filter) error {
	if !filter.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}
	s.filter = filter
	return nil
}

func (s *Service) Theme() model.Theme {
	return model.NormalizeTheme(s.theme.Get())
}

func (s *Service) SetTheme(theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	if theme == s.Theme() {
		return nil
	}
	s.theme.Set(theme)
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Service) ToggleTheme() model.Theme {
	next := s.Theme().Other()
	s.theme.Set(next)
	return next
}

func matchesFilter(filter model.Filter, completed bool) bool {
	switch filter {
	case model.FilterCompleted:
		return completed
	case model.FilterActive:
		return !completed
	default:
		return true
	}
}
