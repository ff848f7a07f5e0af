package model

import (
	"strings"
	"time"
)

// Filter represents how tasks should be shown.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Theme is the persisted visual theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no theme has been persisted yet.
const DefaultTheme = ThemeLight

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Task is an individual todo item.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt"`
}

// CreatedTime converts the millisecond creation timestamp to a time.Time.
func (t Task) CreatedTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// NormalizeTasks sanitizes a loaded task list: the result is non-nil,
// titles are trimmed, tasks whose title trims to empty are dropped, and
// later tasks reusing an earlier id are dropped.
func NormalizeTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.ID == "" || t.Title == "" {
			continue
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// NormalizeTheme maps anything outside the known set to the default.
func NormalizeTheme(t Theme) Theme {
	if !t.Valid() {
		return DefaultTheme
	}
	return t
}
