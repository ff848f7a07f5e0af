package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestTaskSerializationRoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC).UnixMilli()
	tasks := []Task{
		{ID: "t1", Title: "write tests", Completed: true, CreatedAt: created},
		{ID: "t2", Title: "ship it", Completed: false, CreatedAt: created + 1},
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got []Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(tasks, got) {
		t.Fatalf("round-trip mismatch\nwant=%+v\ngot=%+v", tasks, got)
	}
}

func TestTaskJSONKeys(t *testing.T) {
	data, err := json.Marshal(Task{ID: "t1", Title: "x", CreatedAt: 42})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"id", "title", "completed", "createdAt"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected key %q in encoded task, got %v", key, raw)
		}
	}
	if len(raw) != 4 {
		t.Fatalf("expected exactly 4 keys, got %v", raw)
	}
}

func TestCreatedTime(t *testing.T) {
	want := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)
	task := Task{CreatedAt: want.UnixMilli()}
	if got := task.CreatedTime().UTC(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilterValid(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterActive, FilterCompleted} {
		if !f.Valid() {
			t.Fatalf("expected %q to be valid", f)
		}
	}
	for _, f := range []Filter{"", "done", "Active"} {
		if f.Valid() {
			t.Fatalf("expected %q to be invalid", f)
		}
	}
}

func TestThemeValidAndOther(t *testing.T) {
	if !ThemeLight.Valid() || !ThemeDark.Valid() {
		t.Fatal("expected light and dark to be valid")
	}
	if Theme("solarized").Valid() {
		t.Fatal("expected unknown theme to be invalid")
	}
	if ThemeLight.Other() != ThemeDark || ThemeDark.Other() != ThemeLight {
		t.Fatal("expected Other to flip between light and dark")
	}
}

func TestNormalizeTasks(t *testing.T) {
	in := []Task{
		{ID: "a", Title: "  keep me  ", CreatedAt: 1},
		{ID: "b", Title: "   ", CreatedAt: 2},
		{ID: "", Title: "no id", CreatedAt: 3},
		{ID: "a", Title: "duplicate id", CreatedAt: 4},
		{ID: "c", Title: "also kept", Completed: true, CreatedAt: 5},
	}

	got := NormalizeTasks(in)
	want := []Task{
		{ID: "a", Title: "keep me", CreatedAt: 1},
		{ID: "c", Title: "also kept", Completed: true, CreatedAt: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalize mismatch\nwant=%+v\ngot=%+v", want, got)
	}
}

func TestNormalizeTasksNilInput(t *testing.T) {
	got := NormalizeTasks(nil)
	if got == nil {
		t.Fatal("expected non-nil slice for nil input")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
}

func TestNormalizeTheme(t *testing.T) {
	if got := NormalizeTheme(ThemeDark); got != ThemeDark {
		t.Fatalf("expected dark to survive, got %q", got)
	}
	if got := NormalizeTheme(Theme("neon")); got != DefaultTheme {
		t.Fatalf("expected default for unknown theme, got %q", got)
	}
	if got := NormalizeTheme(""); got != DefaultTheme {
		t.Fatalf("expected default for empty theme, got %q", got)
	}
}
