package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"ticklist/model"
)

func openTestSQLite(t *testing.T) *SQLiteMedium {
	t.Helper()
	m, err := OpenSQLiteMedium(filepath.Join(t.TempDir(), "ticklist.db"))
	if err != nil {
		t.Fatalf("open sqlite medium: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("close sqlite medium: %v", err)
		}
	})
	return m
}

func TestSQLiteMediumReadMissingKey(t *testing.T) {
	m := openTestSQLite(t)

	if _, err := m.Read("todos"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteMediumWriteReadOverwrite(t *testing.T) {
	m := openTestSQLite(t)

	mustWriteKey(t, m, "todos", `{"v":1}`)
	if got := mustReadKey(t, m, "todos"); got != `{"v":1}` {
		t.Fatalf("unexpected content: %q", got)
	}

	mustWriteKey(t, m, "todos", `{"v":2}`)
	if got := mustReadKey(t, m, "todos"); got != `{"v":2}` {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestSQLiteMediumPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticklist.db")

	first, err := OpenSQLiteMedium(path)
	if err != nil {
		t.Fatalf("open sqlite medium: %v", err)
	}
	mustWriteKey(t, first, "theme", `"dark"`)
	if err := first.Close(); err != nil {
		t.Fatalf("close sqlite medium: %v", err)
	}

	second, err := OpenSQLiteMedium(path)
	if err != nil {
		t.Fatalf("reopen sqlite medium: %v", err)
	}
	defer second.Close()

	if got := mustReadKey(t, second, "theme"); got != `"dark"` {
		t.Fatalf("expected persisted value after reopen, got %q", got)
	}
}

func TestSQLiteMediumKeysAreIsolated(t *testing.T) {
	m := openTestSQLite(t)

	mustWriteKey(t, m, "todos", "[]")
	mustWriteKey(t, m, "theme", `"light"`)

	if got := mustReadKey(t, m, "todos"); got != "[]" {
		t.Fatalf("unexpected todos content: %q", got)
	}
	if got := mustReadKey(t, m, "theme"); got != `"light"` {
		t.Fatalf("unexpected theme content: %q", got)
	}
}

func TestSQLiteMediumBacksSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticklist.db")

	m, err := OpenSQLiteMedium(path)
	if err != nil {
		t.Fatalf("open sqlite medium: %v", err)
	}
	want := sampleTasks("sqlite")
	Initialize(New(m, nil), "todos", []model.Task{}).Set(want)
	if err := m.Close(); err != nil {
		t.Fatalf("close sqlite medium: %v", err)
	}

	reopened, err := OpenSQLiteMedium(path)
	if err != nil {
		t.Fatalf("reopen sqlite medium: %v", err)
	}
	defer reopened.Close()

	slot := Initialize(New(reopened, nil), "todos", []model.Task{}, model.ValidateTasksJSON)
	if !reflect.DeepEqual(want, slot.Get()) {
		t.Fatalf("sqlite round-trip mismatch\nwant=%+v\ngot=%+v", want, slot.Get())
	}
}
