package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ticklist/model"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func sizedModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(newUIService(), "")
	press(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestAddTaskFlow(t *testing.T) {
	m := sizedModel(t)

	press(m, keyRunes("a"))
	if m.mode != modeAddTask {
		t.Fatalf("expected add mode, got %d", m.mode)
	}

	press(m, keyRunes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	tasks := m.svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected tasks after add: %+v", tasks)
	}
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after add, got %d", m.mode)
	}
	if m.status != "Task added" || m.statusErr {
		t.Fatalf("unexpected status: %q err=%v", m.status, m.statusErr)
	}
}

func TestAddEmptyTitleKeepsInputOpen(t *testing.T) {
	m := sizedModel(t)

	press(m, keyRunes("a"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeAddTask {
		t.Fatalf("expected to stay in add mode, got %d", m.mode)
	}
	if !m.statusErr {
		t.Fatal("expected error status for empty title")
	}
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected no task created, got %d", got)
	}
}

func TestEscCancelsInput(t *testing.T) {
	m := sizedModel(t)

	press(m, keyRunes("a"), keyRunes("half typed"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after cancel, got %d", m.mode)
	}
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected no task after cancel, got %d", got)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input reset, got %q", m.input.Value())
	}
}

func TestEditTaskFlow(t *testing.T) {
	m := sizedModel(t)
	if _, err := m.svc.AddTask("Old title"); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	press(m, keyRunes("e"))
	if m.mode != modeEditTask {
		t.Fatalf("expected edit mode, got %d", m.mode)
	}
	if m.input.Value() != "Old title" {
		t.Fatalf("expected input preloaded, got %q", m.input.Value())
	}

	press(m, keyRunes(" v2"), tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.svc.Tasks()[0].Title; got != "Old title v2" {
		t.Fatalf("expected edited title, got %q", got)
	}
}

func TestToggleWithXAndSpace(t *testing.T) {
	m := sizedModel(t)
	if _, err := m.svc.AddTask("Toggle me"); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	press(m, keyRunes("x"))
	if !m.svc.Tasks()[0].Completed {
		t.Fatal("expected task completed after x")
	}
	if m.status != "Task completed" {
		t.Fatalf("unexpected status: %q", m.status)
	}

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	if m.svc.Tasks()[0].Completed {
		t.Fatal("expected task reopened after space")
	}
	if m.status != "Task reopened" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := sizedModel(t)
	if _, err := m.svc.AddTask("Precious"); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	press(m, keyRunes("d"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm mode, got %d", m.mode)
	}

	press(m, keyRunes("n"))
	if got := len(m.svc.Tasks()); got != 1 {
		t.Fatalf("expected task kept after decline, got %d", got)
	}

	press(m, keyRunes("d"), keyRunes("y"))
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected task deleted after confirm, got %d", got)
	}
	if m.status != "Task deleted" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestClearCompletedFlow(t *testing.T) {
	m := sizedModel(t)

	press(m, keyRunes("c"))
	if m.mode != modeNormal {
		t.Fatal("expected no confirm when nothing is completed")
	}
	if m.status != "No completed tasks to clear" {
		t.Fatalf("unexpected status: %q", m.status)
	}

	if _, err := m.svc.AddTask("A"); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if _, err := m.svc.AddTask("B"); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	press(m, keyRunes("x"), keyRunes("c"))
	if m.mode != modeConfirmClear || m.confirmCount != 1 {
		t.Fatalf("expected clear confirm for one task, mode=%d count=%d", m.mode, m.confirmCount)
	}

	press(m, keyRunes("y"))
	st := m.svc.Stats()
	if st.Total != 1 || st.Done != 0 {
		t.Fatalf("unexpected stats after clear: %+v", st)
	}
	if m.status != "Cleared 1 completed task" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestFilterKeysControlVisibility(t *testing.T) {
	m := sizedModel(t)
	if _, err := m.svc.AddTask("Open one"); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if _, err := m.svc.AddTask("Done one"); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	press(m, keyRunes("x")) // newest first, completes "Done one"

	press(m, keyRunes("3"))
	if m.svc.Filter() != model.FilterCompleted {
		t.Fatalf("expected completed filter, got %q", m.svc.Filter())
	}
	visible := m.svc.VisibleTasks()
	if len(visible) != 1 || visible[0].Title != "Done one" {
		t.Fatalf("unexpected visible tasks: %+v", visible)
	}

	press(m, keyRunes("2"))
	visible = m.svc.VisibleTasks()
	if len(visible) != 1 || visible[0].Title != "Open one" {
		t.Fatalf("unexpected active tasks: %+v", visible)
	}

	press(m, keyRunes("f"))
	if m.svc.Filter() != model.FilterCompleted {
		t.Fatalf("expected cycle active->completed, got %q", m.svc.Filter())
	}
	press(m, keyRunes("f"))
	if m.svc.Filter() != model.FilterAll {
		t.Fatalf("expected cycle completed->all, got %q", m.svc.Filter())
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := sizedModel(t)
	for _, title := range []string{"A", "B", "C"} {
		if _, err := m.svc.AddTask(title); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	press(m, keyRunes("k"))
	if m.cursor != 0 {
		t.Fatalf("expected cursor pinned at top, got %d", m.cursor)
	}

	press(m, keyRunes("j"), keyRunes("j"), keyRunes("j"), keyRunes("j"))
	if m.cursor != 2 {
		t.Fatalf("expected cursor pinned at bottom, got %d", m.cursor)
	}
}

func TestJumpKeysHitListEdges(t *testing.T) {
	m := sizedModel(t)
	for _, title := range []string{"A", "B", "C"} {
		if _, err := m.svc.AddTask(title); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	press(m, keyRunes("G"))
	if m.cursor != 2 {
		t.Fatalf("expected cursor at last task, got %d", m.cursor)
	}

	press(m, keyRunes("g"))
	if m.cursor != 0 {
		t.Fatalf("expected cursor at first task, got %d", m.cursor)
	}

	empty := sizedModel(t)
	press(empty, keyRunes("G"))
	if empty.cursor != 0 {
		t.Fatalf("expected cursor reset on empty list, got %d", empty.cursor)
	}
}

func TestThemeKeySwapsStyles(t *testing.T) {
	m := sizedModel(t)
	if m.styles.Theme() != model.ThemeLight {
		t.Fatalf("expected light styles at start, got %q", m.styles.Theme())
	}

	press(m, keyRunes("t"))
	if m.styles.Theme() != model.ThemeDark {
		t.Fatalf("expected dark styles after toggle, got %q", m.styles.Theme())
	}
	if m.svc.Theme() != model.ThemeDark {
		t.Fatalf("expected theme persisted, got %q", m.svc.Theme())
	}
	if m.status != "Theme: dark" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := sizedModel(t)

	press(m, keyRunes("?"))
	if !m.showHelp {
		t.Fatal("expected help open")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("expected help closed by esc")
	}
}

func TestViewRendersTasksAndStates(t *testing.T) {
	m := sizedModel(t)

	if !strings.Contains(m.View(), "No tasks yet") {
		t.Fatal("expected empty hint in view")
	}

	if _, err := m.svc.AddTask("Visible task"); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	view := m.View()
	if !strings.Contains(view, "ticklist") || !strings.Contains(view, "Visible task") {
		t.Fatalf("expected header and task in view:\n%s", view)
	}

	press(m, keyRunes("t"))
	if !strings.Contains(m.View(), "Visible task") {
		t.Fatal("expected view to render after theme switch")
	}

	m.width, m.height = 0, 0
	if got := m.View(); got != "loading..." {
		t.Fatalf("expected loading placeholder, got %q", got)
	}
}
