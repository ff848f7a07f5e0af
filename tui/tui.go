package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ticklist/app"
	"ticklist/model"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeAddTask
	modeEditTask
	modeConfirmDelete
	modeConfirmClear
)

type Model struct {
	svc *app.Service

	mode   uiMode
	cursor int
	input  textinput.Model

	editID       string
	confirmID    string
	confirmTitle string
	confirmCount int

	showHelp bool

	status    string
	statusErr bool

	styles Styles

	width  int
	height int
}

func NewModel(svc *app.Service, startupStatus string) *Model {
	status := strings.TrimSpace(startupStatus)
	if status == "" {
		status = "Ready"
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 200

	m := &Model{
		svc:    svc,
		mode:   modeNormal,
		input:  input,
		status: status,
		styles: NewStyles(svc.Theme()),
	}

	if startupStatus == "" && len(svc.Tasks()) == 0 {
		m.setStatus("Welcome. Press 'a' to add your first task.", false)
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch m.mode {
		case modeAddTask, modeEditTask:
			return m, m.updateInputMode(msg)
		case modeConfirmDelete, modeConfirmClear:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.svc.VisibleTasks()) - 1
	case "a":
		m.startAdd()
	case "e":
		m.startEdit()
	case "x", " ":
		m.toggleSelected()
	case "d":
		m.startDeleteConfirm()
	case "c":
		m.startClearConfirm()
	case "f":
		m.applyFilter(nextFilter(m.svc.Filter()))
	case "1":
		m.applyFilter(model.FilterAll)
	case "2":
		m.applyFilter(model.FilterActive)
	case "3":
		m.applyFilter(model.FilterCompleted)
	case "t":
		m.toggleTheme()
	case "?":
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.setStatus("Shortcuts open (press ? or Esc to close)", false)
		} else {
			m.setStatus("Shortcuts closed", false)
		}
	case "esc":
		if m.showHelp {
			m.showHelp = false
			m.setStatus("Shortcuts closed", false)
		}
	}

	m.ensureSelection()
	return false
}

func (m *Model) updateInputMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.leaveInputMode()
		m.setStatus("Cancelled", false)
		return nil
	case "enter":
		m.applyInput()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	switch strings.ToLower(msg.String()) {
	case "y":
		if m.mode == modeConfirmClear {
			m.confirmClear()
			return
		}
		m.confirmDelete()
	case "n", "esc", "enter":
		m.mode = modeNormal
		m.confirmID = ""
		m.confirmTitle = ""
		m.confirmCount = 0
		m.setStatus("Action cancelled", false)
	}
}

func (m *Model) applyInput() {
	title := strings.TrimSpace(m.input.Value())
	switch m.mode {
	case modeAddTask:
		if title == "" {
			m.setStatus("Task title cannot be empty", true)
			return
		}
		if _, err := m.svc.AddTask(title); err != nil {
			m.setStatus("Could not add task: "+err.Error(), true)
			return
		}
		m.leaveInputMode()
		m.cursor = 0
		m.ensureSelection()
		m.setStatus("Task added", false)
	case modeEditTask:
		if title == "" {
			m.setStatus("Task title cannot be empty", true)
			return
		}
		if _, err := m.svc.EditTask(m.editID, title); err != nil {
			m.setStatus("Could not update task: "+err.Error(), true)
			return
		}
		m.leaveInputMode()
		m.ensureSelection()
		m.setStatus("Task updated", false)
	}
}

func (m *Model) leaveInputMode() {
	m.mode = modeNormal
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) startAdd() {
	if m.showHelp {
		m.setStatus("Close the shortcuts ('?') to add tasks", false)
		return
	}
	m.mode = modeAddTask
	m.input.SetValue("")
	m.input.Placeholder = "New task title..."
	m.input.Focus()
}

func (m *Model) startEdit() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	m.mode = modeEditTask
	m.editID = task.ID
	m.input.SetValue(task.Title)
	m.input.Placeholder = "Edit task title..."
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	updated, err := m.svc.ToggleTask(task.ID)
	if err != nil {
		m.setStatus("Could not toggle task: "+err.Error(), true)
		return
	}
	if updated.Completed {
		m.setStatus("Task completed", false)
	} else {
		m.setStatus("Task reopened", false)
	}
}

func (m *Model) startDeleteConfirm() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	m.mode = modeConfirmDelete
	m.confirmID = task.ID
	m.confirmTitle = task.Title
}

func (m *Model) startClearConfirm() {
	count := m.svc.Stats().Done
	if count == 0 {
		m.setStatus("No completed tasks to clear", false)
		return
	}
	m.mode = modeConfirmClear
	m.confirmCount = count
}

func (m *Model) confirmDelete() {
	if err := m.svc.RemoveTask(m.confirmID); err != nil {
		m.setStatus("Could not delete task: "+err.Error(), true)
	} else {
		m.setStatus("Task deleted", false)
	}
	m.mode = modeNormal
	m.confirmID = ""
	m.confirmTitle = ""
	m.ensureSelection()
}

func (m *Model) confirmClear() {
	removed := m.svc.ClearCompleted()
	m.mode = modeNormal
	m.confirmCount = 0
	m.cursor = 0
	m.ensureSelection()
	m.setStatus(fmt.Sprintf("Cleared %d completed %s", removed, taskWord(removed)), false)
}

func (m *Model) applyFilter(next model.Filter) {
	if err := m.svc.SetFilter(next); err != nil {
		m.setStatus("Could not change filter: "+err.Error(), true)
		return
	}
	m.cursor = 0
	m.ensureSelection()
	m.setStatus("Filter: "+filterLabel(next), false)
}

func (m *Model) toggleTheme() {
	next := m.svc.ToggleTheme()
	m.styles = NewStyles(next)
	m.setStatus("Theme: "+string(next), false)
}

func (m *Model) moveCursor(delta int) {
	tasks := m.svc.VisibleTasks()
	if len(tasks) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(tasks)-1)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) ensureSelection() {
	tasks := m.svc.VisibleTasks()
	if len(tasks) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(tasks)-1)
}

func (m *Model) selectedTask() (model.Task, bool) {
	tasks := m.svc.VisibleTasks()
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	if m.cursor < 0 || m.cursor >= len(tasks) {
		m.cursor = 0
	}
	return tasks[m.cursor], true
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	st := m.svc.Stats()
	title := m.styles.Title.Render("ticklist")
	summary := fmt.Sprintf("filter: %s • %d open • %d done", filterLabel(m.svc.Filter()), st.Remaining, st.Done)
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		m.styles.Summary.Render("  "+summary),
	)

	viewW := m.viewportWidth()
	panelH := m.height - 6
	if panelH < 8 {
		panelH = 8
	}
	innerH := panelH - 2
	if innerH < 6 {
		innerH = 6
	}
	innerW := viewW - 4
	if innerW < 20 {
		innerW = viewW
	}

	frameColor := m.styles.FrameIdle
	if m.mode == modeNormal {
		frameColor = m.styles.FrameActive
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Padding(0, 1).
		Width(viewW - 2).
		Height(panelH).
		Render(m.renderTasks(innerW, innerH))

	statusText := m.status
	if statusText == "" {
		statusText = "Ready"
	}
	statusStyle := m.styles.Status
	if m.statusErr {
		statusStyle = m.styles.StatusErr
	}

	rightHint := "? help"
	if m.showHelp {
		rightHint = "Esc/? close help"
	}
	footer := m.renderFooter(statusText, statusStyle, rightHint)

	promptLine := ""
	switch m.mode {
	case modeAddTask:
		promptLine = "New task: " + m.input.View()
	case modeEditTask:
		promptLine = "Edit task: " + m.input.View()
	case modeConfirmDelete:
		promptLine = fmt.Sprintf("Delete task %q? [y/N]", truncateRunes(m.confirmTitle, 48))
	case modeConfirmClear:
		promptLine = fmt.Sprintf("Clear %d completed %s? [y/N]", m.confirmCount, taskWord(m.confirmCount))
	}
	if promptLine != "" {
		promptLine = m.styles.Prompt.Width(viewW).Render(promptLine)
	}

	parts := []string{header}
	if len(m.svc.Tasks()) == 0 && m.mode == modeNormal {
		parts = append(parts, m.renderWelcome(viewW))
	}

	if m.showHelp {
		popupW := viewW - 8
		if popupW > 72 {
			popupW = 72
		}
		if popupW < 40 {
			popupW = 40
		}
		popup := m.renderHelpOverlay(popupW)
		panel = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, popup)
	}

	parts = append(parts, panel, footer)
	if promptLine != "" && !m.showHelp {
		parts = append(parts, promptLine)
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderTasks(width, height int) string {
	tasks := m.svc.VisibleTasks()
	all := m.svc.Tasks()

	lines := make([]string, 0, len(tasks)+1)
	switch {
	case len(all) == 0:
		lines = append(lines, m.styles.Empty.Render("No tasks yet. Press 'a' to add one."))
	case len(tasks) == 0:
		lines = append(lines, m.styles.Empty.Render("No tasks match the current filter (press 'f')."))
	default:
		now := time.Now()
		for i, t := range tasks {
			lines = append(lines, m.renderTaskLine(t, i == m.cursor, now, width))
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTaskLine(t model.Task, selected bool, now time.Time, width int) string {
	cursor := " "
	if selected {
		cursor = "▸"
	}
	check := "[ ]"
	checkStyle := m.styles.CheckOpen
	if t.Completed {
		check = "[x]"
		checkStyle = m.styles.CheckDone
	}

	cursorStyle := lipgloss.NewStyle()
	titleStyle := lipgloss.NewStyle()
	// Strikethrough plus colored segments glitches in some terminals,
	// so completed titles are dimmed instead.
	if t.Completed {
		titleStyle = m.styles.Done
	}
	if selected {
		cursorStyle = m.styles.Selected
		checkStyle = checkStyle.Bold(true)
		titleStyle = titleStyle.Bold(true)
		if !t.Completed {
			titleStyle = m.styles.Selected
		}
	}

	title := t.Title
	maxTitle := width - 12
	if maxTitle > 0 {
		title = truncateRunes(title, maxTitle)
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		cursorStyle.Render(cursor+" "),
		checkStyle.Render(check+" "),
		titleStyle.Render(title),
		m.styles.Age.Render("  "+humanAge(t.CreatedTime(), now)),
	)
}

func (m *Model) renderFooter(statusText string, statusStyle lipgloss.Style, rightHint string) string {
	left := strings.TrimSpace(statusText)
	right := strings.TrimSpace(rightHint)
	if left == "" {
		left = "Ready"
	}
	if right == "" {
		right = "? help"
	}

	leftW := utf8.RuneCountInString(left)
	rightW := utf8.RuneCountInString(right)
	width := m.viewportWidth()
	if width <= 0 {
		width = leftW + rightW + 2
	}

	if leftW+rightW+1 > width {
		maxLeft := width - rightW - 1
		if maxLeft < 8 {
			maxLeft = 8
		}
		left = truncateRunes(left, maxLeft)
		leftW = utf8.RuneCountInString(left)
	}

	padding := width - leftW - rightW
	if padding < 1 {
		padding = 1
	}

	line := statusStyle.Render(left) + strings.Repeat(" ", padding) + m.styles.Hint.Render(right)
	return lipgloss.NewStyle().Width(width).Render(line)
}

func (m *Model) renderHelpOverlay(width int) string {
	rows := []string{
		m.styles.HelpTitle.Render("Shortcuts"),
		"",
		m.styles.HelpSection.Render("General"),
		m.styles.HelpBody.Render("  j/k or arrows navigate • g/G top/bottom"),
		m.styles.HelpBody.Render("  ? opens/closes shortcuts • q quits"),
		"",
		m.styles.HelpSection.Render("Tasks"),
		m.styles.HelpBody.Render("  a adds • e edits • x or Space toggles done"),
		m.styles.HelpBody.Render("  d deletes (asks first) • c clears completed"),
		"",
		m.styles.HelpSection.Render("View"),
		m.styles.HelpBody.Render("  f cycles filter • 1/2/3 all/active/completed"),
		m.styles.HelpBody.Render("  t switches light/dark theme"),
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.HelpFrame).
		Padding(1, 2)

	return style.Width(width).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderWelcome(width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.WelcomeFrame).
		Padding(0, 1)
	if width <= 0 {
		width = m.viewportWidth()
	}
	text := "First run:\n1) Press 'a' to add a task\n2) 'x' toggles done, 'e' edits, 'd' deletes\n3) 'f' filters, 't' switches the theme"
	return style.Width(width).Render(text)
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return 1
	}
	// Reserve one column so the right border never wraps or clips on
	// terminals that shift the last cell.
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func nextFilter(f model.Filter) model.Filter {
	switch f {
	case model.FilterAll:
		return model.FilterActive
	case model.FilterActive:
		return model.FilterCompleted
	default:
		return model.FilterAll
	}
}

func filterLabel(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "active"
	case model.FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

func taskWord(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}

func humanAge(created, now time.Time) string {
	d := now.Sub(created)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
