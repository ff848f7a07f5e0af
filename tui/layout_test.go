package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ticklist/app"
	"ticklist/model"
	"ticklist/store"
)

func newUIService() *app.Service {
	st := store.New(store.NewMemoryMedium(), nil)
	todos := store.Initialize(st, "todos", []model.Task{})
	theme := store.Initialize(st, "theme", model.DefaultTheme)
	return app.NewService(todos, theme)
}

func TestViewportWidthReservesLastColumn(t *testing.T) {
	m := NewModel(newUIService(), "")

	m.width = 120
	if got := m.viewportWidth(); got != 119 {
		t.Fatalf("expected reserved column, got %d", got)
	}

	m.width = 1
	if got := m.viewportWidth(); got != 1 {
		t.Fatalf("expected width 1 kept, got %d", got)
	}

	m.width = 0
	if got := m.viewportWidth(); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
}

func TestRenderFooterFillsViewport(t *testing.T) {
	m := NewModel(newUIService(), "")
	m.width = 80

	footer := m.renderFooter("Ready", m.styles.Status, "? help")
	if got := lipgloss.Width(footer); got != m.viewportWidth() {
		t.Fatalf("expected footer width %d, got %d", m.viewportWidth(), got)
	}
}

func TestRenderFooterTruncatesLongStatus(t *testing.T) {
	m := NewModel(newUIService(), "")
	m.width = 40

	long := "This status message is much longer than the terminal width allows"
	footer := m.renderFooter(long, m.styles.Status, "? help")
	if got := lipgloss.Width(footer); got > m.viewportWidth() {
		t.Fatalf("expected footer to fit %d columns, got %d", m.viewportWidth(), got)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"longer text", 7, "longer…"},
		{"anything", 0, ""},
		{"anything", 1, "…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestClampBounds(t *testing.T) {
	if got := clamp(5, 0, 3); got != 3 {
		t.Fatalf("expected upper bound, got %d", got)
	}
	if got := clamp(-2, 0, 3); got != 0 {
		t.Fatalf("expected lower bound, got %d", got)
	}
	if got := clamp(2, 0, 3); got != 2 {
		t.Fatalf("expected value kept, got %d", got)
	}
}

func TestHumanAgeBuckets(t *testing.T) {
	now := time.Date(2026, 2, 19, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{50 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := humanAge(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("humanAge(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestNextFilterCycles(t *testing.T) {
	if got := nextFilter(model.FilterAll); got != model.FilterActive {
		t.Fatalf("expected active after all, got %q", got)
	}
	if got := nextFilter(model.FilterActive); got != model.FilterCompleted {
		t.Fatalf("expected completed after active, got %q", got)
	}
	if got := nextFilter(model.FilterCompleted); got != model.FilterAll {
		t.Fatalf("expected all after completed, got %q", got)
	}
}

func TestStylesFollowTheme(t *testing.T) {
	light := NewStyles(model.ThemeLight)
	dark := NewStyles(model.ThemeDark)

	if light.Theme() != model.ThemeLight || dark.Theme() != model.ThemeDark {
		t.Fatal("expected bundles to report their themes")
	}
	if light.FrameActive == dark.FrameActive {
		t.Fatal("expected distinct accent colors per theme")
	}

	fallback := NewStyles("sepia")
	if fallback.Theme() != model.ThemeLight {
		t.Fatalf("expected unknown theme to fall back to light, got %q", fallback.Theme())
	}
}
