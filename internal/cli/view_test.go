package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/graph"
	"github.com/matzehuels/halgraph/pkg/hal"
	"github.com/matzehuels/halgraph/pkg/render"
)

// scriptedBuild returns a build function that fails while *fail is set and
// counts its calls.
func scriptedBuild(t *testing.T, calls *int, fail *bool) buildFunc {
	t.Helper()
	ns := hal.NewNamespace()
	for _, p := range []hal.Pin{
		{Name: "motor.0.enable", Type: hal.TypeBit, Dir: hal.Out, Value: true, Signal: "enable-sig"},
		{Name: "motor.0.running", Type: hal.TypeBit, Dir: hal.In, Value: true, Signal: "enable-sig"},
	} {
		if err := ns.AddPin(p); err != nil {
			t.Fatal(err)
		}
	}
	b := graph.NewBuilder(ns)
	return func(ctx context.Context) (*graph.Document, error) {
		*calls++
		if *fail {
			return nil, errors.New(errors.ErrCodeBackendUnavailable, "halcmd: exit status 1")
		}
		return b.Build(ctx)
	}
}

func newTestView(t *testing.T) (viewModel, *int, *bool) {
	t.Helper()
	calls, fail := 0, false
	m := newViewModel(context.Background(), scriptedBuild(t, &calls, &fail), render.ToDOT, "halcmd", newLogger(io.Discard, LogDebug))
	return m, &calls, &fail
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m viewModel, msg tea.Msg) (viewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(viewModel), cmd
}

// settle runs the pending rebuild command and feeds its result back.
func settle(t *testing.T, m viewModel, cmd tea.Cmd) viewModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a rebuild command")
	}
	m, next := update(t, m, cmd())
	if next == nil {
		t.Error("no tick scheduled after rebuild")
	}
	return m
}

func TestViewInitialRefresh(t *testing.T) {
	m, calls, _ := newTestView(t)
	if !m.building {
		t.Error("model should start with a rebuild in flight")
	}

	m = settle(t, m, m.Init())
	if *calls != 1 {
		t.Errorf("build called %d times, want 1", *calls)
	}
	if m.building || m.doc == nil {
		t.Fatalf("document not installed: building=%v doc=%v", m.building, m.doc)
	}
	if m.doc.NodeCount() != 2 || m.doc.EdgeCount() != 2 {
		t.Errorf("document has %d nodes, %d edges", m.doc.NodeCount(), m.doc.EdgeCount())
	}
	if !strings.Contains(m.dot, `digraph "Hal graph"`) {
		t.Errorf("DOT text not rendered: %q", m.dot)
	}
}

func TestViewReloadIgnoredWhileBuilding(t *testing.T) {
	m, _, _ := newTestView(t)
	initial := m.refreshID

	m, cmd := update(t, m, key("r"))
	if cmd != nil {
		t.Error("manual reload started a second rebuild")
	}
	if m.refreshID != initial {
		t.Error("refresh ID changed by an ignored reload")
	}
}

func TestViewTickScheduling(t *testing.T) {
	m, calls, _ := newTestView(t)
	m = settle(t, m, m.Init())
	firstTick := m.tickSeq

	// A manual reload supersedes the pending tick.
	m, cmd := update(t, m, key("r"))
	if !m.building {
		t.Fatal("reload did not start a rebuild")
	}
	m = settle(t, m, cmd)
	if *calls != 2 {
		t.Errorf("build called %d times, want 2", *calls)
	}

	if _, cmd := update(t, m, tickMsg{seq: firstTick}); cmd != nil {
		t.Error("stale tick triggered a rebuild")
	}

	m, cmd = update(t, m, tickMsg{seq: m.tickSeq})
	if cmd == nil || !m.building {
		t.Fatal("current tick did not trigger a rebuild")
	}
	if _, again := update(t, m, tickMsg{seq: m.tickSeq}); again != nil {
		t.Error("tick during a rebuild started another one")
	}
}

func TestViewStaleRefreshDropped(t *testing.T) {
	m, _, _ := newTestView(t)
	m, _ = update(t, m, refreshMsg{id: "other", doc: graph.NewDocument()})
	if m.doc != nil || !m.building {
		t.Error("refresh with a foreign ID was installed")
	}
}

func TestViewKeepsLastGoodDocument(t *testing.T) {
	m, _, fail := newTestView(t)
	m = settle(t, m, m.Init())
	good := m.doc

	*fail = true
	m, cmd := update(t, m, tickMsg{seq: m.tickSeq})
	m = settle(t, m, cmd)

	if m.doc != good {
		t.Error("failed refresh replaced the document")
	}
	if !errors.Is(m.err, errors.ErrCodeBackendUnavailable) {
		t.Errorf("err = %v, want BACKEND_UNAVAILABLE", m.err)
	}
	view := m.View()
	if !strings.Contains(view, "halcmd: exit status 1") || !strings.Contains(view, "last good graph") {
		t.Errorf("status line missing failure:\n%s", view)
	}

	*fail = false
	m, cmd = update(t, m, tickMsg{seq: m.tickSeq})
	m = settle(t, m, cmd)
	if m.err != nil {
		t.Errorf("err not cleared after a successful refresh: %v", m.err)
	}
}

func TestViewClickDialog(t *testing.T) {
	m, calls, _ := newTestView(t)
	m = settle(t, m, m.Init())
	doc := m.doc

	m, _ = update(t, m, key("enter"))
	if m.dialog != "enable-sig clicked" {
		t.Errorf("dialog = %q, want %q", m.dialog, "enable-sig clicked")
	}
	if !strings.Contains(m.View(), "enable-sig clicked") {
		t.Error("dialog not shown")
	}

	// Any key dismisses the dialog without acting on it.
	m, cmd := update(t, m, key("r"))
	if m.dialog != "" || cmd != nil {
		t.Errorf("dialog not dismissed cleanly: dialog=%q cmd=%v", m.dialog, cmd != nil)
	}
	if m.doc != doc || *calls != 1 {
		t.Error("click changed state")
	}

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("enter"))
	if m.dialog != "motor.0 clicked" {
		t.Errorf("dialog = %q, want %q", m.dialog, "motor.0 clicked")
	}
}

func TestViewModes(t *testing.T) {
	m, _, _ := newTestView(t)
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("view before the first refresh should say it is waiting")
	}
	m = settle(t, m, m.Init())

	view := m.View()
	for _, want := range []string{"enable-sig", "(TRUE)", "motor.0", "written by motor.0.enable", "2 edges"} {
		if !strings.Contains(view, want) {
			t.Errorf("element view missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, key("tab"))
	if !strings.Contains(m.View(), `digraph "Hal graph"`) {
		t.Errorf("DOT view missing source:\n%s", m.View())
	}
	m, _ = update(t, m, key("enter"))
	if m.dialog != "" {
		t.Error("enter in DOT view opened a dialog")
	}
}

func TestViewQuit(t *testing.T) {
	m, _, _ := newTestView(t)
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, k)
		if cmd == nil {
			t.Fatalf("%s did not quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not return tea.Quit", k)
		}
	}
}
