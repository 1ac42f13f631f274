package explore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

const sample = `{"a":{"x":1,"y":2},"b":[true]}`

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	doc := document.New(nil)
	if err := doc.Import("doc.json", sample, source.ModeJSON); err != nil {
		t.Fatalf("Import: %v", err)
	}
	popts := pipeline.Options{}
	popts.SetDefaults()
	d, _, err := pipeline.GenerateLayout(context.Background(), doc, popts)
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	return New(doc, d, opts)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestNewListsEveryNode(t *testing.T) {
	m := newModel(t, Options{})
	if len(m.rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(m.rows))
	}
	if m.Current() != m.rows[0] {
		t.Error("cursor should start on the root")
	}
	out := m.View()
	for _, want := range []string{"doc.json", "6 nodes", "x", "y"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestMoveHovers(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if got := m.diagram.Hovered(); got != m.rows[1].Key {
		t.Errorf("Hovered() = %q, want %q", got, m.rows[1].Key)
	}

	press(m, "up", "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestToggleCollapses(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down")
	if got := m.Current().Key; got != `["a"]` {
		t.Fatalf("current = %s, want [\"a\"]", got)
	}

	press(m, " ")
	if len(m.rows) != 4 {
		t.Fatalf("rows after collapse = %d, want 4", len(m.rows))
	}
	if m.Status() != "collapsed" {
		t.Errorf("Status() = %q, want collapsed", m.Status())
	}
	if m.Current().Key != `["a"]` {
		t.Error("cursor should stay on the toggled node")
	}

	press(m, "l")
	if len(m.rows) != 6 {
		t.Errorf("rows after expand = %d, want 6", len(m.rows))
	}
}

func TestToggleLeaf(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down", "down", " ")
	if len(m.rows) != 6 {
		t.Errorf("rows = %d, want 6", len(m.rows))
	}
	if m.Status() != "a.x has no children" {
		t.Errorf("Status() = %q", m.Status())
	}
}

func TestLeftJumpsToParent(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down", "down", "h")
	if got := m.Current().Key; got != `["a"]` {
		t.Errorf("current = %s, want parent [\"a\"]", got)
	}
}

func TestSearchIsDebounced(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "/")
	if m.mode != modeSearch {
		t.Fatal("expected search mode")
	}
	cmd := press(m, "x")
	if cmd == nil {
		t.Fatal("typing should schedule a search")
	}
	if len(m.diagram.Matches()) != 0 {
		t.Fatal("search applied before the debounce fired")
	}

	m.Update(searchMsg{seq: m.searchSeq - 1, term: "stale"})
	if m.diagram.SearchTerm() != "" {
		t.Fatal("stale search should be ignored")
	}

	m.Update(searchMsg{seq: m.searchSeq, term: "x"})
	got := m.diagram.Matches()
	if len(got) != 1 || got[0] != `["a","x"]` {
		t.Fatalf("Matches() = %v", got)
	}
	if m.Status() != "1 match" {
		t.Errorf("Status() = %q, want 1 match", m.Status())
	}

	press(m, "esc", "esc")
	if m.diagram.SearchTerm() != "" {
		t.Error("esc in browse mode should clear the search")
	}
}

func TestSearchEnterAppliesNow(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "/", "y", "enter")
	if m.mode != modeBrowse {
		t.Fatal("enter should close the search input")
	}
	if !m.diagram.IsMatch(`["a","y"]`) {
		t.Fatal("y should match")
	}

	press(m, "n")
	if got := m.Current().Key; got != `["a","y"]` {
		t.Errorf("n moved to %s", got)
	}
}

func TestEditCommits(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down", "down", "e")
	if m.mode != modeEdit {
		t.Fatal("expected edit mode")
	}
	if m.input.Value() != "1" {
		t.Errorf("editor text = %q, want 1", m.input.Value())
	}

	m.input.SetValue("5")
	press(m, "enter")
	if m.mode != modeBrowse {
		t.Fatalf("edit should close, status %q", m.Status())
	}
	if !m.Dirty() {
		t.Error("Dirty() = false after commit")
	}
	if got := string(value.Marshal(m.doc.Value)); got != `{"a":{"x":5,"y":2},"b":[true]}` {
		t.Errorf("document = %s", got)
	}
	if m.diagram.Editing() != nil {
		t.Error("editor should be closed on the diagram")
	}
}

func TestEditRejected(t *testing.T) {
	m := newModel(t, Options{})
	press(m, "down", "e")
	m.input.SetValue("{broken")
	press(m, "enter")

	if m.mode != modeEdit {
		t.Fatal("a rejected edit keeps the editor open")
	}
	if !m.failed {
		t.Error("expected an error status")
	}
	if m.Dirty() {
		t.Error("Dirty() = true after a rejected edit")
	}
	if got := string(value.Marshal(m.doc.Value)); got != sample {
		t.Errorf("document changed: %s", got)
	}

	press(m, "esc")
	if m.mode != modeBrowse || m.diagram.Editing() != nil {
		t.Error("esc should cancel the edit")
	}
}

func TestWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	m := newModel(t, Options{Output: out})
	press(m, "down", "down", "e")
	m.input.SetValue("7")
	press(m, "enter", "w")

	if m.Dirty() {
		t.Error("Dirty() should reset after writing")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"x": 7`) {
		t.Errorf("written file = %s", data)
	}
}

func TestOutputPath(t *testing.T) {
	m := newModel(t, Options{})
	m.doc.Name = filepath.Join("data", "site.json")
	if got, want := m.outputPath("json"), filepath.Join("data", "site.edited.json"); got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, Options{})
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWindowResizeScrolls(t *testing.T) {
	m := newModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 7})
	press(m, "G")
	if m.cursor != 5 {
		t.Fatalf("cursor = %d, want 5", m.cursor)
	}
	if m.offset != 3 {
		t.Errorf("offset = %d, want 3", m.offset)
	}
}
