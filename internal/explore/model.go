// Package explore is a terminal explorer for a value tree.
//
// The explorer shows the visible nodes of a [view.Diagram] as an indented
// list and drives the same state machine as the SVG and server front
// ends: moving the cursor hovers, space collapses, "/" searches with a
// debounce, "e" edits the selected node and "w" writes the export.
package explore

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/io"
	"github.com/matzehuels/visualizeme/pkg/layout"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/tree"
	"github.com/matzehuels/visualizeme/pkg/view"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeEdit
)

const defaultHeight = 24

// Options configures the explorer.
type Options struct {
	// Output is where "w" writes the export. Empty writes
	// <input>.edited<ext> next to the input.
	Output string

	// Debounce delays search while typing. Zero selects view.DefaultDebounce.
	Debounce time.Duration
}

// searchMsg carries a debounced search. Seq must match Model.searchSeq,
// otherwise a newer keystroke superseded it.
type searchMsg struct {
	seq  int
	term string
}

// Model is the bubbletea model of the explorer.
type Model struct {
	doc     *document.Document
	diagram *view.Diagram
	opts    Options

	rows   []*tree.Node
	cursor int
	offset int
	width  int
	height int

	mode      inputMode
	input     textinput.Model
	editKey   string
	searchSeq int

	status string
	failed bool
	dirty  bool
}

// New returns an explorer over d, which must display doc's value.
func New(doc *document.Document, d *view.Diagram, opts Options) *Model {
	if opts.Debounce <= 0 {
		opts.Debounce = view.DefaultDebounce
	}
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60

	m := &Model{doc: doc, diagram: d, opts: opts, input: ti, height: defaultHeight}
	m.refresh("")
	return m
}

// Run starts the explorer full-screen and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, doc *document.Document, d *view.Diagram, opts Options) (*Model, error) {
	p := tea.NewProgram(New(doc, d, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(*Model), nil
}

// Dirty reports whether edits were made since the last write.
func (m *Model) Dirty() bool { return m.dirty }

// Status returns the last status line.
func (m *Model) Status() string { return m.status }

// Current returns the node under the cursor, or nil for an empty tree.
func (m *Model) Current() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		m.scroll()
		return m, nil

	case searchMsg:
		if msg.seq == m.searchSeq {
			m.search(msg.term)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.listHeight())
	case "pgdown":
		m.move(m.listHeight())
	case "home", "g":
		m.move(-len(m.rows))
	case "end", "G":
		m.move(len(m.rows))
	case " ", "enter":
		m.toggle()
	case "right", "l":
		if n := m.Current(); n != nil && m.diagram.Collapse().IsCollapsed(n.Key) {
			m.toggle()
		}
	case "left", "h":
		m.collapseOrParent()
	case "n":
		m.nextMatch(1)
	case "N":
		m.nextMatch(-1)
	case "esc":
		if m.diagram.SearchTerm() != "" {
			m.search("")
		}
	case "/":
		m.mode = modeSearch
		m.input.Prompt = "/"
		m.input.SetValue(m.diagram.SearchTerm())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "e":
		return m, m.startEdit()
	case "w":
		m.write()
	case "s":
		m.writeSVG()
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchSeq++
		m.search(m.input.Value())
		m.closeInput()
		return m, nil
	case "esc":
		m.searchSeq++
		m.closeInput()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if term := m.input.Value(); term != before {
		m.searchSeq++
		seq := m.searchSeq
		cmd = tea.Batch(cmd, tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
			return searchMsg{seq: seq, term: term}
		}))
	}
	return m, cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commit()
		return m, nil
	case "esc":
		_, _ = m.diagram.Select("")
		m.closeInput()
		m.setStatus("edit cancelled")
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch applies ev and reflects the outcome in the status line.
func (m *Model) dispatch(ev view.Event) view.Outcome {
	out := m.diagram.Dispatch(context.Background(), ev)
	switch {
	case !out.OK:
		m.setError(out.Status)
	case out.Status != "":
		m.setStatus(out.Status)
	}
	if out.Relayout {
		m.refresh(m.currentKey())
	}
	return out
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.scroll()
	m.dispatch(view.HoverEvent{Path: m.currentKey()})
}

func (m *Model) toggle() {
	n := m.Current()
	if n == nil {
		return
	}
	if n.IsLeaf() {
		m.setStatus(where(n) + " has no children")
		return
	}
	m.dispatch(view.ToggleEvent{Path: n.Key})
}

func (m *Model) collapseOrParent() {
	n := m.Current()
	if n == nil {
		return
	}
	if !n.IsLeaf() && !m.diagram.Collapse().IsCollapsed(n.Key) {
		m.toggle()
		return
	}
	if n.Parent != nil {
		m.jumpTo(n.Parent.Key)
	}
}

func (m *Model) search(term string) {
	m.dispatch(view.SearchEvent{Term: term})
}

// nextMatch moves the cursor to the next visible match in direction dir.
func (m *Model) nextMatch(dir int) {
	if len(m.rows) == 0 || m.diagram.SearchTerm() == "" {
		return
	}
	for i := 1; i <= len(m.rows); i++ {
		idx := ((m.cursor+dir*i)%len(m.rows) + len(m.rows)) % len(m.rows)
		if m.diagram.IsMatch(m.rows[idx].Key) {
			m.move(idx - m.cursor)
			return
		}
	}
	m.setStatus("no visible matches")
}

func (m *Model) startEdit() tea.Cmd {
	n := m.Current()
	if n == nil {
		return nil
	}
	out := m.dispatch(view.SelectEvent{Path: n.Key})
	if !out.OK || out.Edit == nil {
		return nil
	}
	m.mode = modeEdit
	m.editKey = out.Edit.Key
	m.input.Prompt = out.Edit.Path + " = "
	m.input.SetValue(out.Edit.Text)
	m.input.CursorEnd()
	return m.input.Focus()
}

// commit applies the edit. A rejected edit keeps the editor open with
// the model unchanged.
func (m *Model) commit() {
	out := m.dispatch(view.CommitEvent{Path: m.editKey, Text: m.input.Value()})
	if !out.OK {
		return
	}
	m.doc.SetValue(m.diagram.Value())
	m.dirty = true
	_, _ = m.diagram.Select("")
	m.closeInput()
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editKey = ""
	m.input.Blur()
	m.input.Prompt = ""
}

func (m *Model) write() {
	f := serialize.FormatJSON
	if m.doc.HasMetadata() {
		f = serialize.FormatSource
	}
	data, err := m.doc.Export(f, time.Now())
	if err != nil {
		m.setError(errors.UserMessage(err))
		return
	}
	path := m.outputPath(f)
	if err := io.WriteFile(path, data); err != nil {
		m.setError(errors.UserMessage(err))
		return
	}
	m.dirty = false
	m.setStatus("wrote " + path)
}

func (m *Model) writeSVG() {
	path := strings.TrimSuffix(m.doc.Name, filepath.Ext(m.doc.Name)) + ".svg"
	if err := io.WriteFile(path, m.diagram.Render()); err != nil {
		m.setError(errors.UserMessage(err))
		return
	}
	m.setStatus("wrote " + path)
}

func (m *Model) outputPath(f serialize.Format) string {
	if m.opts.Output != "" {
		return m.opts.Output
	}
	name := m.doc.Filename(f)
	ext := filepath.Ext(name)
	return filepath.Join(filepath.Dir(m.doc.Name), strings.TrimSuffix(name, ext)+".edited"+ext)
}

// refresh rebuilds the row list and keeps the cursor on key when it is
// still visible.
func (m *Model) refresh(key string) {
	m.rows = visibleRows(m.diagram.Tree(), m.diagram.Collapse())
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	if key != "" {
		for i, n := range m.rows {
			if n.Key == key {
				m.cursor = i
				break
			}
		}
	}
	m.scroll()
}

func (m *Model) jumpTo(key string) {
	for i, n := range m.rows {
		if n.Key == key {
			m.move(i - m.cursor)
			return
		}
	}
}

func (m *Model) currentKey() string {
	if n := m.Current(); n != nil {
		return n.Key
	}
	return ""
}

func (m *Model) listHeight() int {
	return max(m.height-4, 3)
}

func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(m.offset, 0)
}

// where names n for the status line.
func where(n *tree.Node) string {
	if s := n.Path.String(); s != "" {
		return s
	}
	return n.Label
}

func (m *Model) setStatus(s string) { m.status, m.failed = s, false }
func (m *Model) setError(s string)  { m.status, m.failed = s, true }

// visibleRows lists nodes in pre-order, skipping descendants of
// collapsed nodes.
func visibleRows(t *tree.Tree, c layout.Collapse) []*tree.Node {
	if t == nil {
		return nil
	}
	var rows []*tree.Node
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		rows = append(rows, n)
		if c.IsCollapsed(n.Key) {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.Root)
	return rows
}
