package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/window"
)

// Model is the bubbletea program for the tree browser. It owns both live
// trees (content and sidebar) and implements window.Window, so the sync
// layer can address them through the same interface an external host
// would expose.
type Model struct {
	graph   *model.Graph
	content *LiveTree
	sidebar *LiveTree

	active   window.Kind // which tree has focus
	cursor   int         // index into the active tree's visible rows
	viewport viewport.Model
	theme    Theme
	width    int
	height   int
	quitting bool
}

// NewModel builds the browser for one domain graph snapshot.
func NewModel(g *model.Graph, theme Theme) Model {
	return Model{
		graph:   g,
		content: NewContentTree(g),
		sidebar: NewSidebarTree(g),
		active:  window.KindContent,
		theme:   theme,
	}
}

// Tree implements window.Window.
func (m Model) Tree(kind window.Kind) (window.Tree, error) {
	switch kind {
	case window.KindContent:
		return m.content, nil
	case window.KindSidebar:
		return m.sidebar, nil
	}
	return nil, window.ErrUnknownKind(kind)
}

// ActiveTree returns the tree that currently has focus.
func (m Model) ActiveTree() *LiveTree {
	if m.active == window.KindSidebar {
		return m.sidebar
	}
	return m.content
}

// ReloadMsg replaces the browser's domain graph, typically after the data
// file changed on disk. Expansion and selection state is reset.
type ReloadMsg struct {
	Graph *model.Graph
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadMsg:
		if msg.Graph != nil {
			m.graph = msg.Graph
			m.content = NewContentTree(msg.Graph)
			m.sidebar = NewSidebarTree(msg.Graph)
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2 // header row + help row

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			if m.active == window.KindContent {
				m.active = window.KindSidebar
			} else {
				m.active = window.KindContent
			}
			m.cursor = 0

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.ActiveTree().visibleRows())-1 {
				m.cursor++
			}

		case "enter", "right", "l":
			if n := m.cursorNode(); n != nil && len(n.children) > 0 {
				n.expanded = !n.expanded
			}

		case "left", "h":
			if n := m.cursorNode(); n != nil {
				if n.expanded {
					n.expanded = false
				} else if n.parent != nil && n.parent != m.ActiveTree().root {
					m.moveCursorTo(n.parent)
				}
			}

		case " ":
			if n := m.cursorNode(); n != nil {
				m.ActiveTree().Select([]window.Node{n}, false)
			}

		case "x":
			if n := m.cursorNode(); n != nil {
				m.ActiveTree().Select([]window.Node{n}, true)
			}

		case "E":
			if n := m.cursorNode(); n != nil {
				m.ActiveTree().Expand([]window.Node{n}, true)
			}

		case "C":
			if n := m.cursorNode(); n != nil {
				m.ActiveTree().Collapse([]window.Node{n}, true)
			}
		}
	}
	return m, nil
}

func (m Model) cursorNode() *LiveNode {
	rows := m.ActiveTree().visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return rows[m.cursor]
}

func (m *Model) moveCursorTo(target *LiveNode) {
	for i, n := range m.ActiveTree().visibleRows() {
		if n == target {
			m.cursor = i
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.ActiveTree()
	rows := t.visibleRows()

	var body strings.Builder
	for i, n := range rows {
		body.WriteString(m.renderRow(t, n, i == m.cursor))
		body.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString(m.theme.Header.Render(fmt.Sprintf("taskgrove / %s (%d nodes)", m.active, t.NodeCount())))
	sb.WriteString("\n")

	if m.height > 0 {
		// Scroll through the viewport; keep the cursor row visible.
		m.viewport.SetContent(body.String())
		if m.cursor < m.viewport.YOffset {
			m.viewport.SetYOffset(m.cursor)
		} else if m.viewport.Height > 0 && m.cursor >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
		}
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
	} else {
		sb.WriteString(body.String())
	}

	sb.WriteString(m.theme.DimText.Render("↑/↓ move · enter toggle · space select · E/C expand/collapse all · tab switch tree · q quit"))
	return sb.String()
}

func (m Model) renderRow(t *LiveTree, n *LiveNode, underCursor bool) string {
	depth := t.depthOf(n)
	pad := strings.Repeat("  ", depth)

	marker := "  "
	if len(n.children) > 0 {
		if n.expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	cursor := "  "
	if underCursor {
		cursor = m.theme.Cursor.Render("▸ ")
	}

	label := n.name
	if isDone(n) {
		label += " ✓"
	} else if isFlagged(n) {
		label += " ⚑"
	}
	if m.width > 0 {
		avail := m.width - len(pad) - 4
		if avail > 8 {
			label = runewidth.Truncate(label, avail, "…")
		}
	}

	style := m.theme.Renderer.NewStyle().Foreground(m.theme.kindColor(n))
	if n.selected {
		style = m.theme.Selected
	}
	return cursor + pad + marker + style.Render(label)
}

// isDone reports whether the underlying entity is completed or dropped.
func isDone(n *LiveNode) bool {
	switch e := n.entity.(type) {
	case *model.Workstream:
		return e.IsCompleted() || e.IsDropped()
	case *model.Task:
		return e.Completed || e.Dropped
	case *model.Container:
		return e.Dropped
	}
	return false
}

func isFlagged(n *LiveNode) bool {
	switch e := n.entity.(type) {
	case *model.Workstream:
		return e.Flagged
	case *model.Task:
		return e.Flagged
	}
	return false
}
