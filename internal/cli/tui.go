package cli

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/radial"
)

// Layout pixels per terminal cell.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// Screen rows taken by the header and by the detail panel.
const (
	headerRows = 2
	footerRows = 6
	minMapRows = 3
	maxDepth   = 6
)

// Map styles
var (
	mapDocStyle      = lipgloss.NewStyle().Foreground(colorWhite)
	mapCenterStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	mapFocusedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(colorCyan)
	mapExternalStyle = lipgloss.NewStyle().Foreground(colorDim)
	mapBrokenStyle   = lipgloss.NewStyle().Foreground(colorRed)
	mapOpenStyle     = lipgloss.NewStyle().Foreground(colorBlue)
)

type cellStyle int

const (
	cellBlank cellStyle = iota
	cellDoc
	cellCenter
	cellFocused
	cellExternal
	cellBroken
	cellOpen
)

func (s cellStyle) style() lipgloss.Style {
	switch s {
	case cellDoc:
		return mapDocStyle
	case cellCenter:
		return mapCenterStyle
	case cellFocused:
		return mapFocusedStyle
	case cellExternal:
		return mapExternalStyle
	case cellBroken:
		return mapBrokenStyle
	case cellOpen:
		return mapOpenStyle
	}
	return lipgloss.NewStyle()
}

type cell struct {
	r     rune
	style cellStyle
}

// =============================================================================
// ExploreModel - Interactive mind-map explorer
// =============================================================================

// ExploreModel is the bubbletea model for navigating a radial layout.
type ExploreModel struct {
	Root     string
	Options  radial.Options
	Result   radial.Result
	Focused  string
	Viewport radial.Viewport
	Width    int
	Height   int

	// Opened is the absolute path of the document the user asked to open.
	Opened string

	defaultCenter string
	nodes         []layout.Node
	edges         []graph.Edge
	activator     radial.Activator
	history       []string
	status        string
}

// NewExploreModel creates an explorer over g centered on opts.Center.
// External nodes are always loaded so they can be toggled without a rebuild.
func NewExploreModel(root string, g *graph.Graph, opts radial.Options) ExploreModel {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = radial.DefaultMaxDepth
	}
	view := g.WithExternal(true)
	m := ExploreModel{
		Root:          root,
		Options:       opts,
		Width:         120,
		Height:        40,
		defaultCenter: opts.Center,
		nodes:         layout.FromGraph(view.Nodes),
		edges:         view.Edges,
	}
	m.resize()
	m.relayout()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.resize()
		m.centerView()

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(radial.Up)
		case "down", "j":
			m.move(radial.Down)
		case "left", "h":
			m.move(radial.Left)
		case "right", "l":
			m.move(radial.Right)
		case "enter", " ":
			if n, ok := m.Result.Node(m.Focused); ok {
				m.activate(n)
			}
		case "c":
			if n, ok := m.Result.Node(m.Focused); ok && graph.IsDocumentNode(n.Node.Node) && !n.IsCenter {
				m.recenter(n.ID, true)
			}
		case "o":
			if n, ok := m.Result.Node(m.Focused); ok && m.open(n) {
				return m, tea.Quit
			}
		case "e":
			m.Options.ShowExternal = !m.Options.ShowExternal
			m.relayout()
		case "+", "=":
			if m.Options.MaxDepth < maxDepth {
				m.Options.MaxDepth++
				m.relayout()
			}
		case "-":
			if m.Options.MaxDepth > 1 {
				m.Options.MaxDepth--
				m.relayout()
			}
		case "backspace":
			if len(m.history) > 0 {
				prev := m.history[len(m.history)-1]
				m.history = m.history[:len(m.history)-1]
				m.recenter(prev, false)
			}
		case "r":
			m.history = nil
			m.recenter(m.defaultCenter, false)
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.Viewport.Y -= 3 * cellHeight
		case tea.MouseButtonWheelDown:
			m.Viewport.Y += 3 * cellHeight
		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				break
			}
			p := m.toLayout(msg.X, msg.Y)
			if n, ok := radial.HitTestOpen(m.Result, p); ok && m.open(n) {
				return m, tea.Quit
			}
			if n, ok := radial.HitTest(m.Result, p); ok {
				m.activate(n)
			}
		}
	}
	return m, nil
}

// activate selects n, or recenters on it after a double activation.
func (m *ExploreModel) activate(n radial.Node) {
	switch m.activator.Activate(n) {
	case radial.ActionRecenter:
		m.recenter(n.ID, true)
	case radial.ActionSelect:
		m.Focused = n.ID
		m.follow()
	}
}

// recenter lays the map out again around id.
func (m *ExploreModel) recenter(id string, remember bool) {
	if remember && m.Result.Center != "" {
		m.history = append(m.history, m.Result.Center)
	}
	m.Options.Center = id
	m.Focused = ""
	m.relayout()
	if !m.Result.Empty() {
		m.status = "Centered on " + id
	}
}

// open records the path of document n. It reports false for other nodes.
func (m *ExploreModel) open(n radial.Node) bool {
	if !graph.IsDocumentNode(n.Node.Node) {
		return false
	}
	m.Opened = filepath.Join(m.Root, filepath.FromSlash(n.Document.Path))
	return true
}

func (m *ExploreModel) move(dir radial.Direction) {
	m.Focused = radial.Move(m.Result, m.Focused, dir)
	m.follow()
}

func (m *ExploreModel) relayout() {
	m.Result = radial.Layout(m.nodes, m.edges, m.Options)
	if _, ok := m.Result.Node(m.Focused); !ok {
		m.Focused = m.Result.Center
	}
	m.centerView()
}

// resize matches the viewport to the map area of the terminal.
func (m *ExploreModel) resize() {
	m.Viewport.Width = float64(m.Width) * cellWidth
	m.Viewport.Height = float64(m.mapRows()) * cellHeight
}

// centerView puts the center node in the middle of the viewport.
func (m *ExploreModel) centerView() {
	n, ok := m.Result.Node(m.Result.Center)
	if !ok {
		m.Viewport.X, m.Viewport.Y = 0, 0
		return
	}
	c := n.Center()
	m.Viewport.X = c.X - m.Viewport.Width/2
	m.Viewport.Y = c.Y - m.Viewport.Height/2
	m.follow()
}

// follow pans the viewport to keep the focused node on screen.
func (m *ExploreModel) follow() {
	if n, ok := m.Result.Node(m.Focused); ok {
		m.Viewport = radial.EnsureVisible(m.Viewport, n.Node, radial.EdgePadding)
	}
}

func (m ExploreModel) mapRows() int {
	return max(m.Height-headerRows-footerRows, minMapRows)
}

// toLayout converts a terminal cell to the layout point at its middle.
func (m ExploreModel) toLayout(x, y int) layout.Point {
	return layout.Point{
		X: m.Viewport.X + (float64(x)+0.5)*cellWidth,
		Y: m.Viewport.Y + (float64(y-headerRows)+0.5)*cellHeight,
	}
}

// toCell converts a layout point to a terminal column and map row.
func (m ExploreModel) toCell(p layout.Point) (col, row int) {
	col = int(math.Floor((p.X - m.Viewport.X) / cellWidth))
	row = int(math.Floor((p.Y - m.Viewport.Y) / cellHeight))
	return col, row
}

// =============================================================================
// View
// =============================================================================

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  ⏎⏎ recenter  o open  e externals  +/- depth  ⌫ back  r reset  q quit"))
	b.WriteString("\n")

	if m.Result.Empty() {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("No document matches %q", m.Options.Center)))
		b.WriteString(strings.Repeat("\n", m.mapRows()))
	} else {
		for _, row := range m.grid() {
			b.WriteString(renderRow(row))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.details())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(m.status))
	}
	return b.String()
}

func (m ExploreModel) header() string {
	title := StyleTitle.Render("docgraph")
	center := m.Result.Center
	if n, ok := m.Result.Node(center); ok {
		center = n.Label()
	}
	ext := "off"
	if m.Options.ShowExternal {
		ext = "on"
	}
	return title + " " + StyleValue.Render(center) +
		StyleDim.Render(fmt.Sprintf("  depth %d · external %s · %d nodes", m.Options.MaxDepth, ext, len(m.Result.Nodes)))
}

// grid draws every visible node label onto a cell grid.
func (m ExploreModel) grid() [][]cell {
	rows, cols := m.mapRows(), m.Width
	g := make([][]cell, rows)
	for i := range g {
		g[i] = make([]cell, cols)
		for j := range g[i] {
			g[i][j] = cell{r: ' '}
		}
	}
	put := func(col, row int, r rune, s cellStyle) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			g[row][col] = cell{r: r, style: s}
		}
	}

	for _, n := range m.Result.Nodes {
		col, row := m.toCell(layout.Point{X: n.X, Y: n.Center().Y})
		span := max(int(n.Width/cellWidth), 4)
		style := m.nodeStyle(n)

		label := []rune(truncate(n.Label(), span-4))
		text := make([]rune, 0, span)
		text = append(text, '[', ' ')
		text = append(text, label...)
		for len(text) < span-1 {
			text = append(text, ' ')
		}
		text = append(text, ']')
		for i, r := range text {
			put(col+i, row, r, style)
		}

		if graph.IsDocumentNode(n.Node.Node) {
			box := radial.OpenRect(n)
			oc, orow := m.toCell(layout.Point{X: (box.MinX + box.MaxX) / 2, Y: (box.MinY + box.MaxY) / 2})
			if orow != row {
				oc, orow = col+span-2, row
			}
			put(oc, orow, '↗', cellOpen)
		}
	}
	return g
}

func (m ExploreModel) nodeStyle(n radial.Node) cellStyle {
	switch {
	case n.ID == m.Focused:
		return cellFocused
	case n.IsCenter:
		return cellCenter
	case graph.IsExternalLinkNode(n.Node.Node):
		return cellExternal
	case len(n.Document.BrokenLinks) > 0:
		return cellBroken
	}
	return cellDoc
}

// renderRow joins runs of equally styled cells.
func renderRow(row []cell) string {
	var (
		b   strings.Builder
		run []rune
		cur cellStyle
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if cur == cellBlank {
			b.WriteString(string(run))
		} else {
			b.WriteString(cur.style().Render(string(run)))
		}
		run = run[:0]
	}
	for _, c := range row {
		if c.style != cur {
			flush()
			cur = c.style
		}
		run = append(run, c.r)
	}
	flush()
	return strings.TrimRight(b.String(), " ")
}

// details renders the focused node as a one-row table.
func (m ExploreModel) details() string {
	n, ok := m.Result.Node(m.Focused)
	if !ok {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		})

	switch {
	case graph.IsDocumentNode(n.Node.Node):
		d := n.Document
		broken := "—"
		if len(d.BrokenLinks) > 0 {
			broken = strings.Join(d.BrokenLinks, ", ")
		}
		t.Headers("Document", "Words", "Size", "Depth", "Links", "Broken").
			Row(d.Path, strconv.Itoa(d.WordCount), d.Size, strconv.Itoa(n.Depth), strconv.Itoa(len(n.Neighbors)), broken)
	case graph.IsExternalLinkNode(n.Node.Node):
		e := n.External
		t.Headers("Domain", "Links", "URLs").
			Row(e.Domain, strconv.Itoa(e.LinkCount), truncate(strings.Join(e.URLs, " "), max(m.Width-40, 20)))
	default:
		return ""
	}
	return t.Render()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
