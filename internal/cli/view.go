package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/graph"
	"github.com/matzehuels/halgraph/pkg/render"
)

// refreshInterval is the period between automatic rebuilds. The next tick is
// only scheduled once the previous rebuild has finished.
const refreshInterval = 5 * time.Second

var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	viewGroupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFD75E"))
	viewDialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 2)
)

// runView starts the interactive view and blocks until the operator quits.
func (c *CLI) runView(ctx context.Context, cfg Config) error {
	// The view owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "open log file %s", cfg.LogFile)
		}
		defer f.Close()
		out = f
	}
	c.Logger.SetOutput(out)
	defer c.Logger.SetOutput(os.Stderr)

	engine, err := render.NewEngine(cfg.Engine, cfg.Dot)
	if err != nil {
		return err
	}
	ns, err := c.NewProvider(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	builder := graph.NewBuilder(ns)
	m := newViewModel(ctx, builder.Build, engine.ToText, sourceName(cfg), c.Logger)

	c.Logger.Info("interactive view started", "source", sourceName(cfg), "interval", refreshInterval)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "interactive view")
	}
	if cfg.LogFile != "" {
		printInfo("Log written to %s", cfg.LogFile)
	}
	return nil
}

// =============================================================================
// viewModel - Live graph view
// =============================================================================

type (
	buildFunc  func(ctx context.Context) (*graph.Document, error)
	serializer func(doc *graph.Document) string
)

// tickMsg fires a scheduled refresh. Ticks from superseded schedules carry an
// old seq and are dropped.
type tickMsg struct{ seq int }

// refreshMsg carries the result of one rebuild.
type refreshMsg struct {
	id   string
	doc  *graph.Document
	err  error
	took time.Duration
}

type viewModel struct {
	ctx    context.Context
	build  buildFunc
	text   serializer
	source string
	logger *log.Logger

	doc     *graph.Document // last good document
	dot     string
	err     error // last refresh failure, cleared on success
	updated time.Time

	building  bool
	refreshID string
	tickSeq   int

	cursor    int
	offset    int
	dotOffset int
	height    int
	showDOT   bool
	dialog    string
}

// newViewModel returns a model whose first rebuild starts with Init.
func newViewModel(ctx context.Context, build buildFunc, text serializer, source string, logger *log.Logger) viewModel {
	return viewModel{
		ctx:       ctx,
		build:     build,
		text:      text,
		source:    source,
		logger:    logger,
		height:    15,
		building:  true,
		refreshID: uuid.NewString(),
	}
}

func (m viewModel) Init() tea.Cmd {
	return m.rebuild()
}

// rebuild runs the builder off the event loop.
func (m viewModel) rebuild() tea.Cmd {
	ctx, build, id := m.ctx, m.build, m.refreshID
	m.logger.Debug("refresh started", "refresh", id)
	return func() tea.Msg {
		start := time.Now()
		doc, err := build(ctx)
		return refreshMsg{id: id, doc: doc, err: err, took: time.Since(start)}
	}
}

// reload starts a rebuild unless one is already in flight.
func (m viewModel) reload() (viewModel, tea.Cmd) {
	if m.building {
		return m, nil
	}
	m.building = true
	m.refreshID = uuid.NewString()
	return m, m.rebuild()
}

func (m viewModel) scheduleTick() (viewModel, tea.Cmd) {
	m.tickSeq++
	seq := m.tickSeq
	return m, tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.seq != m.tickSeq {
			return m, nil
		}
		return m.reload()

	case refreshMsg:
		if msg.id != m.refreshID {
			return m, nil
		}
		m.building = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Warn("refresh failed", "refresh", msg.id, "err", msg.err)
		} else {
			m.install(msg.doc)
			m.logger.Debug("refresh complete", "refresh", msg.id,
				"nodes", msg.doc.NodeCount(), "edges", msg.doc.EdgeCount(), "took", msg.took.Round(time.Millisecond))
		}
		return m.scheduleTick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
		m.scrollToCursor()
	}
	return m, nil
}

// install replaces the current document wholesale.
func (m *viewModel) install(doc *graph.Document) {
	m.doc = doc
	m.dot = m.text(doc)
	m.err = nil
	m.updated = time.Now()

	if m.cursor >= len(doc.Nodes) {
		m.cursor = max(len(doc.Nodes)-1, 0)
	}
	m.scrollToCursor()
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.dialog != "" {
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		m.dialog = ""
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		return m.reload()
	case "tab":
		m.showDOT = !m.showDOT
	case "up", "k":
		if m.showDOT {
			m.dotOffset = max(m.dotOffset-1, 0)
		} else if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
	case "down", "j":
		if m.showDOT {
			m.dotOffset = min(m.dotOffset+1, max(strings.Count(m.dot, "\n")-m.height, 0))
		} else if m.doc != nil && m.cursor < len(m.doc.Nodes)-1 {
			m.cursor++
			m.scrollToCursor()
		}
	case "enter":
		if node, ok := m.selected(); ok && !m.showDOT {
			m.dialog = fmt.Sprintf("%s clicked", node.Label)
			m.logger.Info("element clicked", "element", node.ID, "kind", node.Kind)
		}
	}
	return m, nil
}

func (m *viewModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m viewModel) selected() (graph.Node, bool) {
	if m.doc == nil || m.cursor >= len(m.doc.Nodes) {
		return graph.Node{}, false
	}
	return m.doc.Nodes[m.cursor], true
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(graph.DefaultName))
	b.WriteString(" " + StyleDim.Render(m.source))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	switch {
	case m.dialog != "":
		b.WriteString(viewDialogStyle.Render(m.dialog + "\n\n" + StyleDim.Render("press any key")))
	case m.doc == nil:
		b.WriteString(StyleDim.Render("Waiting for the first refresh..."))
	case m.showDOT:
		b.WriteString(m.dotView())
	default:
		b.WriteString(m.elementView())
	}

	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ click  tab DOT source  r reload  q quit"))
	return b.String()
}

func (m viewModel) statusLine() string {
	var parts []string
	if m.building {
		parts = append(parts, StyleWarning.Render("refreshing..."))
	}
	if m.err != nil {
		msg := iconError + " " + errors.UserMessage(m.err)
		if m.doc != nil {
			msg += " (showing last good graph)"
		}
		parts = append(parts, StyleError.Render(msg))
	} else if m.doc != nil {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%s · updated %s",
			statsLine(m.doc.Count(graph.KindSignal), m.doc.Count(graph.KindGroup), m.doc.EdgeCount()),
			m.updated.Format("15:04:05"))))
	}
	return strings.Join(parts, " ")
}

func (m viewModel) dotView() string {
	lines := strings.Split(strings.TrimRight(m.dot, "\n"), "\n")
	start := min(m.dotOffset, len(lines))
	end := min(start+m.height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m viewModel) elementView() string {
	nodes := m.doc.Nodes
	if len(nodes) == 0 {
		return StyleDim.Render("No signals in the namespace.")
	}

	end := min(m.offset+m.height, len(nodes))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.Label, n.Kind.String(), nodeSummary(n)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Element", "Kind", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return viewHeaderStyle
			}
			if m.offset+row == m.cursor {
				return viewSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	detail := ""
	if node, ok := m.selected(); ok {
		detail = m.detailView(node)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), "  ", detail)
}

func nodeSummary(n graph.Node) string {
	if n.Kind == graph.KindGroup {
		return plural(len(n.Rows), "pin")
	}
	return "(" + n.Value + ")"
}

// detailView draws a group as a table of its pins and the signals they are
// linked to, or a signal with its writer and readers.
func (m viewModel) detailView(n graph.Node) string {
	if n.Kind == graph.KindGroup {
		linked := make(map[string]string, len(n.Rows))
		for _, e := range m.doc.Edges {
			arrow := iconArrow + " "
			if !e.Writer {
				arrow = "← "
			}
			linked[e.Pin] = arrow + e.Signal
		}

		rows := make([][]string, 0, len(n.Rows))
		for _, r := range n.Rows {
			rows = append(rows, []string{r.Label, linked[r.Pin]})
		}
		return table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers(n.Label, "").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return viewGroupStyle
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			}).
			Render()
	}

	var b strings.Builder
	b.WriteString(StyleValue.Render(n.Label) + " " + StyleDim.Render("("+n.Value+")"))
	for _, e := range m.doc.Edges {
		if e.Signal != n.ID {
			continue
		}
		b.WriteString("\n")
		if e.Writer {
			b.WriteString(StyleSuccess.Render("  written by " + e.Pin))
		} else {
			b.WriteString(StyleDim.Render("  read by    " + e.Pin))
		}
	}
	return b.String()
}
