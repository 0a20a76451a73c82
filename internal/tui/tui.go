package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
)

// Snapshot is one loaded menu
type Snapshot struct {
	TenantID string
	Module   route.Module
	Origin   lnb.Origin
	Nodes    []lnb.Config
}

// LoadFunc loads the menu shown by the navigator
type LoadFunc func() (Snapshot, error)

// ProviderLoader loads a tenant/module menu from a provider
func ProviderLoader(p *lnb.Provider, tenantID string, module route.Module) LoadFunc {
	return func() (Snapshot, error) {
		nodes, origin, err := p.Menu(tenantID, module)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{TenantID: tenantID, Module: module.OrDefault(), Origin: origin, Nodes: nodes}, nil
	}
}

// Config configures the navigator
type Config struct {
	Load           LoadFunc
	Tenants        route.TenantContext
	FallbackTenant string
	// StartPath seeds tenant, module, project and the active entry
	StartPath string
	ProjectID string
}

// row is one visible line of the menu
type row struct {
	node     lnb.Config
	parentID string
	kind     lnb.EntryKind
	depth    int
	matched  []int
}

// history records every navigated path
type history struct {
	paths []string
}

func (h *history) Navigate(path string) {
	h.paths = append(h.paths, path)
}

// menuMsg carries a loaded menu
type menuMsg struct {
	snap Snapshot
	err  error
}

// Model is the LNB navigator
type Model struct {
	load    LoadFunc
	router  *route.Router
	history *history

	base      route.ScreenRoute
	current   route.ScreenRoute
	hasRoute  bool
	snap      Snapshot
	model     lnb.RenderModel
	expansion *lnb.Expansion
	activeID  string

	rows      []row
	cursor    int
	filtering bool
	filter    textinput.Model

	lastResult *route.NavigationResult
	loading    bool
	err        error
	width      int
	height     int

	spinner spinner.Model
}

// NewModel creates a new navigator model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	ti := textinput.New()
	ti.Placeholder = "메뉴 검색..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	h := &history{}
	m := Model{
		load:      cfg.Load,
		router:    route.NewRouter(cfg.Tenants, h).WithFallbackTenant(cfg.FallbackTenant),
		history:   h,
		expansion: lnb.NewExpansion(),
		filter:    ti,
		spinner:   s,
		loading:   true,
	}

	m.base = route.ScreenRoute{ProjectID: cfg.ProjectID}
	if cfg.StartPath != "" {
		m.current = route.Resolve(cfg.StartPath)
		m.hasRoute = true
		m.base.TenantID = m.current.TenantID
		m.base.Module = m.current.Module
		if m.current.ProjectID != "" {
			m.base.ProjectID = m.current.ProjectID
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMenu)
}

func (m Model) loadMenu() tea.Msg {
	if m.load == nil {
		return menuMsg{err: fmt.Errorf("메뉴 로더가 설정되지 않음")}
	}
	snap, err := m.load()
	return menuMsg{snap: snap, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case menuMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.applySnapshot(msg.snap)
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		m.activate()
	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		m.refreshRows()
		return m, cmd
	case "esc":
		m.filter.SetValue("")
		m.refreshRows()
	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadMenu)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refreshRows()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.activate()
		return m, nil
	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.refreshRows()
	return m, cmd
}

func (m *Model) applySnapshot(snap Snapshot) {
	m.snap = snap
	if m.base.TenantID == "" {
		m.base.TenantID = snap.TenantID
	}
	if m.base.Module == "" {
		m.base.Module = snap.Module
	}

	m.model = lnb.Render(snap.Nodes)
	m.expansion.Load(m.model)
	if m.hasRoute {
		m.activeID = lnb.ActiveID(m.model, m.current)
	}
	m.refreshRows()
}

// refreshRows rebuilds the visible rows from the model, the expansion
// state and the filter
func (m *Model) refreshRows() {
	var rows []row

	if query := strings.TrimSpace(m.filter.Value()); query != "" {
		for _, h := range lnb.Filter(m.model, query) {
			kind := lnb.KindIndependent
			if h.ParentID == "" {
				if e, ok := m.entry(h.Node.ID); ok {
					kind = e.Kind
				}
			}
			depth := 0
			if h.ParentID != "" {
				depth = 1
			}
			rows = append(rows, row{node: h.Node, parentID: h.ParentID, kind: kind, depth: depth, matched: h.MatchedIndexes})
		}
	} else {
		for _, e := range m.model.Entries {
			rows = append(rows, row{node: e.Node, kind: e.Kind})
			if e.Kind == lnb.KindParent && m.expansion.IsExpanded(e.Node.ID) {
				for _, c := range e.Children {
					rows = append(rows, row{node: c, parentID: e.Node.ID, kind: lnb.KindIndependent, depth: 1})
				}
			}
		}
	}

	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) entry(id string) (lnb.Entry, bool) {
	for _, e := range m.model.Entries {
		if e.Node.ID == id {
			return e, true
		}
	}
	return lnb.Entry{}, false
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.rows)) % len(m.rows)
}

// activate toggles a parent or navigates to a leaf
func (m *Model) activate() {
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]

	if r.kind == lnb.KindParent && r.depth == 0 {
		m.expansion.Toggle(r.node.ID)
		if strings.TrimSpace(m.filter.Value()) == "" {
			m.refreshRows()
		}
		return
	}

	to := lnb.RouteFor(r.node, m.base)
	res := m.router.Navigate(to)
	m.lastResult = &res
	if !res.Navigated {
		return
	}

	m.current = route.Resolve(res.Path)
	m.hasRoute = true
	m.activeID = lnb.ActiveID(m.model, m.current)
	if parent := lnb.ParentOf(m.model, m.activeID); parent != "" && !m.expansion.IsExpanded(parent) {
		m.expansion.Toggle(parent)
		m.refreshRows()
	}
}

// CurrentPath returns the last navigated path
func (m Model) CurrentPath() string {
	if len(m.history.paths) == 0 {
		return ""
	}
	return m.history.paths[len(m.history.paths)-1]
}

// History returns every navigated path, oldest first
func (m Model) History() []string {
	return append([]string(nil), m.history.paths...)
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.loading && len(m.rows) == 0 {
		b.WriteString(fmt.Sprintf("  %s 메뉴 불러오는 중...\n", m.spinner.View()))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(statusErrorStyle.Render("  오류: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	list := listPanelStyle.Render(m.renderList())
	detail := detailPanelStyle.Render(m.renderDetail())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail))

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("navkit LNB")
	meta := subtitleStyle.Render(fmt.Sprintf("tenant=%s  module=%s  source=%s",
		m.base.TenantID, m.base.Module.OrDefault(), m.snap.Origin))

	path := m.CurrentPath()
	if path == "" {
		path = "-"
	}
	return title + "  " + meta + "\n" + statusMutedStyle.Render("path ") + pathStyle.Render(path)
}

func (m Model) renderList() string {
	if m.model.Empty {
		return statusMutedStyle.Render(m.model.Placeholder)
	}
	if len(m.rows) == 0 {
		return statusMutedStyle.Render("검색 결과 없음")
	}

	var lines []string
	for i, r := range m.rows {
		marker := " "
		if r.kind == lnb.KindParent && r.depth == 0 {
			marker = expandIcon(m.expansion.IsExpanded(r.node.ID))
		}

		label := highlight(r.node.Label(), r.matched)
		line := strings.Repeat("  ", r.depth) + marker + " " + label
		if r.node.ID == m.activeID {
			line = activeItemStyle.Render(line + " ●")
		}
		if i == m.cursor {
			line = selectedItemStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return detailLabelStyle.Render(label) + detailValueStyle.Render(value)
	}

	var lines []string
	if m.cursor < len(m.rows) {
		n := m.rows[m.cursor].node
		lines = append(lines,
			field("id", n.ID),
			field("name", n.Name),
			field("screen", n.ScreenID),
			field("system", string(n.SystemScreenType)),
		)
		if built := route.Build(lnb.RouteFor(n, m.base), m.router.TenantID()); built.Navigated {
			lines = append(lines, field("target", built.Path))
		}
	}

	lines = append(lines, "")
	if m.lastResult != nil && !m.lastResult.Navigated {
		lines = append(lines, statusErrorStyle.Render("이동 안 함: "+string(m.lastResult.Reason)))
	}
	if m.hasRoute {
		lines = append(lines,
			field("type", string(m.current.Type)),
			field("module", string(m.current.Module)),
			field("tenant", m.current.TenantID),
			field("project", m.current.ProjectID),
			field("screenId", m.current.ScreenID),
			field("menuId", m.current.MenuID),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.filtering {
		return helpStyle.Render("  [Enter] Open  [↑/↓] Move  [Esc] Clear")
	}
	return helpStyle.Render("  [↑/↓] Move  [Enter] Open/Toggle  [/] Search  [r] Reload  [q] Quit")
}

// Run starts the TUI
func Run(cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
