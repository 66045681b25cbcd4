package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	crumbStyle        = lipgloss.NewStyle().Foreground(colorGray)
	crumbFrontier     = lipgloss.NewStyle().Foreground(colorCyan).Underline(true)
)

// =============================================================================
// ExploreModel - Interactive drill-down
// =============================================================================

// applicationsMsg delivers the applications dataset once it has loaded.
type applicationsMsg explore.Applications

// ExploreModel is the bubbletea model for the layer-by-layer explorer.
//
// The list shows the candidates for the next step: the selected entity's
// neighbors in the first hidden layer, or the whole layer when it has none.
type ExploreModel struct {
	Graph *graph.Graph
	State explore.State

	baselines    map[overlay.Mode]*overlay.Result
	mode         overlay.Mode // empty while the overlay is off
	apps         explore.Applications
	pending      *dataset.Pending
	ctx          context.Context
	expanded     bool
	cursor       int
	offset       int
	height       int
	search       textinput.Model
	searching    bool
	searchResult []*graph.Entity
}

// NewExploreModel creates an explorer over g. Baselines are precomputed per
// mode; pending delivers the optional applications dataset.
func NewExploreModel(ctx context.Context, g *graph.Graph, baselines map[overlay.Mode]*overlay.Result, pending *dataset.Pending) ExploreModel {
	ti := textinput.New()
	ti.Placeholder = "search entities..."
	ti.CharLimit = 50
	ti.Width = 30
	return ExploreModel{
		Graph:     g,
		State:     explore.Idle(),
		baselines: baselines,
		pending:   pending,
		ctx:       ctx,
		height:    12,
		search:    ti,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	if m.pending == nil {
		return nil
	}
	p, ctx := m.pending, m.ctx
	return func() tea.Msg { return applicationsMsg(p.Wait(ctx)) }
}

// candidates lists the entities the cursor can explore next.
func (m ExploreModel) candidates() []*graph.Entity {
	if m.searching {
		return m.searchResult
	}
	tail := m.State.Tail()
	if tail == nil {
		return m.Graph.EntitiesInLayer(0)
	}
	layer := m.State.RevealedDepth
	if layer > graph.MaxLayer {
		return nil
	}
	var out []*graph.Entity
	for _, id := range m.Graph.NeighborsInLayer(tail.ID, layer) {
		if e, ok := m.Graph.Entity(id); ok {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return m.Graph.EntitiesInLayer(layer)
	}
	return out
}

// setState moves to st and resets the list position.
func (m ExploreModel) setState(st explore.State) ExploreModel {
	m.State = st
	m.cursor, m.offset = 0, 0
	return m
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applicationsMsg:
		m.apps = explore.Applications(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 5)
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m ExploreModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.candidates()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m = m.move(-1, len(list))
	case "down", "j":
		m = m.move(1, len(list))
	case "enter", "right", "l":
		if m.cursor < len(list) {
			m = m.setState(m.State.Explore(list[m.cursor]))
		}
	case "backspace", "left", "h":
		m = m.setState(m.State.GoBack())
	case "esc", "r":
		m = m.setState(m.State.Reset())
	case "e":
		m.expanded = !m.expanded
	case "b":
		m.mode = nextMode(m.mode)
	case "/":
		m.searching = true
		m.search.SetValue("")
		m.searchResult = nil
		m.cursor, m.offset = 0, 0
		cmd := m.search.Focus()
		return m, cmd
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m = m.setState(m.State.JumpToBreadcrumb(int(key[0] - '0')))
		}
	}
	return m, nil
}

func (m ExploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.cursor, m.offset = 0, 0
		return m, nil
	case "up":
		m = m.move(-1, len(m.searchResult))
		return m, nil
	case "down":
		m = m.move(1, len(m.searchResult))
		return m, nil
	case "enter":
		if m.cursor < len(m.searchResult) {
			target := m.searchResult[m.cursor]
			m.searching = false
			m.search.Blur()
			m = m.setState(m.State.JumpFromSearch(target))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.searchResult = explore.Search(m.Graph, m.search.Value())
	m.cursor, m.offset = 0, 0
	return m, cmd
}

func (m ExploreModel) move(delta, n int) ExploreModel {
	if n == 0 {
		return m
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m
}

// nextMode cycles off → pqc → classical → off.
func nextMode(m overlay.Mode) overlay.Mode {
	switch m {
	case "":
		return overlay.ModePQC
	case overlay.ModePQC:
		return overlay.ModeClassical
	}
	return ""
}

func (m ExploreModel) resolver() *salience.Resolver {
	ctx := salience.Context{Graph: m.Graph, State: m.State}
	if m.mode != "" {
		ctx.Baseline = m.baselines[m.mode]
	}
	return salience.New(ctx)
}

func (m ExploreModel) View() string {
	var b strings.Builder

	title := "pqcgraph explorer"
	if lu := m.Graph.LastUpdated(); lu != "" {
		title += "  " + listDimStyle.Render("data "+lu)
	}
	b.WriteString(StyleTitle.Render(title))
	if m.mode != "" {
		b.WriteString("  " + StyleSuccess.Render("baseline: "+m.mode.Label()))
	}
	b.WriteString("\n")
	b.WriteString(m.breadcrumbView())
	b.WriteString("\n\n")

	if sel := m.State.Selected; sel != nil {
		b.WriteString(m.selectedView(sel))
		b.WriteString("\n")
	}

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if tail := m.State.Tail(); tail == nil {
		b.WriteString(listDimStyle.Render(explore.LayerLabel(0)))
		b.WriteString("\n")
	} else if m.State.RevealedDepth <= graph.MaxLayer {
		b.WriteString(listDimStyle.Render(explore.LayerLabel(m.State.RevealedDepth)))
		b.WriteString("\n")
	}
	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ explore  ← back  0-9 layer  / search  b baseline  e trail  r reset  q quit"))
	return b.String()
}

func (m ExploreModel) breadcrumbView() string {
	crumbs := explore.Breadcrumb(m.State, m.expanded)
	if len(crumbs) == 0 {
		return crumbStyle.Render("Select a standard to start")
	}
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		if c.Frontier {
			parts[i] = crumbFrontier.Render(c.Text())
			continue
		}
		parts[i] = crumbStyle.Render(c.Text())
	}
	return strings.Join(parts, listDimStyle.Render(" › "))
}

func (m ExploreModel) selectedView(sel *graph.Entity) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(sel.DisplayName()))
	b.WriteString(" " + listDimStyle.Render(sel.Kind.Label()+" · "+explore.LayerLabel(sel.Layer)))
	b.WriteString("\n")
	b.WriteString(renderStatus(overlay.Readiness(sel)) + " " + listDimStyle.Render(overlay.Describe(sel)))
	b.WriteString("\n")
	if exp := explore.ExpandedApplications(m.State, m.apps); exp != nil {
		names := make([]string, len(exp.Applications))
		for i, a := range exp.Applications {
			names[i] = a.Name
		}
		b.WriteString(listDimStyle.Render("Built with it: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ExploreModel) listView() string {
	list := m.candidates()
	if len(list) == 0 {
		if m.searching && m.search.Value() != "" {
			return listDimStyle.Render("  no matches")
		}
		return listDimStyle.Render("  nothing further")
	}

	r := m.resolver()
	end := min(m.offset+m.height, len(list))
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		e := list[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		name := tierStyle(r.Node(e)).Render(e.DisplayName())
		if i == m.cursor {
			name = listSelectedStyle.Render(e.DisplayName())
		}
		status := lipgloss.NewStyle().Foreground(statusColor(overlay.Readiness(e))).Render("●")
		fmt.Fprintf(&b, "%s%s %s\n", cursor, status, name)
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(list))))
	return b.String()
}
