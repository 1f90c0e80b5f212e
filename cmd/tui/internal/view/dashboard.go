package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gcouto/patrimonio/internal/holdings"
)

const loadTimeout = 2 * time.Minute

// assetTopN is the asset-distribution cutoff; smaller positions fold
// into "Outros".
const assetTopN = 12

type dashboardState int

const (
	dashboardStateLoading dashboardState = iota
	dashboardStateReady
	dashboardStateError
)

type DashboardModel struct {
	CommonModel
	svc      *holdings.Service
	workbook string
	tab      string

	state   dashboardState
	spinner spinner.Model
	load    *holdings.Load
	err     error
}

func NewDashboardModel(svc *holdings.Service, workbook, tab string) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		svc:      svc,
		workbook: workbook,
		tab:      tab,
		spinner:  s,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateReady {
		return "r: reload | Esc: back"
	}

	return "Esc: back"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(false))
}

type dashboardLoadedMsg struct {
	load *holdings.Load
	err  error
}

func (m DashboardModel) loadCmd(reload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var (
			load *holdings.Load
			err  error
		)

		if reload {
			load, err = m.svc.Reload(ctx, m.workbook, m.tab)
		} else {
			load, err = m.svc.Load(ctx, m.workbook, m.tab)
		}

		return dashboardLoadedMsg{load: load, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			if m.state == dashboardStateReady || m.state == dashboardStateError {
				m.state = dashboardStateLoading
				return m, tea.Batch(m.spinner.Tick, m.loadCmd(true))
			}
		}

	case dashboardLoadedMsg:
		if msg.err != nil {
			m.state = dashboardStateError
			m.err = msg.err

			return m, nil
		}

		m.state = dashboardStateReady
		m.load = msg.load

		return m, nil
	}

	if m.state == dashboardStateLoading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case dashboardStateLoading:
		return pad.Render(fmt.Sprintf("%s Loading %s / %s...", m.spinner.View(), m.workbook, m.tab))

	case dashboardStateError:
		return pad.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(r to retry, Esc to go back)",
		)

	case dashboardStateReady:
		return pad.Render(m.viewReady())
	}

	return ""
}

func (m DashboardModel) viewReady() string {
	records := m.load.Result.Holdings
	summary := holdings.Summarize(records)

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s / %s — %d holdings", m.load.Workbook, m.load.Tab, len(records)),
	)

	kpis := fmt.Sprintf(
		"Total: %s   Assets: %d   Institutions: %d",
		FormatBRL(summary.Total), summary.Assets, summary.Institutions,
	)
	if summary.TopInstitution != "" {
		kpis += fmt.Sprintf("   Largest: %s (%s)", summary.TopInstitution, FormatBRL(summary.TopInstitutionTotal))
	}

	sections := []string{
		header,
		kpis,
		renderGroups("By institution", holdings.GroupBy(records, holdings.FieldInstitution)),
		renderGroups("By class", holdings.GroupBy(records, holdings.FieldAssetClass)),
	}

	assets := holdings.GroupBy(records, holdings.FieldAssetName)
	if collapsed, err := holdings.CollapseTop(assets, assetTopN); err == nil {
		sections = append(sections, renderGroups("By asset", collapsed))
	}

	if dropped := m.load.Result.DroppedDates + m.load.Result.DroppedAmounts; dropped > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(
			fmt.Sprintf("%d row(s) dropped (%d bad dates, %d missing amounts)",
				dropped, m.load.Result.DroppedDates, m.load.Result.DroppedAmounts),
		))
	}

	return strings.Join(sections, "\n\n")
}

func renderGroups(title string, groups []holdings.Group) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title))

	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n  %-32s %s", g.Label(), FormatBRL(g.Amount)))
	}

	return sb.String()
}
