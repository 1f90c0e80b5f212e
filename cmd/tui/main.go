package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/gcouto/patrimonio/cmd/tui/internal/view"
	"github.com/gcouto/patrimonio/internal/config"
	"github.com/gcouto/patrimonio/internal/database"
	"github.com/gcouto/patrimonio/internal/holdings"
	holdingsStore "github.com/gcouto/patrimonio/internal/holdings/store"
	"github.com/gcouto/patrimonio/internal/source"
	"github.com/gcouto/patrimonio/internal/source/sheets"
)

type model struct {
	svc *holdings.Service

	currentView View

	dashboardView view.DashboardModel
	uploadView    view.UploadModel

	workbook string
	tab      string
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewUpload    View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	credentials, err := cfg.Credentials()
	if err != nil {
		slog.Error("failed to read service-account credentials", "error", err)
		os.Exit(1)
	}

	client, err := sheets.New(context.Background(), credentials)
	if err != nil {
		slog.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}

	var mappings holdings.MappingRepository

	if db, err := database.New(cfg.ConnectionString()); err != nil {
		slog.Warn("database unavailable, mapping overrides disabled", "error", err)
	} else {
		mappings = holdingsStore.New(db)
	}

	svc := holdings.NewService(source.NewCache(client), mappings)

	return model{
		svc:           svc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(svc, cfg.Sheets.Workbook, cfg.Sheets.Tab),
		uploadView:    view.NewUploadModel(svc),
		workbook:      cfg.Sheets.Workbook,
		tab:           cfg.Sheets.Tab,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svc, m.workbook, m.tab)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewUpload
				m.uploadView = view.NewUploadModel(m.svc)

				return m, m.uploadView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewUpload:
		var newModel tea.Model
		newModel, cmd = m.uploadView.Update(msg)
		m.uploadView = newModel.(view.UploadModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Patrimonio TUI\n\n" +
				"1. Dashboard\n" +
				"2. Upload File\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewUpload:
		return m.uploadView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
