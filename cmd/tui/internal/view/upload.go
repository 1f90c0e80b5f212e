package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/source/upload"
)

type uploadState int

const (
	uploadStateFilePick uploadState = iota
	uploadStateMapping
	uploadStateResult
)

type UploadModel struct {
	CommonModel
	svc *holdings.Service

	state      uploadState
	filePicker filepicker.Model

	data    []byte
	columns []string

	form   *huh.Form
	chosen map[holdings.Role]*string

	load *holdings.Load
	err  error
}

func NewUploadModel(svc *holdings.Service) UploadModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return UploadModel{
		svc:        svc,
		filePicker: fp,
	}
}

func (m UploadModel) Title() string { return "Upload File" }

func (m UploadModel) ShortHelp() string {
	switch m.state {
	case uploadStateMapping:
		return "Enter: confirm mapping | Esc: back"
	case uploadStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m UploadModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.handleEsc()
	}

	switch m.state {
	case uploadStateFilePick:
		return m.updateFilePick(msg)
	case uploadStateMapping:
		return m.updateMapping(msg)
	}

	return m, nil
}

func (m UploadModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case uploadStateMapping, uploadStateResult:
		m.state = uploadStateFilePick
		m.err = nil
		m.load = nil

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m UploadModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	didSelect, path := m.filePicker.DidSelectFile(msg)
	if !didSelect {
		return m, cmd
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.state = uploadStateResult
		m.err = err

		return m, nil
	}

	// Parse up front so the mapping form can offer the file's own
	// columns; normalization happens after the user confirms.
	table, err := upload.Parse(data)
	if err != nil {
		m.state = uploadStateResult
		m.err = err

		return m, nil
	}

	m.data = data
	m.columns = table.Columns
	m.form = m.buildMappingForm(table.Columns)
	m.state = uploadStateMapping

	return m, m.form.Init()
}

func (m UploadModel) updateMapping(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	override := make(holdings.Mapping, len(m.chosen))
	for role, col := range m.chosen {
		override[role] = *col
	}

	load, err := m.svc.NormalizeUpload(m.data, override)

	m.state = uploadStateResult
	m.load = load
	m.err = err

	return m, nil
}

var roleTitles = map[holdings.Role]string{
	holdings.RoleDate:        "Date column",
	holdings.RoleAmount:      "Amount column",
	holdings.RoleInstitution: "Institution column",
	holdings.RoleAssetClass:  "Asset class column",
	holdings.RoleAssetName:   "Asset column",
}

func (m *UploadModel) buildMappingForm(columns []string) *huh.Form {
	guessed := holdings.InferMapping(columns)
	m.chosen = make(map[holdings.Role]*string, len(holdings.Roles))

	fields := make([]huh.Field, 0, len(holdings.Roles))

	for _, role := range holdings.Roles {
		value := guessed[role]
		m.chosen[role] = &value

		fields = append(fields, huh.NewSelect[string]().
			Key(string(role)).
			Title(roleTitles[role]).
			Options(huh.NewOptions(columns...)...).
			Value(m.chosen[role]))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
}

func (m UploadModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case uploadStateFilePick:
		return pad.Render("Select a delimited file to upload:\n\n" + m.filePicker.View())

	case uploadStateMapping:
		return pad.Render("Map the file columns to their roles:\n\n" + m.form.View())

	case uploadStateResult:
		return pad.Render(m.viewResult())
	}

	return ""
}

func (m UploadModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
			"\n\n(Esc to go back)"
	}

	res := m.load.Result

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render(
		fmt.Sprintf("Normalized %d holdings — total %s", len(res.Holdings), FormatBRL(res.Total())),
	)

	body := header

	if res.DroppedDates > 0 || res.DroppedAmounts > 0 {
		body += fmt.Sprintf("\n%d bad date(s) and %d missing amount(s) dropped", res.DroppedDates, res.DroppedAmounts)
	}

	shown := res.Holdings
	if len(shown) > 10 {
		shown = shown[:10]
	}

	for _, h := range shown {
		body += fmt.Sprintf("\n  %s  %-12s %-20s %s", FormatDate(h.Date), FormatBRL(h.Amount), h.Institution, h.AssetName)
	}

	if len(res.Holdings) > len(shown) {
		body += fmt.Sprintf("\n  ... and %d more", len(res.Holdings)-len(shown))
	}

	return body + "\n\n(Esc to go back)"
}
