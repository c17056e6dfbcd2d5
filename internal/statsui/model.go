// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/blip/internal/model"
	"github.com/verte-zerg/blip/internal/stats"
	"github.com/verte-zerg/blip/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabFocus
)

const (
	plotHeight = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	sessionTable  table.Model
	sessionLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Sessions", "Focus"},
	}
	m.initInputs()
	m.initSessionTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabSessions {
			m.sessionTable.Focus()
		} else {
			m.sessionTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.sessionTable, cmd = m.sessionTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Mode: "),
		newFilterInput("Kind (freeplay/campaign/vigilance): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initSessionTable() {
	cols, rows := buildSessionTableData(nil)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(sessionTableStyles())
	m.sessionTable = t
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.ModeID))
	m.filterInputs[1].SetValue(strings.TrimSpace(m.cfg.Kind))
	if m.cfg.Since != nil {
		m.filterInputs[2].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[2].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[3].SetValue("")
	}
	m.filterInputs[4].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setSessionTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	mode := m.cfg.ModeID
	if mode == "" {
		mode = "any"
	}
	kind := m.cfg.Kind
	if kind == "" {
		kind = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: mode=%s  kind=%s  since=%s  last=%s  window=%d", mode, kind, since, last, m.cfg.CurveWindow)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabSessions {
		if len(m.report.Sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.sessionTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applySessionTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.viewports[tabFocus].SetContent(renderFocus(m.report))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	summary := renderSummaryCards(sessions, width)
	curves := renderCurves(sessions, window, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var totalScore, totalHitRate, totalRT float64
	var rtSessions int
	bestScore := 0
	for _, s := range sessions {
		hitRate, avgRT := stats.SessionMetrics(s)
		totalScore += float64(s.Score)
		totalHitRate += hitRate
		if s.Score > bestScore {
			bestScore = s.Score
		}
		if avgRT > 0 {
			totalRT += avgRT
			rtSessions++
		}
	}
	count := float64(len(sessions))
	avgRT := "-"
	if rtSessions > 0 {
		avgRT = fmt.Sprintf("%.0f ms", totalRT/float64(rtSessions))
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Avg Score", fmt.Sprintf("%.1f", totalScore/count)),
		metricCard("Best Score", fmt.Sprintf("%d", bestScore)),
		metricCard("Avg Hit Rate", fmt.Sprintf("%.1f%%", (totalHitRate/count)*100)),
		metricCard("Avg Reaction", avgRT),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(sessions []model.SessionAggregate, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderFocus(report stats.Report) string {
	if len(report.Drift) == 0 {
		return "No focus sessions found. Run `blip focus` to play one."
	}
	var buf bytes.Buffer
	if err := stats.RenderDriftTable(&buf, report.Drift); err != nil {
		return fmt.Sprintf("Failed to render focus sessions: %v", err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	var extras []string
	for _, d := range report.Drift {
		values := make([]float64, len(d.QuarterScores))
		for i, s := range d.QuarterScores {
			values[i] = float64(s)
		}
		extras = append(extras, fmt.Sprintf("#%-4d %s", d.SessionID, stats.Sparkline(values)))
	}
	if len(extras) > 0 {
		out += "\n\n" + headerStyle.Render("Quarter trend") + "\n" + strings.Join(extras, "\n")
	}
	return out
}

func buildSessionTableData(sessions []model.SessionAggregate) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Kind", Width: 9},
		{Title: "Mode", Width: 12},
		{Title: "Lvl", Width: 3},
		{Title: "Score", Width: 5},
		{Title: "Hits", Width: 4},
		{Title: "Miss", Width: 4},
		{Title: "False", Width: 5},
		{Title: "Avg RT", Width: 7},
	}
	rows := make([]table.Row, 0, len(sessions))
	// Latest first.
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		lvl := "-"
		if s.Level > 0 {
			lvl = strconv.Itoa(s.Level)
		}
		rt := "-"
		if s.RTCount > 0 {
			rt = fmt.Sprintf("%.0f ms", s.AvgReactionMs())
		}
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Kind,
			s.ModeID,
			lvl,
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Misses),
			strconv.Itoa(s.FalseTaps),
			rt,
		})
	}
	return columns, rows
}

func (m *Model) applySessionTable(width, height int) {
	cols, rows := buildSessionTableData(m.report.Sessions)
	m.sessionTable.SetColumns(cols)
	m.sessionTable.SetRows(rows)
	m.sessionLayout.rowCount = len(rows)
	m.sessionLayout.width = 0
	m.setSessionTableSize(width, height)
}

func (m *Model) setSessionTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.sessionLayout.width == width && m.sessionLayout.height == viewportHeight {
		return
	}
	m.sessionLayout.width = width
	m.sessionLayout.height = viewportHeight
	m.sessionTable.SetWidth(width)
	m.sessionTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustSessionTableHeight(height)
	if m.sessionLayout.height != viewportHeight {
		m.sessionLayout.height = viewportHeight
		m.sessionTable.SetHeight(viewportHeight)
	}
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustSessionTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.sessionTable.Height()
	viewHeight := lipgloss.Height(m.sessionTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.sessionTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.sessionTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	modeID := strings.TrimSpace(m.filterInputs[0].Value())
	kind := strings.TrimSpace(m.filterInputs[1].Value())
	switch kind {
	case "", model.KindFreeplay, model.KindCampaign, model.KindVigilance:
	default:
		return fmt.Errorf("invalid kind (use freeplay, campaign or vigilance)")
	}

	sinceInput := strings.TrimSpace(m.filterInputs[2].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[3].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[4].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		ModeID:      modeID,
		Kind:        kind,
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
