package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/logging"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	loadTimeout            = 30 * time.Second
	statusTTL              = 3 * time.Second
	// detailLines is the height reserved below the board.
	detailLines = 14
)

// Loader fetches a snapshot and builds a fresh board from it.
type Loader func(ctx context.Context) (board.Board, error)

// Options configures a Model.
type Options struct {
	Loader          Loader
	RefreshInterval time.Duration
	OtherLimit      int
	Timezone        string
	Version         string
}

// Model is the Bubbletea model for the TUI.
type Model struct {
	// Data
	board         board.Board
	hasBoard      bool
	lastRefresh   time.Time
	selectedIndex int

	// UI state
	loading       bool
	err           error
	statusMessage string
	statusExpiry  time.Time
	showAll       bool
	width, height int

	// Components
	spinner spinner.Model

	// Dependencies
	loader     Loader
	interval   time.Duration
	otherLimit int
	timezone   string
	version    string
	now        func() time.Time
}

// Messages
type (
	boardMsg struct {
		board board.Board
		at    time.Time
	}
	errMsg         error
	tickMsg        time.Time
	statusClearMsg struct{}
)

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorCyan)

	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	return Model{
		loading:    true,
		spinner:    s,
		loader:     opts.Loader,
		interval:   interval,
		otherLimit: opts.OtherLimit,
		timezone:   opts.Timezone,
		version:    opts.Version,
		now:        time.Now,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchBoard,
		m.tick(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardMsg:
		m.board = msg.board
		m.hasBoard = true
		m.lastRefresh = msg.at
		m.loading = false
		m.err = nil
		m.clampSelection()
		return m, nil

	case errMsg:
		// Keep showing the last good board
		m.err = msg
		m.loading = false
		return m, nil

	case tickMsg:
		m.loading = true
		return m, tea.Batch(m.fetchBoard, m.tick())

	case statusClearMsg:
		if m.now().After(m.statusExpiry) {
			m.statusMessage = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return m, nil

	case "down", "j":
		if m.selectedIndex < len(m.visibleTasks())-1 {
			m.selectedIndex++
		}
		return m, nil

	case "g", "home":
		m.selectedIndex = 0
		return m, nil

	case "G", "end":
		if n := len(m.visibleTasks()); n > 0 {
			m.selectedIndex = n - 1
		}
		return m, nil

	case "a":
		m.showAll = !m.showAll
		m.clampSelection()
		if m.showAll {
			m.setStatus("Showing all other tasks")
		} else {
			m.setStatus(fmt.Sprintf("Showing first %d other tasks", m.otherLimit))
		}
		return m, m.clearStatusLater()

	case "r":
		m.loading = true
		m.setStatus("Refreshing...")
		return m, tea.Batch(m.fetchBoard, m.clearStatusLater())
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	if !m.hasBoard {
		if m.err != nil {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.spinner.View() + " Loading tasks...")
		}
		b.WriteString("\n\n")
		b.WriteString(m.renderStatusBar())
		return lipgloss.NewStyle().Padding(1).Render(b.String())
	}

	body := RenderBoard(m.board, RenderOptions{
		OtherLimit: m.limit(),
		Width:      m.width,
		Selected:   m.selectedIndex,
		Timezone:   m.timezone,
	})
	if m.height > 2*detailLines {
		// Leave room for the detail panel and status bar
		body = truncateLines(body, m.height-detailLines, DimStyle.Render("..."))
	}
	b.WriteString(body)

	if detail := m.renderTaskDetail(); detail != "" {
		b.WriteString("\n")
		b.WriteString(detail)
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Refresh failed: %v", m.err)))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Helper methods

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	m.statusExpiry = m.now().Add(statusTTL)
}

func (m Model) limit() int {
	if m.showAll {
		return 0
	}
	return m.otherLimit
}

func (m Model) visibleTasks() []board.Task {
	if !m.hasBoard {
		return nil
	}
	return VisibleTasks(m.board, m.limit())
}

func (m *Model) clampSelection() {
	n := len(m.visibleTasks())
	if m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

func (m Model) selectedTask() *board.Task {
	tasks := m.visibleTasks()
	if m.selectedIndex >= 0 && m.selectedIndex < len(tasks) {
		return &tasks[m.selectedIndex]
	}
	return nil
}

// renderTaskDetail renders the detail panel for the selected task.
func (m Model) renderTaskDetail() string {
	t := m.selectedTask()
	if t == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(t.Name))
	b.WriteString("\n")
	b.WriteString(m.renderDetailRow("Status", StatusBadge(t.Status)))
	b.WriteString(m.renderDetailRow("Priority", PriorityBadge(t.Priority)))
	b.WriteString(m.renderDetailRow("Project", projectLabel(*t)))

	due := DimStyle.Render("-")
	if t.Due != nil {
		due = t.Due.String()
		if days := m.board.DaysOverdue(*t); days > 0 {
			due += " " + OverdueStyle.Render(fmt.Sprintf("(%dd overdue)", days))
		}
	}
	b.WriteString(m.renderDetailRow("Due", due))

	if src := t.SourceLabel(); src != "" {
		b.WriteString(m.renderDetailRow("Source", src))
	}
	if t.LastTouched != nil {
		b.WriteString(m.renderDetailRow("Touched", formatAge(*t.LastTouched, m.now())))
	}
	b.WriteString(m.renderDetailRow("ID", DimStyle.Render(t.ID)))

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// renderDetailRow renders a label: value row in the detail panel.
func (m Model) renderDetailRow(label, value string) string {
	labelStyle := DimStyle.Width(10)
	return labelStyle.Render(label) + value + "\n"
}

// renderStatusBar renders the bottom status bar.
func (m Model) renderStatusBar() string {
	var info string
	switch {
	case m.loading && m.hasBoard:
		info = m.spinner.View() + DimStyle.Render(" refreshing")
	case !m.lastRefresh.IsZero():
		info = DimStyle.Render("updated " + formatAge(m.lastRefresh, m.now()))
	}
	if m.version != "" {
		info += DimStyle.Render("  v" + m.version)
	}

	// Help text
	help := []string{
		HelpKeyStyle.Render("↑↓/jk") + " nav",
		HelpKeyStyle.Render("a") + " all",
		HelpKeyStyle.Render("r") + " refresh",
		HelpKeyStyle.Render("q") + " quit",
	}
	helpLine := DimStyle.Render(strings.Join(help, "  "))

	// Calculate spacing using visible width, not byte length
	spacing := 30 - lipgloss.Width(info)
	if spacing < 2 {
		spacing = 2
	}

	// Separator
	sep := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(ColorGray)

	var b strings.Builder
	if m.statusMessage != "" {
		b.WriteString(StatusMsgStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}
	b.WriteString(info)
	b.WriteString(strings.Repeat(" ", spacing))
	b.WriteString(helpLine)

	return sep.Render(b.String())
}

// Commands

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// fetchBoard runs the loader. Each run rebuilds the board from scratch.
func (m Model) fetchBoard() tea.Msg {
	if m.loader == nil {
		return errMsg(fmt.Errorf("no loader configured"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	b, err := m.loader(ctx)
	if err != nil {
		logging.WithCommand("tui").WithError(err).Warn("refresh failed")
		return errMsg(err)
	}
	return boardMsg{board: b, at: m.now()}
}
