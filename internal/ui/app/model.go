package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "brack/internal/modules/session/dto"
	streakdto "brack/internal/modules/streak/dto"
	apperrors "brack/internal/platform/errors"
	"brack/internal/ui/components"
	"brack/internal/ui/theme"
	calendarview "brack/internal/ui/views/calendar"
	sessionsview "brack/internal/ui/views/sessions"
	streakview "brack/internal/ui/views/streak"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type streakPort interface {
	streakview.StreakPort
	calendarview.CalendarPort
	Refresh(ctx context.Context, userID string) (streakdto.RefreshOutput, error)
	Freeze(ctx context.Context, userID string) (streakdto.FreezeOutput, error)
	Export(ctx context.Context, userID, dir string) (streakdto.ExportOutput, error)
}

type sessionPort interface {
	sessionsview.SessionsPort
	Log(ctx context.Context, userID, bookID string, minutes *int, at time.Time) (sessiondto.SessionOutput, error)
	Start(ctx context.Context, userID, bookID string) (sessiondto.StartOutput, error)
	End(ctx context.Context) (sessiondto.SessionOutput, error)
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabStreak tabID = iota
	tabCalendar
	tabSessions
	tabCount
)

var tabLabels = [tabCount]string{"Streak", "Calendar", "Sessions"}

// ─── async messages ──────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active sessiondto.ActiveSessionOutput
	err    error
}

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

// changedMsg reports a write; every tab reloads after it.
type changedMsg struct {
	status string
	ended  bool
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Timer   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh streak")),
		Timer:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop timer")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh, k.Timer},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs, tracks the running
// timer and executes palette commands against the ports.
type Model struct {
	userID  string
	streak  streakPort
	session sessionPort

	streakView   streakview.Model
	calendarView calendarview.Model
	sessionsView sessionsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	active    sessiondto.ActiveSessionOutput
	hasActive bool
	status    string
	width     int
	height    int
}

func NewModel(userID string, streak streakPort, session sessionPort) Model {
	return Model{
		userID:       userID,
		streak:       streak,
		session:      session,
		streakView:   streakview.New(streak, userID),
		calendarView: calendarview.New(streak, userID),
		sessionsView: sessionsview.New(session, userID),
		activeTab:    tabStreak,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.streakView.Init(),
		m.calendarView.Init(),
		m.sessionsView.Init(),
		m.loadActiveCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "active session check: " + msg.err.Error()
			}
			m.hasActive = false
		} else {
			m.hasActive = true
			m.active = msg.active
			m.status = "timer recovered"
		}
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "timer start failed: " + msg.err.Error()
		} else {
			m.hasActive = true
			m.active = sessiondto.ActiveSessionOutput{SessionID: msg.out.SessionID, UserID: m.userID, BookID: msg.out.BookID, StartedAt: msg.out.StartedAt}
			m.status = "timer started"
		}
		return m, nil

	case changedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if msg.ended {
			m.hasActive = false
			m.active = sessiondto.ActiveSessionOutput{}
		}
		m.status = msg.status
		return m, m.reloadAll()

	case streakview.LoadedMsg:
		var cmd tea.Cmd
		m.streakView, cmd = m.streakView.Update(msg)
		return m, cmd

	case calendarview.LoadedMsg:
		var cmd tea.Cmd
		m.calendarView, cmd = m.calendarView.Update(msg)
		return m, cmd

	case sessionsview.LoadedMsg:
		var cmd tea.Cmd
		m.sessionsView, cmd = m.sessionsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabSessions && m.sessionsView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, m.refreshCmd()
		case "s":
			if m.hasActive {
				return m, m.endTimerCmd()
			}
			return m, m.startTimerCmd(m.sessionsView.SelectedBookID())
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabStreak:
		m.streakView, tabCmd = m.streakView.Update(msg)
	case tabCalendar:
		m.calendarView, tabCmd = m.calendarView.Update(msg)
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		switch m.activeTab {
		case tabStreak:
			content = m.streakView.View()
		case tabCalendar:
			content = m.calendarView.View()
		case tabSessions:
			content = m.sessionsView.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.TabActive.Render(tabLabels[i])
		} else {
			parts[i] = theme.Tab.Render(tabLabels[i])
		}
	}
	flame := fmt.Sprintf("🔥 %d", m.streakView.Current().CurrentStreak)
	bar := "brack  " + flame + "  " + strings.Join(parts, " ")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		elapsed := time.Since(m.active.StartedAt).Truncate(time.Minute)
		left = theme.Hot.Render("● reading "+elapsed.String()) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "session:log":
		if len(parts) < 2 {
			m.status = "usage: session:log <minutes> [book]"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes < 0 {
			m.status = "invalid minutes"
			return m, nil
		}
		book := ""
		if len(parts) >= 3 {
			book = parts[2]
		}
		return m, m.logCmd(book, minutes)

	case "session:start":
		book := m.sessionsView.SelectedBookID()
		if len(parts) >= 2 {
			book = parts[1]
		}
		return m, m.startTimerCmd(book)

	case "session:end":
		return m, m.endTimerCmd()

	case "streak:refresh":
		return m, m.refreshCmd()

	case "streak:freeze":
		return m, m.freezeCmd()

	case "streak:export":
		if len(parts) < 2 {
			m.status = "usage: streak:export <dir>"
			return m, nil
		}
		return m, m.exportCmd(parts[1])

	case "reload":
		m.status = "reloading"
		return m, m.reloadAll()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.streakView, _ = m.streakView.Update(sz)
	m.calendarView, _ = m.calendarView.Update(sz)
	m.sessionsView, _ = m.sessionsView.Update(sz)
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(m.streakView.Reload(), m.calendarView.Reload(), m.sessionsView.Reload())
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.GetActive(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) startTimerCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), m.userID, bookID)
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) endTimerCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.End(context.Background())
		if err != nil {
			return changedMsg{err: fmt.Errorf("timer end failed: %w", err)}
		}
		if _, err := m.streak.Refresh(context.Background(), m.userID); err != nil {
			return changedMsg{err: fmt.Errorf("streak refresh failed: %w", err)}
		}
		return changedMsg{status: "session saved (" + minutesText(out.DurationMin) + ")", ended: true}
	}
}

func (m Model) logCmd(bookID string, minutes int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.session.Log(context.Background(), m.userID, bookID, &minutes, time.Time{}); err != nil {
			return changedMsg{err: fmt.Errorf("session log failed: %w", err)}
		}
		out, err := m.streak.Refresh(context.Background(), m.userID)
		if err != nil {
			return changedMsg{err: fmt.Errorf("streak refresh failed: %w", err)}
		}
		return changedMsg{status: fmt.Sprintf("logged %d min, streak %d", minutes, out.Streak.CurrentStreak)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.streak.Refresh(context.Background(), m.userID)
		if err != nil {
			return changedMsg{err: fmt.Errorf("streak refresh failed: %w", err)}
		}
		status := fmt.Sprintf("streak %d (longest %d)", out.Streak.CurrentStreak, out.Streak.LongestStreak)
		if out.NewLongestSaved {
			status += ", new record"
		}
		return changedMsg{status: status}
	}
}

func (m Model) freezeCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.streak.Freeze(context.Background(), m.userID)
		if errors.Is(err, apperrors.ErrFreezeUnavailable) {
			return changedMsg{err: errors.New("freeze already used in the last 7 days")}
		}
		if err != nil {
			return changedMsg{err: fmt.Errorf("freeze failed: %w", err)}
		}
		return changedMsg{status: fmt.Sprintf("streak frozen, now %d", out.Streak.CurrentStreak)}
	}
}

func (m Model) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.streak.Export(context.Background(), m.userID, dir)
		if err != nil {
			return changedMsg{err: fmt.Errorf("export failed: %w", err)}
		}
		return changedMsg{status: "report written to " + out.Path}
	}
}

func minutesText(d *int) string {
	if d == nil {
		return "no duration"
	}
	return fmt.Sprintf("%d min", *d)
}
