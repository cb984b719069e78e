package streak

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	streakdto "brack/internal/modules/streak/dto"
	"brack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StreakPort interface {
	Show(ctx context.Context, userID string) (streakdto.StreakOutput, error)
	History(ctx context.Context, userID string) (streakdto.HistoryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Streak  streakdto.StreakOutput
	History streakdto.HistoryOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    StreakPort
	userID  string
	streak  streakdto.StreakOutput
	history streakdto.HistoryOutput
	err     error
	body    viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port StreakPort, userID string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, userID: userID, body: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the streak and its history again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("streak adapter not configured")}
		}
		ctx := context.Background()
		s, err := m.port.Show(ctx, m.userID)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		h, err := m.port.History(ctx, m.userID)
		return LoadedMsg{Streak: s, History: h, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width - 4
		m.body.Height = msg.Height - 2
		m.body.SetContent(m.render())

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.streak = msg.Streak
			m.history = msg.History
		}
		m.body.SetContent(m.render())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.body, vCmd = m.body.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading streak…")
	}
	return m.body.View()
}

// Current returns the last loaded streak.
func (m Model) Current() streakdto.StreakOutput { return m.streak }

func (m Model) render() string {
	if m.err != nil {
		return theme.Hot.Render("streak: " + m.err.Error())
	}
	s := m.streak
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Reading streak") + "\n\n")
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("%d", s.CurrentStreak)) + theme.Muted.Render(" day(s) current") + "\n")
	sb.WriteString(fmt.Sprintf("%d", s.LongestStreak) + theme.Muted.Render(" day(s) longest") + "\n")
	last := "never"
	if s.LastReadingDate != nil {
		last = *s.LastReadingDate
	}
	sb.WriteString(theme.Muted.Render("last read: ") + last + "\n")

	switch {
	case s.CanUseFreezeToday && s.FreezeAvailable:
		sb.WriteString(theme.Hot.Render("No reading yet today. A freeze can save the streak (:streak:freeze)") + "\n")
	case s.CanUseFreezeToday:
		sb.WriteString(theme.Muted.Render("No reading yet today. Freeze already used this week.") + "\n")
	case s.FreezeAvailable:
		sb.WriteString(theme.Muted.Render("freeze: available") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("freeze: used this week") + "\n")
	}

	if len(s.Milestones) > 0 {
		sb.WriteString("\n")
		for _, label := range s.Milestones {
			sb.WriteString(theme.Badge.Render("★ "+label) + "\n")
		}
	}

	if len(m.history.Badges) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Badges") + "\n")
		for _, b := range m.history.Badges {
			if b.Achieved && b.AchievedAt != nil {
				sb.WriteString(theme.Badge.Render(fmt.Sprintf("  ● %3d days", b.Threshold)) + "  " + b.AchievedAt.Format("2006-01-02") + "\n")
			} else {
				sb.WriteString(theme.Muted.Render(fmt.Sprintf("  ○ %3d days", b.Threshold)) + "\n")
			}
		}
	}
	return sb.String()
}
