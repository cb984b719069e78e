package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "brack/internal/modules/session/dto"
	"brack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionsPort interface {
	List(ctx context.Context, userID string, limit int) ([]sessiondto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
}

func (i sessionItem) Title() string {
	return i.session.CreatedAt.Local().Format("Mon 2006-01-02 15:04")
}

func (i sessionItem) Description() string {
	book := i.session.BookID
	if book == "" {
		book = "—"
	}
	return fmt.Sprintf("%s  %s  %s", minutesLabel(i.session.DurationMin), book, i.session.Origin)
}

func (i sessionItem) FilterValue() string { return i.session.BookID }

// ─── model ───────────────────────────────────────────────────────────────────

const listLimit = 200

type Model struct {
	port    SessionsPort
	userID  string
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port SessionsPort, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, userID: userID, list: l, preview: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the most recent sessions.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("session adapter not configured")}
		}
		out, err := m.port.List(context.Background(), m.userID, listLimit)
		return LoadedMsg{Sessions: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Sessions: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SelectedBookID returns the book of the highlighted session.
func (m Model) SelectedBookID() string {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.BookID
	}
	return ""
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No sessions yet. Log one with :session:log <minutes>")
	}
	s := item.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.ID) + "\n\n")
	sb.WriteString(theme.Muted.Render("book:     ") + s.BookID + "\n")
	sb.WriteString(theme.Muted.Render("origin:   ") + s.Origin + "\n")
	sb.WriteString(theme.Muted.Render("duration: ") + minutesLabel(s.DurationMin) + "\n")
	if s.StartedAt != nil {
		sb.WriteString(theme.Muted.Render("started:  ") + s.StartedAt.Local().Format("2006-01-02 15:04") + "\n")
	}
	if s.EndedAt != nil {
		sb.WriteString(theme.Muted.Render("ended:    ") + s.EndedAt.Local().Format("2006-01-02 15:04") + "\n")
	}
	sb.WriteString(theme.Muted.Render("logged:   ") + s.CreatedAt.Local().Format("2006-01-02 15:04") + "\n")
	return sb.String()
}

func minutesLabel(d *int) string {
	if d == nil {
		return "no duration"
	}
	return fmt.Sprintf("%d min", *d)
}
