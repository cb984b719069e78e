package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	streakdto "brack/internal/modules/streak/dto"
	"brack/internal/ui/theme"
)

type CalendarPort interface {
	Calendar(ctx context.Context, userID string, days int) (streakdto.CalendarOutput, error)
}

type LoadedMsg struct {
	Days []streakdto.DayOutput
	Err  error
}

type Model struct {
	port    CalendarPort
	userID  string
	days    []streakdto.DayOutput
	err     error
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port CalendarPort, userID string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, userID: userID, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the default calendar window.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("calendar adapter not configured")}
		}
		out, err := m.port.Calendar(context.Background(), m.userID, 0)
		return LoadedMsg{Days: out.Days, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.days = msg.Days
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading calendar…")
	}
	if m.err != nil {
		return theme.Hot.Render("calendar: " + m.err.Error())
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		theme.Title.Render(fmt.Sprintf("Last %d days", len(m.days))) + "\n\n" + Heatmap(m.days) + "\n" + m.summary(),
	)
}

var weekdayLabels = [7]string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}

// Heatmap lays days out as a weekday by week grid, oldest week first.
func Heatmap(days []streakdto.DayOutput) string {
	if len(days) == 0 {
		return theme.Muted.Render("no days")
	}
	first, err := time.Parse("2006-01-02", days[0].Date)
	if err != nil {
		return theme.Muted.Render("bad date " + days[0].Date)
	}
	offset := (int(first.Weekday()) + 6) % 7
	weeks := (offset + len(days) + 6) / 7

	grid := make([][]string, 7)
	for row := range grid {
		grid[row] = make([]string, weeks)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for i, d := range days {
		slot := offset + i
		grid[slot%7][slot/7] = theme.Heat[level(d)].Render("■")
	}

	var sb strings.Builder
	for row, cells := range grid {
		sb.WriteString(theme.Muted.Render(weekdayLabels[row]) + " " + strings.Join(cells, " ") + "\n")
	}
	return sb.String()
}

func level(d streakdto.DayOutput) int {
	switch {
	case !d.HasActivity:
		return 0
	case d.TotalMinutes < 15:
		return 1
	case d.TotalMinutes < 45:
		return 2
	default:
		return 3
	}
}

func (m Model) summary() string {
	active, minutes := 0, 0
	for _, d := range m.days {
		if d.HasActivity {
			active++
		}
		minutes += d.TotalMinutes
	}
	return theme.Muted.Render(fmt.Sprintf("%d active day(s), %d minute(s) read", active, minutes))
}
