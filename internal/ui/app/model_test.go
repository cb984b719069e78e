package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "brack/internal/modules/session/dto"
	streakdto "brack/internal/modules/streak/dto"
	apperrors "brack/internal/platform/errors"
	"brack/internal/ui/components"
)

type fakeStreak struct {
	refreshed int
	frozen    bool
}

func (f *fakeStreak) Show(context.Context, string) (streakdto.StreakOutput, error) {
	return streakdto.StreakOutput{CurrentStreak: 4}, nil
}
func (f *fakeStreak) History(context.Context, string) (streakdto.HistoryOutput, error) {
	return streakdto.HistoryOutput{}, nil
}
func (f *fakeStreak) Calendar(context.Context, string, int) (streakdto.CalendarOutput, error) {
	return streakdto.CalendarOutput{}, nil
}
func (f *fakeStreak) Refresh(context.Context, string) (streakdto.RefreshOutput, error) {
	f.refreshed++
	return streakdto.RefreshOutput{Streak: streakdto.StreakOutput{CurrentStreak: 5, LongestStreak: 5}, NewLongestSaved: true}, nil
}
func (f *fakeStreak) Freeze(context.Context, string) (streakdto.FreezeOutput, error) {
	if f.frozen {
		return streakdto.FreezeOutput{}, apperrors.ErrFreezeUnavailable
	}
	f.frozen = true
	return streakdto.FreezeOutput{}, nil
}
func (f *fakeStreak) Export(context.Context, string, string) (streakdto.ExportOutput, error) {
	return streakdto.ExportOutput{Path: "/tmp/u.md"}, nil
}

type fakeSession struct {
	logged []int
}

func (f *fakeSession) List(context.Context, string, int) ([]sessiondto.SessionOutput, error) {
	return nil, nil
}
func (f *fakeSession) Log(_ context.Context, _ string, _ string, minutes *int, _ time.Time) (sessiondto.SessionOutput, error) {
	f.logged = append(f.logged, *minutes)
	return sessiondto.SessionOutput{}, nil
}
func (f *fakeSession) Start(context.Context, string, string) (sessiondto.StartOutput, error) {
	return sessiondto.StartOutput{SessionID: "s1"}, nil
}
func (f *fakeSession) End(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
}
func (f *fakeSession) GetActive(context.Context) (sessiondto.ActiveSessionOutput, error) {
	return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
}

func submit(t *testing.T, m Model, input string) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
	model := next.(Model)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func TestPaletteLogRefreshesStreak(t *testing.T) {
	t.Parallel()
	st, se := &fakeStreak{}, &fakeSession{}
	m := NewModel("u1", st, se)

	m, msg := submit(t, m, "session:log 25 book-1")
	changed, ok := msg.(changedMsg)
	if !ok {
		t.Fatalf("expected changedMsg, got %T", msg)
	}
	if changed.err != nil {
		t.Fatalf("unexpected error: %v", changed.err)
	}
	if len(se.logged) != 1 || se.logged[0] != 25 || st.refreshed != 1 {
		t.Fatalf("log not executed: logged=%v refreshed=%d", se.logged, st.refreshed)
	}

	next, _ := m.Update(changed)
	if got := next.(Model).status; got != "logged 25 min, streak 5" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	t.Parallel()
	m := NewModel("u1", &fakeStreak{}, &fakeSession{})

	m, _ = submit(t, m, "session:log abc")
	if m.status != "invalid minutes" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m, _ = submit(t, m, "collab:status")
	if m.status != "unknown command: collab:status" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPaletteFreezeTwice(t *testing.T) {
	t.Parallel()
	m := NewModel("u1", &fakeStreak{}, &fakeSession{})

	m, msg := submit(t, m, "streak:freeze")
	if msg.(changedMsg).err != nil {
		t.Fatalf("first freeze should succeed")
	}
	_, msg = submit(t, m, "streak:freeze")
	if msg.(changedMsg).err == nil {
		t.Fatalf("second freeze should be refused")
	}
}

func TestEndWithoutTimerReportsError(t *testing.T) {
	t.Parallel()
	m := NewModel("u1", &fakeStreak{}, &fakeSession{})
	_, msg := submit(t, m, "session:end")
	changed := msg.(changedMsg)
	if changed.err == nil || changed.ended {
		t.Fatalf("expected failure without a running timer, got %+v", changed)
	}
}

func TestTabCycling(t *testing.T) {
	t.Parallel()
	m := NewModel("u1", &fakeStreak{}, &fakeSession{})
	for range int(tabCount) {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
	}
	if m.activeTab != tabStreak {
		t.Fatalf("expected wrap around to streak tab, got %d", m.activeTab)
	}
}
