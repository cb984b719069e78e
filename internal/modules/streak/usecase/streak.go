package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"brack/internal/modules/streak/domain"
	streakdto "brack/internal/modules/streak/dto"
	streakin "brack/internal/modules/streak/port/in"
	streakout "brack/internal/modules/streak/port/out"
	"brack/internal/modules/streak/service"
	apperrors "brack/internal/platform/errors"
)

// ReportDays is the number of calendar days rendered into an exported report.
const ReportDays = 30

type Interactor struct {
	svc          *service.StreakService
	sessions     streakout.SessionSource
	reports      streakout.ReportWriter
	calendarDays int
}

func NewInteractor(svc *service.StreakService, sessions streakout.SessionSource, reports streakout.ReportWriter, calendarDays int) streakin.Usecase {
	return &Interactor{svc: svc, sessions: sessions, reports: reports, calendarDays: calendarDays}
}

type snapshot struct {
	sessions []domain.ReadingSession
	profile  *domain.Profile
	now      time.Time
}

// load fetches the user's sessions and profile concurrently.
func (i *Interactor) load(ctx context.Context, userID string) (snapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return snapshot{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	snap := snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, err := i.sessions.ListSessions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		snap.sessions = sessions
		return nil
	})
	g.Go(func() error {
		profile, err := i.svc.LoadProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		snap.profile = profile
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	snap.now = i.svc.Now()
	return snap, nil
}

func (i *Interactor) Show(ctx context.Context, input streakdto.ShowInput) (streakdto.StreakOutput, error) {
	snap, err := i.load(ctx, input.UserID)
	if err != nil {
		return streakdto.StreakOutput{}, err
	}
	return toStreakOutput(input.UserID, i.svc.Compute(snap.sessions, snap.profile, snap.now)), nil
}

func (i *Interactor) Refresh(ctx context.Context, input streakdto.RefreshInput) (streakdto.RefreshOutput, error) {
	snap, err := i.load(ctx, input.UserID)
	if err != nil {
		return streakdto.RefreshOutput{}, err
	}
	computed := i.svc.Compute(snap.sessions, snap.profile, snap.now)
	persisted, newLongest, err := i.svc.Persist(ctx, input.UserID, snap.profile, computed, snap.now)
	if err != nil {
		return streakdto.RefreshOutput{}, err
	}
	return streakdto.RefreshOutput{
		Streak:          toStreakOutput(input.UserID, computed),
		Persisted:       persisted,
		NewLongestSaved: newLongest,
	}, nil
}

func (i *Interactor) Calendar(ctx context.Context, input streakdto.CalendarInput) (streakdto.CalendarOutput, error) {
	if input.Days < 0 || input.Days > domain.MaxWindowDays {
		return streakdto.CalendarOutput{}, fmt.Errorf("%w: days must be between 1 and %d", apperrors.ErrInvalidWindow, domain.MaxWindowDays)
	}
	days := input.Days
	if days == 0 {
		days = i.calendarDays
	}
	snap, err := i.load(ctx, input.UserID)
	if err != nil {
		return streakdto.CalendarOutput{}, err
	}
	calendar, err := i.svc.Calendar(snap.sessions, days, snap.now)
	if err != nil {
		return streakdto.CalendarOutput{}, err
	}
	return streakdto.CalendarOutput{UserID: input.UserID, Days: toDayOutputs(calendar)}, nil
}

func (i *Interactor) Milestones(_ context.Context, input streakdto.MilestonesInput) (streakdto.MilestonesOutput, error) {
	if input.Streak < 0 {
		return streakdto.MilestonesOutput{}, fmt.Errorf("%w: streak must be non-negative", apperrors.ErrInvalidInput)
	}
	table := domain.Milestones()
	out := streakdto.MilestonesOutput{
		Streak:     input.Streak,
		Milestones: domain.StreakMilestones(input.Streak),
		Table:      make([]streakdto.MilestoneOutput, 0, len(table)),
	}
	for _, m := range table {
		out.Table = append(out.Table, streakdto.MilestoneOutput{Threshold: m.Threshold, Label: m.Label})
	}
	return out, nil
}

func (i *Interactor) UseFreeze(ctx context.Context, input streakdto.FreezeInput) (streakdto.FreezeOutput, error) {
	snap, err := i.load(ctx, input.UserID)
	if err != nil {
		return streakdto.FreezeOutput{}, err
	}
	profile, computed, err := i.svc.Freeze(ctx, input.UserID, snap.sessions, snap.profile, snap.now)
	if err != nil {
		return streakdto.FreezeOutput{}, err
	}
	return streakdto.FreezeOutput{UsedAt: *profile.StreakFreezeUsedAt, Streak: toStreakOutput(input.UserID, computed)}, nil
}

func (i *Interactor) History(ctx context.Context, input streakdto.HistoryInput) (streakdto.HistoryOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return streakdto.HistoryOutput{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	entries, err := i.svc.History(ctx, input.UserID)
	if err != nil {
		return streakdto.HistoryOutput{}, err
	}
	out := streakdto.HistoryOutput{
		UserID:  input.UserID,
		Entries: make([]streakdto.HistoryEntryOutput, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, toHistoryEntryOutput(e))
	}
	for _, b := range domain.MilestoneBadges(entries) {
		out.Badges = append(out.Badges, streakdto.BadgeOutput{Threshold: b.Threshold, Achieved: b.Achieved, AchievedAt: b.AchievedAt})
	}
	if longest, ok := domain.LongestHistoryEntry(entries); ok {
		entry := toHistoryEntryOutput(longest)
		out.Longest = &entry
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context, input streakdto.ExportInput) (streakdto.ExportOutput, error) {
	if i.reports == nil {
		return streakdto.ExportOutput{}, fmt.Errorf("report writer is not configured")
	}
	if strings.TrimSpace(input.Dir) == "" {
		return streakdto.ExportOutput{}, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	snap, err := i.load(ctx, input.UserID)
	if err != nil {
		return streakdto.ExportOutput{}, err
	}
	calendar, err := i.svc.Calendar(snap.sessions, ReportDays, snap.now)
	if err != nil {
		return streakdto.ExportOutput{}, err
	}
	computed := i.svc.Compute(snap.sessions, snap.profile, snap.now)
	path, err := i.reports.Write(ctx, input.Dir, domain.Report{
		UserID:      input.UserID,
		GeneratedAt: snap.now,
		Streak:      computed,
		Milestones:  domain.StreakMilestones(computed.CurrentStreak),
		Calendar:    calendar,
	})
	if err != nil {
		return streakdto.ExportOutput{}, err
	}
	return streakdto.ExportOutput{Path: path}, nil
}

func toStreakOutput(userID string, data domain.StreakData) streakdto.StreakOutput {
	out := streakdto.StreakOutput{
		UserID:            userID,
		CurrentStreak:     data.CurrentStreak,
		LongestStreak:     data.LongestStreak,
		CanUseFreezeToday: data.CanUseFreezeToday,
		FreezeAvailable:   data.FreezeAvailable,
		Milestones:        domain.StreakMilestones(data.CurrentStreak),
	}
	if data.LastReadingDate != "" {
		last := data.LastReadingDate
		out.LastReadingDate = &last
	}
	return out
}

func toDayOutputs(days []domain.DayActivity) []streakdto.DayOutput {
	out := make([]streakdto.DayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, streakdto.DayOutput{
			Date:         d.Date,
			HasActivity:  d.HasActivity,
			SessionCount: d.SessionCount,
			TotalMinutes: d.TotalMinutes,
		})
	}
	return out
}

func toHistoryEntryOutput(e domain.HistoryEntry) streakdto.HistoryEntryOutput {
	return streakdto.HistoryEntryOutput{ID: e.ID, StreakCount: e.StreakCount, AchievedAt: e.AchievedAt}
}
