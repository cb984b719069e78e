package in

import (
	"context"

	streakdto "brack/internal/modules/streak/dto"
	streakin "brack/internal/modules/streak/port/in"
)

type CLIHandler struct {
	usecase streakin.Usecase
}

func NewCLIHandler(usecase streakin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, userID string) (streakdto.StreakOutput, error) {
	return h.usecase.Show(ctx, streakdto.ShowInput{UserID: userID})
}

func (h CLIHandler) Refresh(ctx context.Context, userID string) (streakdto.RefreshOutput, error) {
	return h.usecase.Refresh(ctx, streakdto.RefreshInput{UserID: userID})
}

func (h CLIHandler) Calendar(ctx context.Context, userID string, days int) (streakdto.CalendarOutput, error) {
	return h.usecase.Calendar(ctx, streakdto.CalendarInput{UserID: userID, Days: days})
}

func (h CLIHandler) Milestones(ctx context.Context, streak int) (streakdto.MilestonesOutput, error) {
	return h.usecase.Milestones(ctx, streakdto.MilestonesInput{Streak: streak})
}

func (h CLIHandler) Freeze(ctx context.Context, userID string) (streakdto.FreezeOutput, error) {
	return h.usecase.UseFreeze(ctx, streakdto.FreezeInput{UserID: userID})
}

func (h CLIHandler) History(ctx context.Context, userID string) (streakdto.HistoryOutput, error) {
	return h.usecase.History(ctx, streakdto.HistoryInput{UserID: userID})
}

func (h CLIHandler) Export(ctx context.Context, userID, dir string) (streakdto.ExportOutput, error) {
	return h.usecase.Export(ctx, streakdto.ExportInput{UserID: userID, Dir: dir})
}
