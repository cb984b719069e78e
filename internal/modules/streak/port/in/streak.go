package in

import (
	"context"

	"brack/internal/modules/streak/dto"
)

type Usecase interface {
	Show(ctx context.Context, input dto.ShowInput) (dto.StreakOutput, error)
	Refresh(ctx context.Context, input dto.RefreshInput) (dto.RefreshOutput, error)
	Calendar(ctx context.Context, input dto.CalendarInput) (dto.CalendarOutput, error)
	Milestones(ctx context.Context, input dto.MilestonesInput) (dto.MilestonesOutput, error)
	UseFreeze(ctx context.Context, input dto.FreezeInput) (dto.FreezeOutput, error)
	History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
