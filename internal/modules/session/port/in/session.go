package in

import (
	"context"

	"brack/internal/modules/session/dto"
)

type Usecase interface {
	Log(ctx context.Context, input dto.LogInput) (dto.SessionOutput, error)
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.SessionOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
}
