package in

import (
	"context"
	"time"

	sessiondto "brack/internal/modules/session/dto"
	sessionin "brack/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Log(ctx context.Context, userID, bookID string, minutes *int, at time.Time) (sessiondto.SessionOutput, error) {
	return h.usecase.Log(ctx, sessiondto.LogInput{UserID: userID, BookID: bookID, DurationMin: minutes, At: at})
}

func (h CLIHandler) Start(ctx context.Context, userID, bookID string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{UserID: userID, BookID: bookID})
}

func (h CLIHandler) End(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{})
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) List(ctx context.Context, userID string, limit int) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, sessiondto.ListInput{UserID: userID, Limit: limit})
}

func (h CLIHandler) Import(ctx context.Context, userID, dir string) (sessiondto.ImportOutput, error) {
	return h.usecase.Import(ctx, sessiondto.ImportInput{UserID: userID, Dir: dir})
}
