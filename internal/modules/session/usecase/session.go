package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brack/internal/modules/session/domain"
	sessiondto "brack/internal/modules/session/dto"
	sessionin "brack/internal/modules/session/port/in"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/modules/session/service"
	apperrors "brack/internal/platform/errors"
)

type Interactor struct {
	svc         *service.SessionService
	activeStore sessionout.ActiveSessionStore
	notes       sessionout.NoteSource
}

func NewInteractor(svc *service.SessionService, activeStore sessionout.ActiveSessionStore, notes sessionout.NoteSource) sessionin.Usecase {
	return &Interactor{svc: svc, activeStore: activeStore, notes: notes}
}

func (i *Interactor) Log(ctx context.Context, input sessiondto.LogInput) (sessiondto.SessionOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if input.DurationMin != nil && *input.DurationMin < 0 {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	session, err := i.svc.Log(ctx, input.UserID, input.BookID, input.DurationMin, input.At)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	if i.activeStore != nil {
		_, err := i.activeStore.LoadActive(ctx)
		if err == nil {
			return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
		}
		if !errors.Is(err, apperrors.ErrNoActiveSession) {
			return sessiondto.StartOutput{}, err
		}
	}

	active, err := i.svc.Start(ctx, input.UserID, input.BookID)
	if err != nil {
		return sessiondto.StartOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if i.activeStore != nil {
		if err := i.activeStore.SaveActive(ctx, active); err != nil {
			return sessiondto.StartOutput{}, err
		}
	}
	return sessiondto.StartOutput{SessionID: active.SessionID, BookID: active.BookID, StartedAt: active.StartedAt}, nil
}

func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.SessionOutput, error) {
	if i.activeStore == nil {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if input.SessionID != "" && input.SessionID != active.SessionID {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: session id mismatch", apperrors.ErrInvalidInput)
	}

	session, err := i.svc.End(ctx, active)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	if i.activeStore == nil {
		return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	return sessiondto.ActiveSessionOutput{
		SessionID: active.SessionID,
		UserID:    active.UserID,
		BookID:    active.BookID,
		StartedAt: active.StartedAt,
	}, nil
}

func (i *Interactor) List(ctx context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	sessions, err := i.svc.List(ctx, input.UserID, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toOutput(s))
	}
	return out, nil
}

func (i *Interactor) Import(ctx context.Context, input sessiondto.ImportInput) (sessiondto.ImportOutput, error) {
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.Dir) == "" {
		return sessiondto.ImportOutput{}, fmt.Errorf("%w: user id and directory are required", apperrors.ErrInvalidInput)
	}
	if i.notes == nil {
		return sessiondto.ImportOutput{}, fmt.Errorf("note source is not configured")
	}
	notes, err := i.notes.ListNotes(ctx, input.Dir)
	if err != nil {
		return sessiondto.ImportOutput{}, err
	}
	imported, skipped, err := i.svc.Import(ctx, input.UserID, notes)
	if err != nil {
		return sessiondto.ImportOutput{Imported: imported, Skipped: skipped}, err
	}
	return sessiondto.ImportOutput{Imported: imported, Skipped: skipped}, nil
}

func toOutput(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:          s.ID,
		UserID:      s.UserID,
		BookID:      s.BookID,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		DurationMin: s.DurationMin,
		Origin:      string(s.Origin),
		CreatedAt:   s.CreatedAt,
	}
}
