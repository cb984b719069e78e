package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	apperrors "brack/internal/platform/errors"
)

const activeFileVersion = 1

// activeFile is the on-disk envelope. A nil Session reads as no timer.
type activeFile struct {
	Version int                   `json:"version"`
	SavedAt time.Time             `json:"saved_at"`
	Session *domain.ActiveSession `json:"session"`
}

// FileActiveSessionStore keeps the single running timer in a JSON file so
// that `session start` and `session end` can run as separate processes.
type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(path string) sessionout.ActiveSessionStore {
	return &FileActiveSessionStore{path: path}
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.ActiveSession) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(activeFile{
		Version: activeFileVersion,
		SavedAt: time.Now().UTC(),
		Session: &session,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode active session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".active-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write active session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.ActiveSession, error) {
	payload, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.ActiveSession{}, apperrors.ErrNoActiveSession
	case err != nil:
		return domain.ActiveSession{}, fmt.Errorf("read active session: %w", err)
	}
	var file activeFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.ActiveSession{}, fmt.Errorf("decode active session: %w", err)
	}
	if file.Version > activeFileVersion {
		return domain.ActiveSession{}, fmt.Errorf("active session file version %d is newer than supported %d", file.Version, activeFileVersion)
	}
	if file.Session == nil || file.Session.SessionID == "" {
		return domain.ActiveSession{}, apperrors.ErrNoActiveSession
	}
	return *file.Session, nil
}

// ClearActive is a no-op when no timer is running.
func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
