package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/platform/markdown"
)

// VaultNoteSource reads session notes (markdown with a YAML header) from a
// directory tree.
type VaultNoteSource struct{}

func NewVaultNoteSource() sessionout.NoteSource {
	return VaultNoteSource{}
}

type noteFrontmatter struct {
	ID              string `yaml:"id"`
	SourceID        string `yaml:"source_id"`
	BookID          string `yaml:"book_id"`
	StartedAt       string `yaml:"started_at"`
	EndedAt         string `yaml:"ended_at"`
	DurationMinutes *int   `yaml:"duration_minutes"`
}

func (VaultNoteSource) ListNotes(ctx context.Context, dir string) ([]domain.Note, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk notes: %w", err)
	}
	sort.Strings(paths)

	out := make([]domain.Note, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var meta noteFrontmatter
		_, ok, err := markdown.DecodeFrontmatter(string(content), &meta)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if !ok || strings.TrimSpace(meta.StartedAt) == "" {
			continue
		}
		note, err := toNote(path, meta)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", path, err)
		}
		note.Key = filepath.ToSlash(rel)
		out = append(out, note)
	}
	return out, nil
}

func toNote(path string, meta noteFrontmatter) (domain.Note, error) {
	startedAt, err := time.Parse(time.RFC3339, meta.StartedAt)
	if err != nil {
		return domain.Note{}, fmt.Errorf("started_at: %w", err)
	}
	note := domain.Note{
		Path:        path,
		ID:          meta.ID,
		BookID:      meta.BookID,
		StartedAt:   startedAt,
		DurationMin: meta.DurationMinutes,
	}
	if note.BookID == "" {
		note.BookID = meta.SourceID
	}
	if strings.TrimSpace(meta.EndedAt) != "" {
		endedAt, err := time.Parse(time.RFC3339, meta.EndedAt)
		if err != nil {
			return domain.Note{}, fmt.Errorf("ended_at: %w", err)
		}
		note.EndedAt = &endedAt
	}
	return note, nil
}
