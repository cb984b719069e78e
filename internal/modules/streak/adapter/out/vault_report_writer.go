package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brack/internal/modules/streak/domain"
	streakout "brack/internal/modules/streak/port/out"
	"brack/internal/platform/markdown"
	"brack/internal/platform/slug"
)

type VaultReportWriter struct{}

func NewVaultReportWriter() streakout.ReportWriter {
	return VaultReportWriter{}
}

type reportFrontmatter struct {
	Type            string `yaml:"type"`
	SchemaVersion   int    `yaml:"schema_version"`
	UserID          string `yaml:"user_id"`
	GeneratedAt     string `yaml:"generated_at"`
	CurrentStreak   int    `yaml:"current_streak"`
	LongestStreak   int    `yaml:"longest_streak"`
	LastReadingDate string `yaml:"last_reading_date,omitempty"`
}

// Write renders report into <dir>/streaks/<user>.md. Text outside the managed
// block survives re-export.
func (VaultReportWriter) Write(_ context.Context, dir string, report domain.Report) (string, error) {
	path := filepath.Join(dir, "streaks", slug.Make(report.UserID)+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	body := "# Reading streak\n\n## Notes\n"
	if existing, err := os.ReadFile(path); err == nil {
		var ignored map[string]any
		if existingBody, ok, decodeErr := markdown.DecodeFrontmatter(string(existing), &ignored); decodeErr == nil && ok {
			body = existingBody
		}
	}
	body = markdown.ReplaceManagedBlock(body, domain.ManagedReportStart, domain.ManagedReportEnd, renderSummary(report))

	rendered, err := markdown.RenderFrontmatter(reportFrontmatter{
		Type:            "streak-report",
		SchemaVersion:   domain.SchemaVersion,
		UserID:          report.UserID,
		GeneratedAt:     report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		CurrentStreak:   report.Streak.CurrentStreak,
		LongestStreak:   report.Streak.LongestStreak,
		LastReadingDate: report.Streak.LastReadingDate,
	}, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report markdown: %w", err)
	}
	return path, nil
}

func renderSummary(report domain.Report) string {
	b := strings.Builder{}
	last := report.Streak.LastReadingDate
	if last == "" {
		last = "never"
	}
	fmt.Fprintf(&b, "- Current streak: %d\n", report.Streak.CurrentStreak)
	fmt.Fprintf(&b, "- Longest streak: %d\n", report.Streak.LongestStreak)
	fmt.Fprintf(&b, "- Last reading day: %s\n", last)
	if report.Streak.FreezeAvailable {
		b.WriteString("- Streak freeze: available\n")
	} else {
		b.WriteString("- Streak freeze: used this week\n")
	}
	for _, label := range report.Milestones {
		fmt.Fprintf(&b, "- Milestone: %s\n", label)
	}
	if len(report.Calendar) > 0 {
		b.WriteString("\n| Date | Sessions | Minutes |\n|---|---|---|\n")
		for _, day := range report.Calendar {
			if !day.HasActivity {
				continue
			}
			fmt.Fprintf(&b, "| %s | %d | %d |\n", day.Date, day.SessionCount, day.TotalMinutes)
		}
	}
	return b.String()
}
