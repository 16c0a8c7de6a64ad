// Package summary implements the first pipeline stage: turning windowed
// document diffs into per-document change summaries.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/gitrepo"
	"github.com/ChangLabSNU/Hedwig/internal/llm"
	"github.com/ChangLabSNU/Hedwig/internal/policy"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
	"github.com/ChangLabSNU/Hedwig/internal/users"
)

// Generator produces the individual change-summary artifact.
type Generator struct {
	Repo     *gitrepo.Repo
	Store    *artifact.Store
	LLM      llm.Client
	Resolver *users.Resolver
	Logger   *slog.Logger

	Model         string
	MaxDiffLength int
	// MaxAgeOverrides adjusts per-weekday extraction lookback.
	MaxAgeOverrides map[string]int

	Location *time.Location
	DayStart int
}

// Result reports what a generation run produced.
type Result struct {
	Path    string
	Date    time.Time
	Changes int
	Skipped bool
}

// Generate writes the individual summary artifact for the logical date of
// now. A still-fresh artifact short-circuits unless force is set.
func (g *Generator) Generate(ctx context.Context, now time.Time, force bool) (Result, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	date := timeutil.LogicalDate(now, g.Location, g.DayStart)
	path := g.Store.Path(date, artifact.SuffixIndividual)

	if !force && artifact.WrittenToday(path, now, g.Location) {
		logger.Info("individual summary already current", "path", path)
		return Result{Path: path, Date: date, Skipped: true}, nil
	}

	lookback := policy.MaxAgeDays(date.Weekday(), g.MaxAgeOverrides)
	window := timeutil.WindowEndingAt(now, g.Location, g.DayStart, lookback)
	logger.Info("extracting changes",
		"date", date.Format("2006-01-02"),
		"window_start", window.Start, "window_end", window.End)

	changes, err := g.Repo.ChangesBetween(ctx, window, g.Resolver)
	if err != nil {
		return Result{}, fmt.Errorf("extract changes: %w", err)
	}
	if len(changes) == 0 {
		// An empty window produces no artifact; later stages treat the
		// missing file as a day with nothing to report.
		logger.Info("no document changes in window", "date", date.Format("2006-01-02"))
		return Result{Date: date}, nil
	}

	doc, summarized, err := g.render(ctx, date, changes, logger)
	if err != nil {
		return Result{}, err
	}

	written, err := g.Store.Write(date, artifact.SuffixIndividual, []byte(doc))
	if err != nil {
		return Result{}, fmt.Errorf("write summary: %w", err)
	}
	logger.Info("individual summary written", "path", written, "changes", summarized)
	return Result{Path: written, Date: date, Changes: summarized}, nil
}

func (g *Generator) render(ctx context.Context, date time.Time, changes []gitrepo.Change, logger *slog.Logger) (string, int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Document Changes for %s\n", date.Format("2006-01-02"))

	summarized := 0
	for _, change := range changes {
		diff := change.Diff
		if g.MaxDiffLength > 0 && len(diff) > g.MaxDiffLength {
			diff = diff[:g.MaxDiffLength] + "\n... (diff truncated)"
		}

		text, err := g.LLM.Generate(ctx, diffPrompt, diff, g.Model)
		if err != nil {
			logger.Warn("diff summarization failed, skipping document",
				"path", change.Path, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		fmt.Fprintf(&sb, "\n## %s\n", change.Title)
		if change.Location != "" {
			fmt.Fprintf(&sb, "- Location: %s\n", change.Location)
		}
		if len(change.Editors) > 0 {
			fmt.Fprintf(&sb, "- Editors: %s\n", strings.Join(change.Editors, ", "))
		}
		sb.WriteString("\n" + text + "\n")
		summarized++
	}

	if summarized == 0 {
		return "", 0, fmt.Errorf("all %d document summaries failed", len(changes))
	}
	return sb.String(), summarized, nil
}
