// Package overview implements the third pipeline stage: rolling several
// days of activity logs into a team-facing overview message.
package overview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/contextinfo"
	"github.com/ChangLabSNU/Hedwig/internal/dailylog"
	"github.com/ChangLabSNU/Hedwig/internal/external"
	"github.com/ChangLabSNU/Hedwig/internal/llm"
	"github.com/ChangLabSNU/Hedwig/internal/policy"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// Generator produces the overview artifact.
type Generator struct {
	Store     *artifact.Store
	External  *external.Manager
	Providers []contextinfo.Provider
	LLM       llm.Client
	Logger    *slog.Logger

	Policies       policy.Table
	Model          string
	Language       string
	Persona        string
	TeamInfo       string
	PromptOverride string
	DailyLogSuffix string

	Location *time.Location
	DayStart int

	SavePayloads bool
}

// Result reports what a generation run produced.
type Result struct {
	Path    string
	Date    time.Time
	Content string
	// Disabled is set when the weekday policy turns the overview off.
	Disabled bool
	Skipped  bool
}

func (g *Generator) dailySuffix() string {
	if g.DailyLogSuffix != "" {
		return g.DailyLogSuffix
	}
	return artifact.SuffixDailyLog
}

// Generate writes the overview for the logical date of now and returns
// its content. Weekday policy may disable the stage entirely; a fresh
// artifact is returned as-is unless force is set.
func (g *Generator) Generate(ctx context.Context, now time.Time, force bool) (Result, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	date := timeutil.LogicalDate(now, g.Location, g.DayStart)

	pol, enabled := g.Policies.ForWeekday(date.Weekday())
	if !enabled {
		logger.Info("overview disabled for weekday", "weekday", date.Weekday().String())
		return Result{Date: date, Disabled: true}, nil
	}

	path := g.Store.Path(date, artifact.SuffixOverview)
	if !force && artifact.IsCurrent(path, g.windowSources(date, pol.Lookback)) {
		data, err := g.Store.Read(date, artifact.SuffixOverview)
		if err != nil {
			return Result{}, fmt.Errorf("read existing overview: %w", err)
		}
		logger.Info("overview already current", "path", path)
		return Result{Path: path, Date: date, Content: string(data), Skipped: true}, nil
	}

	input := g.assembleInput(date, pol.Lookback, logger)
	if input == "" {
		logger.Info("no activity logs or external content in window, skipping overview",
			"date", date.Format("2006-01-02"), "lookback", pol.Lookback)
		return Result{Date: date}, nil
	}

	promptContext := contextinfo.Gather(ctx, g.Providers, date, logger)
	prompt := BuildPrompt(g.PromptOverride, PromptParams{
		Persona:          g.Persona,
		TeamInfo:         g.TeamInfo,
		Language:         g.Language,
		SummaryRange:     pol.SummaryRange,
		ForthcomingRange: pol.ForthcomingRange,
		Context:          promptContext,
	})

	if g.SavePayloads {
		payload := prompt + "\n\n---\n\n" + input
		if err := g.Store.WritePayload(date, "overview-prompt.txt", []byte(payload)); err != nil {
			logger.Warn("could not save prompt payload", "error", err)
		}
	}

	raw, err := g.LLM.Generate(ctx, prompt, input, g.Model)
	if err != nil {
		return Result{}, fmt.Errorf("overview generation: %w", err)
	}
	content := dailylog.CleanResponse(raw)
	if content == "" {
		return Result{}, fmt.Errorf("overview generation returned empty content")
	}

	written, err := g.Store.Write(date, artifact.SuffixOverview, []byte(content+"\n"))
	if err != nil {
		return Result{}, fmt.Errorf("write overview: %w", err)
	}
	logger.Info("overview written", "path", written)
	return Result{Path: written, Date: date, Content: content}, nil
}

// windowSources lists the input files that exist for the window: each
// date's daily log plus any external content for the target date. The
// freshness gate compares the overview artifact against these.
func (g *Generator) windowSources(date time.Time, lookback int) []string {
	var sources []string
	for _, day := range timeutil.DatesBackFrom(date, lookback) {
		path := g.Store.Path(day, g.dailySuffix())
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, path)
		}
	}
	if g.External != nil {
		for _, ref := range g.External.SourceRefs(date) {
			if _, err := os.Stat(ref.Path); err == nil {
				sources = append(sources, ref.Path)
			}
		}
	}
	return sources
}

// assembleInput builds the day-by-day prompt input from the window's
// daily logs plus any external content for the target date. External
// content alone is enough to produce a non-empty input.
func (g *Generator) assembleInput(date time.Time, lookback int, logger *slog.Logger) string {
	var sb strings.Builder

	for _, day := range timeutil.DatesBackFrom(date, lookback) {
		data, err := g.Store.Read(day, g.dailySuffix())
		if err != nil {
			logger.Debug("no daily log for date", "date", day.Format("2006-01-02"))
			continue
		}
		records := dailylog.ParseRecords(data)
		if len(records) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", day.Format("2006-01-02"))
		for _, rec := range records {
			if len(rec.Authors) > 0 {
				fmt.Fprintf(&sb, "- %s: %s\n", strings.Join(rec.Authors, ", "), rec.SummaryEN)
			} else {
				fmt.Fprintf(&sb, "- %s\n", rec.SummaryEN)
			}
		}
		sb.WriteString("\n")
	}

	if g.External != nil {
		if block := external.FormatForPrompt(g.External.FetchAll(date)); block != "" {
			sb.WriteString(block)
		}
	}

	return strings.TrimSpace(sb.String())
}
