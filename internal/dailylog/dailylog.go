// Package dailylog implements the second pipeline stage: distilling the
// day's change summaries into a structured JSONL activity log.
package dailylog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/external"
	"github.com/ChangLabSNU/Hedwig/internal/llm"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// Generator produces the daily log artifact.
type Generator struct {
	Store    *artifact.Store
	External *external.Manager
	LLM      llm.Client
	Logger   *slog.Logger

	Model          string
	Language       string
	PromptOverride string
	FileSuffix     string

	Location *time.Location
	DayStart int

	// SavePayloads writes the assembled prompt input next to the
	// artifacts for debugging.
	SavePayloads bool
}

// Result reports what a generation run produced.
type Result struct {
	Path    string
	Date    time.Time
	Records int
	Skipped bool
}

func (g *Generator) suffix() string {
	if g.FileSuffix != "" {
		return g.FileSuffix
	}
	return artifact.SuffixDailyLog
}

// Generate writes the daily log for the logical date of now. A fresh
// artifact short-circuits unless force is set; missing inputs make the
// stage fail.
func (g *Generator) Generate(ctx context.Context, now time.Time, force bool) (Result, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	date := timeutil.LogicalDate(now, g.Location, g.DayStart)
	path := g.Store.Path(date, g.suffix())

	primary := g.Store.Path(date, artifact.SuffixIndividual)
	var refs []artifact.SourceRef
	if g.External != nil {
		refs = g.External.SourceRefs(date)
	}
	sources, ok := artifact.CollectSources(primary, refs, logger)
	if !ok {
		return Result{}, fmt.Errorf("no usable inputs for %s", date.Format("2006-01-02"))
	}

	if !force && artifact.IsCurrent(path, sources) {
		logger.Info("daily log already current", "path", path)
		return Result{Path: path, Date: date, Skipped: true}, nil
	}

	input, err := assembleInput(sources)
	if err != nil {
		return Result{}, err
	}

	prompt := BuildPrompt(g.PromptOverride, g.Language,
		date.Format("2006-01-02"), date.Weekday().String())

	if g.SavePayloads {
		payload := prompt + "\n\n---\n\n" + input
		if err := g.Store.WritePayload(date, "daily-prompt.txt", []byte(payload)); err != nil {
			logger.Warn("could not save prompt payload", "error", err)
		}
	}

	raw, err := g.LLM.Generate(ctx, prompt, input, g.Model)
	if err != nil {
		return Result{}, fmt.Errorf("daily log generation: %w", err)
	}

	cleaned := NormalizeLines(CleanJSONL(raw), logger)
	records := ParseRecords([]byte(cleaned))

	written, err := g.Store.Write(date, g.suffix(), []byte(cleaned))
	if err != nil {
		return Result{}, fmt.Errorf("write daily log: %w", err)
	}
	logger.Info("daily log written", "path", written, "records", len(records))
	return Result{Path: written, Date: date, Records: len(records)}, nil
}

// assembleInput concatenates the input artifacts in collection order.
func assembleInput(paths []string) (string, error) {
	var parts []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input %s: %w", path, err)
		}
		text := strings.TrimSpace(string(data))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
