// Package pipeline chains sync, summarization, daily log, overview, and
// delivery into the nightly run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/dailylog"
	"github.com/ChangLabSNU/Hedwig/internal/external"
	"github.com/ChangLabSNU/Hedwig/internal/messaging"
	"github.com/ChangLabSNU/Hedwig/internal/overview"
	"github.com/ChangLabSNU/Hedwig/internal/summary"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// Sync runs the document-source sync stage.
type Sync interface {
	Sync(ctx context.Context, now time.Time) error
}

// Runner executes the full pipeline.
type Runner struct {
	Syncer    Sync
	Summary   *summary.Generator
	DailyLog  *dailylog.Generator
	Overview  *overview.Generator
	Messenger *messaging.Manager
	Store     *artifact.Store
	External  *external.Manager
	Logger    *slog.Logger

	TitleFormat string
	Location    *time.Location
	DayStart    int

	Force bool
}

// Run executes the stages in order and reports overall success. A failed
// sync still summarizes the repository as it stands; generation failures
// fail the run, while an empty day or a disabled or empty overview ends
// it successfully without posting.
func (r *Runner) Run(ctx context.Context, now time.Time, post bool) (ok bool) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString())

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("pipeline panicked", "panic", fmt.Sprint(rec))
			ok = false
		}
	}()

	logger.Info("pipeline started", "post", post, "force", r.Force)

	if r.Syncer != nil {
		if err := r.Syncer.Sync(ctx, now); err != nil {
			logger.Error("sync failed, continuing with current repository", "error", err)
		}
	}

	date := timeutil.LogicalDate(now, r.Location, r.DayStart)

	sumRes, err := r.Summary.Generate(ctx, now, r.Force)
	if err != nil {
		logger.Error("summarization failed", "error", err)
		return false
	}
	logger.Info("summarization finished", "changes", sumRes.Changes, "skipped", sumRes.Skipped)

	// An empty day is a valid terminal state, not a failure.
	if !r.hasIndividualSummary(date) && !r.hasExternalContent(date) {
		logger.Info("no summaries or external content for today, stopping")
		return true
	}

	if r.DailyLog != nil {
		dlRes, err := r.DailyLog.Generate(ctx, now, r.Force)
		if err != nil {
			logger.Error("daily log failed", "error", err)
			return false
		}
		logger.Info("daily log finished", "records", dlRes.Records, "skipped", dlRes.Skipped)
	}

	ovRes, err := r.Overview.Generate(ctx, now, r.Force)
	if err != nil {
		logger.Error("overview generation failed", "error", err)
		return false
	}
	if ovRes.Disabled {
		logger.Info("overview disabled today, nothing to post")
		return true
	}
	if ovRes.Content == "" {
		logger.Info("no overview content, nothing to post")
		return true
	}

	if !post || r.Messenger == nil || !r.Messenger.HasConsumers() {
		logger.Info("posting skipped", "post", post)
		return true
	}
	details := r.readDetails(ovRes.Date, logger)
	if details == "" {
		logger.Info("no individual summary available for posting, skipping delivery")
		return true
	}

	content := messaging.Content{
		Title:   r.title(now),
		Summary: ovRes.Content,
		Details: details,
	}
	results := r.Messenger.PostAll(ctx, content)
	for _, res := range results {
		if !res.OK {
			return false
		}
	}
	logger.Info("pipeline finished", "deliveries", len(results))
	return true
}

func (r *Runner) hasIndividualSummary(date time.Time) bool {
	_, err := os.Stat(r.Store.Path(date, artifact.SuffixIndividual))
	return err == nil
}

func (r *Runner) hasExternalContent(date time.Time) bool {
	return r.External != nil && len(r.External.FetchAll(date)) > 0
}

// title renders the message title. The overview describes the previous
// day's work, so {date} is yesterday relative to the logical date.
func (r *Runner) title(now time.Time) string {
	format := r.TitleFormat
	if format == "" {
		format = "Research Notes {date}"
	}
	date := timeutil.LogicalDate(now, r.Location, r.DayStart).AddDate(0, 0, -1)
	return strings.ReplaceAll(format, "{date}", date.Format("2006-01-02"))
}

// readDetails loads the individual summaries for the canvas appendix.
func (r *Runner) readDetails(date time.Time, logger *slog.Logger) string {
	data, err := r.Store.Read(date, artifact.SuffixIndividual)
	if err != nil {
		logger.Debug("no individual summary for details", "error", err)
		return ""
	}
	return string(data)
}
