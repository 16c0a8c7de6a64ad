package notion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/gitrepo"
	"github.com/ChangLabSNU/Hedwig/internal/users"
)

// Syncer mirrors recently edited pages into the notes repository and
// commits the result.
type Syncer struct {
	Client     *Client
	Repo       *gitrepo.Repo
	Checkpoint *artifact.Checkpoint
	Blacklist  *Blacklist
	Resolver   *users.Resolver
	Logger     *slog.Logger

	// DefaultLookbackDays bounds the first sync when no checkpoint
	// exists yet.
	DefaultLookbackDays int
	// CommitTemplate is the commit message; {datetime} is replaced.
	CommitTemplate string

	// DryRun skips writing, committing, and checkpoint updates.
	DryRun bool
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Found     int
	Exported  int
	Skipped   int
	Committed bool
}

// Sync fetches pages edited since the checkpoint, exports them into the
// repository, commits, and advances the checkpoint to the newest edit.
func (s *Syncer) Sync(ctx context.Context, now time.Time) (SyncResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	since, err := s.Checkpoint.Load()
	if err != nil {
		return SyncResult{}, err
	}
	if since.IsZero() {
		lookback := s.DefaultLookbackDays
		if lookback <= 0 {
			lookback = 7
		}
		since = now.AddDate(0, 0, -lookback)
		logger.Info("no checkpoint, using default lookback",
			"days", lookback, "since", since)
	}

	pages, err := s.Client.PagesEditedSince(ctx, since)
	if err != nil {
		return SyncResult{}, fmt.Errorf("search pages: %w", err)
	}
	result := SyncResult{Found: len(pages)}
	logger.Info("pages edited since checkpoint", "count", len(pages), "since", since)

	var newest time.Time
	for _, page := range pages {
		if page.LastEditedTime.After(newest) {
			newest = page.LastEditedTime
		}

		if page.Archived {
			result.Skipped++
			continue
		}

		location := s.Client.PagePath(ctx, &page)
		if s.Blacklist != nil && s.Blacklist.Matches(NormalizeID(page.ID), location) {
			logger.Debug("page blacklisted", "page", page.ID, "location", location)
			result.Skipped++
			continue
		}

		exported, err := s.exportPage(ctx, page, location)
		if err != nil {
			logger.Warn("page export failed", "page", page.ID, "error", err)
			result.Skipped++
			continue
		}

		if s.DryRun {
			logger.Info("would export page", "page", page.ID, "title", exported.Title)
			result.Exported++
			continue
		}
		rel, err := exported.Write(s.Repo.Dir())
		if err != nil {
			logger.Warn("page write failed", "page", page.ID, "error", err)
			result.Skipped++
			continue
		}
		logger.Info("page exported", "file", rel, "title", exported.Title)
		result.Exported++
	}

	if s.DryRun {
		return result, nil
	}

	if result.Exported > 0 {
		committed, err := s.commit(ctx, now)
		if err != nil {
			return result, err
		}
		result.Committed = committed
	}

	if !newest.IsZero() {
		if err := s.Checkpoint.Save(newest); err != nil {
			return result, fmt.Errorf("save checkpoint: %w", err)
		}
	}
	return result, nil
}

func (s *Syncer) exportPage(ctx context.Context, page Page, location string) (*ExportedPage, error) {
	blocks, err := s.Client.BlockChildren(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	editor := page.LastEditedBy.ID
	if s.Resolver != nil && editor != "" {
		editor = s.Resolver.Resolve(ctx, editor)
	}

	return &ExportedPage{
		Page:     &page,
		Title:    page.Title(),
		Location: location,
		Editor:   editor,
		Body:     RenderMarkdown(blocks),
	}, nil
}

func (s *Syncer) commit(ctx context.Context, now time.Time) (bool, error) {
	if err := s.Repo.AddAll(ctx); err != nil {
		return false, fmt.Errorf("stage changes: %w", err)
	}
	staged, err := s.Repo.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	template := s.CommitTemplate
	if template == "" {
		template = "Automated commit: {datetime}"
	}
	message := strings.ReplaceAll(template, "{datetime}",
		now.Format("2006-01-02 15:04:05"))
	if err := s.Repo.Commit(ctx, message); err != nil {
		return false, err
	}
	return true, nil
}

// SyncUserlist fetches all workspace users and rewrites the userlist TSV.
// Entries from the override file, when configured, win over fetched names
// and are carried into the written file.
func SyncUserlist(ctx context.Context, client *Client, path, overridePath string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	allUsers, err := client.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	lookup := users.Lookup{}
	for _, u := range allUsers {
		if u.Name == "" {
			continue
		}
		lookup[u.ID] = users.SanitizeName(u.Name)
	}

	if overridePath != "" {
		overrides, err := users.LoadLookup(overridePath)
		if err != nil {
			return 0, fmt.Errorf("load userlist overrides: %w", err)
		}
		logger.Info("merging userlist overrides",
			"path", overridePath, "overrides", len(overrides))
		lookup.Merge(overrides)
	}

	if err := users.WriteLookup(path, lookup); err != nil {
		return 0, fmt.Errorf("write userlist: %w", err)
	}
	logger.Info("userlist updated", "path", path, "users", len(lookup))
	return len(lookup), nil
}
