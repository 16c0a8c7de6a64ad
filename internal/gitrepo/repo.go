package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// EmptyTreeHash is git's well-known hash of the empty tree, used as the
// diff baseline when a window starts before the repository's first commit.
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Repo wraps a local git working copy.
type Repo struct {
	dir    string
	loc    *time.Location
	run    Runner
	logger *slog.Logger
}

// New returns a repo handle for dir. runner may be nil for the real git
// binary.
func New(dir string, loc *time.Location, runner Runner, logger *slog.Logger) *Repo {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Repo{dir: dir, loc: loc, run: runner, logger: logger}
}

// Dir returns the working copy path.
func (r *Repo) Dir() string { return r.dir }

// CommitBefore returns the last commit at or before t, or "" when no such
// commit exists.
func (r *Repo) CommitBefore(ctx context.Context, t time.Time) (string, error) {
	out, err := r.run.Run(ctx, r.dir, "rev-list", "-1",
		"--before="+timeutil.FormatGit(t, r.loc), "HEAD")
	if err != nil {
		// A repository with no commits at all makes rev-list fail.
		if strings.Contains(err.Error(), "unknown revision") ||
			strings.Contains(err.Error(), "bad revision") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitsBetween lists the commits whose author date falls inside the
// window, oldest first.
func (r *Repo) CommitsBetween(ctx context.Context, w timeutil.Window) ([]string, error) {
	out, err := r.run.Run(ctx, r.dir, "rev-list", "--reverse",
		"--since="+timeutil.FormatGit(w.Start, r.loc),
		"--until="+timeutil.FormatGit(w.End, r.loc),
		"HEAD")
	if err != nil {
		if strings.Contains(err.Error(), "unknown revision") ||
			strings.Contains(err.Error(), "bad revision") {
			return nil, nil
		}
		return nil, err
	}
	return splitLines(out), nil
}

// DiffBetween returns the raw unified diff between two commits, restricted
// to markdown files. An empty base diffs against the empty tree.
func (r *Repo) DiffBetween(ctx context.Context, base, head string) (string, error) {
	if base == "" {
		base = EmptyTreeHash
	}
	return r.run.Run(ctx, r.dir, "diff", base, head, "--", "*.md")
}

// FileAt returns the contents of path as of commit. A file absent at that
// commit returns "".
func (r *Repo) FileAt(ctx context.Context, commit, path string) (string, error) {
	out, err := r.run.Run(ctx, r.dir, "show", commit+":"+path)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") ||
			strings.Contains(err.Error(), "exists on disk, but not in") {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// AddAll stages every change in the working copy.
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.run.Run(ctx, r.dir, "add", "-A")
	return err
}

// HasStagedChanges reports whether a commit would record anything.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := r.run.Run(ctx, r.dir, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	// diff --quiet exits 1 when differences exist.
	if strings.Contains(err.Error(), "exit status 1") {
		return true, nil
	}
	return false, err
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run.Run(ctx, r.dir, "commit", "-m", message)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
