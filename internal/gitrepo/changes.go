package gitrepo

import (
	"context"
	"strings"

	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
	"github.com/ChangLabSNU/Hedwig/internal/users"
)

// Change is one document's modification within an extraction window.
type Change struct {
	// Path is the file's repository-relative path.
	Path string
	// Title is the document title from its header, or the path when the
	// header is absent.
	Title string
	// Location is the document's position in the source page hierarchy.
	Location string
	// Editors are the resolved display names of everyone who edited the
	// document during the window.
	Editors []string
	// Diff is the unified diff text for this file.
	Diff string
}

// ChangesBetween extracts per-document changes over the window. The diff
// baseline is the last commit before the window start, or the empty tree
// when the window predates the repository.
func (r *Repo) ChangesBetween(ctx context.Context, w timeutil.Window, resolver *users.Resolver) ([]Change, error) {
	commits, err := r.CommitsBetween(ctx, w)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}
	head := commits[len(commits)-1]

	base, err := r.CommitBefore(ctx, w.Start)
	if err != nil {
		return nil, err
	}

	raw, err := r.DiffBetween(ctx, base, head)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, fileDiff := range splitDiffs(raw) {
		path := diffPath(fileDiff)
		if path == "" {
			continue
		}

		change := Change{Path: path, Title: path, Diff: fileDiff}

		content, err := r.FileAt(ctx, head, path)
		if err != nil {
			r.logger.Warn("could not read document header", "path", path, "error", err)
		}
		if content != "" {
			meta := ExtractMetadata(content)
			if meta.Title != "" {
				change.Title = meta.Title
			}
			change.Location = meta.Location
		}

		change.Editors = r.editorsForFile(ctx, commits, path, resolver)
		changes = append(changes, change)
	}
	return changes, nil
}

// splitDiffs breaks a multi-file unified diff into per-file chunks. Each
// chunk keeps its "diff --git" header line.
func splitDiffs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split("\n"+raw, "\ndiff --git ")
	var chunks []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, "diff --git "+part)
	}
	return chunks
}

// diffPath extracts the post-image path from a per-file diff chunk.
func diffPath(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if !strings.HasPrefix(line, "+++ ") {
			continue
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
		if path == "/dev/null" {
			// Deleted file, fall back to the pre-image path.
			return preImagePath(chunk)
		}
		return strings.TrimPrefix(path, "b/")
	}
	// No hunk header (mode-only change), parse the diff --git line.
	first, _, _ := strings.Cut(chunk, "\n")
	fields := strings.Fields(first)
	if len(fields) >= 4 {
		return strings.TrimPrefix(fields[3], "b/")
	}
	return ""
}

func preImagePath(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if strings.HasPrefix(line, "--- ") {
			path := strings.TrimSpace(strings.TrimPrefix(line, "--- "))
			if path == "/dev/null" {
				return ""
			}
			return strings.TrimPrefix(path, "a/")
		}
	}
	return ""
}

// Metadata is the document header embedded at the top of synced files.
type Metadata struct {
	Title    string
	Location string
	Editor   string
}

// ExtractMetadata parses the synced-document header from file content.
// Only the first few lines are inspected.
func ExtractMetadata(content string) Metadata {
	var meta Metadata
	lines := strings.SplitN(content, "\n", 7)
	for i, line := range lines {
		if i >= 6 {
			break
		}
		switch {
		case meta.Title == "" && strings.HasPrefix(line, "# "):
			meta.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "- Page Location: "):
			meta.Location = strings.TrimSpace(strings.TrimPrefix(line, "- Page Location: "))
		case strings.HasPrefix(line, "- Last Edited By: "):
			meta.Editor = strings.TrimSpace(strings.TrimPrefix(line, "- Last Edited By: "))
		}
	}
	return meta
}

// editorsForFile collects the unique editors recorded in the file's header
// across the window's commits, in first-seen order. Uniqueness is judged
// on the resolved display name, so two IDs mapping to the same person
// yield one entry.
func (r *Repo) editorsForFile(ctx context.Context, commits []string, path string, resolver *users.Resolver) []string {
	seen := map[string]bool{}
	var editors []string
	for _, commit := range commits {
		content, err := r.FileAt(ctx, commit, path)
		if err != nil || content == "" {
			continue
		}
		editor := ExtractMetadata(content).Editor
		if editor == "" {
			continue
		}
		if resolver != nil {
			editor = resolver.Resolve(ctx, editor)
		}
		if seen[editor] {
			continue
		}
		seen[editor] = true
		editors = append(editors, editor)
	}
	return editors
}
