package notion

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
)

// PageFile returns the repository-relative path for a page: files shard
// into directories by the first two characters of the normalized ID.
func PageFile(pageID string) string {
	id := NormalizeID(pageID)
	if len(id) < 2 {
		return filepath.Join("xx", id+".md")
	}
	return filepath.Join(id[:2], id+".md")
}

// NormalizeID strips hyphens and lowercases a Notion page ID.
func NormalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// ExportedPage is a page ready to be written into the repository.
type ExportedPage struct {
	Page     *Page
	Title    string
	Location string
	Editor   string
	Body     string
}

// Render produces the file contents: a metadata header every downstream
// stage can parse, followed by the page body.
func (e *ExportedPage) Render() string {
	title := e.Title
	if title == "" {
		title = "Untitled"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)
	if e.Location != "" {
		fmt.Fprintf(&sb, "- Page Location: %s\n", e.Location)
	}
	if e.Editor != "" {
		fmt.Fprintf(&sb, "- Last Edited By: %s\n", e.Editor)
	}
	fmt.Fprintf(&sb, "- Updated: %s\n", e.Page.LastEditedTime.UTC().Format(time.RFC3339))
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(e.Body))
	sb.WriteString("\n")
	return sb.String()
}

// Write stores the rendered page under the repository root.
func (e *ExportedPage) Write(repoRoot string) (string, error) {
	rel := PageFile(e.Page.ID)
	path := filepath.Join(repoRoot, rel)
	if err := artifact.WriteFileAtomic(path, []byte(e.Render())); err != nil {
		return "", err
	}
	return rel, nil
}
