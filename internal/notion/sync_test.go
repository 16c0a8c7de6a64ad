package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/config"
	"github.com/ChangLabSNU/Hedwig/internal/gitrepo"
)

func TestPageFile(t *testing.T) {
	got := PageFile("AB12cd34-5678-90ef-aaaa-bbbbccccdddd")
	want := filepath.Join("ab", "ab12cd34567890efaaaabbbbccccdddd.md")
	if got != want {
		t.Errorf("PageFile = %q, want %q", got, want)
	}
}

func TestExportedPageRender(t *testing.T) {
	page := &Page{}
	page.LastEditedTime = time.Date(2025, 7, 14, 18, 2, 0, 0, time.UTC)

	e := &ExportedPage{
		Page:     page,
		Title:    "Sequencing Run 42",
		Location: "Projects / Sequencing",
		Editor:   "Alice Kim",
		Body:     "body text\n",
	}

	got := e.Render()
	wantHeader := "# Sequencing Run 42\n" +
		"- Page Location: Projects / Sequencing\n" +
		"- Last Edited By: Alice Kim\n" +
		"- Updated: 2025-07-14T18:02:00Z\n" +
		"\n" +
		"body text\n"
	if got != wantHeader {
		t.Errorf("Render =\n%q\nwant\n%q", got, wantHeader)
	}

	// The header round-trips through the extraction used downstream.
	meta := gitrepo.ExtractMetadata(got)
	if meta.Title != "Sequencing Run 42" || meta.Editor != "Alice Kim" {
		t.Errorf("header not parseable downstream: %+v", meta)
	}
}

func TestBlacklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist")
	content := "# personal pages\nab12*\nArchive / *\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	bl, err := LoadBlacklist(path)
	if err != nil {
		t.Fatal(err)
	}
	if bl.Len() != 2 {
		t.Fatalf("loaded %d patterns, want 2", bl.Len())
	}

	if !bl.Matches("ab12cd34", "Projects / X") {
		t.Error("ID pattern should match")
	}
	if !bl.Matches("ff00aa11", "Archive / Old Notes") {
		t.Error("location pattern should match")
	}
	if bl.Matches("ff00aa11", "Projects / X") {
		t.Error("unrelated page should not match")
	}
}

func TestLoadBlacklistMissing(t *testing.T) {
	bl, err := LoadBlacklist(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing blacklist should not error: %v", err)
	}
	if bl.Len() != 0 || bl.Matches("anything", "anywhere") {
		t.Error("missing blacklist should match nothing")
	}
}

// notionServer fakes the Notion API for sync tests.
func notionServer(t *testing.T, pages []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/search":
			json.NewEncoder(w).Encode(map[string]any{
				"results": pages, "has_more": false,
			})
		case strings.HasPrefix(r.URL.Path, "/v1/blocks/"):
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"type": "paragraph", "paragraph": map[string]any{
						"rich_text": []map[string]any{{"plain_text": "page body"}},
					}},
				},
				"has_more": false,
			})
		case strings.HasPrefix(r.URL.Path, "/v1/users"):
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"id": "u1", "name": "Alice Kim", "type": "person"},
					{"id": "u2", "name": "Bob Lee", "type": "person"},
					{"id": "bot", "name": "", "type": "bot"},
				},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected notion path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(config.NotionAPIConfig{APIKey: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	c.baseURL = srv.URL
	c.http = srv.Client()
	return c
}

func pageJSON(id string, edited time.Time, title string) map[string]any {
	return map[string]any{
		"id":               id,
		"last_edited_time": edited.Format(time.RFC3339),
		"last_edited_by":   map[string]any{"id": "u1"},
		"parent":           map[string]any{"type": "workspace"},
		"properties": map[string]any{
			"title": map[string]any{
				"type":  "title",
				"title": []map[string]any{{"plain_text": title}},
			},
		},
	}
}

// noGit satisfies the git runner for sync tests that stop before commit.
type noGit struct{ calls []string }

func (g *noGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	g.calls = append(g.calls, strings.Join(args, " "))
	return "", nil
}

func TestSyncExportsPages(t *testing.T) {
	edited := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	srv := notionServer(t, []map[string]any{
		pageJSON("ab12cd34-0000-0000-0000-000000000000", edited, "Lab Meeting Notes"),
	})

	dir := t.TempDir()
	git := &noGit{}
	s := &Syncer{
		Client:     testClient(t, srv),
		Repo:       gitrepo.New(dir, time.UTC, git, nil),
		Checkpoint: artifact.NewCheckpoint(filepath.Join(dir, "checkpoint")),
	}

	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	res, err := s.Sync(context.Background(), now)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if res.Found != 1 || res.Exported != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	file := filepath.Join(dir, PageFile("ab12cd34-0000-0000-0000-000000000000"))
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# Lab Meeting Notes") || !strings.Contains(content, "page body") {
		t.Errorf("exported content wrong:\n%s", content)
	}

	// Checkpoint advanced to the newest edit.
	cp, err := s.Checkpoint.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cp.Equal(edited) {
		t.Errorf("checkpoint = %v, want %v", cp, edited)
	}

	// A commit was attempted after staging.
	joined := strings.Join(git.calls, ";")
	if !strings.Contains(joined, "add -A") {
		t.Errorf("changes not staged: %v", git.calls)
	}
}

func TestSyncRespectsBlacklist(t *testing.T) {
	edited := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	srv := notionServer(t, []map[string]any{
		pageJSON("ab12cd34-0000-0000-0000-000000000000", edited, "Private Notes"),
	})

	dir := t.TempDir()
	blPath := filepath.Join(dir, "blacklist")
	os.WriteFile(blPath, []byte("ab12*\n"), 0o644)
	bl, err := LoadBlacklist(blPath)
	if err != nil {
		t.Fatal(err)
	}

	s := &Syncer{
		Client:     testClient(t, srv),
		Repo:       gitrepo.New(dir, time.UTC, &noGit{}, nil),
		Checkpoint: artifact.NewCheckpoint(filepath.Join(dir, "checkpoint")),
		Blacklist:  bl,
	}

	res, err := s.Sync(context.Background(), edited.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if res.Exported != 0 || res.Skipped != 1 {
		t.Errorf("blacklisted page should be skipped: %+v", res)
	}
}

func TestSyncDryRun(t *testing.T) {
	edited := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	srv := notionServer(t, []map[string]any{
		pageJSON("ab12cd34-0000-0000-0000-000000000000", edited, "Notes"),
	})

	dir := t.TempDir()
	git := &noGit{}
	s := &Syncer{
		Client:     testClient(t, srv),
		Repo:       gitrepo.New(dir, time.UTC, git, nil),
		Checkpoint: artifact.NewCheckpoint(filepath.Join(dir, "checkpoint")),
		DryRun:     true,
	}

	res, err := s.Sync(context.Background(), edited.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if res.Exported != 1 {
		t.Errorf("dry run still reports exports: %+v", res)
	}

	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Error("dry run must not write files")
	}
	if len(git.calls) != 0 {
		t.Errorf("dry run must not touch git: %v", git.calls)
	}
	if cp, _ := s.Checkpoint.Load(); !cp.IsZero() {
		t.Error("dry run must not advance the checkpoint")
	}
}

func TestSyncUserlist(t *testing.T) {
	srv := notionServer(t, nil)
	path := filepath.Join(t.TempDir(), "userlist.tsv")

	n, err := SyncUserlist(context.Background(), testClient(t, srv), path, "", nil)
	if err != nil {
		t.Fatalf("SyncUserlist() error: %v", err)
	}
	if n != 2 {
		t.Errorf("synced %d users, want 2 (nameless bot skipped)", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "u1\tAlice Kim\nu2\tBob Lee\n" {
		t.Errorf("userlist = %q", data)
	}
}

func TestSyncUserlistMergesOverrides(t *testing.T) {
	srv := notionServer(t, nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "userlist.tsv")
	override := filepath.Join(dir, "overrides.tsv")

	// u2 gets a hand-maintained name; u9 exists only in the overrides.
	if err := os.WriteFile(override, []byte("u2\tRobert Lee\nu9\tGuest Account\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := SyncUserlist(context.Background(), testClient(t, srv), path, override, nil)
	if err != nil {
		t.Fatalf("SyncUserlist() error: %v", err)
	}
	if n != 3 {
		t.Errorf("synced %d users, want 3", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "u1\tAlice Kim\nu2\tRobert Lee\nu9\tGuest Account\n" {
		t.Errorf("userlist = %q", data)
	}
}

func TestPagesEditedSinceStopsAtCutoff(t *testing.T) {
	cutoff := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	srv := notionServer(t, []map[string]any{
		pageJSON("a1", cutoff.Add(2*time.Hour), "newer"),
		pageJSON("a2", cutoff.Add(-2*time.Hour), "older"),
		pageJSON("a3", cutoff.Add(-3*time.Hour), "oldest"),
	})

	pages, err := testClient(t, srv).PagesEditedSince(context.Background(), cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].Title() != "newer" {
		t.Errorf("wrong page: %q", pages[0].Title())
	}
}
