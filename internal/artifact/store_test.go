package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPathSharding(t *testing.T) {
	s := NewStore("/data/summaries")
	date := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)

	got := s.Path(date, SuffixIndividual)
	want := filepath.Join("/data/summaries", "2025", "07", "20250705-indiv.md")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	got = s.PayloadPath(date, "daily-prompt.txt")
	want = filepath.Join("/data/summaries", "_payloads", "2025", "07", "20250705-daily-prompt.txt")
	if got != want {
		t.Errorf("PayloadPath = %q, want %q", got, want)
	}
}

func TestWriteAndRead(t *testing.T) {
	s := NewStore(t.TempDir())
	date := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	path, err := s.Write(date, SuffixOverview, []byte("hello"))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if filepath.Base(path) != "20251231-overview.md" {
		t.Errorf("unexpected filename: %s", path)
	}

	data, err := s.Read(date, SuffixOverview)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Read = %q, want hello", data)
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestIsCurrent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "20250715-indiv.md")
	derived := filepath.Join(dir, "20250715-daily.jsonl")
	for _, path := range []string{source, derived} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if !IsCurrent(derived, []string{source}) {
		t.Error("artifact written after its source should be current")
	}
	if IsCurrent(filepath.Join(dir, "missing.md"), []string{source}) {
		t.Error("missing artifact is never current")
	}
	if IsCurrent(derived, []string{filepath.Join(dir, "missing.md")}) {
		t.Error("missing source cannot be judged current")
	}
	if IsCurrent(derived, nil) {
		t.Error("empty source list cannot be judged current")
	}

	// Touching a source after the artifact was written invalidates it.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(source, future, future); err != nil {
		t.Fatal(err)
	}
	if IsCurrent(derived, []string{source}) {
		t.Error("artifact older than a source should be stale")
	}
}

func TestWrittenToday(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250715-indiv.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if !WrittenToday(path, now, time.Local) {
		t.Error("freshly written file counts as today's")
	}
	if WrittenToday(path, now.AddDate(0, 0, 1), time.Local) {
		t.Error("file written yesterday relative to now should be stale")
	}
	if WrittenToday(filepath.Join(dir, "missing.md"), now, time.Local) {
		t.Error("missing file is never current")
	}
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "primary.md")
	optional := filepath.Join(dir, "optional.md")
	required := filepath.Join(dir, "required.md")

	write := func(path string) {
		t.Helper()
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("all present", func(t *testing.T) {
		write(primary)
		write(optional)
		write(required)
		paths, ok := CollectSources(primary, []SourceRef{
			{Name: "opt", Path: optional},
			{Name: "req", Path: required, Required: true},
		}, nil)
		if !ok || len(paths) != 3 {
			t.Errorf("got ok=%v paths=%v", ok, paths)
		}
	})

	t.Run("optional missing is skipped", func(t *testing.T) {
		os.Remove(optional)
		paths, ok := CollectSources(primary, []SourceRef{
			{Name: "opt", Path: optional},
		}, nil)
		if !ok || len(paths) != 1 {
			t.Errorf("got ok=%v paths=%v", ok, paths)
		}
	})

	t.Run("required missing fails", func(t *testing.T) {
		os.Remove(required)
		_, ok := CollectSources(primary, []SourceRef{
			{Name: "req", Path: required, Required: true},
		}, nil)
		if ok {
			t.Error("missing required source must fail the collection")
		}
	})

	t.Run("primary missing with other sources succeeds", func(t *testing.T) {
		os.Remove(primary)
		write(optional)
		paths, ok := CollectSources(primary, []SourceRef{
			{Name: "opt", Path: optional},
		}, nil)
		if !ok || len(paths) != 1 || paths[0] != optional {
			t.Errorf("got ok=%v paths=%v", ok, paths)
		}
	})

	t.Run("nothing present fails", func(t *testing.T) {
		os.Remove(optional)
		_, ok := CollectSources(primary, []SourceRef{
			{Name: "opt", Path: optional},
		}, nil)
		if ok {
			t.Error("empty collection must fail")
		}
	})
}

func TestCheckpointRoundTrip(t *testing.T) {
	cp := NewCheckpoint(filepath.Join(t.TempDir(), "checkpoint"))

	// Missing file loads as zero time.
	ts, err := cp.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("missing checkpoint should load zero, got %v", ts)
	}

	want := time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)
	if err := cp.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := cp.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestCheckpointNeverRegresses(t *testing.T) {
	cp := NewCheckpoint(filepath.Join(t.TempDir(), "checkpoint"))

	later := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	if err := cp.Save(later); err != nil {
		t.Fatal(err)
	}
	if err := cp.Save(earlier); err != nil {
		t.Fatal(err)
	}

	got, err := cp.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(later) {
		t.Errorf("checkpoint regressed to %v, want %v", got, later)
	}
}

func TestCheckpointMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint")
	if err := os.WriteFile(path, []byte("not a timestamp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCheckpoint(path).Load(); err == nil {
		t.Error("malformed checkpoint should fail to load")
	}
}
