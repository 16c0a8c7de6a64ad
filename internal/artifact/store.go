// Package artifact manages the dated files the pipeline reads and writes.
//
// Artifacts live under a single output root, sharded by year and month:
//
//	<root>/2025/07/20250715-indiv.md
//	<root>/2025/07/20250715-daily.jsonl
//	<root>/2025/07/20250715-overview.md
//
// Writes go through a temp file and rename so readers never observe a
// partially written artifact.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Standard artifact filename suffixes.
const (
	SuffixIndividual = "-indiv.md"
	SuffixDailyLog   = "-daily.jsonl"
	SuffixOverview   = "-overview.md"
)

// Store resolves and writes dated artifacts under a root directory.
type Store struct {
	root   string
	dryRun bool
}

// SetDryRun disables writes; Write then reports the would-be path without
// touching the filesystem.
func (s *Store) SetDryRun(v bool) { s.dryRun = v }

// NewStore returns a store rooted at dir. The directory is created lazily
// on first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// Path returns the location of the artifact for date with the given suffix.
func (s *Store) Path(date time.Time, suffix string) string {
	return filepath.Join(s.root,
		fmt.Sprintf("%04d", date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		date.Format("20060102")+suffix)
}

// PayloadPath returns the location for a prompt debug payload. Payloads
// shard by year and month like the artifacts themselves.
func (s *Store) PayloadPath(date time.Time, name string) string {
	return filepath.Join(s.root, "_payloads",
		fmt.Sprintf("%04d", date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		date.Format("20060102")+"-"+name)
}

// Write atomically writes the artifact for date with the given suffix,
// creating parent directories as needed.
func (s *Store) Write(date time.Time, suffix string, data []byte) (string, error) {
	path := s.Path(date, suffix)
	if s.dryRun {
		return path, nil
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WritePayload writes a prompt debug payload. Payloads are best-effort and
// not part of the artifact contract, but the write is still atomic.
func (s *Store) WritePayload(date time.Time, name string, data []byte) error {
	if s.dryRun {
		return nil
	}
	return WriteFileAtomic(s.PayloadPath(date, name), data)
}

// Read returns the artifact contents for date, or os.ErrNotExist wrapped
// when the artifact is absent.
func (s *Store) Read(date time.Time, suffix string) ([]byte, error) {
	return os.ReadFile(s.Path(date, suffix))
}

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
