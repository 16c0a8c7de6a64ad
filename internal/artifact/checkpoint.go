package artifact

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Checkpoint persists the high-water mark of synced document edits as a
// single RFC 3339 timestamp on one line.
type Checkpoint struct {
	path string
}

// NewCheckpoint returns a checkpoint stored at path.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Load reads the stored timestamp. A missing file returns the zero time
// with no error; a malformed file is an error.
func (c *Checkpoint) Load() (time.Time, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read checkpoint %s: %w", c.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint %s: %w", c.path, err)
	}
	return ts, nil
}

// Save stores ts, but never moves the checkpoint backwards: if the stored
// timestamp is already later, the file is left alone.
func (c *Checkpoint) Save(ts time.Time) error {
	current, err := c.Load()
	if err == nil && current.After(ts) {
		return nil
	}
	line := ts.UTC().Format(time.RFC3339) + "\n"
	return WriteFileAtomic(c.path, []byte(line))
}
