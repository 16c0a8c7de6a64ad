package notion

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

// Blacklist excludes pages from sync by glob patterns matched against
// the page ID or its rendered location path.
type Blacklist struct {
	patterns []glob.Glob
	sources  []string
}

// LoadBlacklist reads patterns from a file, one per line. Blank lines and
// '#' comments are skipped; a missing file yields an empty blacklist.
func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{}
	if path == "" {
		return bl, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return bl, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open blacklist %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := glob.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("blacklist pattern %q: %w", line, err)
		}
		bl.patterns = append(bl.patterns, g)
		bl.sources = append(bl.sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blacklist %s: %w", path, err)
	}
	return bl, nil
}

// Matches reports whether any pattern matches the page ID or location.
func (b *Blacklist) Matches(pageID, location string) bool {
	for _, g := range b.patterns {
		if g.Match(pageID) || (location != "" && g.Match(location)) {
			return true
		}
	}
	return false
}

// Len returns the number of loaded patterns.
func (b *Blacklist) Len() int { return len(b.patterns) }
