// Package users maps document-source user IDs to display names.
//
// Names live in tab-separated files with one "id<TAB>name" pair per line.
// A generated userlist file holds names fetched from the API; an optional
// override file, maintained by hand, wins on conflict.
package users

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
)

// Lookup is an in-memory id-to-name table.
type Lookup map[string]string

// LoadLookup reads a TSV userlist file. A missing file yields an empty
// lookup; malformed lines are skipped.
func LoadLookup(path string) (Lookup, error) {
	lookup := Lookup{}
	if path == "" {
		return lookup, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return lookup, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open userlist %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		id, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		lookup[id] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read userlist %s: %w", path, err)
	}
	return lookup, nil
}

// Merge overlays other onto the lookup, letting other win on conflict.
func (l Lookup) Merge(other Lookup) {
	for id, name := range other {
		l[id] = name
	}
}

// WriteLookup writes the lookup as a sorted TSV file.
func WriteLookup(path string, lookup Lookup) error {
	ids := make([]string, 0, len(lookup))
	for id := range lookup {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id)
		sb.WriteByte('\t')
		sb.WriteString(lookup[id])
		sb.WriteByte('\n')
	}
	return artifact.WriteFileAtomic(path, []byte(sb.String()))
}

// SanitizeName strips tabs and newlines so a name cannot break the TSV
// format or downstream markdown headers.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\t", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	return strings.TrimSpace(name)
}
