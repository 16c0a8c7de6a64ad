package artifact

import (
	"log/slog"
	"os"
	"time"
)

// IsCurrent reports whether the artifact at path exists and is at least
// as new as every source. Modification time is the only freshness
// signal; file contents are not inspected. An empty source list cannot
// be judged and reports false.
func IsCurrent(path string, sources []string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if len(sources) == 0 {
		return false
	}
	for _, src := range sources {
		sinfo, err := os.Stat(src)
		if err != nil {
			return false
		}
		if sinfo.ModTime().After(info.ModTime()) {
			return false
		}
	}
	return true
}

// WrittenToday reports whether the file at path exists and was last
// modified on the same local date as now. Stages whose inputs are not
// files, such as git history, use this as their regeneration gate.
func WrittenToday(path string, now time.Time, loc *time.Location) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	my, mm, md := info.ModTime().In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return my == ny && mm == nm && md == nd
}

// SourceRef names one optional or required input artifact for a stage.
type SourceRef struct {
	Name     string
	Path     string
	Required bool
}

// CollectSources gathers the inputs for a stage. The primary path must
// exist; every required ref must exist; optional refs are included when
// present and skipped otherwise. The second result is false when the
// collection cannot satisfy the stage:
//
//   - the primary is missing and nothing else exists, or
//   - any required ref is missing.
func CollectSources(primary string, refs []SourceRef, logger *slog.Logger) ([]string, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	var paths []string
	primaryOK := fileExists(primary)
	if primaryOK {
		paths = append(paths, primary)
	}

	for _, ref := range refs {
		if fileExists(ref.Path) {
			paths = append(paths, ref.Path)
			continue
		}
		if ref.Required {
			logger.Warn("required input missing", "source", ref.Name, "path", ref.Path)
			return nil, false
		}
		logger.Debug("optional input missing", "source", ref.Name, "path", ref.Path)
	}

	if len(paths) == 0 {
		return nil, false
	}
	if !primaryOK {
		logger.Warn("primary input missing, continuing with remaining sources", "path", primary)
	}
	return paths, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
