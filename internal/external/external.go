// Package external collects optional per-date markdown inputs produced by
// other tooling, such as nightly paper feeds, and formats them for
// inclusion in generation prompts.
package external

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/config"
)

// Content is one fetched external input.
type Content struct {
	Name        string
	Description string
	Body        string
}

// Manager reads configured external sources from the artifact store.
type Manager struct {
	store   *artifact.Store
	sources []config.ExternalSourceConfig
	logger  *slog.Logger
}

// NewManager builds a manager over the configured sources. When external
// content is disabled the manager is still usable and fetches nothing.
func NewManager(store *artifact.Store, cfg config.ExternalContentConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	var sources []config.ExternalSourceConfig
	if cfg.Enabled {
		for _, s := range cfg.Sources {
			if s.FileSuffix == "" {
				continue
			}
			sources = append(sources, s)
		}
	}
	return &Manager{store: store, sources: sources, logger: logger}
}

// FetchAll reads every configured source for date, in configuration order.
// Missing or empty files are skipped.
func (m *Manager) FetchAll(date time.Time) []Content {
	var out []Content
	for _, src := range m.sources {
		path := m.store.Path(date, src.FileSuffix)
		data, err := os.ReadFile(path)
		if err != nil {
			m.logger.Debug("external source not available", "source", src.Name, "path", path)
			continue
		}
		body := strings.TrimSpace(string(data))
		if body == "" {
			continue
		}
		desc := src.Description
		if desc == "" {
			desc = src.Name
		}
		out = append(out, Content{Name: src.Name, Description: desc, Body: body})
	}
	return out
}

// SourceRefs describes the sources as input references for freshness and
// collection checks.
func (m *Manager) SourceRefs(date time.Time) []artifact.SourceRef {
	refs := make([]artifact.SourceRef, 0, len(m.sources))
	for _, src := range m.sources {
		refs = append(refs, artifact.SourceRef{
			Name:     src.Name,
			Path:     m.store.Path(date, src.FileSuffix),
			Required: src.Required,
		})
	}
	return refs
}

// FormatForPrompt renders fetched contents as a markdown section for
// inclusion in a generation prompt. Empty input yields "".
func FormatForPrompt(contents []Content) string {
	if len(contents) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Additional Content\n")
	for _, c := range contents {
		sb.WriteString("\n### ")
		sb.WriteString(c.Description)
		sb.WriteString("\n\n")
		sb.WriteString(c.Body)
		sb.WriteString("\n")
	}
	return sb.String()
}
