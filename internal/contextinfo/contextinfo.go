// Package contextinfo gathers situational context lines, such as today's
// date or local weather, that generation prompts can mention.
package contextinfo

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

// Provider supplies one piece of context text.
type Provider interface {
	Name() string
	// Context returns the provider's text for the given date. An empty
	// string means nothing to contribute.
	Context(ctx context.Context, date time.Time) (string, error)
}

// registry maps provider type names to constructors. Constructors may
// return nil when the entry's configuration yields nothing usable.
var registry = map[string]func(config.ContextProviderConfig) Provider{
	"static": func(cfg config.ContextProviderConfig) Provider {
		if strings.TrimSpace(cfg.Content) == "" {
			return nil
		}
		return staticProvider{content: cfg.Content}
	},
	"date": func(config.ContextProviderConfig) Provider {
		return dateProvider{}
	},
	"weather": func(cfg config.ContextProviderConfig) Provider {
		return NewWeatherProvider(cfg)
	},
}

// Build constructs the configured providers in order. Unknown type names
// are logged and skipped.
func Build(entries []config.ContextProviderConfig, logger *slog.Logger) []Provider {
	if logger == nil {
		logger = slog.Default()
	}

	var providers []Provider
	for _, entry := range entries {
		construct, ok := registry[entry.Type]
		if !ok {
			logger.Warn("unknown context provider", "type", entry.Type)
			continue
		}
		if p := construct(entry); p != nil {
			providers = append(providers, p)
		}
	}
	return providers
}

// Gather runs every provider and joins their contributions into a block
// for the prompt. Provider failures are logged and skipped.
func Gather(ctx context.Context, providers []Provider, date time.Time, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	var parts []string
	for _, p := range providers {
		text, err := p.Context(ctx, date)
		if err != nil {
			logger.Warn("context provider failed", "provider", p.Name(), "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Context:\n" + strings.Join(parts, "\n")
}

type staticProvider struct {
	content string
}

func (staticProvider) Name() string { return "static" }

func (p staticProvider) Context(_ context.Context, _ time.Time) (string, error) {
	return p.content, nil
}

type dateProvider struct{}

func (dateProvider) Name() string { return "date" }

// Dates are midnight-UTC calendar values, so they format directly.
func (dateProvider) Context(_ context.Context, date time.Time) (string, error) {
	return "Today is " + date.Format("Monday, January 2, 2006") + ".", nil
}
