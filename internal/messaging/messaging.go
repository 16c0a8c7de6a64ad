// Package messaging delivers generated overviews to chat platforms.
package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

// Content is a message ready for delivery.
type Content struct {
	// Title becomes the message header.
	Title string
	// Summary is the overview body in markdown.
	Summary string
	// Details is the optional long-form appendix, such as the full
	// individual change summaries.
	Details string
}

// Result records one consumer's delivery outcome. URL points at the
// delivered message or its details page when the platform provides one.
type Result struct {
	Consumer string
	OK       bool
	URL      string
	Error    string
}

// Consumer posts content to one destination, returning a link to the
// delivered message when available.
type Consumer interface {
	Name() string
	Post(ctx context.Context, content Content) (string, error)
}

// Manager fans content out to its consumers.
type Manager struct {
	consumers []Consumer
	logger    *slog.Logger
}

// NewManager builds a manager from the messaging configuration. An empty
// active platform yields a manager with no consumers.
func NewManager(cfg config.MessagingConfig, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{logger: logger}

	switch cfg.Active {
	case "":
	case "slack":
		slack, err := NewSlackConsumer(cfg.Slack)
		if err != nil {
			return nil, err
		}
		m.consumers = append(m.consumers, slack)
	default:
		return nil, fmt.Errorf("unknown messaging platform: %s", cfg.Active)
	}
	return m, nil
}

// NewManagerWith builds a manager over explicit consumers.
func NewManagerWith(logger *slog.Logger, consumers ...Consumer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{consumers: consumers, logger: logger}
}

// HasConsumers reports whether any delivery destination is configured.
func (m *Manager) HasConsumers() bool { return len(m.consumers) > 0 }

// PostAll delivers content to every consumer. One consumer failing does
// not stop the others.
func (m *Manager) PostAll(ctx context.Context, content Content) []Result {
	results := make([]Result, 0, len(m.consumers))
	for _, c := range m.consumers {
		url, err := c.Post(ctx, content)
		res := Result{Consumer: c.Name(), OK: err == nil, URL: url}
		if err != nil {
			res.Error = err.Error()
			m.logger.Error("message delivery failed", "consumer", c.Name(), "error", err)
		} else {
			m.logger.Info("message delivered", "consumer", c.Name(), "url", url)
		}
		results = append(results, res)
	}
	return results
}
