package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

const (
	defaultSlackBaseURL = "https://slack.com/api"
	sectionBlockLimit   = 3000
)

// SlackConsumer posts overviews to a Slack channel, optionally attaching
// the long-form details as a canvas.
type SlackConsumer struct {
	token     string
	channel   string
	headerMax int

	detailsInCanvas bool
	detailsLink     string

	baseURL string
	http    *http.Client
}

// NewSlackConsumer builds the consumer. The token falls back to the
// SLACK_TOKEN environment variable.
func NewSlackConsumer(cfg config.SlackConfig) (*SlackConsumer, error) {
	token := cfg.Token
	if token == "" {
		token = os.Getenv("SLACK_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("slack: no token configured")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("slack: no channel configured")
	}

	headerMax := cfg.HeaderMaxLength
	if headerMax <= 0 || headerMax > 150 {
		headerMax = 150
	}

	return &SlackConsumer{
		token:           token,
		channel:         cfg.ChannelID,
		headerMax:       headerMax,
		detailsInCanvas: cfg.PostDetailsInCanvas,
		detailsLink:     cfg.PostDetailsLink,
		baseURL:         defaultSlackBaseURL,
		http:            &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (*SlackConsumer) Name() string { return "slack" }

// Post delivers the content as a blocks message and returns the details
// link when one exists. Canvas failures degrade to posting without the
// details link rather than failing the delivery.
func (s *SlackConsumer) Post(ctx context.Context, content Content) (string, error) {
	detailsURL := ""
	if content.Details != "" && s.detailsInCanvas {
		link, err := s.createDetailsCanvas(ctx, content.Title, content.Details)
		if err == nil {
			detailsURL = link
		}
	}
	if detailsURL == "" && s.detailsLink != "" {
		detailsURL = s.detailsLink
	}

	blocks := s.buildBlocks(content, detailsURL)
	payload := map[string]any{
		"channel": s.channel,
		"text":    TruncateHeader(content.Title, s.headerMax),
		"blocks":  blocks,
	}

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := s.call(ctx, "chat.postMessage", payload, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("slack: chat.postMessage: %s", resp.Error)
	}
	return detailsURL, nil
}

func (s *SlackConsumer) buildBlocks(content Content, detailsURL string) []map[string]any {
	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{
				"type": "plain_text",
				"text": TruncateHeader(content.Title, s.headerMax),
			},
		},
	}
	for _, chunk := range splitBlocks(ToMrkdwn(content.Summary), sectionBlockLimit) {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": chunk},
		})
	}
	if detailsURL != "" {
		blocks = append(blocks, map[string]any{
			"type": "context",
			"elements": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("<%s|Full change details>", detailsURL)},
			},
		})
	}
	return blocks
}

// createDetailsCanvas creates a canvas with the details, shares it with
// the channel, and returns its permalink.
func (s *SlackConsumer) createDetailsCanvas(ctx context.Context, title, details string) (string, error) {
	var created struct {
		OK       bool   `json:"ok"`
		Error    string `json:"error"`
		CanvasID string `json:"canvas_id"`
	}
	err := s.call(ctx, "canvases.create", map[string]any{
		"title": title,
		"document_content": map[string]any{
			"type":     "markdown",
			"markdown": details,
		},
	}, &created)
	if err != nil {
		return "", err
	}
	if !created.OK {
		return "", fmt.Errorf("slack: canvases.create: %s", created.Error)
	}

	var access struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	err = s.call(ctx, "canvases.access.set", map[string]any{
		"canvas_id":    created.CanvasID,
		"access_level": "read",
		"channel_ids":  []string{s.channel},
	}, &access)
	if err != nil {
		return "", err
	}
	if !access.OK {
		return "", fmt.Errorf("slack: canvases.access.set: %s", access.Error)
	}

	// A canvas is a file object; its permalink comes from files.info.
	var info struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
		File  struct {
			Permalink string `json:"permalink"`
		} `json:"file"`
	}
	q := url.Values{"file": {created.CanvasID}}
	if err := s.get(ctx, "files.info", q, &info); err != nil {
		return "", err
	}
	if !info.OK {
		return "", fmt.Errorf("slack: files.info: %s", info.Error)
	}
	return info.File.Permalink, nil
}

func (s *SlackConsumer) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+s.token)
	return s.do(req, method, out)
}

func (s *SlackConsumer) get(ctx context.Context, method string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/"+method+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	return s.do(req, method, out)
}

func (s *SlackConsumer) do(req *http.Request, method string, out any) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack: %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack: %s: %s", method, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("slack: %s: decode response: %w", method, err)
	}
	return nil
}
