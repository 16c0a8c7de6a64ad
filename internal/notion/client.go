// Package notion mirrors workspace pages from the Notion API into the
// local git repository as markdown files.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

const defaultNotionBaseURL = "https://api.notion.com"

// Client is a minimal Notion API client covering search, users, pages,
// and block children.
type Client struct {
	apiKey     string
	apiVersion string
	pageSize   int
	baseURL    string
	http       *http.Client
}

// NewClient builds a client. The API key falls back to NOTION_API_KEY.
func NewClient(cfg config.NotionAPIConfig) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("NOTION_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("notion: no API key configured")
	}

	version := cfg.APIVersion
	if version == "" {
		version = "2022-06-28"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	return &Client{
		apiKey:     key,
		apiVersion: version,
		pageSize:   pageSize,
		baseURL:    defaultNotionBaseURL,
		http:       &http.Client{Timeout: time.Minute},
	}, nil
}

// Page is the subset of page metadata the sync needs.
type Page struct {
	ID             string    `json:"id"`
	LastEditedTime time.Time `json:"last_edited_time"`
	LastEditedBy   struct {
		ID string `json:"id"`
	} `json:"last_edited_by"`
	Parent struct {
		Type   string `json:"type"`
		PageID string `json:"page_id"`
	} `json:"parent"`
	Properties map[string]struct {
		Type  string     `json:"type"`
		Title []richText `json:"title"`
	} `json:"properties"`
	Archived bool `json:"archived"`
}

// Title extracts the page's title property.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return plainText(prop.Title)
		}
	}
	return ""
}

type searchRequest struct {
	Query       string         `json:"query,omitempty"`
	Filter      map[string]any `json:"filter,omitempty"`
	Sort        map[string]any `json:"sort,omitempty"`
	StartCursor string         `json:"start_cursor,omitempty"`
	PageSize    int            `json:"page_size"`
}

type searchResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// PagesEditedSince lists pages edited after since, newest first.
// Pagination stops as soon as a result crosses back past the cutoff,
// because results arrive sorted by descending edit time.
func (c *Client) PagesEditedSince(ctx context.Context, since time.Time) ([]Page, error) {
	var pages []Page
	cursor := ""

	for {
		req := searchRequest{
			Filter:      map[string]any{"property": "object", "value": "page"},
			Sort:        map[string]any{"timestamp": "last_edited_time", "direction": "descending"},
			StartCursor: cursor,
			PageSize:    c.pageSize,
		}
		var resp searchResponse
		if err := c.post(ctx, "/v1/search", req, &resp); err != nil {
			return nil, err
		}

		crossed := false
		for _, raw := range resp.Results {
			var page Page
			if err := json.Unmarshal(raw, &page); err != nil {
				continue
			}
			if !page.LastEditedTime.After(since) {
				crossed = true
				break
			}
			pages = append(pages, page)
		}

		if crossed || !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// GetPage fetches one page's metadata.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/v1/pages/"+id, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// User is a workspace member.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type usersResponse struct {
	Results    []User `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// ListUsers returns every workspace user.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	cursor := ""
	for {
		path := fmt.Sprintf("/v1/users?page_size=%d", c.pageSize)
		if cursor != "" {
			path += "&start_cursor=" + cursor
		}
		var resp usersResponse
		if err := c.get(ctx, path, &resp); err != nil {
			return nil, err
		}
		users = append(users, resp.Results...)
		if !resp.HasMore {
			return users, nil
		}
		cursor = resp.NextCursor
	}
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.get(ctx, "/v1/users/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type blocksResponse struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// BlockChildren returns a block's direct children across all pages.
func (c *Client) BlockChildren(ctx context.Context, id string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", id, c.pageSize)
		if cursor != "" {
			path += "&start_cursor=" + cursor
		}
		var resp blocksResponse
		if err := c.get(ctx, path, &resp); err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

// PagePath walks the parent chain and renders the page's location as
// "Ancestor / Parent / Title". The walk is capped to avoid cycles.
func (c *Client) PagePath(ctx context.Context, page *Page) string {
	const maxDepth = 10

	titles := []string{page.Title()}
	current := page
	for depth := 0; depth < maxDepth; depth++ {
		if current.Parent.Type != "page_id" || current.Parent.PageID == "" {
			break
		}
		parent, err := c.GetPage(ctx, current.Parent.PageID)
		if err != nil {
			break
		}
		titles = append([]string{parent.Title()}, titles...)
		current = parent
	}
	return joinPath(titles)
}

func joinPath(titles []string) string {
	out := ""
	for _, t := range titles {
		if t == "" {
			t = "Untitled"
		}
		if out != "" {
			out += " / "
		}
		out += t
	}
	return out
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return fmt.Errorf("notion: %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode %s: %w", req.URL.Path, err)
	}
	return nil
}
