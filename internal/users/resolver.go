package users

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// FetchFunc retrieves a user's display name from the document source.
type FetchFunc func(ctx context.Context, id string) (string, error)

// Resolver resolves editor IDs to names, consulting the generated
// userlist, the hand-maintained override file, a per-run cache, and
// finally the document-source API. Names fetched from the API are
// appended to the override file so the next run does not fetch again.
type Resolver struct {
	mu           sync.Mutex
	known        Lookup
	overridePath string
	fetch        FetchFunc
	logger       *slog.Logger
}

// NewResolver builds a resolver from the userlist and override files.
// fetch may be nil, in which case unknown IDs resolve to themselves.
func NewResolver(userlistPath, overridePath string, fetch FetchFunc, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	known, err := LoadLookup(userlistPath)
	if err != nil {
		return nil, err
	}
	overrides, err := LoadLookup(overridePath)
	if err != nil {
		return nil, err
	}
	known.Merge(overrides)

	return &Resolver{
		known:        known,
		overridePath: overridePath,
		fetch:        fetch,
		logger:       logger,
	}, nil
}

// Resolve returns the display name for id. Lookups hit, in order: the
// loaded tables (including anything resolved earlier this run), then the
// fetch callback. Fetch failures fall back to the raw ID, and the
// fallback is cached so each unknown ID is fetched at most once per run.
func (r *Resolver) Resolve(ctx context.Context, id string) string {
	r.mu.Lock()
	if name, ok := r.known[id]; ok {
		r.mu.Unlock()
		return name
	}
	r.mu.Unlock()

	if r.fetch == nil {
		return id
	}

	name, err := r.fetch(ctx, id)
	if err != nil || name == "" {
		r.logger.Warn("could not resolve user, using raw id", "user_id", id, "error", err)
		r.mu.Lock()
		r.known[id] = id
		r.mu.Unlock()
		return id
	}
	name = SanitizeName(name)

	r.mu.Lock()
	r.known[id] = name
	r.mu.Unlock()

	if err := r.appendOverride(id, name); err != nil {
		r.logger.Warn("could not persist resolved user", "user_id", id, "error", err)
	}
	return name
}

// appendOverride records a newly fetched name in the override file so it
// survives across runs without regenerating the full userlist.
func (r *Resolver) appendOverride(id, name string) error {
	if r.overridePath == "" {
		return nil
	}
	f, err := os.OpenFile(r.overridePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\t%s\n", id, name)
	return err
}
