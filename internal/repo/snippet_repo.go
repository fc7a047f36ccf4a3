package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cadencestack/cadence-engine/internal/cache"
	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

// snippetSchema validates the corpus document before decoding. Records need
// an id and a text body; everything else is optional with defaults.
const snippetSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string", "minLength": 1},
      "category": {"type": "string"},
      "title": {"type": "string"},
      "tags": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

const (
	defaultCategory = "general"
	defaultTitle    = "Suggestion"
)

// SnippetRepo loads the advice snippet corpus from a local file or an HTTP
// endpoint, validates it, and serves it read-only to the retrieval engine.
// Remote corpus bytes are cached through the cache provider; the core never
// mutates the corpus.
type SnippetRepo struct {
	source     string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
	logger     *slog.Logger

	mu       sync.RWMutex
	snippets []models.Snippet
	loaded   bool
	onReload func()
}

// NewSnippetRepo constructs a repo for the given source. A source starting
// with http:// or https:// is fetched remotely; anything else is a file path.
func NewSnippetRepo(logger *slog.Logger, source string, timeout time.Duration, cacheProvider cache.Provider, cacheTTL time.Duration) *SnippetRepo {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SnippetRepo{
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheProvider,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Snippets returns the corpus, loading it on first use.
func (r *SnippetRepo) Snippets(ctx context.Context) ([]models.Snippet, error) {
	r.mu.RLock()
	if r.loaded {
		snippets := r.snippets
		r.mu.RUnlock()
		return snippets, nil
	}
	r.mu.RUnlock()

	if err := r.Reload(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snippets, nil
}

// Reload re-reads and re-validates the corpus from its source.
func (r *SnippetRepo) Reload(ctx context.Context) error {
	data, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	snippets, err := decodeCorpus(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.snippets = snippets
	r.loaded = true
	notify := r.onReload
	r.mu.Unlock()

	if notify != nil {
		notify()
	}
	r.logger.Info("snippet corpus loaded", slog.String("source", r.source), slog.Int("snippets", len(snippets)))
	return nil
}

// OnReload registers a callback invoked after every successful corpus
// (re)load, so downstream caches keyed on corpus contents can be dropped.
func (r *SnippetRepo) OnReload(fn func()) {
	r.mu.Lock()
	r.onReload = fn
	r.mu.Unlock()
}

// IsRemote reports whether the corpus source is an HTTP endpoint.
func (r *SnippetRepo) IsRemote() bool {
	return strings.HasPrefix(r.source, "http://") || strings.HasPrefix(r.source, "https://")
}

// Source returns the configured corpus location.
func (r *SnippetRepo) Source() string { return r.source }

func (r *SnippetRepo) fetch(ctx context.Context) ([]byte, error) {
	if !r.IsRemote() {
		data, err := os.ReadFile(r.source)
		if err != nil {
			return nil, utils.NewAppError("corpus.read", "read corpus file", err)
		}
		return data, nil
	}

	cacheKey := "corpus:" + r.source
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, utils.NewAppError("corpus.fetch", "fetch corpus", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch corpus: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if r.cacheTTL > 0 {
		if err := r.cache.Set(ctx, cacheKey, data, r.cacheTTL); err != nil {
			r.logger.Warn("corpus cache write failed", slog.Any("error", err))
		}
	}
	return data, nil
}

// decodeCorpus validates the raw document against the corpus schema and
// decodes it, applying field defaults.
func decodeCorpus(data []byte) ([]models.Snippet, error) {
	validation, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(snippetSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate corpus: %w", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("corpus schema violation: %s", strings.Join(issues, "; "))
	}

	var raw []models.Snippet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	snippets := make([]models.Snippet, 0, len(raw))
	for _, s := range raw {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("corpus schema violation: duplicate snippet id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Category == "" {
			s.Category = defaultCategory
		}
		if s.Title == "" {
			s.Title = defaultTitle
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		snippets = append(snippets, s)
	}
	return snippets, nil
}
