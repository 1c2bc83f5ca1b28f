package video

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const cacheTTL = 10 * time.Minute

// Categories offered by the browse screen. Each maps to a canned query.
var categoryQueries = map[string]string{
	"focus":      "deep focus music for studying",
	"lofi":       "lofi hip hop beats",
	"classical":  "classical music for concentration",
	"nature":     "nature sounds for relaxation",
	"motivation": "productivity motivation talk",
	"study":      "study with me pomodoro",
}

// Catalog layers caching and the offline fallback over the raw client.
type Catalog struct {
	client *Client
	cache  *pageCache
	log    zerolog.Logger
}

// NewCatalog creates a catalog over client.
func NewCatalog(client *Client, log zerolog.Logger) *Catalog {
	return &Catalog{
		client: client,
		cache:  newPageCache(cacheTTL),
		log:    log,
	}
}

// Categories lists the known category keys.
func Categories() []string {
	out := make([]string, 0, len(categoryQueries))
	for k := range categoryQueries {
		out = append(out, k)
	}
	return out
}

// ByCategory fetches a page for a category. First pages are cached;
// continuation pages always hit the API. A failed first page degrades
// to the static offline list, a failed continuation to "no more
// results" - the caller never sees a catalog error.
func (c *Catalog) ByCategory(ctx context.Context, category, pageToken string) *Page {
	query, ok := categoryQueries[strings.ToLower(category)]
	if !ok {
		query = category
	}
	return c.fetch(ctx, "cat:"+strings.ToLower(category), query, pageToken)
}

// Search fetches a page for a free-text query with the same
// degradation rules as ByCategory.
func (c *Catalog) Search(ctx context.Context, query, pageToken string) *Page {
	return c.fetch(ctx, "q:"+strings.ToLower(strings.TrimSpace(query)), query, pageToken)
}

func (c *Catalog) fetch(ctx context.Context, cacheKey, query, pageToken string) *Page {
	firstPage := pageToken == ""

	if firstPage {
		if page := c.cache.Get(cacheKey); page != nil {
			return page
		}
	}

	page, err := c.client.Search(ctx, query, pageToken)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("catalog request failed")
		if firstPage {
			return fallbackPage()
		}
		return &Page{}
	}

	if firstPage {
		c.cache.Put(cacheKey, page)
	}
	return page
}
