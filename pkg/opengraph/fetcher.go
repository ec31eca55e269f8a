package opengraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httputil "github.com/sharesheet/sharesheet/pkg/http"
	"github.com/sharesheet/sharesheet/pkg/shareurl"
	"github.com/sharesheet/sharesheet/pkg/urlutils"
)

// Fetcher retrieves Open Graph metadata for preview rendering. With an
// unfurl endpoint configured it consumes the remote unfurl API; without one
// it falls back to fetching the page itself and extracting the meta tags.
//
// Fetch never surfaces an error to its caller: every failure mode resolves
// to a nil result, which the cache remembers.
type Fetcher struct {
	client   *httputil.Client
	endpoint string
	cache    *Cache

	domainMu  sync.Mutex
	lastFetch map[string]time.Time
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	// Endpoint is the remote unfurl service, consumed as GET <Endpoint>?url=<target>.
	// Empty means direct HTML extraction.
	Endpoint string
	// HTTP overrides the transport configuration.
	HTTP *httputil.ClientConfig
}

// NewFetcher creates a fetcher backed by the given cache. A nil cache gets a
// fresh one, scoped to this fetcher.
func NewFetcher(config FetcherConfig, cache *Cache) *Fetcher {
	if cache == nil {
		cache = NewCache()
	}

	httpConfig := config.HTTP
	if httpConfig == nil {
		httpConfig = httputil.DefaultConfig()
		// Preview fetches are best-effort; a failure is cached, not retried.
		httpConfig.MaxRetries = 0
	}

	return &Fetcher{
		client:    httputil.NewClient(httpConfig),
		endpoint:  config.Endpoint,
		cache:     cache,
		lastFetch: make(map[string]time.Time),
	}
}

// Cache returns the fetcher's cache, for composition roots that need to
// clear it.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// Fetch returns Open Graph metadata for targetURL, or nil when none could be
// obtained. Results (including failures) are memoized for the cache
// lifetime; overlapping calls for the same URL share one network request.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) *Data {
	if targetURL == "" {
		return nil
	}

	return f.cache.Do(ctx, targetURL, func(ctx context.Context) *Data {
		data, err := f.fetchFresh(ctx, targetURL)
		if err != nil {
			slog.Debug("Failed to fetch OpenGraph data", "url", targetURL, "error", err)
			return nil
		}
		return data
	})
}

// fetchFresh performs one uncached fetch.
func (f *Fetcher) fetchFresh(ctx context.Context, targetURL string) (*Data, error) {
	if f.endpoint != "" {
		return f.fetchUnfurl(ctx, targetURL)
	}
	return f.fetchPage(ctx, targetURL)
}

// fetchUnfurl asks the remote unfurl endpoint for metadata.
func (f *Fetcher) fetchUnfurl(ctx context.Context, targetURL string) (*Data, error) {
	slog.Debug("Fetching OpenGraph data from unfurl endpoint", "url", targetURL)

	resp, err := f.client.GetWithContext(ctx, f.endpoint+"?url="+shareurl.Escape(targetURL))
	if err != nil {
		return nil, fmt.Errorf("unfurl request failed: %w", err)
	}

	var envelope unfurlEnvelope
	if err := httputil.DecodeJSONResponse(resp, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode unfurl response: %w", err)
	}

	if envelope.Status != "success" || envelope.Data == nil {
		return nil, fmt.Errorf("unfurl returned status %q", envelope.Status)
	}

	data := &Data{
		Title:       envelope.Data.Title,
		Description: envelope.Data.Description,
		SiteName:    envelope.Data.Publisher,
		URL:         envelope.Data.URL,
	}
	if envelope.Data.Image != nil {
		data.Image = envelope.Data.Image.URL
	}
	if data.URL == "" {
		data.URL = targetURL
	}

	slog.Debug("Fetched OpenGraph data", "url", targetURL, "title", data.Title)
	return data, nil
}

// waitForDomain applies per-domain rate limiting so direct page fetches hit
// each host at most once per second.
func (f *Fetcher) waitForDomain(ctx context.Context, targetURL string) error {
	domain, err := urlutils.Host(targetURL)
	if err != nil {
		return err
	}

	f.domainMu.Lock()
	if last, exists := f.lastFetch[domain]; exists {
		sinceLast := time.Since(last)
		if sinceLast < time.Second {
			sleep := time.Second - sinceLast
			f.domainMu.Unlock()
			slog.Debug("Rate limiting domain", "domain", domain, "sleep", sleep)
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
			f.domainMu.Lock()
		}
	}
	f.lastFetch[domain] = time.Now()
	f.domainMu.Unlock()

	return nil
}
