package mangadex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chapter-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SourceName identifies chapters fetched by this package.
const SourceName = "mangadex"

// ErrNotFound is returned when MangaDex does not know the manga.
var ErrNotFound = errors.New("manga not found on mangadex")

// Client fetches manga documents from the MangaDex API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	parser    *Parser
	logger    *zap.Logger
}

// NewClient creates a throttled API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		parser:    NewParser(cfg.Languages, nil),
		logger:    logger,
	}
}

// Name returns the source name.
func (c *Client) Name() string {
	return SourceName
}

// FetchChapters returns the chapters of manga, newest first.
func (c *Client) FetchChapters(ctx context.Context, manga reconcile.Manga) ([]reconcile.RemoteChapter, error) {
	feed, err := c.FetchFeed(ctx, MangaID(manga.URL))
	if err != nil {
		return nil, err
	}
	return feed.Chapters, nil
}

// FetchDetails returns manga with its title and status refreshed, along with its chapters.
func (c *Client) FetchDetails(ctx context.Context, manga reconcile.Manga) (reconcile.Manga, []reconcile.RemoteChapter, error) {
	feed, err := c.FetchFeed(ctx, MangaID(manga.URL))
	if err != nil {
		return manga, nil, err
	}
	if feed.Title != "" {
		manga.Title = feed.Title
	}
	manga.Status = feed.Status
	return manga, feed.Chapters, nil
}

// FetchFeed downloads and parses the manga document of a MangaDex id.
func (c *Client) FetchFeed(ctx context.Context, id string) (*Feed, error) {
	if id == "" {
		return nil, fmt.Errorf("failed to fetch manga: empty mangadex id")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/manga/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manga %s: %w", id, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("MangaDex request",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch manga %s: unexpected status %d", id, resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manga %s: %w", id, err)
	}
	return feed, nil
}
