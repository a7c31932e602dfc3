package merged

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chapter-sync/core/reconcile"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SourceName identifies the merged chapter source.
const SourceName = "merged"

// Source scrapes the chapter list of a series page on the merged site.
type Source struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewSource creates a merged source scraper.
func NewSource(cfg Config, logger *zap.Logger) *Source {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	if cfg.ChapterSelector == "" {
		cfg.ChapterSelector = ".row-content-chapter li"
	}

	return &Source{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	return SourceName
}

// FetchChapters scrapes the merged series page of manga, newest first as listed.
// A manga without merged linkage has no merged chapters.
func (s *Source) FetchChapters(ctx context.Context, manga reconcile.Manga) ([]reconcile.RemoteChapter, error) {
	if !manga.IsMerged() {
		return nil, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manga.MergedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Referer", manga.MergedURL)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merged page %s: %w", manga.MergedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch merged page %s: unexpected status %d", manga.MergedURL, resp.StatusCode)
	}

	chapters, err := s.Parse(resp.Body, resp.Request.URL)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Merged chapters scraped",
		zap.Int64("manga_id", manga.ID),
		zap.Int("chapters", len(chapters)))
	return chapters, nil
}

// Parse reads the chapter list from a series page. Relative links resolve against base.
// Elements without a link are skipped.
func (s *Source) Parse(r io.Reader, base *url.URL) ([]reconcile.RemoteChapter, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse merged page: %w", err)
	}

	var chapters []reconcile.RemoteChapter
	doc.Find(s.cfg.ChapterSelector).Each(func(i int, sel *goquery.Selection) {
		link := sel.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		chapterURL := strings.TrimSpace(href)
		if base != nil {
			if ref, err := url.Parse(chapterURL); err == nil {
				chapterURL = base.ResolveReference(ref).String()
			}
		}

		name := strings.Join(strings.Fields(link.Text()), " ")
		number, volume := RecognizeNumbers(name)

		chapters = append(chapters, reconcile.RemoteChapter{
			URL:           chapterURL,
			Name:          name,
			Scanlator:     s.cfg.Scanlator,
			Language:      s.cfg.Language,
			ChapterNumber: number,
			VolumeNumber:  volume,
			UploadedAt:    s.uploadedAt(sel),
		})
	})

	return chapters, nil
}

// uploadedAt parses the chapter date, zero when absent or unparseable.
func (s *Source) uploadedAt(sel *goquery.Selection) time.Time {
	if s.cfg.DateSelector == "" || s.cfg.DateLayout == "" {
		return time.Time{}
	}
	dateSel := sel.Find(s.cfg.DateSelector).First()
	raw, ok := dateSel.Attr("title")
	if !ok {
		raw = dateSel.Text()
	}
	t, err := time.Parse(s.cfg.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
