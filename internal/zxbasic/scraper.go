package zxbasic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL     = "https://github.com"
	DefaultIndexPath   = "/boriel/zxbasic/blob/master/docs/identifier.md"
	DefaultConcurrency = 8
	DefaultTimeout     = 30 * time.Second

	maxPageSize = 4 * 1024 * 1024
)

// Options configures a Scraper. Zero values select the defaults.
type Options struct {
	BaseURL     string
	IndexPath   string
	Concurrency int
	Client      *http.Client
	Cache       *Cache
	Logger      logrus.FieldLogger
}

// Scraper builds the ZX BASIC keyword table from the compiler's
// documentation pages
type Scraper struct {
	baseURL     string
	indexPath   string
	concurrency int
	client      *http.Client
	cache       *Cache
	logger      logrus.FieldLogger
}

// NewScraper creates a scraper with the given options
func NewScraper(opts Options) *Scraper {
	s := &Scraper{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		indexPath:   opts.IndexPath,
		concurrency: opts.Concurrency,
		client:      opts.Client,
		cache:       opts.Cache,
		logger:      opts.Logger,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.indexPath == "" {
		s.indexPath = DefaultIndexPath
	}
	if s.concurrency < 1 {
		s.concurrency = DefaultConcurrency
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: DefaultTimeout}
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

// IndexURL returns the address of the identifier index page
func (s *Scraper) IndexURL() string {
	return s.baseURL + s.indexPath
}

// Scrape fetches the index page and the page of every listed keyword.
// Keywords keep their index order. A keyword whose page cannot be
// fetched takes its cached entry, or a nil description when the cache
// has none. When the index itself cannot be fetched the cached table is
// returned if there is one.
func (s *Scraper) Scrape(ctx context.Context) ([]Keyword, error) {
	entries, err := s.menu(ctx)
	if err != nil {
		if s.cache.Len() == 0 {
			return nil, err
		}
		s.logger.WithError(err).Warn("index unavailable, using cached keyword table")
		return s.cache.Keywords(), nil
	}
	entries = FilterOperators(entries)
	s.logger.WithField("keywords", len(entries)).Info("index parsed")

	keywords := make([]Keyword, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keywords[i] = s.keyword(gctx, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (s *Scraper) menu(ctx context.Context) ([]MenuEntry, error) {
	body, err := s.get(ctx, s.IndexURL())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch keyword index: %w", err)
	}
	defer body.Close()
	return ParseMenu(body)
}

func (s *Scraper) keyword(ctx context.Context, entry MenuEntry) Keyword {
	link := s.resolve(entry.Href)
	log := s.logger.WithFields(logrus.Fields{"keyword": entry.Keyword, "link": link})

	description, err := s.description(ctx, link)
	if err != nil {
		if cached, ok := s.cache.Lookup(entry.Keyword); ok {
			log.WithError(err).Warn("keyword page unavailable, using cached entry")
			return cached
		}
		log.WithError(err).Error("keyword page unavailable")
		return Keyword{Keyword: entry.Keyword, Link: link}
	}

	log.Debug("keyword fetched")
	return Keyword{Keyword: entry.Keyword, Description: &description, Link: link}
}

func (s *Scraper) description(ctx context.Context, link string) (string, error) {
	body, err := s.get(ctx, link+"?raw=true")
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", link, err)
	}
	return FormatDescription(string(data)), nil
}

func (s *Scraper) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// resolve turns a site relative href into an absolute link
func (s *Scraper) resolve(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.baseURL + href
}
