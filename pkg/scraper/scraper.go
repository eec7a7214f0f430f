package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xhad/aibench/internal/models"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

type ScraperConfig struct {
	RateLimit    float64 // requests per second
	Timeout      time.Duration
	UserAgent    string
	MaxPDFPages  int
	MaxBodyBytes int64
	// HTML extracts web pages. Defaults to TextExtractor.
	HTML HTMLExtractor
	// PDF parses PDF downloads. A nil parser makes every PDF fetch return
	// the missing-capability document.
	PDF PDFParser
}

type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ScraperConfig) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (compatible; aibench/1.0)"
	}
	if config.MaxPDFPages == 0 {
		config.MaxPDFPages = 5
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 20 << 20
	}
	if config.HTML == nil {
		config.HTML = TextExtractor{}
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

func New() *Scraper {
	return NewWithConfig(ScraperConfig{PDF: LedongthucParser{}})
}

// IsPDF reports whether the URL path ends in .pdf, ignoring case.
func IsPDF(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.HasSuffix(strings.ToLower(p), ".pdf")
}

// Fetch retrieves the content behind a URL. It never fails: every error is
// reported as a FetchFailed result carrying a synthetic document.
func (s *Scraper) Fetch(ctx context.Context, urlStr string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			kind := FailureContent
			if IsPDF(urlStr) {
				kind = FailurePDF
			}
			result = FetchFailed{Source: urlStr, Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if IsPDF(urlStr) {
		return s.fetchPDF(ctx, urlStr)
	}
	return s.fetchPage(ctx, urlStr)
}

func (s *Scraper) fetchPage(ctx context.Context, urlStr string) Result {
	body, contentType, err := s.get(ctx, urlStr)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailureContent, Err: err}
	}

	// Pages declared as latin-1 or windows-1252 are decoded to UTF-8 first.
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailureContent, Err: err}
	}

	docs, err := s.config.HTML.Extract(reader, urlStr)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailureContent, Err: err}
	}

	for i := range docs {
		if docs[i].Source == "" {
			docs[i].Source = urlStr
		}
		if docs[i].Metadata == nil {
			docs[i].Metadata = map[string]interface{}{}
		}
		docs[i].Metadata["contentType"] = contentType
		docs[i].Metadata["time"] = time.Now()
	}

	return Fetched{Source: urlStr, Docs: docs}
}

func (s *Scraper) fetchPDF(ctx context.Context, urlStr string) Result {
	body, _, err := s.get(ctx, urlStr)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailurePDF, Err: err}
	}

	if s.config.PDF == nil {
		return FetchFailed{Source: urlStr, Kind: FailureNoPDFParser}
	}

	doc, err := s.config.PDF.Open(body)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailurePDF, Err: err}
	}

	text, total, err := extractPages(doc, s.config.MaxPDFPages)
	if err != nil {
		return FetchFailed{Source: urlStr, Kind: FailurePDF, Err: err}
	}

	if total > s.config.MaxPDFPages {
		slog.Debug("pdf truncated", "url", urlStr, "pages", total, "kept", s.config.MaxPDFPages)
	}

	return Fetched{Source: urlStr, Docs: []models.Document{{
		Source:  urlStr,
		Content: text,
		Metadata: map[string]interface{}{
			"contentType": "application/pdf",
			"pages":       total,
		},
	}}}
}

func (s *Scraper) get(ctx context.Context, urlStr string) ([]byte, string, error) {
	// Apply rate limiting
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
