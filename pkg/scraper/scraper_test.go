package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `
<html>
	<head><title>Test Page</title></head>
	<body>
		<nav>Home | About</nav>
		<main>
			<h1>AI in Retail</h1>
			<p>Carrefour uses computer vision to track shelf stock.</p>
			<ul><li>Forecasting</li><li>Pricing</li></ul>
		</main>
		<footer>Privacy Policy</footer>
	</body>
</html>`

func newTestServer(t *testing.T, pdf []byte) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/article.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	})
	mux.HandleFunc("/empty.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><script>var x = 1;</script></body></html>"))
	})
	mux.HandleFunc("/latin1.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Intelligence artificielle appliquée" with é as 0xE9
		w.Write([]byte("<html><body><p>Intelligence artificielle appliqu\xe9e</p></body></html>"))
	})
	mux.HandleFunc("/report.PDF", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testScraper(parser PDFParser) *Scraper {
	return NewWithConfig(ScraperConfig{RateLimit: 100, PDF: parser})
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.com/report.pdf", true},
		{"https://example.com/REPORT.PDF", true},
		{"https://example.com/report.pdf?download=1", true},
		{"https://example.com/report.pdf#page=2", true},
		{"https://example.com/pdf/overview", false},
		{"https://example.com/page.html", false},
		{"https://example.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPDF(tt.url))
		})
	}
}

func TestFetchPage(t *testing.T) {
	server := newTestServer(t, nil)
	url := server.URL + "/article.html"

	result := testScraper(nil).Fetch(context.Background(), url)
	require.False(t, result.Failed())

	docs := result.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, url, docs[0].Source)
	assert.Equal(t, "Test Page", docs[0].Title)
	assert.Contains(t, docs[0].Content, "AI in Retail")
	assert.Contains(t, docs[0].Content, "computer vision")
	assert.NotContains(t, docs[0].Content, "Home | About")
	assert.Equal(t, "text/html", docs[0].Metadata["contentType"])
}

func TestFetchPageMarkdown(t *testing.T) {
	server := newTestServer(t, nil)

	s := NewWithConfig(ScraperConfig{RateLimit: 100, HTML: NewMarkdownExtractor()})
	result := s.Fetch(context.Background(), server.URL+"/article.html")
	require.False(t, result.Failed())

	content := result.Documents()[0].Content
	assert.Contains(t, content, "# AI in Retail")
	assert.Contains(t, content, "Forecasting")
}

func TestFetchPageCharset(t *testing.T) {
	server := newTestServer(t, nil)

	result := testScraper(nil).Fetch(context.Background(), server.URL+"/latin1.html")
	require.False(t, result.Failed())
	assert.Contains(t, result.Documents()[0].Content, "appliquée")
}

func TestFetchFailures(t *testing.T) {
	server := newTestServer(t, nil)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name    string
		url     string
		message string
	}{
		{"page not found", server.URL + "/missing.html", "Error loading content from"},
		{"page without text", server.URL + "/empty.html", "Error loading content from"},
		{"unreachable page", closedURL + "/article.html", "Error loading content from"},
		{"pdf not found", server.URL + "/missing.pdf", "Error loading PDF"},
		{"unreachable pdf", closedURL + "/report.pdf", "Error loading PDF"},
		{"invalid url", "http://[::1]:namedport/x", "Error loading content from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testScraper(fakePages(1)).Fetch(context.Background(), tt.url)
			assert.True(t, result.Failed())

			docs := result.Documents()
			require.Len(t, docs, 1)
			assert.Equal(t, tt.url, docs[0].Source)
			assert.Contains(t, docs[0].Content, tt.message)
			assert.Contains(t, docs[0].Content, tt.url)
		})
	}
}

func TestFetchPDF(t *testing.T) {
	server := newTestServer(t, []byte("%PDF-1.4 stub"))

	t.Run("short document", func(t *testing.T) {
		result := testScraper(fakePages(3)).Fetch(context.Background(), server.URL+"/report.pdf")
		require.False(t, result.Failed())

		docs := result.Documents()
		require.Len(t, docs, 1)
		assert.Equal(t, "Page 1 text\n\nPage 2 text\n\nPage 3 text\n\n", docs[0].Content)
		assert.NotContains(t, docs[0].Content, "truncated")
		assert.Equal(t, 3, docs[0].Metadata["pages"])
	})

	t.Run("long document", func(t *testing.T) {
		result := testScraper(fakePages(12)).Fetch(context.Background(), server.URL+"/report.PDF")
		require.False(t, result.Failed())

		docs := result.Documents()
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].Content, "5 of 12")
		assert.Equal(t, 1, strings.Count(docs[0].Content, "[Note:"))
	})

	t.Run("no parser", func(t *testing.T) {
		url := server.URL + "/report.pdf"
		result := testScraper(nil).Fetch(context.Background(), url)
		require.True(t, result.Failed())

		docs := result.Documents()
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].Content, "PDF processing requires a PDF parser")
		assert.Equal(t, url, docs[0].Source)
	})

	t.Run("parse error", func(t *testing.T) {
		parser := &fakePDF{openErr: assert.AnError}
		result := testScraper(parser).Fetch(context.Background(), server.URL+"/report.pdf")
		require.True(t, result.Failed())
		assert.Contains(t, result.Documents()[0].Content, "Error loading PDF")
	})
}

func TestFetchRealPDF(t *testing.T) {
	server := newTestServer(t, buildPDF([]string{"First page", "Second page", "Third page"}))

	result := New().Fetch(context.Background(), server.URL+"/report.pdf")
	require.False(t, result.Failed(), "unexpected failure: %v", result.Documents()[0].Content)

	content := result.Documents()[0].Content
	assert.Contains(t, content, "First")
	assert.Contains(t, content, "Third")
	assert.NotContains(t, content, "[Note:")
}
