package observe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
)

// tissues are the sample types the extractor recognizes in page text.
var tissues = []string{
	"pancreas", "breast", "lung", "kidney", "liver", "brain",
	"colon", "lymph node", "prostate", "skin",
}

// HTTPDialer opens page observation sessions over plain HTTP. One underlying
// client is shared by every session it dials.
type HTTPDialer struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPDialer builds a dialer with a per-fetch timeout.
func NewHTTPDialer(timeout time.Duration) *HTTPDialer {
	return &HTTPDialer{
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

// Dial returns a session backed by the shared client.
func (d *HTTPDialer) Dial(_ context.Context) (Session, error) {
	if d.Client == nil {
		return nil, fmt.Errorf("http client is not configured")
	}
	return &httpSession{client: d.Client}, nil
}

type httpSession struct {
	client *http.Client
}

func (s *httpSession) Observe(ctx context.Context, rec dataset.Record) (dataset.Record, error) {
	url := rec.URL()
	if url == "" {
		return nil, fmt.Errorf("record %q has no dataset_url", rec.Label())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	return ExtractPage(resp.Body)
}

func (s *httpSession) Close() error {
	// the http client is owned by the dialer and outlives the session
	return nil
}

// ExtractPage derives an observed record from page HTML. Unconfirmed fields
// stay empty, which the comparator treats as "no evidence", never a mismatch.
func ExtractPage(r io.Reader) (dataset.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	observed := dataset.Record{
		"dataset_name":    "",
		"product":         "",
		"species":         "",
		"sample_type":     "",
		"preservation":    "",
		"cells_or_nuclei": "",
	}

	observed["dataset_name"] = strings.TrimSpace(firstElementText(doc, "h1"))

	pageText := strings.ToLower(collectText(doc))

	switch {
	case strings.Contains(pageText, "human"):
		observed["species"] = "Human"
	case strings.Contains(pageText, "mouse"):
		observed["species"] = "Mouse"
	}

	switch {
	case strings.Contains(pageText, "ffpe"):
		observed["preservation"] = "FFPE"
	case strings.Contains(pageText, "fresh frozen"):
		observed["preservation"] = "Fresh Frozen"
	case strings.Contains(pageText, "fixed frozen"):
		observed["preservation"] = "Fixed Frozen"
	}

	for _, tissue := range tissues {
		if strings.Contains(pageText, tissue) {
			observed["sample_type"] = titleCase(tissue)
			break
		}
	}

	return observed, nil
}

func firstElementText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return collectText(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := firstElementText(c, tag); text != "" {
			return text
		}
	}
	return ""
}

func collectText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(collectText(c))
		sb.WriteString(" ")
	}
	return sb.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
