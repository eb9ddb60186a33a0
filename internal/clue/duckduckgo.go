// internal/clue/duckduckgo.go
//
// Search sourcing backed by the DuckDuckGo HTML endpoint
// (https://html.duckduckgo.com/html/). Result links come back as redirect
// URLs carrying the destination in a "uddg" query parameter; Search decodes
// those and also accepts plain absolute hrefs, keeping only http(s) URLs.

package clue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
)

const duckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// Some sites block default Go user agents outright.
const searchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) phrasehunt/1.0"

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// DuckDuckGo is a SearchProvider over the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	BaseURL string
	Client  *http.Client
}

// NewDuckDuckGo builds a provider with the given request timeout.
func NewDuckDuckGo(timeout time.Duration) *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL: duckDuckGoBaseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Search fetches the result page for query and extracts destination URLs,
// deduplicated and in page order.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]string, error) {
	u := d.BaseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo search: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: read: %w", err)
	}

	return extractResultURLs(string(body)), nil
}

// extractResultURLs pulls destination URLs out of a result page.
func extractResultURLs(page string) []string {
	var out []string
	for _, m := range hrefPattern.FindAllStringSubmatch(page, -1) {
		href := m[1]
		if dest := redirectTarget(href); dest != "" {
			out = append(out, dest)
			continue
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			out = append(out, href)
		}
	}
	return lo.Uniq(out)
}

// redirectTarget decodes the uddg parameter of a DuckDuckGo redirect link,
// returning "" when href is not one.
func redirectTarget(href string) string {
	idx := strings.Index(href, "uddg=")
	if idx < 0 {
		return ""
	}
	raw := href[idx+len("uddg="):]
	if amp := strings.IndexByte(raw, '&'); amp >= 0 {
		raw = raw[:amp]
	}
	dest, err := url.QueryUnescape(raw)
	if err != nil || !strings.HasPrefix(dest, "http") {
		return ""
	}
	return dest
}
