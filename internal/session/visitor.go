package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const visitTimeout = 30 * time.Second

// PageVisitor loads the provider page and exposes the cookies it set.
type PageVisitor interface {
	// Visit loads the provider page and waits for the response to complete
	Visit(ctx context.Context) error

	// Cookie returns the named cookie value captured for the provider page
	Cookie(name string) (string, bool)
}

// HTTPVisitor implements PageVisitor with an HTTP client and a cookie jar.
// The jar plays the role of the browser cookie store: redirects during the
// visit accumulate cookies the same way a real page load would.
type HTTPVisitor struct {
	pageURL    *url.URL
	httpClient *http.Client
	jar        *cookiejar.Jar
}

// NewHTTPVisitor creates a visitor for the given provider page URL.
func NewHTTPVisitor(pageURL string) (*HTTPVisitor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider page URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &HTTPVisitor{
		pageURL: u,
		jar:     jar,
		httpClient: &http.Client{
			Timeout: visitTimeout,
			Jar:     jar,
		},
	}, nil
}

// Visit performs a GET of the provider page and drains the body so the
// load is complete before cookies are read.
func (v *HTTPVisitor) Visit(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", v.pageURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Some endpoints refuse requests without a browser-like agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) wordwire")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read page body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("provider page returned status %d", resp.StatusCode)
	}
	return nil
}

// Cookie returns the named cookie currently stored for the provider page.
func (v *HTTPVisitor) Cookie(name string) (string, bool) {
	for _, c := range v.jar.Cookies(v.pageURL) {
		if c.Name == name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// Client exposes the jar-backed HTTP client so API calls share the same
// cookie state as the page visit.
func (v *HTTPVisitor) Client() *http.Client {
	return v.httpClient
}
