package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// shortLinkHosts are hosts whose URLs are opaque redirects that must be
// resolved before any identifier can be derived.
var shortLinkHosts = map[string]struct{}{
	"forms.gle": {},
	"goo.gl":    {},
}

// IsShortLink reports whether the URL points at a known short-link host.
func IsShortLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := shortLinkHosts[strings.ToLower(u.Hostname())]
	return ok
}

// ResolveShortLink follows redirects and returns the final URL. It tries a
// body-less HEAD first and falls back to GET for servers that reject HEAD.
func (c *Client) ResolveShortLink(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("fetch: rate limit wait: %w", err)
	}

	final, err := c.follow(ctx, http.MethodHead, rawURL)
	if err == nil {
		return final, nil
	}
	return c.follow(ctx, http.MethodGet, rawURL)
}

func (c *Client) follow(ctx context.Context, method, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build resolve request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: resolve failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch: resolve got HTTP %d for %s", resp.StatusCode, rawURL)
	}
	return resp.Request.URL.String(), nil
}
