package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/124.0.0.0 Safari/537.36"

// Share links embed the identifier as /s/1<id>; the leading "1" is a fixed
// prefix, not part of the surl.
var surlPathRe = regexp.MustCompile(`/s/1([A-Za-z0-9_-]+)`)

// Normalizer canonicalizes raw share links. Upstream share links are
// frequently shortened or mirrored, so the link is fetched once to discover
// its final resting URL before the identifier is extracted.
type Normalizer struct {
	client *http.Client
}

func NewNormalizer(timeout time.Duration) *Normalizer {
	return &Normalizer{client: &http.Client{Timeout: timeout}}
}

// Normalize follows redirects on raw and extracts the share identifier.
// If the fetch fails, extraction is still attempted on the original URL
// before giving up.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (Canonical, error) {
	final, err := n.finalURL(ctx, raw)
	if err != nil {
		if surl := extractSurl(raw); surl != "" {
			return Canonical{FinalURL: raw, Surl: surl}, nil
		}
		return Canonical{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	surl := extractSurl(final)
	if surl == "" {
		surl = extractSurl(raw)
	}
	if surl == "" {
		return Canonical{FinalURL: final}, ErrNoIdentifier
	}
	return Canonical{FinalURL: final, Surl: surl}, nil
}

func (n *Normalizer) finalURL(ctx context.Context, raw string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return resp.Request.URL.String(), nil
}

// extractSurl pulls the share identifier from a URL: the surl query parameter
// if present, otherwise the path segment following /s/1.
func extractSurl(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if surl := parsed.Query().Get("surl"); surl != "" {
		return surl
	}
	if m := surlPathRe.FindStringSubmatch(parsed.Path); m != nil {
		return m[1]
	}
	return ""
}
