package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const shareAppID = "250528"

// Lister fetches a share listing, optionally scoped to a sub-folder.
// Satisfied by ShareClient; tests substitute fakes.
type Lister interface {
	List(ctx context.Context, canonical Canonical, folderFSID string) (Listing, error)
}

// ShareClient talks to the direct share/list API. The host is chosen by
// matching the canonical URL's domain against the mirrors that serve the API.
type ShareClient struct {
	client *http.Client

	// BaseURL overrides host selection when non-empty. Tests point it at a
	// local server.
	BaseURL string
}

func NewShareClient(timeout time.Duration) *ShareClient {
	return &ShareClient{client: &http.Client{Timeout: timeout}}
}

func apiBaseFor(hostname string) string {
	hostname = strings.ToLower(hostname)
	switch {
	case strings.Contains(hostname, "1024tera.com"):
		return "https://www.1024tera.com/share/list"
	case strings.Contains(hostname, "terabox.app"):
		return "https://www.terabox.app/share/list"
	case strings.Contains(hostname, "terabox.com"):
		return "https://www.terabox.com/share/list"
	default:
		return "https://www.terabox.app/share/list"
	}
}

type listResponse struct {
	Errno int         `json:"errno"`
	List  []listEntry `json:"list"`
}

type listEntry struct {
	IsDir   flexInt64                  `json:"isdir"`
	FSID    flexString                 `json:"fs_id"`
	Name    string                     `json:"server_filename"`
	AltName string                     `json:"filename"`
	Size    *flexInt64                 `json:"size"`
	Thumbs  map[string]json.RawMessage `json:"thumbs"`
}

// List fetches the share listing for canonical, scoped to folderFSID when
// non-empty.
func (c *ShareClient) List(ctx context.Context, canonical Canonical, folderFSID string) (Listing, error) {
	apiURL := c.BaseURL
	if apiURL == "" {
		parsed, err := url.Parse(canonical.FinalURL)
		if err != nil {
			return nil, fmt.Errorf("parse canonical URL: %w", err)
		}
		apiURL = apiBaseFor(parsed.Hostname())
	}

	form := url.Values{
		"app_id":     {shareAppID},
		"web":        {"1"},
		"channel":    {"0"},
		"clienttype": {"0"},
		"shorturl":   {canonical.Surl},
		"root":       {"1"},
	}
	if folderFSID != "" {
		form.Set("fs_id", folderFSID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	if canonical.FinalURL != "" {
		req.Header.Set("Referer", canonical.FinalURL)
		req.Header.Set("Origin", originOf(canonical.FinalURL))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Errno != 0 {
		return nil, fmt.Errorf("%w: errno %d", ErrRejected, parsed.Errno)
	}
	if parsed.List == nil {
		return nil, fmt.Errorf("%w: missing list", ErrMalformedResponse)
	}

	listing := make(Listing, 0, len(parsed.List))
	for _, e := range parsed.List {
		listing = append(listing, e.toEntry())
	}
	return listing, nil
}

func (e listEntry) toEntry() Entry {
	name := e.Name
	if name == "" {
		name = e.AltName
	}

	var size *int64
	if e.Size != nil {
		n := int64(*e.Size)
		size = &n
	}

	thumbs := make(map[string]string, len(e.Thumbs))
	for k, raw := range e.Thumbs {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			thumbs[k] = s
		}
	}

	return Entry{
		IsDir:  e.IsDir == 1,
		FSID:   string(e.FSID),
		Name:   name,
		Size:   size,
		Thumbs: thumbs,
	}
}

// originOf derives an Origin header from a share URL: everything before the
// /sharing/ path, or the full URL when that path is absent.
func originOf(u string) string {
	if i := strings.Index(u, "/sharing/"); i > 0 {
		return u[:i]
	}
	return u
}
