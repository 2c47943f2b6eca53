package proxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const teraDownloadrNonce = "d65296dd2c"

// wordpressFetcher covers the teradownloadr family, which are WordPress
// sites exposing their fetcher through admin-ajax.php. The .com and .cc
// deployments share one codebase and differ only in origin.
type wordpressFetcher struct {
	client *http.Client
	name   string
	origin string

	// BaseURL overrides the production admin-ajax endpoint in tests.
	BaseURL string
}

// TeraDownloadr resolves through teradownloadr.com.
type TeraDownloadr struct{ wordpressFetcher }

func NewTeraDownloadr(timeout time.Duration) *TeraDownloadr {
	return &TeraDownloadr{wordpressFetcher{
		client: &http.Client{Timeout: timeout},
		name:   "TeraDownloadr",
		origin: "https://teradownloadr.com",
	}}
}

// TeraDownloaderCC resolves through the teradownloadr.cc mirror.
type TeraDownloaderCC struct{ wordpressFetcher }

func NewTeraDownloaderCC(timeout time.Duration) *TeraDownloaderCC {
	return &TeraDownloaderCC{wordpressFetcher{
		client: &http.Client{Timeout: timeout},
		name:   "TeraDownloaderCC",
		origin: "https://teradownloadr.cc",
	}}
}

func (w *wordpressFetcher) Name() string { return w.name }

func (w *wordpressFetcher) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	endpoint := w.BaseURL
	if endpoint == "" {
		endpoint = w.origin + "/wp-admin/admin-ajax.php"
	}

	form := url.Values{
		"action": {"terabox_fetch"},
		"url":    {shareURL},
		"nonce":  {teraDownloadrNonce},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, upstreamErr(w.name, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	req.Header.Set("Referer", w.origin+"/")

	return send(w.client, req, w.name)
}
