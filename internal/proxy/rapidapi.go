package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	rapidAPIHost     = "terabox-downloader-direct-download-link-generator.p.rapidapi.com"
	rapidAPIEndpoint = "https://" + rapidAPIHost + "/fetch"
	rapidAPIKey      = "2cb187dc2bmshda738c7c9dddce5p1e7b42jsn02015b25be9c"
)

// RapidAPI fronts the direct-download-link generator published on the
// RapidAPI marketplace.
type RapidAPI struct {
	client *http.Client

	// BaseURL overrides the production endpoint in tests.
	BaseURL string
}

func NewRapidAPI(timeout time.Duration) *RapidAPI {
	return &RapidAPI{client: &http.Client{Timeout: timeout}}
}

func (r *RapidAPI) Name() string { return "RapidAPI" }

func (r *RapidAPI) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	endpoint := r.BaseURL
	if endpoint == "" {
		endpoint = rapidAPIEndpoint
	}

	payload, err := json.Marshal(map[string]string{"url": shareURL})
	if err != nil {
		return nil, upstreamErr(r.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, upstreamErr(r.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", rapidAPIHost)
	req.Header.Set("x-rapidapi-key", rapidAPIKey)

	return send(r.client, req, r.Name())
}
