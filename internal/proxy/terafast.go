package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	teraFastEndpoint = "https://hex.teraboxfast2.workers.dev/"
	teraFastKey      = "C7mAq"
)

// TeraFast fronts the teraboxfast workers.dev relay. The service expects the
// share link plus a static key in a JSON body.
type TeraFast struct {
	client *http.Client

	// BaseURL overrides the production endpoint in tests.
	BaseURL string
}

func NewTeraFast(timeout time.Duration) *TeraFast {
	return &TeraFast{client: &http.Client{Timeout: timeout}}
}

func (t *TeraFast) Name() string { return "TeraFast" }

func (t *TeraFast) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	endpoint := t.BaseURL
	if endpoint == "" {
		endpoint = teraFastEndpoint
	}

	payload, err := json.Marshal(map[string]string{
		"url": shareURL,
		"key": teraFastKey,
	})
	if err != nil {
		return nil, upstreamErr(t.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, upstreamErr(t.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	return send(t.client, req, t.Name())
}
