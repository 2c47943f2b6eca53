package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	playerTeraEndpoint  = "https://playertera.com/api/process-terabox"
	playerTeraReferer   = "https://playertera.com/"
	playerTeraCSRFToken = "w0p0LHPpNZFrLR6Rh78o8zBzzyXdeZdEMjiDSSD4"
)

// PlayerTera fronts the playertera processing API. Successful answers are
// normally JSON, but the service occasionally responds with a bare URL; the
// body passes through untouched in both cases.
type PlayerTera struct {
	client *http.Client

	// BaseURL overrides the production endpoint in tests.
	BaseURL string
}

func NewPlayerTera(timeout time.Duration) *PlayerTera {
	return &PlayerTera{client: &http.Client{Timeout: timeout}}
}

func (p *PlayerTera) Name() string { return "PlayerTera" }

func (p *PlayerTera) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	endpoint := p.BaseURL
	if endpoint == "" {
		endpoint = playerTeraEndpoint
	}

	payload, err := json.Marshal(map[string]string{"url": shareURL})
	if err != nil {
		return nil, upstreamErr(p.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, upstreamErr(p.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-csrf-token", playerTeraCSRFToken)
	req.Header.Set("Referer", playerTeraReferer)

	return send(p.client, req, p.Name())
}
