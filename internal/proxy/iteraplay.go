package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	iteraPlayConfigEndpoint = "https://iteraplay.com/config-files/get-stream-api-config.php"
	iteraPlayStreamEndpoint = "https://api.iteraplay.com/stream.php"
	iteraPlayReferer        = "https://stream.iteraplay.com/"
	iteraPlayAPIKey         = "terabox_pro_api_august_2025_premium"
)

// IteraPlay resolves through the iteraplay streaming service. Resolution is
// two-step: fetch a short-lived token from the config endpoint, then submit
// the share link with that token.
type IteraPlay struct {
	client *http.Client

	// ConfigURL and StreamURL override the production endpoints in tests.
	ConfigURL string
	StreamURL string
}

func NewIteraPlay(timeout time.Duration) *IteraPlay {
	return &IteraPlay{client: &http.Client{Timeout: timeout}}
}

func (i *IteraPlay) Name() string { return "IteraPlay" }

func (i *IteraPlay) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	now := time.Now().UnixMilli()

	config, err := i.fetchConfig(ctx, now)
	if err != nil {
		return nil, err
	}

	// The stream request echoes the timestamp issued with the token. Some
	// config mirrors omit it; the request time stands in then.
	t := any(config.Timestamp)
	if config.Timestamp == "" {
		t = now
	}

	payload, err := json.Marshal(map[string]any{
		"url":   shareURL,
		"token": config.Token,
		"t":     t,
	})
	if err != nil {
		return nil, upstreamErr(i.Name(), err)
	}

	streamURL := i.StreamURL
	if streamURL == "" {
		streamURL = iteraPlayStreamEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, streamURL, bytes.NewReader(payload))
	if err != nil {
		return nil, upstreamErr(i.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", iteraPlayAPIKey)
	req.Header.Set("Referer", iteraPlayReferer)

	return send(i.client, req, i.Name())
}

// iteraPlayConfig is the signed pair handed out by the config endpoint. The
// stream endpoint validates the token against the timestamp it was issued
// with, so both travel together.
type iteraPlayConfig struct {
	Token     string      `json:"token"`
	Timestamp json.Number `json:"timestamp"`
}

func (i *IteraPlay) fetchConfig(ctx context.Context, now int64) (*iteraPlayConfig, error) {
	configURL := i.ConfigURL
	if configURL == "" {
		configURL = iteraPlayConfigEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?t=%d", configURL, now), nil)
	if err != nil {
		return nil, upstreamErr(i.Name(), err)
	}
	req.Header.Set("Referer", iteraPlayReferer)

	body, err := send(i.client, req, i.Name())
	if err != nil {
		return nil, err
	}

	var config iteraPlayConfig
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, upstreamErr(i.Name(), fmt.Errorf("config response: %w", err))
	}
	if config.Token == "" {
		return nil, upstreamErr(i.Name(), fmt.Errorf("config response missing token"))
	}
	return &config, nil
}
