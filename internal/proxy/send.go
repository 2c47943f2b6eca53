package proxy

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cipherbox/cipherbox/internal/metrics"
)

// send executes one upstream request, counts the outcome, and returns the
// response body. Non-2xx answers are treated as failures.
func send(client *http.Client, req *http.Request, name string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, upstreamErr(name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, upstreamErr(name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ProxyRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, upstreamErr(name, fmt.Errorf("status %d", resp.StatusCode))
	}

	metrics.ProxyRequestsTotal.WithLabelValues(name, "ok").Inc()
	return body, nil
}
