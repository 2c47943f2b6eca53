// Package proxy holds the third-party resolver services that exchange a
// share link for a direct or streamable URL. Each resolver speaks its own
// upstream dialect; all of them hand back the upstream payload untouched so
// callers can extract whichever fields they need.
package proxy

import (
	"context"
	"fmt"
)

// Resolver exchanges a share link for an upstream payload. The payload is
// usually JSON but a few services answer with bare text; it is returned
// verbatim either way.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, shareURL string) ([]byte, error)
}

// UpstreamError wraps a failure from a specific resolver so callers can
// report which service misbehaved.
type UpstreamError struct {
	Resolver string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Resolver, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamErr(name string, err error) error {
	return &UpstreamError{Resolver: name, Err: err}
}
