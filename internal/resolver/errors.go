package resolver

import "errors"

var (
	// ErrNoIdentifier means no surl could be extracted from the link. The text
	// is persisted verbatim onto the catalog item's error field.
	ErrNoIdentifier = errors.New("Could not parse surl from URL")

	// ErrUnreachable means the upstream host could not be contacted.
	ErrUnreachable = errors.New("upstream unreachable")

	// ErrRejected means the upstream answered but signaled failure in its
	// payload (non-zero errno).
	ErrRejected = errors.New("upstream rejected the request")

	// ErrMalformedResponse means the upstream body could not be parsed.
	ErrMalformedResponse = errors.New("malformed upstream response")
)
