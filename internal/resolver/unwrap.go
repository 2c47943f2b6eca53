package resolver

import "context"

// maxUnwrapDepth bounds follow-up listing calls. Folder nesting is
// publisher-controlled, so unbounded descent is a resource-exhaustion risk.
const maxUnwrapDepth = 3

// Unwrap descends single-entry folder wrappers until a real file or a genuine
// multi-entry folder is reached. A failed follow-up call stops the descent and
// the last successful listing is returned unchanged.
func Unwrap(ctx context.Context, lister Lister, canonical Canonical, listing Listing) Listing {
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		if len(listing) != 1 || !listing[0].IsDir {
			break
		}
		inner, err := lister.List(ctx, canonical, listing[0].FSID)
		if err != nil {
			break
		}
		listing = inner
	}
	return listing
}
