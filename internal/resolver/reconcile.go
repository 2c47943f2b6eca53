package resolver

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cipherbox/cipherbox/internal/metrics"
	"github.com/cipherbox/cipherbox/internal/store"
)

// placeholderTitle is what newly added items carry until first resolution.
const placeholderTitle = "Processing..."

// Catalog is the slice of the media store the reconciler needs. It only ever
// reads url/title/thumbnail/scraped_at and writes the metadata fields.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*store.MediaItem, error)
	SetMetadata(ctx context.Context, id string, meta store.ItemMetadata) error
	SetScrapeError(ctx context.Context, id, msg string, scrapedAt time.Time) error
}

// Reconciler owns the "only re-resolve if stale or incomplete" policy: it
// runs the normalize, list, unwrap, classify pipeline and persists the
// outcome. This path uses only the direct share/list API, never the proxy
// resolvers.
type Reconciler struct {
	catalog Catalog
	norm    *Normalizer
	lister  Lister

	// Concurrent triggers for the same item collapse onto one upstream call.
	mu       sync.Mutex
	inflight map[string]chan struct{}
}

func NewReconciler(catalog Catalog, norm *Normalizer, lister Lister) *Reconciler {
	return &Reconciler{
		catalog:  catalog,
		norm:     norm,
		lister:   lister,
		inflight: make(map[string]chan struct{}),
	}
}

// NeedsRefresh reports whether an item's metadata is stale or incomplete.
func NeedsRefresh(item *store.MediaItem) bool {
	return item.Title == "" || item.Title == placeholderTitle ||
		item.Thumbnail == nil || item.ScrapedAt == nil
}

// Resolve runs the full metadata pipeline for a share URL without touching
// the catalog.
func (r *Reconciler) Resolve(ctx context.Context, shareURL string) (Metadata, error) {
	canonical, err := r.norm.Normalize(ctx, shareURL)
	if err != nil {
		return Metadata{}, err
	}

	listing, err := r.lister.List(ctx, canonical, "")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to fetch metadata: %w", err)
	}

	listing = Unwrap(ctx, r.lister, canonical, listing)
	return Classify(listing, canonical.FinalURL), nil
}

// Reconcile refreshes one catalog item's metadata from upstream. Every
// failure is converted to a message on the item's error field; the scrape
// time is stamped either way so the item is not retried on every page load.
func (r *Reconciler) Reconcile(ctx context.Context, itemID string) error {
	done, wait := r.begin(itemID)
	if done == nil {
		// Another reconciliation for this item is already running; wait for
		// it rather than duplicating the upstream calls.
		select {
		case <-wait:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer done()

	start := time.Now()
	item, err := r.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	meta, err := r.Resolve(ctx, item.URL)
	if err != nil {
		metrics.ResolveTotal.WithLabelValues("error").Inc()
		metrics.ResolveDuration.Observe(time.Since(start).Seconds())
		log.Printf("reconcile %s: %v", itemID, err)
		return r.catalog.SetScrapeError(ctx, itemID, err.Error(), time.Now().UTC())
	}

	update := store.ItemMetadata{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Size:      meta.SizeBytes,
		Type:      meta.Type,
		ScrapedAt: time.Now().UTC(),
	}
	if meta.Description != "" {
		desc := meta.Description
		update.Description = &desc
	}
	// Keep whatever the user already has when upstream yields nothing better.
	if update.Description == nil {
		update.Description = item.Description
	}
	if update.Thumbnail == nil {
		update.Thumbnail = item.Thumbnail
	}

	metrics.ResolveTotal.WithLabelValues("ok").Inc()
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	return r.catalog.SetMetadata(ctx, itemID, update)
}

// begin registers itemID as in flight. It returns a completion func for the
// winner, or a channel to wait on for everyone else.
func (r *Reconciler) begin(itemID string) (func(), <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.inflight[itemID]; ok {
		return nil, ch
	}

	ch := make(chan struct{})
	r.inflight[itemID] = ch
	return func() {
		r.mu.Lock()
		delete(r.inflight, itemID)
		r.mu.Unlock()
		close(ch)
	}, nil
}
