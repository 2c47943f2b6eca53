package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cipherbox/cipherbox/internal/store"
)

type fakeCatalog struct {
	mu        sync.Mutex
	item      *store.MediaItem
	metadata  *store.ItemMetadata
	scrapeErr string
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*store.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.item == nil || f.item.ID != id {
		return nil, store.ErrNotFound
	}
	copied := *f.item
	return &copied, nil
}

func (f *fakeCatalog) SetMetadata(_ context.Context, _ string, meta store.ItemMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata = &meta
	return nil
}

func (f *fakeCatalog) SetScrapeError(_ context.Context, _, msg string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrapeErr = msg
	return nil
}

// newUpstream serves both the share page (for redirect following) and the
// share/list API from one server.
func newUpstream(t *testing.T, listBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/share/list") {
			fmt.Fprint(w, listBody)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func newTestReconciler(catalog Catalog, srv *httptest.Server) *Reconciler {
	client := NewShareClient(5 * time.Second)
	client.BaseURL = srv.URL + "/share/list"
	return NewReconciler(catalog, NewNormalizer(5*time.Second), client)
}

func TestReconcileSuccess(t *testing.T) {
	srv := newUpstream(t, `{"errno":0,"list":[
		{"isdir":0,"fs_id":"1","server_filename":"movie.mp4","size":1536,
		 "thumbs":{"url1":"https://t/1.jpg"}}
	]}`)
	defer srv.Close()

	catalog := &fakeCatalog{item: &store.MediaItem{
		ID:    "item-1",
		URL:   srv.URL + "/s/1abc",
		Title: "Processing...",
	}}

	rec := newTestReconciler(catalog, srv)
	if err := rec.Reconcile(context.Background(), "item-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if catalog.metadata == nil {
		t.Fatal("metadata not persisted")
	}
	if catalog.metadata.Title != "movie.mp4" {
		t.Errorf("title = %q", catalog.metadata.Title)
	}
	if catalog.metadata.Type != "video" {
		t.Errorf("type = %q", catalog.metadata.Type)
	}
	if catalog.metadata.Size == nil || *catalog.metadata.Size != 1536 {
		t.Errorf("size = %v", catalog.metadata.Size)
	}
	if catalog.metadata.Thumbnail == nil || *catalog.metadata.Thumbnail != "https://t/1.jpg" {
		t.Errorf("thumbnail = %v", catalog.metadata.Thumbnail)
	}
	if catalog.scrapeErr != "" {
		t.Errorf("unexpected scrape error %q", catalog.scrapeErr)
	}
}

func TestReconcileBadURLPersistsError(t *testing.T) {
	srv := newUpstream(t, `{"errno":0,"list":[]}`)
	defer srv.Close()

	catalog := &fakeCatalog{item: &store.MediaItem{
		ID:  "item-1",
		URL: srv.URL + "/not-a-share-link",
	}}

	rec := newTestReconciler(catalog, srv)
	if err := rec.Reconcile(context.Background(), "item-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if catalog.scrapeErr != "Could not parse surl from URL" {
		t.Errorf("scrape error = %q", catalog.scrapeErr)
	}
	if catalog.metadata != nil {
		t.Error("metadata must not be written on failure")
	}
}

func TestReconcileUpstreamRejection(t *testing.T) {
	srv := newUpstream(t, `{"errno":-9}`)
	defer srv.Close()

	catalog := &fakeCatalog{item: &store.MediaItem{
		ID:  "item-1",
		URL: srv.URL + "/s/1expired",
	}}

	rec := newTestReconciler(catalog, srv)
	if err := rec.Reconcile(context.Background(), "item-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if catalog.scrapeErr == "" {
		t.Error("rejection should persist a scrape error")
	}
	if !strings.Contains(catalog.scrapeErr, "failed to fetch metadata") {
		t.Errorf("scrape error = %q", catalog.scrapeErr)
	}
}

func TestReconcileUnwrapsFolderWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/share/list") {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = r.ParseForm()
		if r.PostForm.Get("fs_id") == "77" {
			fmt.Fprint(w, `{"errno":0,"list":[{"isdir":0,"fs_id":"2","server_filename":"inner.mkv","size":10}]}`)
			return
		}
		fmt.Fprint(w, `{"errno":0,"list":[{"isdir":1,"fs_id":"77","server_filename":"wrapper"}]}`)
	}))
	defer srv.Close()

	catalog := &fakeCatalog{item: &store.MediaItem{ID: "item-1", URL: srv.URL + "/s/1abc"}}
	rec := newTestReconciler(catalog, srv)
	if err := rec.Reconcile(context.Background(), "item-1"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if catalog.metadata == nil || catalog.metadata.Title != "inner.mkv" {
		t.Fatalf("metadata = %+v, want unwrapped file", catalog.metadata)
	}
}

func TestNeedsRefresh(t *testing.T) {
	now := time.Now()
	thumb := "https://t/1.jpg"

	fresh := &store.MediaItem{Title: "movie.mp4", Thumbnail: &thumb, ScrapedAt: &now}
	if NeedsRefresh(fresh) {
		t.Error("complete item should not need refresh")
	}

	stale := []*store.MediaItem{
		{Title: "", Thumbnail: &thumb, ScrapedAt: &now},
		{Title: "Processing...", Thumbnail: &thumb, ScrapedAt: &now},
		{Title: "movie.mp4", Thumbnail: nil, ScrapedAt: &now},
		{Title: "movie.mp4", Thumbnail: &thumb, ScrapedAt: nil},
	}
	for i, item := range stale {
		if !NeedsRefresh(item) {
			t.Errorf("case %d: item should need refresh", i)
		}
	}
}

func TestReconcileCollapsesConcurrentTriggers(t *testing.T) {
	var listCalls int
	var mu sync.Mutex
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/share/list") {
			mu.Lock()
			listCalls++
			mu.Unlock()
			<-release
			fmt.Fprint(w, `{"errno":0,"list":[{"isdir":0,"fs_id":"1","server_filename":"a.mp4","size":1}]}`)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	catalog := &fakeCatalog{item: &store.MediaItem{ID: "item-1", URL: srv.URL + "/s/1abc"}}
	rec := newTestReconciler(catalog, srv)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rec.Reconcile(context.Background(), "item-1")
		}()
	}

	// Let the winner reach the upstream call, then release everyone.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if listCalls != 1 {
		t.Errorf("list calls = %d, want 1", listCalls)
	}
}
