package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cipherbox/cipherbox/internal/api"
	"github.com/cipherbox/cipherbox/internal/proxy"
	"github.com/cipherbox/cipherbox/internal/resolver"
	"github.com/cipherbox/cipherbox/internal/store"
	"github.com/cipherbox/cipherbox/internal/testutil"
)

// testEnv holds the router, real stores, and the fake upstream share server
// for API integration tests.
type testEnv struct {
	Router     http.Handler
	Media      *store.MediaStore
	Tags       *store.TagStore
	Categories *store.CategoryStore
	Options    *store.APIOptionStore
	Registry   *proxy.Registry

	// Upstream serves both share pages and the share/list API. ListBody is
	// what /share/list answers with.
	Upstream *httptest.Server
	ListBody string
}

// newTestEnv creates an in-memory SQLite test database, runs migrations, and
// wires the full router against a fake upstream share host.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	env := &testEnv{
		Media:      store.NewMediaStore(db),
		Tags:       store.NewTagStore(db),
		Categories: store.NewCategoryStore(db),
		Options:    store.NewAPIOptionStore(db),
		Registry:   proxy.NewRegistry(),
		ListBody:   `{"errno":0,"list":[]}`,
	}

	env.Upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/share/list") {
			fmt.Fprint(w, env.ListBody)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(env.Upstream.Close)

	shareClient := resolver.NewShareClient(5 * time.Second)
	shareClient.BaseURL = env.Upstream.URL + "/share/list"
	reconciler := resolver.NewReconciler(env.Media, resolver.NewNormalizer(5*time.Second), shareClient)

	env.Router = api.NewRouter(api.Deps{
		Media:            env.Media,
		Tags:             env.Tags,
		Categories:       env.Categories,
		Options:          env.Options,
		Reconciler:       reconciler,
		Registry:         env.Registry,
		PreferredQuality: "720p",
	})
	return env
}

// shareURL builds a share link on the fake upstream host.
func (env *testEnv) shareURL(surl string) string {
	return env.Upstream.URL + "/s/1" + surl
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// newProxyUpstream stands in for a proxy resolver's production endpoint.
func newProxyUpstream(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
