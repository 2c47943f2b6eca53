package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeSurlQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNormalizer(5 * time.Second)
	got, err := n.Normalize(context.Background(), srv.URL+"/sharing/link?surl=AbC123xyz")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Surl != "AbC123xyz" {
		t.Errorf("surl = %q, want AbC123xyz", got.Surl)
	}
}

func TestNormalizeShortLinkPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNormalizer(5 * time.Second)
	got, err := n.Normalize(context.Background(), srv.URL+"/s/1dEf_45-Gh")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Surl != "dEf_45-Gh" {
		t.Errorf("surl = %q, want dEf_45-Gh", got.Surl)
	}
}

func TestNormalizeFollowsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/short" {
			http.Redirect(w, r, "/s/1redirected", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNormalizer(5 * time.Second)
	got, err := n.Normalize(context.Background(), srv.URL+"/short")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Surl != "redirected" {
		t.Errorf("surl = %q, want redirected", got.Surl)
	}
	if want := srv.URL + "/s/1redirected"; got.FinalURL != want {
		t.Errorf("final URL = %q, want %q", got.FinalURL, want)
	}
}

func TestNormalizeNoIdentifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNormalizer(5 * time.Second)
	_, err := n.Normalize(context.Background(), srv.URL+"/nothing/here")
	if !errors.Is(err, ErrNoIdentifier) {
		t.Fatalf("err = %v, want ErrNoIdentifier", err)
	}
	if err.Error() != "Could not parse surl from URL" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNormalizeUnreachableFallsBackToRawURL(t *testing.T) {
	// Port 1 refuses connections, so the fetch fails and extraction should
	// fall back to the original URL.
	n := NewNormalizer(2 * time.Second)
	got, err := n.Normalize(context.Background(), "http://127.0.0.1:1/s/1offline")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Surl != "offline" {
		t.Errorf("surl = %q, want offline", got.Surl)
	}
}

func TestExtractSurl(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.terabox.app/sharing/link?surl=xyz", "xyz"},
		{"https://terabox.com/s/1abcDEF", "abcDEF"},
		{"https://terabox.com/s/1abc?pwd=1234", "abc"},
		{"https://terabox.com/browse", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		if got := extractSurl(tt.raw); got != tt.want {
			t.Errorf("extractSurl(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
