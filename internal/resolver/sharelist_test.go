package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testShareClient(srv *httptest.Server) *ShareClient {
	c := NewShareClient(5 * time.Second)
	c.BaseURL = srv.URL
	return c
}

func TestShareClientListSendsExpectedForm(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		fmt.Fprint(w, `{"errno":0,"list":[]}`)
	}))
	defer srv.Close()

	c := testShareClient(srv)
	_, err := c.List(context.Background(), Canonical{Surl: "abc123", FinalURL: "https://www.terabox.app/sharing/link?surl=abc123"}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := map[string]string{
		"app_id":     "250528",
		"web":        "1",
		"channel":    "0",
		"clienttype": "0",
		"shorturl":   "abc123",
		"root":       "1",
	}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, form[k], v)
		}
	}
	if _, ok := form["fs_id"]; ok {
		t.Error("fs_id must be absent on root listing")
	}
}

func TestShareClientListFolderScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if got := r.PostForm.Get("fs_id"); got != "998877" {
			t.Errorf("fs_id = %q, want 998877", got)
		}
		fmt.Fprint(w, `{"errno":0,"list":[]}`)
	}))
	defer srv.Close()

	c := testShareClient(srv)
	if _, err := c.List(context.Background(), Canonical{Surl: "abc"}, "998877"); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestShareClientListParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// fs_id and size arrive as numbers or strings depending on mirror.
		fmt.Fprint(w, `{"errno":0,"list":[
			{"isdir":"0","fs_id":12345,"server_filename":"movie.mp4","size":"2048",
			 "thumbs":{"url1":"https://t/1.jpg","url3":"https://t/3.jpg","icon":7}},
			{"isdir":1,"fs_id":"67890","server_filename":"stuff"}
		]}`)
	}))
	defer srv.Close()

	c := testShareClient(srv)
	listing, err := c.List(context.Background(), Canonical{Surl: "abc"}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("len = %d, want 2", len(listing))
	}

	file := listing[0]
	if file.IsDir {
		t.Error("first entry should be a file")
	}
	if file.FSID != "12345" {
		t.Errorf("fs_id = %q", file.FSID)
	}
	if file.Size == nil || *file.Size != 2048 {
		t.Errorf("size = %v", file.Size)
	}
	if file.Thumbs["url3"] != "https://t/3.jpg" {
		t.Errorf("thumbs = %v", file.Thumbs)
	}
	if _, ok := file.Thumbs["icon"]; ok {
		t.Error("non-string thumb values should be dropped")
	}

	if !listing[1].IsDir || listing[1].FSID != "67890" {
		t.Errorf("second entry = %+v", listing[1])
	}
}

func TestShareClientListRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errno":-9,"list":null}`)
	}))
	defer srv.Close()

	c := testShareClient(srv)
	_, err := c.List(context.Background(), Canonical{Surl: "expired"}, "")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
}

func TestShareClientListMalformed(t *testing.T) {
	tests := []string{
		`{"errno":0}`,
		`<html>not json</html>`,
	}
	for _, body := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))
		c := testShareClient(srv)
		_, err := c.List(context.Background(), Canonical{Surl: "abc"}, "")
		srv.Close()
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("body %q: err = %v, want ErrMalformedResponse", body, err)
		}
	}
}

func TestAPIBaseFor(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.1024tera.com", "https://www.1024tera.com/share/list"},
		{"terabox.app", "https://www.terabox.app/share/list"},
		{"dm.terabox.com", "https://www.terabox.com/share/list"},
		{"teraboxlink.example", "https://www.terabox.app/share/list"},
	}
	for _, tt := range tests {
		if got := apiBaseFor(tt.host); got != tt.want {
			t.Errorf("apiBaseFor(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
