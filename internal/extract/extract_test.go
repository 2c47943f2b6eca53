package extract

import "testing"

func TestPlayableURLFastStreamQuality(t *testing.T) {
	raw := []byte(`{"list":[{"fast_stream_url":{
		"360p":"https://cdn/360.m3u8",
		"720p":"https://cdn/720.m3u8",
		"1080p":"https://cdn/1080.m3u8"
	}}]}`)

	u, ok := PlayableURL(raw, "720p")
	if !ok || u != "https://cdn/720.m3u8" {
		t.Errorf("got %q/%v, want preferred 720p", u, ok)
	}

	u, ok = PlayableURL(raw, "")
	if !ok || u != "https://cdn/1080.m3u8" {
		t.Errorf("got %q/%v, want 1080p default", u, ok)
	}
}

func TestPlayableURLFastStreamFallsBackThroughQualities(t *testing.T) {
	raw := []byte(`{"list":[{"fast_stream_url":{"360p":"https://cdn/360.m3u8"}}]}`)
	u, ok := PlayableURL(raw, "1080p")
	if !ok || u != "https://cdn/360.m3u8" {
		t.Errorf("got %q/%v, want 360p fallback", u, ok)
	}
}

func TestPlayableURLQualitiesMap(t *testing.T) {
	raw := []byte(`{"qualities":{
		"480p":{"url":"https://cdn/480.mp4"},
		"720p":{"url":"https://cdn/720.mp4"}
	}}`)
	u, ok := PlayableURL(raw, "720p")
	if !ok || u != "https://cdn/720.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLDirectFields(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"streamUrl":"https://cdn/a.m3u8"}`, "https://cdn/a.m3u8"},
		{`{"downloadUrl":"https://cdn/b.mp4"}`, "https://cdn/b.mp4"},
		{`{"url":"https://cdn/c.mp4"}`, "https://cdn/c.mp4"},
		{`{"playableUrl":"https://cdn/d.mp4"}`, "https://cdn/d.mp4"},
		{`{"data":{"download_link":"https://cdn/e.mp4"}}`, "https://cdn/e.mp4"},
		{`{"data":{"url":"https://cdn/f.mp4"}}`, "https://cdn/f.mp4"},
	}
	for _, tt := range tests {
		u, ok := PlayableURL([]byte(tt.raw), "720p")
		if !ok || u != tt.want {
			t.Errorf("%s: got %q/%v, want %q", tt.raw, u, ok, tt.want)
		}
	}
}

func TestPlayableURLSkipsNonHTTPValues(t *testing.T) {
	raw := []byte(`{"url":"not-a-url","downloadUrl":"https://cdn/real.mp4"}`)
	u, ok := PlayableURL(raw, "720p")
	if !ok || u != "https://cdn/real.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLUrlsArray(t *testing.T) {
	u, ok := PlayableURL([]byte(`{"urls":["https://cdn/first.mp4","https://cdn/second.mp4"]}`), "")
	if !ok || u != "https://cdn/first.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}

	u, ok = PlayableURL([]byte(`{"urls":[{"url":"https://cdn/obj.mp4"}]}`), "")
	if !ok || u != "https://cdn/obj.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLListEntryFields(t *testing.T) {
	u, ok := PlayableURL([]byte(`{"list":[{"downloadUrl":"https://cdn/dl.mp4"}]}`), "")
	if !ok || u != "https://cdn/dl.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLAnyTopLevel(t *testing.T) {
	u, ok := PlayableURL([]byte(`{"whatever":"https://cdn/x.mp4","count":3}`), "")
	if !ok || u != "https://cdn/x.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLJSONStringPayload(t *testing.T) {
	u, ok := PlayableURL([]byte(`"https://cdn/quoted.mp4"`), "")
	if !ok || u != "https://cdn/quoted.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}

	if u, ok := PlayableURL([]byte(`"not a url"`), ""); ok {
		t.Errorf("unexpectedly found %q", u)
	}
}

func TestPlayableURLBareTextPassthrough(t *testing.T) {
	u, ok := PlayableURL([]byte("  https://cdn/direct.mp4\n"), "")
	if !ok || u != "https://cdn/direct.mp4" {
		t.Errorf("got %q/%v", u, ok)
	}
}

func TestPlayableURLAbsent(t *testing.T) {
	for _, raw := range []string{
		`{"error":"quota exceeded"}`,
		`<html>nope</html>`,
		``,
	} {
		if u, ok := PlayableURL([]byte(raw), ""); ok {
			t.Errorf("%q: unexpectedly found %q", raw, u)
		}
	}
}
