package resolver

import (
	"reflect"
	"testing"
)

func TestGuessType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"movie.MP4", "video"},
		{"clip.webm", "video"},
		{"photo.jpeg", "image"},
		{"track.flac", "audio"},
		{"report.pdf", "document"},
		{"bundle.tar", "archive"},
		{"noext", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		if got := GuessType(tt.name); got != tt.want {
			t.Errorf("GuessType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.00 B"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TB"},
	}
	for _, tt := range tests {
		if got := HumanSize(tt.n); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestClassifySingleFile(t *testing.T) {
	size := int64(1536)
	listing := Listing{{
		Name: "movie.mp4",
		Size: &size,
		Thumbs: map[string]string{
			"url1": "https://thumbs/low.jpg",
			"url3": "https://thumbs/high.jpg",
		},
	}}

	meta := Classify(listing, "https://terabox.app/s/1abc")
	if meta.Title != "movie.mp4" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "Shared via TeraBox" {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Type != "video" {
		t.Errorf("type = %q", meta.Type)
	}
	if meta.SizeBytes == nil || *meta.SizeBytes != 1536 {
		t.Errorf("size bytes = %v", meta.SizeBytes)
	}
	if meta.SizeHuman == nil || *meta.SizeHuman != "1.50 KB" {
		t.Errorf("size human = %v", meta.SizeHuman)
	}
	if meta.Thumbnail == nil || *meta.Thumbnail != "https://thumbs/high.jpg" {
		t.Errorf("thumbnail = %v, want url3 preferred", meta.Thumbnail)
	}
}

func TestClassifyFolder(t *testing.T) {
	listing := Listing{
		{Name: "season 1", IsDir: true},
		{Name: "extras", IsDir: true},
	}

	meta := Classify(listing, "https://terabox.app/s/1abc")
	if meta.Type != "folder" {
		t.Errorf("type = %q", meta.Type)
	}
	if meta.Title != "season 1" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "This is a folder, not a single file." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.SizeBytes != nil {
		t.Errorf("folder should have no size, got %v", *meta.SizeBytes)
	}
}

func TestClassifyEmptyListing(t *testing.T) {
	meta := Classify(nil, "https://terabox.app/s/1abc")
	if meta.Type != "folder" || meta.Title != "Folder" {
		t.Errorf("got %+v, want folder placeholder", meta)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	size := int64(100)
	listing := Listing{{Name: "a.mp3", Size: &size}}
	first := Classify(listing, "u")
	second := Classify(listing, "u")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not deterministic: %+v vs %+v", first, second)
	}
}
