package resolver

import (
	"fmt"
	"strings"
)

var (
	videoExt    = []string{".mp4", ".mkv", ".avi", ".mov", ".flv", ".wmv", ".webm", ".m4v"}
	imageExt    = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff"}
	audioExt    = []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"}
	documentExt = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt"}
	archiveExt  = []string{".zip", ".rar", ".7z", ".tar", ".gz"}
)

// GuessType maps a filename extension to a coarse media type. Matching is
// case-insensitive; priority is video > image > audio > document > archive.
func GuessType(name string) string {
	if name == "" {
		return "other"
	}
	lower := strings.ToLower(name)

	sets := []struct {
		kind string
		exts []string
	}{
		{"video", videoExt},
		{"image", imageExt},
		{"audio", audioExt},
		{"document", documentExt},
		{"archive", archiveExt},
	}
	for _, set := range sets {
		for _, ext := range set.exts {
			if strings.HasSuffix(lower, ext) {
				return set.kind
			}
		}
	}
	return "other"
}

// HumanSize renders a byte count as a two-decimal string, dividing by 1024
// across B, KB, MB, GB, TB.
func HumanSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	val := float64(n)
	i := 0
	for val >= 1024 && i < len(units)-1 {
		val /= 1024.0
		i++
	}
	return fmt.Sprintf("%.2f %s", val, units[i])
}

// pickThumbnail chooses the highest-resolution thumbnail candidate.
func pickThumbnail(thumbs map[string]string) string {
	for _, key := range []string{"url3", "url2", "url1"} {
		if u := thumbs[key]; u != "" {
			return u
		}
	}
	return ""
}

// Classify shapes an unwrapped listing into resolved metadata. Multi-entry
// listings and directories classify as folders; a single file gets a type,
// human-readable size, and thumbnail.
func Classify(listing Listing, finalURL string) Metadata {
	if len(listing) != 1 || listing[0].IsDir {
		title := "Folder"
		if len(listing) > 0 && listing[0].Name != "" {
			title = listing[0].Name
		}
		return Metadata{
			Title:       title,
			Description: "This is a folder, not a single file.",
			Type:        "folder",
			URL:         finalURL,
		}
	}

	f := listing[0]
	meta := Metadata{
		Title:       f.Name,
		Description: "Shared via TeraBox",
		Type:        GuessType(f.Name),
		URL:         finalURL,
	}
	if f.Size != nil {
		size := *f.Size
		human := HumanSize(size)
		meta.SizeBytes = &size
		meta.SizeHuman = &human
	}
	if thumb := pickThumbnail(f.Thumbs); thumb != "" {
		meta.Thumbnail = &thumb
	}
	return meta
}
