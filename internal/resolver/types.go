package resolver

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Canonical is the normalized form of a share link: the URL after following
// redirects plus the short identifier upstream services key the share by.
type Canonical struct {
	FinalURL string
	Surl     string
}

// Entry is one file or folder in a share listing.
type Entry struct {
	IsDir  bool
	FSID   string
	Name   string
	Size   *int64
	Thumbs map[string]string
}

// Listing is the ordered set of entries a share resolves to. A listing is
// produced fresh on every resolution call and never mutated.
type Listing []Entry

// Metadata is the terminal output of one resolution attempt.
type Metadata struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SizeBytes   *int64  `json:"size_bytes"`
	SizeHuman   *string `json:"size_human"`
	Thumbnail   *string `json:"thumbnail"`
	Type        string  `json:"type"`
	URL         string  `json:"url"`
}

// flexInt64 decodes JSON values that upstreams serve interchangeably as
// numbers or numeric strings.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Tolerate junk rather than failing the whole listing.
		*f = 0
		return nil
	}
	*f = flexInt64(n)
	return nil
}

// flexString decodes JSON values that upstreams serve as strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.TrimSpace(string(data)))
	return nil
}
