// Package extract digs a playable URL out of the wildly varying payloads the
// proxy resolvers return. None of the upstream services document their
// response shapes, so extraction is a fixed sequence of probes over the
// decoded JSON; the first probe that yields an http URL wins.
package extract

import (
	"encoding/json"
	"strings"
)

// defaultQualities is the preference order used after the caller's preferred
// quality.
var defaultQualities = []string{"1080p", "720p", "480p", "360p"}

type probe struct {
	name string
	fn   func(doc map[string]any, qualities []string) (string, bool)
}

// probes run in order; earlier shapes are the ones seen most often in the
// wild.
var probes = []probe{
	{"list-fast-stream", fromListFastStream},
	{"qualities-map", fromQualitiesMap},
	{"direct-fields", fromDirectFields},
	{"urls-array", fromURLsArray},
	{"list-entry", fromListEntry},
	{"any-top-level", fromAnyTopLevel},
}

// PlayableURL finds a streamable or downloadable URL in an upstream payload.
// Non-JSON payloads that are themselves a bare URL pass through. Absence of
// a playable URL is not an error, so the result is a found flag.
func PlayableURL(raw []byte, preferredQuality string) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))

	var doc map[string]any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		// Some services answer with a JSON-encoded string holding the URL.
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil && isHTTP(s) {
			return s, true
		}
		if isHTTP(trimmed) && !strings.ContainsAny(trimmed, " \n") {
			return trimmed, true
		}
		return "", false
	}

	qualities := qualityOrder(preferredQuality)
	for _, p := range probes {
		if u, ok := p.fn(doc, qualities); ok {
			return u, true
		}
	}
	return "", false
}

func qualityOrder(preferred string) []string {
	order := make([]string, 0, len(defaultQualities)+1)
	if preferred != "" {
		order = append(order, preferred)
	}
	for _, q := range defaultQualities {
		if q != preferred {
			order = append(order, q)
		}
	}
	return order
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// pickQuality selects from a map of quality label to URL string, falling
// back to any http value when no labeled quality matches.
func pickQuality(m map[string]any, qualities []string) (string, bool) {
	for _, q := range qualities {
		if s, ok := asString(m[q]); ok && isHTTP(s) {
			return s, true
		}
	}
	for _, v := range m {
		if s, ok := asString(v); ok && isHTTP(s) {
			return s, true
		}
	}
	return "", false
}

func firstListEntry(doc map[string]any) (map[string]any, bool) {
	list, ok := doc["list"].([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return asMap(list[0])
}

func fromListFastStream(doc map[string]any, qualities []string) (string, bool) {
	entry, ok := firstListEntry(doc)
	if !ok {
		return "", false
	}
	streams, ok := asMap(entry["fast_stream_url"])
	if !ok {
		return "", false
	}
	return pickQuality(streams, qualities)
}

func fromQualitiesMap(doc map[string]any, qualities []string) (string, bool) {
	m, ok := asMap(doc["qualities"])
	if !ok {
		return "", false
	}
	for _, q := range qualities {
		if entry, ok := asMap(m[q]); ok {
			if s, ok := asString(entry["url"]); ok && isHTTP(s) {
				return s, true
			}
		}
	}
	for _, v := range m {
		if entry, ok := asMap(v); ok {
			if s, ok := asString(entry["url"]); ok && isHTTP(s) {
				return s, true
			}
		}
	}
	return "", false
}

func fromDirectFields(doc map[string]any, _ []string) (string, bool) {
	for _, key := range []string{"streamUrl", "downloadUrl", "url", "playableUrl"} {
		if s, ok := asString(doc[key]); ok && isHTTP(s) {
			return s, true
		}
	}
	if data, ok := asMap(doc["data"]); ok {
		for _, key := range []string{"download_link", "url"} {
			if s, ok := asString(data[key]); ok && isHTTP(s) {
				return s, true
			}
		}
	}
	return "", false
}

func fromURLsArray(doc map[string]any, _ []string) (string, bool) {
	urls, ok := doc["urls"].([]any)
	if !ok || len(urls) == 0 {
		return "", false
	}
	if s, ok := asString(urls[0]); ok && isHTTP(s) {
		return s, true
	}
	if entry, ok := asMap(urls[0]); ok {
		if s, ok := asString(entry["url"]); ok && isHTTP(s) {
			return s, true
		}
	}
	return "", false
}

func fromListEntry(doc map[string]any, _ []string) (string, bool) {
	entry, ok := firstListEntry(doc)
	if !ok {
		return "", false
	}
	for _, key := range []string{"url", "downloadUrl"} {
		if s, ok := asString(entry[key]); ok && isHTTP(s) {
			return s, true
		}
	}
	for _, v := range entry {
		if s, ok := asString(v); ok && isHTTP(s) {
			return s, true
		}
	}
	return "", false
}

func fromAnyTopLevel(doc map[string]any, _ []string) (string, bool) {
	for _, v := range doc {
		if s, ok := asString(v); ok && isHTTP(s) {
			return s, true
		}
	}
	return "", false
}
