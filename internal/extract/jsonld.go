package extract

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// jsonldTypeRE recovers @type values from JSON-LD blocks that fail
// strict parsing. It matches both scalar and list forms:
//
//	"@type": "Organization"
//	"@type": ["Organization", "LocalBusiness"]
var jsonldTypeRE = regexp.MustCompile(`(?i)"@type"\s*:\s*("([^"]+)"|\[([^\]]+)\])`)

var quotedStringRE = regexp.MustCompile(`"([^"]+)"`)

// SchemaTypes collects every @type value from the given JSON-LD blocks,
// at any nesting depth, and returns them sorted and deduplicated.
//
// Each block is parsed strictly first; blocks with minor formatting
// problems (trailing commas, comments) fall back to a regex scan, so a
// sloppy block still contributes its types instead of being dropped.
func SchemaTypes(blocks []string) []string {
	types := make(map[string]struct{})

	for _, raw := range blocks {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			collectTypes(data, types)
			continue
		}

		for _, m := range jsonldTypeRE.FindAllStringSubmatch(raw, -1) {
			switch {
			case m[2] != "":
				types[m[2]] = struct{}{}
			case m[3] != "":
				for _, q := range quotedStringRE.FindAllStringSubmatch(m[3], -1) {
					types[q[1]] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// collectTypes walks an arbitrary decoded JSON value and records every
// string found under an "@type" key. Nested entities (@graph, offers,
// author objects) are all visited.
func collectTypes(v any, types map[string]struct{}) {
	switch val := v.(type) {
	case map[string]any:
		switch t := val["@type"].(type) {
		case string:
			types[t] = struct{}{}
		case []any:
			for _, x := range t {
				if s, ok := x.(string); ok {
					types[s] = struct{}{}
				}
			}
		}
		for _, child := range val {
			collectTypes(child, types)
		}
	case []any:
		for _, item := range val {
			collectTypes(item, types)
		}
	}
}
