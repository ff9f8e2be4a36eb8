package policy

import (
	"net/url"
	"strings"
)

// hostOf returns the lowercased host of a URL without its port. Strings
// without a scheme are returned whole.
func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		return strings.ToLower(raw)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		rest := raw[strings.Index(raw, "://")+3:]
		if i := strings.IndexAny(rest, "/?#"); i >= 0 {
			rest = rest[:i]
		}
		return strings.ToLower(rest)
	}
	return strings.ToLower(u.Hostname())
}
