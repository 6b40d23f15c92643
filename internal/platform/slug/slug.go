package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Make lowercases a name, collapses anything non-alphanumeric into
// single hyphens and trims the edges.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// WithID appends the upstream id so two entities with the same name
// never collide on slug.
func WithID(name string, upstreamID int64) string {
	base := Make(name)
	id := strconv.FormatInt(upstreamID, 10)
	if base == "" {
		return id
	}
	return base + "-" + id
}
