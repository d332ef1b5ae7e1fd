package utils

import (
	"strconv"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify turns text into a lowercase ASCII slug. Accents are folded away
// and every run of other characters becomes a single dash.
func Slugify(text string) string {
	buf := make([]rune, 0, len(text))
	dash := false
	for _, r := range norm.NFKD.String(text) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			buf = append(buf, unicode.ToLower(r))
			dash = true
		case dash:
			buf = append(buf, '-')
			dash = false
		}
	}
	if i := len(buf) - 1; i >= 0 && buf[i] == '-' {
		buf = buf[:i]
	}
	return string(buf)
}

// NextAvailableSlug returns base if it is free, otherwise the first of
// base-2, base-3, ... that is not in taken.
func NextAvailableSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, slug := range taken {
		used[slug] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
