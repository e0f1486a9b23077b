// Package slug derives unique, URL-safe keys from poll titles.
package slug

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// Make lowercases the title and collapses every non-alphanumeric run
// into a single dash.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ExistsFunc probes whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns the first free slug for title: the base slug itself,
// then base-1, base-2, … until exists reports false.
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := Make(title)
	if base == "" {
		base = "poll"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
