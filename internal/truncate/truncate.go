// Package truncate fits graph node labels into a fixed display width.
package truncate

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended when a label had to be shortened.
const Ellipsis = "…"

// Fit returns text unchanged when it fits within maxWidth characters.
// Otherwise it greedily accumulates whole whitespace-delimited words
// (each word costs its length plus one for the separating space) and
// appends the ellipsis marker as the final token. Words are never split;
// when even the first word does not fit the result is just the marker.
func Fit(text string, maxWidth int) string {
	if utf8.RuneCountInString(text) <= maxWidth {
		return text
	}

	var kept []string
	used := 0
	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if used+n+1 >= maxWidth {
			break
		}
		kept = append(kept, word)
		used += n + 1
	}

	return strings.Join(append(kept, Ellipsis), " ")
}
