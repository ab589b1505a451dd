// Package include finds include markers in serialized markup, resolves the
// documents they reference and splices compiled content back in their place.
//
// A marker is `{{path}}` or `{{"path"}}`. Quotes that a serializer escaped
// (`&#34;`, `&quot;`) are accepted as well.
package include

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// markerPattern is non-greedy and never spans lines, so two markers on one
// line are two matches.
var markerPattern = regexp.MustCompile(`\{\{(?:"|&#34;|&quot;)?(.*?)(?:"|&#34;|&quot;)?\}\}`)

// Marker is one include marker occurrence in a text.
type Marker struct {
	Start int    // byte offset of the opening delimiter
	End   int    // byte offset just past the closing delimiter
	Ref   string // referenced path, unquoted
}

// Scan returns the markers in text from left to right. A text without
// markers yields an empty slice.
func Scan(text string) []Marker {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		markers = append(markers, Marker{
			Start: m[0],
			End:   m[1],
			Ref:   strings.TrimSpace(html.UnescapeString(text[m[2]:m[3]])),
		})
	}
	return markers
}

// Substitute replaces every marker span with the replacement at the same
// index. Markers must be the ordered, non-overlapping result of Scan on text.
func Substitute(text string, markers []Marker, replacements []string) string {
	if len(markers) != len(replacements) {
		panic(fmt.Sprintf("include: %d markers but %d replacements", len(markers), len(replacements)))
	}
	if len(markers) == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for i, m := range markers {
		sb.WriteString(text[last:m.Start])
		sb.WriteString(replacements[i])
		last = m.End
	}
	sb.WriteString(text[last:])
	return sb.String()
}
