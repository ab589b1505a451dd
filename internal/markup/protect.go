package markup

import (
	"bytes"
	"encoding/hex"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Include markers are plain text to the HTML parser. Left alone, the parser
// escapes their quotes on render and moves markers found in <head> into
// <body>. Markers in text content are therefore turned into comments before
// parsing and turned back into markers after rendering. The marker is stored
// hex encoded so that no marker text can end the comment early.

const protectPrefix = "<!--lyke:"

var (
	rawMarker       = regexp.MustCompile(`\{\{.*?\}\}`)
	protectedMarker = regexp.MustCompile(`<!--lyke:([0-9a-f]*)-->`)
)

// rawTextElements are elements whose content the tokenizer returns verbatim.
var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "textarea": true,
	"title": true, "xmp": true,
}

func protectMarkers(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	var out bytes.Buffer
	z := html.NewTokenizer(strings.NewReader(text))
	inRawText := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Unreadable input: fall back to the raw text.
				return text
			}
			break
		}
		raw := z.Raw()
		switch tt {
		case html.TextToken:
			if inRawText {
				out.Write(raw)
			} else {
				out.Write(rawMarker.ReplaceAllFunc(raw, func(m []byte) []byte {
					return []byte(protectPrefix + hex.EncodeToString(m) + "-->")
				}))
			}
			inRawText = false
		case html.StartTagToken:
			out.Write(raw)
			name, _ := z.TagName()
			inRawText = rawTextElements[string(name)]
		default:
			out.Write(raw)
			inRawText = false
		}
	}
	return out.String()
}

func restoreMarkers(text string) string {
	if !strings.Contains(text, protectPrefix) {
		return text
	}
	return protectedMarker.ReplaceAllStringFunc(text, func(m string) string {
		marker, err := hex.DecodeString(protectedMarker.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		return string(marker)
	})
}
