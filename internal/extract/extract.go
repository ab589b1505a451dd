// Package extract pulls inline script and style content out of a parsed
// document so that it can be bundled separately.
package extract

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/lyke/internal/markup"
)

// Block is the script or style content removed from one document.
type Block struct {
	// Logical is the display path of the document the content came from.
	Logical string
	// Parts holds each element's trimmed content in document order.
	Parts []string
}

// Text joins the parts with newlines.
func (b Block) Text() string {
	return strings.TrimSpace(strings.Join(b.Parts, "\n"))
}

// Empty reports whether the block contributes nothing to a bundle.
func (b Block) Empty() bool {
	return b.Text() == ""
}

// WrapScript returns the block inside an immediately invoked function so
// top-level declarations of different documents do not collide. The comment
// names the source document. An empty block wraps to an empty string.
func (b Block) WrapScript() string {
	if b.Empty() {
		return ""
	}
	return fmt.Sprintf(";(function(){\n// File: %s.js\n%s\n})()", b.Logical, b.Text())
}

// WrapStyle returns the block between begin and end comments naming the
// source document. An empty block wraps to an empty string.
func (b Block) WrapStyle() string {
	if b.Empty() {
		return ""
	}
	return fmt.Sprintf("/* Begin: %s.css */\n%s\n/* End: %s.css */", b.Logical, b.Text(), b.Logical)
}

// Extract removes every script element and then every style element from
// doc, in document order, and returns their content.
func Extract(doc *markup.Document, logical string) (scripts, styles Block) {
	return take(doc, "script", logical), take(doc, "style", logical)
}

func take(doc *markup.Document, tag, logical string) Block {
	block := Block{Logical: logical}
	for _, el := range doc.FindByTag(tag) {
		block.Parts = append(block.Parts, strings.TrimSpace(markup.InnerText(el)))
		doc.Remove(el)
	}
	return block
}
