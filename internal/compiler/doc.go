// Package compiler is the tree-walking core of lyke. Starting from a root
// document it parses the markup, extracts inline script and style content,
// finds include markers, compiles every referenced document recursively and
// splices the results back into place.
//
// Each recursive call returns its own Unit (text, script and style
// contributions, include count). Siblings are read and compiled concurrently,
// but the caller merges their units in marker order, so bundles are always a
// pre-order walk of the include tree: a document's own content first, then
// each included document's contribution in the order its marker appears.
//
// A document that cannot be read fails the whole compilation with an
// IncludeNotFoundError; nothing is returned for the rest of the tree.
package compiler
