package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.Render()
	require.NoError(t, err)
	return out
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
		fragment bool
	}{
		{
			name:     "fragment is kept as is",
			input:    `<div class="a"><p>Hello</p></div>`,
			expected: `<div class="a"><p>Hello</p></div>`,
			fragment: true,
		},
		{
			name:     "quoted marker in text keeps its quotes",
			input:    `<p>{{"card"}}</p>`,
			expected: `<p>{{"card"}}</p>`,
			fragment: true,
		},
		{
			name:     "marker in head stays in head",
			input:    `<!DOCTYPE html><html><head>{{"head"}}</head><body><p>x</p></body></html>`,
			expected: `<!DOCTYPE html><html><head>{{"head"}}</head><body><p>x</p></body></html>`,
		},
		{
			name:     "marker inside script is raw text",
			input:    `<script>var t = "{{x}}";</script>`,
			expected: `<script>var t = "{{x}}";</script>`,
			fragment: true,
		},
		{
			name:     "comment before doctype still a document",
			input:    "<!-- site root -->\n<!DOCTYPE html><html><head><title>t</title></head><body><p>a</p></body></html>",
			expected: `<!-- site root --><!DOCTYPE html><html><head><title>t</title></head><body><p>a</p></body></html>`,
		},
		{
			name:     "byte order mark before doctype is dropped",
			input:    "\ufeff<!DOCTYPE html><html><head></head><body></body></html>",
			expected: `<!DOCTYPE html><html><head></head><body></body></html>`,
		},
		{
			name:     "table row fragment keeps its structure",
			input:    `<tr><td>x</td></tr>`,
			expected: `<tr><td>x</td></tr>`,
			fragment: true,
		},
		{
			name:     "marker inside table stays in place",
			input:    `<table>{{"row"}}</table>`,
			expected: `<table>{{"row"}}</table>`,
			fragment: true,
		},
		{
			name:     "head elements as fragment",
			input:    `<meta charset="utf-8"/><title>t</title>`,
			expected: `<meta charset="utf-8"/><title>t</title>`,
			fragment: true,
		},
		{
			name:     "marker containing comment terminator",
			input:    `<p>{{a-->b}}</p>`,
			expected: `<p>{{a-->b}}</p>`,
			fragment: true,
		},
		{
			name:     "malformed markup is repaired, not rejected",
			input:    `<div><p>unclosed`,
			expected: `<div><p>unclosed</p></div>`,
			fragment: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.fragment, doc.IsFragment())
			assert.Equal(t, tc.expected, render(t, doc))
		})
	}
}

func TestFindByTag_DocumentOrderAndRemove(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<script>one()</script><div><script>two()</script></div><p>keep</p>`)
	require.NoError(t, err)

	scripts := doc.FindByTag("SCRIPT")
	require.Len(t, scripts, 2)
	assert.Equal(t, "one()", InnerText(scripts[0]))
	assert.Equal(t, "two()", InnerText(scripts[1]))

	for _, s := range scripts {
		doc.Remove(s)
	}
	assert.Equal(t, `<div></div><p>keep</p>`, render(t, doc))
	assert.Empty(t, doc.FindByTag("script"))
}

func TestFindByTag_SkipsFragmentContainer(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<p>no body here</p>`)
	require.NoError(t, err)
	assert.Nil(t, doc.First("body"))
}

func TestAppendHTML_Body(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<html><head></head><body><p>x</p></body></html>`)
	require.NoError(t, err)

	body := doc.First("body")
	require.NotNil(t, body)
	require.NoError(t, doc.AppendHTML(body, `<script src="a.js"></script>`))

	assert.Equal(t, `<html><head></head><body><p>x</p><script src="a.js"></script></body></html>`, render(t, doc))
}

func TestPrependHTML_Fragment(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`<p>x</p>`)
	require.NoError(t, err)
	require.NoError(t, doc.PrependHTML(doc.Root(), `<link rel="stylesheet" href="a.css"/>`))

	assert.Equal(t, `<link rel="stylesheet" href="a.css"/><p>x</p>`, render(t, doc))
}
