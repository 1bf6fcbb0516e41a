package extractor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/webcontent/pkg/extractor"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "whitespace collapse",
			html: "<p>Hello   \n\n  World</p>",
			want: "Hello World",
		},
		{
			name: "script and style excluded",
			html: "<html><head><style>.a{}</style></head><body>Visible<script>ignored();</script> Text</body></html>",
			want: "Visible Text",
		},
		{
			name: "head content excluded",
			html: "<html><head><title>Title</title><meta name=\"x\" content=\"y\"></head><body><h1>Heading</h1></body></html>",
			want: "Heading",
		},
		{
			name: "document order",
			html: "<body><div>one <span>two</span></div> three <ul><li>four</li></ul></body>",
			want: "one two three four",
		},
		{
			name: "tabs and leading whitespace",
			html: "<body>\n\t  <p>\tA\t\tB  </p>\n\n</body>",
			want: "A B",
		},
		{
			name: "non-breaking space collapses",
			html: "<body>A&nbsp;&nbsp; B</body>",
			want: "A B",
		},
		{
			name: "noscript and template excluded",
			html: "<body>shown<noscript><img src=\"x.png\"></noscript><template><p>hidden</p></template></body>",
			want: "shown",
		},
		{
			name: "comments excluded",
			html: "<body>a<!-- note -->b</body>",
			want: "ab",
		},
		{
			name: "unclosed tags",
			html: "<html><body><div><p>Broken <b>markup",
			want: "Broken markup",
		},
		{
			name: "fragment without structure",
			html: "just some text",
			want: "just some text",
		},
		{
			name: "empty body",
			html: "<html><head><title>Only title</title></head><body></body></html>",
			want: "",
		},
		{
			name: "empty input",
			html: "",
			want: "",
		},
	}

	e := extractor.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHasNoMarkupOrWhitespaceRuns(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
	<title>Docs</title>
	<script src="app.js"></script>
	<style>body { color: red; }</style>
</head>
<body>
	<nav><a href="/">Home</a> | <a href="/about">About</a></nav>
	<main>
		<h1>Getting   started</h1>
		<p>Install the tool,
		then run it.</p>
		<script>window.x = "<b>not text</b>";</script>
		<pre>
	indented   code
		</pre>
		<table><tr><td>cell 1</td><td>cell 2</td></tr></table>
	</main>
	<iframe src="/embed"><p>fallback</p></iframe>
</body>
</html>`

	got, err := extractor.New().Extract(page)
	require.NoError(t, err)

	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
	assert.NotContains(t, got, "  ")
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "\t")
	assert.Equal(t, strings.TrimSpace(got), got)
	assert.Equal(t, "Home | About Getting started Install the tool, then run it. indented code cell 1cell 2", got)
}

func TestExtractIsIdempotent(t *testing.T) {
	page := "<body><p>Same   input</p><p>same output</p></body>"
	e := extractor.New()

	first, err := e.Extract(page)
	require.NoError(t, err)
	second, err := e.Extract(page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", extractor.Normalize(""))
	assert.Equal(t, "", extractor.Normalize(" \n\t "))
	assert.Equal(t, "a b c", extractor.Normalize("  a\n\nb\t\tc  "))
	assert.Equal(t, "already normal", extractor.Normalize("already normal"))
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&extractor.ExtractionError{Err: cause})

	var extractErr *extractor.ExtractionError
	assert.True(t, errors.As(err, &extractErr))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "extract text: boom", err.Error())
}
