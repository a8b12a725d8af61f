package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	svc := NewService()

	html, err := svc.ToHTML("# Heading\n\nsome **bold** text")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestToHTMLSanitizedStripsScripts(t *testing.T) {
	svc := NewService()

	html, err := svc.ToHTMLSanitized("hello <script>alert('x')</script> world")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}

func TestSanitizeKeepsCodeBlocks(t *testing.T) {
	svc := NewService()

	html, err := svc.ToHTMLSanitized("```\nfmt.Println(\"hi\")\n```")
	require.NoError(t, err)

	assert.Contains(t, html, "<pre>")
	assert.Contains(t, html, "fmt.Println")
}
