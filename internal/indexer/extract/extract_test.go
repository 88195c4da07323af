package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head><title>T</title><script>var p = "<p>no</p>";</script></head>
<body>
<nav>Menu item</nav>
<p>First <b>bold</b> paragraph.</p>
<div><p>Nested one.</p></div>
<p>Last.</p>
</body></html>`

func TestParagraphsExtract(t *testing.T) {
	ex, err := NewExtractor(ParagraphsExtractorType)
	require.NoError(t, err)

	text, err := ex.Extract(samplePage, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "First bold paragraph. Nested one. Last.", text)
	assert.NotContains(t, text, "Menu item")
}

func TestParagraphsExtractNoParagraphs(t *testing.T) {
	text, err := Paragraphs{}.Extract("<html><body><div>only div</div></body></html>", "")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestReadabilityExtract(t *testing.T) {
	body := strings.Repeat("<p>The quick brown fox jumps over the lazy dog near the river bank today.</p>", 20)
	page := "<html><head><title>Fox</title></head><body><article>" + body + "</article></body></html>"

	ex, err := NewExtractor(ReadabilityExtractorType)
	require.NoError(t, err)
	text, err := ex.Extract(page, "https://example.com/fox")
	require.NoError(t, err)
	assert.Contains(t, text, "quick brown fox")
}

func TestNewExtractorUnknown(t *testing.T) {
	_, err := NewExtractor("ocr")
	assert.Error(t, err)
}
