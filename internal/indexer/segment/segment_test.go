package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentences(t *testing.T) {
	sents, err := Sentences("Go was designed at Google. It was announced in 2009! Is it popular?")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Go was designed at Google.",
		"It was announced in 2009!",
		"Is it popular?",
	}, sents)
}

func TestSentencesKeepsAbbreviations(t *testing.T) {
	sents, err := Sentences("Mr. Smith went to Washington. He stayed there.")
	require.NoError(t, err)
	assert.Len(t, sents, 2)
}

func TestSentencesBlank(t *testing.T) {
	sents, err := Sentences("   \n ")
	require.NoError(t, err)
	assert.Empty(t, sents)
}

func TestTruncateAndJoin(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "Sentence number %d is here. ", i)
	}
	sents, err := Sentences(b.String())
	require.NoError(t, err)
	require.Len(t, sents, 150)

	kept := Truncate(sents, 100)
	assert.Len(t, kept, 100)
	assert.Equal(t, "Sentence number 99 is here.", kept[99])
	assert.True(t, strings.HasPrefix(Join(kept), "Sentence number 0 is here. Sentence number 1 is here."))

	assert.Len(t, Truncate(sents[:3], 100), 3)
}
