// Package segment splits extracted text into sentences.
package segment

import (
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

func englishTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
		if tokenizerErr != nil {
			tokenizerErr = fmt.Errorf("load punkt model: %w", tokenizerErr)
		}
	})
	return tokenizer, tokenizerErr
}

// Sentences splits text with the English Punkt model. Blank sentences are dropped.
func Sentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	tok, err := englishTokenizer()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Truncate keeps at most n sentences.
func Truncate(sents []string, n int) []string {
	if n >= 0 && len(sents) > n {
		return sents[:n]
	}
	return sents
}

// Join renders sentences as stored index text.
func Join(sents []string) string {
	return strings.Join(sents, " ")
}
