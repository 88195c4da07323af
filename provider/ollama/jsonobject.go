package ollama

import (
	"errors"
	"strings"
)

// firstJSONObject returns the first balanced {...} in s. Braces inside
// string literals are ignored, so model output wrapped in prose or code
// fences still decodes.
func firstJSONObject(s string) (string, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	for i := strings.IndexByte(s, '{'); i >= 0; {
		if end, ok := matchBrace(s, i); ok {
			return s[i : end+1], nil
		}
		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", errors.New("no JSON object in model output")
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escape := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, c == '}'
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}
