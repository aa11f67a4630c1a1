package stylesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

func tokenTexts(tokens []stylesheet.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "whitespace and comments fold into one space",
			input:    "a  /* c */ \n\t/* d */b",
			expected: []string{"a", " ", "b"},
		},
		{
			name:     "carriage return and form feed are whitespace",
			input:    "a\r\n\fb",
			expected: []string{"a", " ", "b"},
		},
		{
			name:     "unterminated string closes at end of line",
			input:    "\"abc\nx",
			expected: []string{`"abc"`, "x"},
		},
		{
			name:     "string with escaped quote",
			input:    `'it\'s'`,
			expected: []string{`'it\'s'`},
		},
		{
			name:     "unterminated string at end of input is a lone quote",
			input:    "'abc",
			expected: []string{"'", "abc"},
		},
		{
			name:     "unclosed comment is punctuation",
			input:    "a /* b",
			expected: []string{"a", " ", "/", "*", " ", "b"},
		},
		{
			name:     "function opener absorbs whitespace",
			input:    "url (x)",
			expected: []string{"url (", "x", ")"},
		},
		{
			name:     "at-keyword absorbs parenthesis",
			input:    "@media (",
			expected: []string{"@media ("},
		},
		{
			name:     "invalid utf-8 is replaced",
			input:    "a\xff\xfeb",
			expected: []string{"a\ufffdb"},
		},
		{
			name:     "escaped name is decoded",
			input:    "-\\065 vil",
			expected: []string{"-evil"},
		},
		{
			name:     "escape of syntax stays raw",
			input:    "a\\7d b",
			expected: []string{"a\\7d b"},
		},
		{
			name:     "numbers",
			input:    "+.5em -3% 10",
			expected: []string{"+.5em", " ", "-3%", " ", "10"},
		},
		{
			name:     "unicode range",
			input:    "U+0025-00FF",
			expected: []string{"U+0025-00FF"},
		},
		{
			name:     "masked unicode range",
			input:    "u+4??",
			expected: []string{"u+4??"},
		},
		{
			name:     "hash",
			input:    "#fff",
			expected: []string{"#fff"},
		},
		{
			name:     "dashed identifier is not a number",
			input:    "-x",
			expected: []string{"-x"},
		},
		{
			name:     "non-ascii identifier",
			input:    "café",
			expected: []string{"café"},
		},
		{
			name:     "punctuation",
			input:    "{}:;,>",
			expected: []string{"{", "}", ":", ";", ",", ">"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tokenTexts(stylesheet.Tokenize(tt.input)))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, stylesheet.Tokenize(""))
}

func TestTokenize_Offsets(t *testing.T) {
	t.Parallel()

	tokens := stylesheet.Tokenize("a {b")
	offsets := make([]int, len(tokens))
	for i, tok := range tokens {
		offsets[i] = tok.Offset
	}
	assert.Equal(t, []int{0, 1, 2, 3}, offsets)

	tokens = stylesheet.Tokenize("a  /* c */ \n\t/* d */b")
	assert.Equal(t, 20, tokens[2].Offset)
}

func TestToken_Predicates(t *testing.T) {
	t.Parallel()

	tokens := stylesheet.Tokenize("url (x) y")
	assert.True(t, tokens[0].IsFunction())
	assert.False(t, tokens[1].IsFunction())
	assert.True(t, tokens[3].IsSpace())
	assert.False(t, tokens[4].IsSpace())
	assert.False(t, stylesheet.Token{Text: "("}.IsFunction())
}
