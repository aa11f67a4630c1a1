package stylesheet

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Token is a single lexical unit of a style sheet.
// Text is a slice of the source except for decoded escapes and force-closed
// strings. Offset is the byte position of the token in the source.
type Token struct {
	Text   string
	Offset int
}

// space is the only whitespace token the tokenizer ever emits.
const space = " "

// IsSpace reports whether the token is a folded whitespace/comment run.
func (t Token) IsSpace() bool { return t.Text == space }

// IsFunction reports whether the token opens a functional value, e.g. "url(".
func (t Token) IsFunction() bool { return isFunctionOpener(t.Text) }

// Tokenize splits CSS text into tokens. It accepts any input.
// Runs of whitespace and comments fold into one space token. Invalid UTF-8
// is replaced by U+FFFD first, so token text always survives a JSON round
// trip; offsets refer to the repaired text.
func Tokenize(src string) []Token {
	tokens, _ := tokenize(validUTF8(src))
	return tokens
}

// validUTF8 replaces each run of invalid bytes with U+FFFD.
func validUTF8(src string) string {
	return strings.ToValidUTF8(src, string(utf8.RuneError))
}

// tokenize also returns the offsets of strings closed at end of line.
func tokenize(src string) ([]Token, []int) {
	s := scanner{src: src}
	return s.run(), s.unterminated
}

type scanner struct {
	src    string
	pos    int
	tokens []Token
	// inSpace is set while a whitespace/comment run is being folded.
	inSpace bool
	// unterminated records offsets of strings that were closed at end of line.
	unterminated []int
}

func (s *scanner) run() []Token {
	for s.pos < len(s.src) {
		start := s.pos
		if n := s.whitespace(start); n > 0 {
			s.pos += n
			s.emitSpace(start)
			continue
		}
		if n := s.comment(start); n > 0 {
			s.pos += n
			s.emitSpace(start)
			continue
		}

		text := s.next(start)
		s.inSpace = false
		s.tokens = append(s.tokens, Token{Text: text, Offset: start})
	}
	return s.tokens
}

// next scans one non-whitespace token. Classes are tried from the most
// specific to the catch-all single character.
func (s *scanner) next(i int) string {
	if c := s.src[i]; c == '"' || c == '\'' {
		return s.quoted(i)
	}
	if n := s.number(i); n > 0 {
		return s.take(n)
	}
	if n := s.unicodeRange(i); n > 0 {
		return s.take(n)
	}
	if n := s.ident(i); n > 0 {
		return decodeEscapes(s.take(n))
	}
	if s.src[i] == '#' {
		return decodeEscapes(s.take(1 + s.nameBody(i+1)))
	}
	_, size := utf8.DecodeRuneInString(s.src[i:])
	return s.take(size)
}

func (s *scanner) take(n int) string {
	text := s.src[s.pos : s.pos+n]
	s.pos += n
	return text
}

func (s *scanner) emitSpace(offset int) {
	if s.inSpace {
		return
	}
	s.inSpace = true
	s.tokens = append(s.tokens, Token{Text: space, Offset: offset})
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (s *scanner) whitespace(i int) int {
	j := i
	for j < len(s.src) && isWhitespace(s.src[j]) {
		j++
	}
	return j - i
}

// comment matches a closed /* ... */ comment plus trailing whitespace.
// An unclosed comment is not a comment: its "/" falls through to a single
// character token.
func (s *scanner) comment(i int) int {
	if !strings.HasPrefix(s.src[i:], "/*") {
		return 0
	}
	end := strings.Index(s.src[i+2:], "*/")
	if end < 0 {
		return 0
	}
	j := i + 2 + end + 2
	return j - i + s.whitespace(j)
}

// quoted scans a string literal starting at i. A string that reaches the end
// of the line is closed there; one that reaches the end of input without a
// newline is not a string and yields just the quote character.
func (s *scanner) quoted(i int) string {
	q := s.src[i]
	for j := i + 1; j < len(s.src); j++ {
		switch s.src[j] {
		case '\\':
			if j+1 < len(s.src) {
				j++
				continue
			}
			return s.take(1)
		case q:
			return s.take(j + 1 - i)
		case '\n':
			text := s.src[i:j] + string(q)
			s.pos = j + 1
			s.unterminated = append(s.unterminated, i)
			return text
		}
	}
	return s.take(1)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isHex(c byte) bool { return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' }

func isNameStart(c byte) bool { return isLetter(c) || c == '_' || c >= utf8.RuneSelf }

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) || c == '-' }

func (s *scanner) digits(i int) int {
	j := i
	for j < len(s.src) && isDigit(s.src[j]) {
		j++
	}
	return j - i
}

// number matches [+-]? ([0-9]* '.')? [0-9]+ (unit | '%')?.
func (s *scanner) number(i int) int {
	j := i
	if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
		j++
	}
	j += s.digits(j)
	if j+1 < len(s.src) && s.src[j] == '.' && isDigit(s.src[j+1]) {
		j += 1 + s.digits(j+1)
	} else if j == i || !isDigit(s.src[j-1]) {
		return 0
	}
	if j < len(s.src) {
		switch c := s.src[j]; {
		case c == '%':
			j++
		case isLetter(c) || c == '_':
			j++
			for j < len(s.src) && (isLetter(s.src[j]) || isDigit(s.src[j]) || s.src[j] == '_' || s.src[j] == '-') {
				j++
			}
		}
	}
	return j - i
}

// unicodeRange matches u+XXXX, u+XXXX-YYYY and masked u+XX?? forms.
func (s *scanner) unicodeRange(i int) int {
	if i+2 >= len(s.src) || s.src[i] != 'u' && s.src[i] != 'U' || s.src[i+1] != '+' {
		return 0
	}
	j := i + 2
	hex := s.run6(j, isHex)
	mask := s.run6(j, func(c byte) bool { return isHex(c) || c == '?' })
	if mask > hex {
		return 2 + mask
	}
	if hex == 0 {
		return 0
	}
	j += hex
	if j+1 < len(s.src) && s.src[j] == '-' {
		if n := s.run6(j+1, isHex); n > 0 {
			j += 1 + n
		}
	}
	return j - i
}

func (s *scanner) run6(i int, ok func(byte) bool) int {
	n := 0
	for n < 6 && i+n < len(s.src) && ok(s.src[i+n]) {
		n++
	}
	return n
}

// escape matches a backslash, 1-6 hex digits and one optional whitespace.
func (s *scanner) escape(i int) int {
	if i >= len(s.src) || s.src[i] != '\\' {
		return 0
	}
	n := s.run6(i+1, isHex)
	if n == 0 {
		return 0
	}
	j := i + 1 + n
	if j < len(s.src) && isWhitespace(s.src[j]) {
		j++
	}
	return j - i
}

func (s *scanner) nameBody(i int) int {
	j := i
	for j < len(s.src) {
		if isNameChar(s.src[j]) {
			j++
		} else if n := s.escape(j); n > 0 {
			j += n
		} else {
			break
		}
	}
	return j - i
}

// ident matches an optionally @- and/or dash-prefixed identifier. When it
// is followed (after optional whitespace) by "(", the parenthesis belongs to
// the token. This holds for at-keywords too: "@media (" is one token, which
// is not the @media keyword, so such a block is dropped as unsupported.
func (s *scanner) ident(i int) int {
	j := i
	if s.src[j] == '@' {
		j++
	}
	if j < len(s.src) && s.src[j] == '-' {
		j++
	}
	if j >= len(s.src) {
		return 0
	}
	if isNameStart(s.src[j]) {
		j++
	} else if n := s.escape(j); n > 0 {
		j += n
	} else {
		return 0
	}
	j += s.nameBody(j)

	k := j + s.whitespace(j)
	if k < len(s.src) && s.src[k] == '(' {
		j = k + 1
	}
	return j - i
}

// decodeEscapes replaces hex escapes by the code point they name, so names
// cannot be obfuscated past case-insensitive comparisons. Escapes of code
// points that are not plain name characters stay escaped: decoding them would
// let an identifier smuggle in CSS syntax.
func decodeEscapes(text string) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '\\' {
			b.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) && j-i-1 < 6 && isHex(text[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := j
		if end < len(text) && isWhitespace(text[end]) {
			end++
		}
		cp, err := strconv.ParseUint(text[i+1:j], 16, 32)
		if r := rune(cp); err == nil && isSafeName(r) {
			b.WriteRune(r)
		} else {
			b.WriteString(text[i:end])
		}
		i = end
	}
	return b.String()
}

func isSafeName(r rune) bool {
	if r < utf8.RuneSelf {
		c := byte(r)
		return isLetter(c) || isDigit(c) || c == '-' || c == '_'
	}
	return utf8.ValidRune(r)
}

// isFunctionOpener reports whether a token text has the shape produced for
// identifiers immediately followed by "(".
func isFunctionOpener(text string) bool {
	return len(text) > 1 && text[len(text)-1] == '('
}

// functionName returns the case-folded name of a function opener token.
func functionName(text string) string {
	name := strings.TrimSuffix(text, "(")
	name = strings.TrimRight(name, " \t\n\r\f")
	return strings.ToLower(name)
}
