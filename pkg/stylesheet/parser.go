package stylesheet

import "strings"

// eof is returned by peek past the last token. Tokens are never empty.
const eof = ""

// Parse tokenizes and parses src. Every selector is prefixed with prefix,
// which scopes the resulting rules to a container. Malformed input is
// skipped, never reported as an error.
func Parse(src, prefix string) Tree {
	return ParseTokens(Tokenize(src), prefix)
}

// ParseTokens parses an already tokenized style sheet.
func ParseTokens(tokens []Token, prefix string) Tree {
	p := newParser(tokens, prefix, -1)
	return p.parseRules(false)
}

// ParseWithWarnings behaves like Parse and also reports what was dropped.
func ParseWithWarnings(src, prefix string) (Tree, []Warning) {
	return parseSource(src, prefix, nil)
}

func parseSource(src, prefix string, policy *Policy) (Tree, []Warning) {
	src = validUTF8(src)
	tokens, unterminated := tokenize(src)
	p := newParser(tokens, prefix, len(src))
	p.policy = policy
	tree := p.parseRules(false)

	warnings := p.warnings
	for _, off := range unterminated {
		warnings = append(warnings, Warning{
			Offset:  off,
			Code:    CodeUnterminatedString,
			Message: "string literal is not closed before the end of the line",
		})
	}
	return tree, locate(src, warnings)
}

type parser struct {
	tokens []Token
	pos    int
	prefix string

	// end is the source length used to place warnings at end of input.
	// It is negative when warnings are not collected.
	end      int
	warnings []Warning
	// policy, when set, adds whitelist/blacklist findings to warnings.
	policy *Policy
	// depth counts enclosing @media blocks.
	depth int
}

func newParser(tokens []Token, prefix string, end int) *parser {
	return &parser{tokens: tokens, prefix: prefix, end: end}
}

func (p *parser) peek(offset int) string {
	if i := p.pos + offset; i < len(p.tokens) {
		return p.tokens[i].Text
	}
	return eof
}

func (p *parser) consume(n int) []Token {
	n = min(n, len(p.tokens)-p.pos)
	out := p.tokens[p.pos : p.pos+n]
	p.pos += n
	return out
}

// consumeUntil takes tokens up to, not including, the first delimiter.
// It also stops at end of input, so the caller must check what follows.
func (p *parser) consumeUntil(delims ...string) []Token {
	n := 0
	for {
		tok := p.peek(n)
		if tok == eof || isOneOf(tok, delims) {
			break
		}
		n++
	}
	return p.consume(n)
}

func (p *parser) consumeWhitespace() {
	for p.peek(0) == space {
		p.pos++
	}
}

func isOneOf(tok string, set []string) bool {
	for _, s := range set {
		if tok == s {
			return true
		}
	}
	return false
}

// warn records a warning at the current token.
func (p *parser) warn(code, msg string) {
	off := p.end
	if p.pos < len(p.tokens) {
		off = p.tokens[p.pos].Offset
	}
	p.warnAt(off, code, msg)
}

func (p *parser) warnAt(offset int, code, msg string) {
	if p.end < 0 {
		return
	}
	p.warnings = append(p.warnings, Warning{Offset: offset, Code: code, Message: msg})
}

func join(tokens []Token) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0].Text
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// parseRules parses a rule list. A nested list ends at "}" (consumed);
// at top level a stray "}" is skipped.
//
//	rules : ( '@media' media | '@' other | '}' | rule )*
//
// Ordinary rules are gathered into one trailing Plain node.
func (p *parser) parseRules(nested bool) Tree {
	var (
		tree  Tree
		rules []Rule
	)
	p.consumeWhitespace()
	for {
		tok := p.peek(0)
		if tok == eof {
			if nested {
				p.warn(CodeUnclosedBlock, "@media block is not closed")
			}
			break
		}
		if tok == "}" {
			if nested {
				p.consume(1)
				break
			}
			p.warn(CodeStrayBrace, "unexpected \"}\"")
			p.consume(1)
			p.consumeWhitespace()
			continue
		}

		switch classifyAtRule(tok) {
		case atMedia:
			if m := p.parseMedia(); m != nil {
				tree = append(tree, m)
			}
		case atOther:
			tree = append(tree, p.parseOther())
		default:
			if rule, ok := p.parseRule(); ok {
				rules = append(rules, rule)
			}
		}
		p.consumeWhitespace()
	}
	if len(rules) > 0 {
		tree = append(tree, &Plain{Rules: rules})
	}
	return tree
}

// prelude takes the tokens between an at-keyword and its block or ";".
func (p *parser) prelude() string {
	p.consumeWhitespace()
	text := join(p.consumeUntil("{", ";"))
	return strings.TrimRight(text, space)
}

// parseMedia returns nil for a braced block without rules, which renders
// nothing. A bare "@media q;" statement is kept.
//
//	media : '@media' WS* TOKEN* ( '{' rules | ';' )
func (p *parser) parseMedia() *Media {
	if p.depth > 0 {
		p.warn(CodeNestedMedia, "nested @media blocks are dropped")
	}
	p.consume(1)
	m := &Media{Prelude: p.prelude()}
	switch p.peek(0) {
	case "{":
		p.consume(1)
		p.depth++
		m.Children = p.parseRules(true)
		p.depth--
		if len(m.Children) == 0 {
			return nil
		}
	case ";":
		p.consume(1)
	default:
		p.warn(CodeUnclosedBlock, "@media has no block")
	}
	return m
}

// parseOther reads an at-rule other than @media.
//
//	other : '@' IDENT WS* TOKEN* ( '{' decls | ';' )
func (p *parser) parseOther() *Other {
	name := p.consume(1)[0].Text
	p.warn(CodeUnsupportedAtRule, "at-rule "+name+" is not supported and will be dropped")
	o := &Other{Name: name, Prelude: p.prelude()}
	switch p.peek(0) {
	case "{":
		p.consume(1)
		body := p.parseDeclarations(false)
		o.Body = &body
	case ";":
		p.consume(1)
	}
	return o
}

// parseRule reads one ruleset.
//
//	rule      : WS* selectors ( '{' decls | ';' )
//	selectors : TOKEN* ( ',' TOKEN* )*
func (p *parser) parseRule() (Rule, bool) {
	var (
		selectors []string
		text      strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			selectors = append(selectors, p.prefix+text.String())
			text.Reset()
		}
	}

	p.consumeWhitespace()
	for tok := p.peek(0); tok != eof && tok != "{" && tok != ";"; tok = p.peek(0) {
		if tok == "," {
			flush()
			p.consume(1)
			p.consumeWhitespace()
			continue
		}
		text.WriteString(tok)
		p.consume(1)
	}
	flush()

	if p.peek(0) == "{" {
		p.consume(1)
		return Rule{Selectors: selectors, Declarations: p.parseDeclarations(true)}, true
	}
	p.warn(CodeMissingBlock, "selector has no declaration block")
	p.consume(1)
	return Rule{}, false
}

// parseDeclarations reads a block body. Policy findings are only collected
// for rendered blocks, and only for the declaration that wins a name.
//
//	decls : ( decl )* ( '}' | EOF )
func (p *parser) parseDeclarations(rendered bool) Declarations {
	var (
		decls    Declarations
		findings map[string]Warning
	)
	if rendered && p.policy != nil {
		findings = make(map[string]Warning)
		defer func() {
			for _, d := range decls {
				if w, ok := findings[d.Name]; ok {
					p.warnings = append(p.warnings, w)
				}
			}
		}()
	}
	for {
		p.consumeWhitespace()
		switch p.peek(0) {
		case eof:
			p.warn(CodeUnclosedBlock, "declaration block is not closed")
			return decls
		case "}":
			p.consume(1)
			return decls
		}
		p.parseDeclaration(&decls, findings)
	}
}

// parseDeclaration reads one declaration into decls.
//
//	decl : WS* IDENT WS* ':' TOKEN* ( ';' | '}' | EOF )
//	     | WS* IDENT <error> ( ';' | '}' | EOF )  -> skipped
//
// Recovery from a missing colon stops at the first ";" or "}" and consumes
// it, even when that "}" closes a nested block.
func (p *parser) parseDeclaration(decls *Declarations, findings map[string]Warning) {
	p.consumeWhitespace()
	tok := p.consume(1)[0]
	name := tok.Text
	p.consumeWhitespace()
	if p.peek(0) != ":" {
		p.warn(CodeMalformedDeclaration, "expected \":\" after "+name)
		p.consumeUntil(";", "}")
		p.consume(1)
		return
	}
	p.consume(1)
	p.consumeWhitespace()
	value := p.consumeUntil(";", "}")
	if p.peek(0) == ";" {
		p.consume(1)
	}
	if findings != nil {
		delete(findings, name)
		if w, ok := p.checkDeclaration(tok.Offset, name, value); ok {
			findings[name] = w
		}
	}
	decls.Set(name, texts(value))
}
