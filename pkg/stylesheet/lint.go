package stylesheet

import (
	"fmt"
	"sort"
	"strings"
)

// Warning codes reported by Lint and ParseWithWarnings.
const (
	CodeUnterminatedString   = "unterminated-string"
	CodeMalformedDeclaration = "malformed-declaration"
	CodeMissingBlock         = "missing-block"
	CodeUnclosedBlock        = "unclosed-block"
	CodeStrayBrace           = "stray-brace"
	CodeUnsupportedAtRule    = "unsupported-at-rule"
	CodeNestedMedia          = "nested-media"
	CodeDisallowedProperty   = "disallowed-property"
	CodeDisallowedFunction   = "disallowed-function"
	CodeUnbalancedValue      = "unbalanced-value"
)

// Warning describes input that the sanitizer drops or repairs.
type Warning struct {
	Line    int    `json:"line"`
	Offset  int    `json:"offset"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s (%s)", w.Line, w.Message, w.Code)
}

// Lint reports everything the sanitizer would silently drop from src,
// including declarations rejected by policy. A nil policy skips the
// policy checks. Lint is advisory: it never changes what Parse and Render
// produce.
func Lint(src string, policy *Policy) []Warning {
	_, warnings := parseSource(src, "", policy)
	return warnings
}

// Analyze is Parse and Lint in a single pass.
func Analyze(src, prefix string, policy *Policy) (Tree, []Warning) {
	return parseSource(src, prefix, policy)
}

// checkDeclaration returns the policy violation of a parsed declaration.
func (p *parser) checkDeclaration(offset int, name string, value []Token) (Warning, bool) {
	finding := func(code, msg string) (Warning, bool) {
		return Warning{Offset: offset, Code: code, Message: msg}, true
	}
	if !p.policy.AllowsProperty(name) {
		return finding(CodeDisallowedProperty, "property "+name+" is not allowed")
	}
	if fn, denied := p.policy.firstDeniedFunction(texts(value)); denied {
		return finding(CodeDisallowedFunction, "function "+fn+"() is not allowed in "+name)
	}
	if !balanced(join(value)) {
		return finding(CodeUnbalancedValue, "value of "+name+" leaves a string or comment open")
	}
	return Warning{}, false
}

// locate fills in line numbers and orders warnings by position.
func locate(src string, warnings []Warning) []Warning {
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Offset < warnings[j].Offset
	})
	for i := range warnings {
		off := min(warnings[i].Offset, len(src))
		warnings[i].Line = 1 + strings.Count(src[:off], "\n")
	}
	return warnings
}
