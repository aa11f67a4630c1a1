package stylesheet

import "strings"

// Policy decides which declarations may reach rendered output.
// Function and property names are compared case-insensitively.
type Policy struct {
	functions map[string]struct{}
	blacklist map[string]struct{}
}

// NewPolicy builds a policy from the CSS functions allowed in values and the
// properties that are never emitted.
func NewPolicy(functions, blacklist []string) *Policy {
	return &Policy{
		functions: lowerSet(functions),
		blacklist: lowerSet(blacklist),
	}
}

func lowerSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[strings.ToLower(n)] = struct{}{}
		}
	}
	return set
}

// AllowsProperty reports whether a property name is not blacklisted.
func (p *Policy) AllowsProperty(name string) bool {
	if p == nil {
		return true
	}
	_, denied := p.blacklist[strings.ToLower(name)]
	return !denied
}

// AllowsFunction reports whether a function name is whitelisted. A nil
// policy allows no functions.
func (p *Policy) AllowsFunction(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.functions[strings.ToLower(name)]
	return ok
}

// AllowsDeclaration applies both filters to a declaration. Every function
// opener in the value is checked, nested calls included. A value that would
// leave a string or comment open in the output is never allowed.
func (p *Policy) AllowsDeclaration(d Declaration) bool {
	if !p.AllowsProperty(d.Name) {
		return false
	}
	if _, denied := p.firstDeniedFunction(d.Value); denied {
		return false
	}
	return balanced(d.ValueText())
}

// firstDeniedFunction returns the first function name in value that is not
// whitelisted.
func (p *Policy) firstDeniedFunction(value []string) (string, bool) {
	for _, tok := range value {
		if !isFunctionOpener(tok) {
			continue
		}
		if name := functionName(tok); !p.AllowsFunction(name) {
			return name, true
		}
	}
	return "", false
}

// balanced reports whether text closes every string it opens, opens no
// comment and does not end in a lone backslash. Rendered text that fails
// this would swallow or reveal whatever follows it in a merged style sheet.
func balanced(text string) bool {
	var quote byte
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\\':
			if i+1 == len(text) {
				return false
			}
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			return false
		}
	}
	return quote == 0
}
