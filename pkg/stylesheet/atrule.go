package stylesheet

import "strings"

// atRuleKind classifies an at-keyword token.
type atRuleKind int

const (
	notAtRule atRuleKind = iota
	// atMedia blocks are parsed as nested rule lists and are the only
	// at-rules that survive rendering.
	atMedia
	// atOther covers every other keyword. Such rules are kept in the tree
	// with a flat declaration body and never rendered.
	atOther
)

// atRules is the closed set of recognised at-keywords, keyed by lower-cased
// name. Anything starting with "@" that is missing here is atOther.
var atRules = map[string]atRuleKind{
	"@media": atMedia,
}

func classifyAtRule(tok string) atRuleKind {
	if !strings.HasPrefix(tok, "@") {
		return notAtRule
	}
	if kind, ok := atRules[strings.ToLower(tok)]; ok {
		return kind
	}
	return atOther
}

// mediaKey is the renderer bucket key of an @media prelude.
func mediaKey(prelude string) string {
	return "@media " + prelude
}
