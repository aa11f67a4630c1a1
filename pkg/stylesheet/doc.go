// Package stylesheet sanitizes untrusted CSS so that many independently
// authored snippets can be merged into one style sheet scoped to a single
// container.
//
// The work happens in three stages that never fail on malformed input:
//
//   - Tokenize turns text into a forgiving token stream. Whitespace and
//     comments fold into a single space token, unterminated strings are closed
//     at the end of their line and hex escapes in names are decoded so they
//     cannot hide a blacklisted name.
//
//   - Parse builds a Tree from the tokens. Every selector is prefixed with a
//     scoping selector. Broken declarations, rules without blocks and unknown
//     at-rules are skipped or kept aside; parsing always completes.
//
//   - Renderer merges trees by @media context and serializes them, dropping
//     any declaration whose property is blacklisted or whose value calls a
//     function that is not whitelisted. Only @media survives as an at-rule.
//
// # Usage
//
//	tree := stylesheet.Parse(src, "#content ")
//
//	r := stylesheet.NewRenderer()
//	r.Add(tree)
//	css := r.Render(stylesheet.NewPolicy(
//	    []string{"rgb", "linear-gradient"}, // allowed functions
//	    []string{"behavior", "-moz-binding"}, // forbidden properties
//	))
//
// # Persistence
//
// Encode and Decode turn a Tree into a gzip-compressed blob and back, so a
// parsed sheet can be stored per page and merged later without reparsing.
//
// # Diagnostics
//
// Sanitization is silent by design. Lint and ParseWithWarnings run the same
// parser and report what was dropped, with line numbers, for display next to
// the source.
//
// # Concurrency
//
// Tokenize, Parse, Lint and the codec are pure and safe to call from many
// goroutines. A Renderer is not; Add calls must be serialized because their
// order decides rule order in the output.
package stylesheet
