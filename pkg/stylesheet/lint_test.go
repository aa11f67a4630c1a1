package stylesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

func warningCodes(warnings []stylesheet.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Code
	}
	return out
}

func TestLint_PolicyViolations(t *testing.T) {
	t.Parallel()

	src := ".a {\n  behavior: url(x.htc);\n  color: expression(alert(1));\n}\n@import 'x.css';\n"
	policy := stylesheet.NewPolicy([]string{"url"}, []string{"behavior"})

	warnings := stylesheet.Lint(src, policy)
	require.Len(t, warnings, 3)

	assert.Equal(t, stylesheet.CodeDisallowedProperty, warnings[0].Code)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Equal(t, "property behavior is not allowed", warnings[0].Message)

	assert.Equal(t, stylesheet.CodeDisallowedFunction, warnings[1].Code)
	assert.Equal(t, 3, warnings[1].Line)
	assert.Equal(t, "function expression() is not allowed in color", warnings[1].Message)

	assert.Equal(t, stylesheet.CodeUnsupportedAtRule, warnings[2].Code)
	assert.Equal(t, 5, warnings[2].Line)
}

func TestLint_NilPolicySkipsPolicyChecks(t *testing.T) {
	t.Parallel()
	assert.Empty(t, stylesheet.Lint(".a { behavior: evil(x) }", nil))
}

func TestLint_PolicyFindingsFollowRenderedDeclarations(t *testing.T) {
	t.Parallel()

	policy := stylesheet.NewPolicy([]string{"rgb"}, []string{"behavior"})

	tests := []struct {
		name    string
		input   string
		codes   []string
		offsets []int
	}{
		{
			name:    "unsupported at-rule body is not checked",
			input:   "@font-face { behavior: evil(x); }",
			codes:   []string{stylesheet.CodeUnsupportedAtRule},
			offsets: []int{10},
		},
		{
			name:    "overwritten declaration is not reported",
			input:   ".a { b: evil(1); b: 2; }",
			codes:   nil,
			offsets: nil,
		},
		{
			name:    "declaration that wins is reported once",
			input:   ".a { behavior: x; behavior: y; }",
			codes:   []string{stylesheet.CodeDisallowedProperty},
			offsets: []int{18},
		},
		{
			name:    "overwriting value can introduce a finding",
			input:   ".a { color: red; color: evil(1); }",
			codes:   []string{stylesheet.CodeDisallowedFunction},
			offsets: []int{17},
		},
		{
			name:    "value ending in a backslash",
			input:   ".a { b: x\\; c: d; }",
			codes:   []string{stylesheet.CodeUnbalancedValue},
			offsets: []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			warnings := stylesheet.Lint(tt.input, policy)
			assert.Equal(t, tt.codes, warningCodes(warnings))
			for i, w := range warnings {
				assert.Equal(t, tt.offsets[i], w.Offset)
			}
		})
	}
}

func TestAnalyze_MatchesParseAndLint(t *testing.T) {
	t.Parallel()

	src := ".a { behavior: x; color: red }\n@import 'x.css';\n@media print { .b { c: d; } }"
	policy := stylesheet.NewPolicy(nil, []string{"behavior"})

	tree, warnings := stylesheet.Analyze(src, "#c ", policy)
	assert.Equal(t, stylesheet.Parse(src, "#c "), tree)
	assert.Equal(t, stylesheet.Lint(src, policy), warnings)
}

func TestLint_Syntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		code   string
		line   int
		offset int
	}{
		{
			name:   "unterminated string",
			input:  ".a { b: \"x\n}",
			code:   stylesheet.CodeUnterminatedString,
			line:   1,
			offset: 8,
		},
		{
			name:   "unclosed declaration block at end of input",
			input:  ".a { b: c",
			code:   stylesheet.CodeUnclosedBlock,
			line:   1,
			offset: 9,
		},
		{
			name:   "nested media",
			input:  "@media print {\n@media screen { }\n}",
			code:   stylesheet.CodeNestedMedia,
			line:   2,
			offset: 15,
		},
		{
			name:   "stray brace",
			input:  "\n\n}",
			code:   stylesheet.CodeStrayBrace,
			line:   3,
			offset: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			warnings := stylesheet.Lint(tt.input, nil)
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.code, warnings[0].Code)
			assert.Equal(t, tt.line, warnings[0].Line)
			assert.Equal(t, tt.offset, warnings[0].Offset)
		})
	}
}

func TestLint_DoesNotChangeOutput(t *testing.T) {
	t.Parallel()

	src := ".a { behavior: x; color: red }"
	policy := stylesheet.NewPolicy(nil, []string{"behavior"})

	before := stylesheet.Render([]stylesheet.Tree{stylesheet.Parse(src, "")}, nil, []string{"behavior"})
	_ = stylesheet.Lint(src, policy)
	after := stylesheet.Render([]stylesheet.Tree{stylesheet.Parse(src, "")}, nil, []string{"behavior"})

	assert.Equal(t, ".a {color:red ;} ", before)
	assert.Equal(t, before, after)
}

func TestWarning_String(t *testing.T) {
	t.Parallel()

	w := stylesheet.Warning{Line: 3, Code: stylesheet.CodeStrayBrace, Message: "unexpected \"}\""}
	assert.Equal(t, `line 3: unexpected "}" (stray-brace)`, w.String())
}
