package stylesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

func TestParse_TreeShape(t *testing.T) {
	t.Parallel()

	src := "@media print { .a { x: 1; } } @font-face { src: y; } .b { z: 2; }"
	tree := stylesheet.Parse(src, "#c ")

	expected := stylesheet.Tree{
		&stylesheet.Media{
			Prelude: "print",
			Children: stylesheet.Tree{
				&stylesheet.Plain{Rules: []stylesheet.Rule{{
					Selectors:    []string{"#c .a "},
					Declarations: stylesheet.Declarations{{Name: "x", Value: []string{"1"}}},
				}}},
			},
		},
		&stylesheet.Other{
			Name: "@font-face",
			Body: &stylesheet.Declarations{{Name: "src", Value: []string{"y"}}},
		},
		&stylesheet.Plain{Rules: []stylesheet.Rule{{
			Selectors:    []string{"#c .b "},
			Declarations: stylesheet.Declarations{{Name: "z", Value: []string{"2"}}},
		}}},
	}
	assert.Equal(t, expected, tree)
}

func TestParse_OtherStatement(t *testing.T) {
	t.Parallel()

	tree := stylesheet.Parse("@import 'x.css';", "")
	require.Len(t, tree, 1)

	other, ok := tree[0].(*stylesheet.Other)
	require.True(t, ok)
	assert.Equal(t, "@import", other.Name)
	assert.Equal(t, "'x.css'", other.Prelude)
	assert.Nil(t, other.Body)
}

func TestParse_LastDeclarationWins(t *testing.T) {
	t.Parallel()

	tree := stylesheet.Parse(".a { color: red; margin: 0; color: blue; }", "")
	rules := tree.Rules()
	require.Len(t, rules, 1)

	assert.Equal(t, stylesheet.Declarations{
		{Name: "color", Value: []string{"blue"}},
		{Name: "margin", Value: []string{"0"}},
	}, rules[0].Declarations)

	value, ok := rules[0].Declarations.Get("color")
	assert.True(t, ok)
	assert.Equal(t, []string{"blue"}, value)

	_, ok = rules[0].Declarations.Get("padding")
	assert.False(t, ok)
}

func TestParse_Recovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		codes    []string
	}{
		{
			name:     "rule inside declarations ends the outer block early",
			input:    ".a { x: 1; .b { y: 2; } z: 3; } .c { w: 4 }",
			expected: ".a {x:1;} .c {w:4 ;} ",
			codes: []string{
				stylesheet.CodeMalformedDeclaration,
				stylesheet.CodeMissingBlock,
				stylesheet.CodeStrayBrace,
			},
		},
		{
			name:     "malformed declaration swallows the closing brace",
			input:    ".a { foo } .b { x: 1 }",
			expected: ".a {} ",
			codes: []string{
				stylesheet.CodeMalformedDeclaration,
				stylesheet.CodeMalformedDeclaration,
				stylesheet.CodeUnclosedBlock,
			},
		},
		{
			name:     "unclosed media block",
			input:    "@media print { .a { b: c; }",
			expected: "@media print { .a {b:c;} } ",
			codes:    []string{stylesheet.CodeUnclosedBlock},
		},
		{
			name:     "selector without block",
			input:    ".a; .b { c: d; }",
			expected: ".b {c:d;} ",
			codes:    []string{stylesheet.CodeMissingBlock},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, warnings := stylesheet.ParseWithWarnings(tt.input, "")
			assert.Equal(t, tt.expected, stylesheet.Render([]stylesheet.Tree{tree}, nil, nil))
			assert.Equal(t, tt.codes, warningCodes(warnings))
			assert.Equal(t, stylesheet.Parse(tt.input, ""), tree)
		})
	}
}

func TestParse_AcceptsAnything(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "}", "{", "@", "@media", ";;;", "'", "a:b", "/*", "\\", "@media {{{", "}}} .a {"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			tree := stylesheet.Parse(in, ".X ")
			_ = stylesheet.Render([]stylesheet.Tree{tree}, nil, nil)
		}, in)
	}
}

func TestParse_SelectorPrefixAppliesToEverySelector(t *testing.T) {
	t.Parallel()

	rules := stylesheet.Parse("h1,  h2 ,h3 { a: b }", "#p ").Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"#p h1", "#p h2 ", "#p h3 "}, rules[0].Selectors)
}
