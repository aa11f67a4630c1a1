package stylesheet

import "strings"

// Tree is the parsed form of one style sheet: an ordered list of at-rule
// nodes. It is the unit that gets persisted and fed into a Renderer.
type Tree []Node

// Node is one of *Media, *Other or *Plain.
type Node interface {
	node()
}

func (*Media) node() {}
func (*Other) node() {}
func (*Plain) node() {}

// Media is an @media block. Children is the nested tree; it is empty for a
// bare "@media ...;" statement.
type Media struct {
	Prelude  string
	Children Tree
}

// Other is any at-rule that is not @media. Body is nil when the at-rule was a
// statement terminated by ";".
type Other struct {
	Name    string
	Prelude string
	Body    *Declarations
}

// Plain holds the ordinary rules found at one nesting level.
type Plain struct {
	Rules []Rule
}

// Rule is a list of scoped selectors and their declarations.
type Rule struct {
	Selectors    []string     `json:"selectors"`
	Declarations Declarations `json:"declarations"`
}

// Declaration is a property name and its raw value tokens.
type Declaration struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// ValueText returns the value tokens concatenated.
func (d Declaration) ValueText() string {
	return strings.Join(d.Value, "")
}

// Declarations is a property map that keeps first-insertion order.
type Declarations []Declaration

// Set stores a declaration. A later declaration with the same name replaces
// the value of the earlier one in place.
func (ds *Declarations) Set(name string, value []string) {
	for i := range *ds {
		if (*ds)[i].Name == name {
			(*ds)[i].Value = value
			return
		}
	}
	*ds = append(*ds, Declaration{Name: name, Value: value})
}

// Get returns the value stored for name.
func (ds Declarations) Get(name string) ([]string, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

// Rules returns every Rule in the tree in document order, descending into
// @media blocks.
func (t Tree) Rules() []Rule {
	var out []Rule
	for _, n := range t {
		switch n := n.(type) {
		case *Plain:
			out = append(out, n.Rules...)
		case *Media:
			out = append(out, n.Children.Rules()...)
		}
	}
	return out
}
