package stylesheet

import "strings"

// Renderer merges parsed trees by media context and serializes them.
// It is not safe for concurrent use; the order of Add calls is the order
// rules appear within each media bucket.
type Renderer struct {
	keys    []string
	buckets map[string][]Rule
}

// NewRenderer returns an empty Renderer.
func NewRenderer() *Renderer {
	return &Renderer{buckets: make(map[string][]Rule)}
}

// Render is a one-shot helper: it adds every tree in order and renders them
// with a policy built from functions and blacklist.
func Render(trees []Tree, functions, blacklist []string) string {
	r := NewRenderer()
	for _, t := range trees {
		r.Add(t)
	}
	return r.Render(NewPolicy(functions, blacklist))
}

// Add merges a tree. Only @media blocks at the top level are honoured;
// nested @media blocks and every other at-rule are dropped.
func (r *Renderer) Add(tree Tree) {
	r.add(tree, "")
}

func (r *Renderer) add(tree Tree, media string) {
	r.bucket(media)
	for _, n := range tree {
		switch n := n.(type) {
		case *Plain:
			r.buckets[media] = append(r.buckets[media], n.Rules...)
		case *Media:
			if media == "" {
				r.add(n.Children, mediaKey(n.Prelude))
			}
		case *Other:
			// never rendered
		}
	}
}

func (r *Renderer) bucket(key string) {
	if _, ok := r.buckets[key]; !ok {
		r.buckets[key] = nil
		r.keys = append(r.keys, key)
	}
}

// Render serializes the merged rules, dropping declarations the policy
// rejects. Rules left without declarations are still emitted. Selectors and
// media queries that leave a string or comment open are dropped with
// everything under them. Render does not modify the Renderer.
func (r *Renderer) Render(policy *Policy) string {
	var b strings.Builder
	for _, key := range r.keys {
		if !balanced(key) {
			continue
		}
		if key != "" {
			b.WriteString(key)
			b.WriteString(" { ")
		}
		for _, rule := range r.buckets[key] {
			writeRule(&b, rule, policy)
		}
		if key != "" {
			b.WriteString("} ")
		}
	}
	return b.String()
}

func writeRule(b *strings.Builder, rule Rule, policy *Policy) {
	for _, sel := range rule.Selectors {
		if !balanced(sel) {
			return
		}
	}
	b.WriteString(strings.Join(rule.Selectors, ","))
	b.WriteByte('{')
	for _, d := range rule.Declarations {
		if !policy.AllowsDeclaration(d) {
			continue
		}
		b.WriteString(d.Name)
		b.WriteByte(':')
		for _, tok := range d.Value {
			b.WriteString(tok)
		}
		b.WriteByte(';')
	}
	b.WriteString("} ")
}
