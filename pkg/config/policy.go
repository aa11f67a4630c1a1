package config

import (
	"errors"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

// Policy is the sanitizer configuration: which CSS functions may appear in
// values, which properties are always dropped, which namespaces contribute
// transcluded styles and the selector every rule is scoped to.
type Policy struct {
	Functions     []string `env:"STYLES_FUNCTION_WHITELIST" envSeparator:"," envDefault:"rgb,rgba,hsl,hsla"`
	Blacklist     []string `env:"STYLES_PROPERTY_BLACKLIST" envSeparator:"," envDefault:"behavior,-moz-binding,-o-link"`
	Namespaces    []int    `env:"STYLES_NAMESPACES" envSeparator:"," envDefault:"10"`
	ScopeSelector string   `env:"STYLES_SCOPE_SELECTOR" envDefault:"#mw-content-text "`
	// File is an optional YAML document whose entries are merged into the
	// lists above.
	File string `env:"STYLES_POLICY_FILE"`
}

// policyFile is the YAML layout of STYLES_POLICY_FILE. Each section maps a
// name to a flag; only names set to true are used, so an entry can be
// disabled without removing it:
//
//	functions:
//	  rgb: true
//	  url: false
//	blacklist:
//	  behavior: true
//	namespaces:
//	  10: true
type policyFile struct {
	Functions  map[string]bool `yaml:"functions"`
	Blacklist  map[string]bool `yaml:"blacklist"`
	Namespaces map[int]bool    `yaml:"namespaces"`
}

// LoadPolicy reads Policy from the environment and merges in the policy file
// when one is configured.
func LoadPolicy() (Policy, error) {
	var p Policy
	if err := Load(&p); err != nil {
		return Policy{}, err
	}
	if p.File == "" {
		return p, nil
	}

	data, err := os.ReadFile(p.File)
	if err != nil {
		return Policy{}, errors.Join(ErrPolicyFile, err)
	}
	return p.Merge(data)
}

// Merge returns a copy of p extended with the truthy entries of a YAML
// policy document. Duplicates are removed.
func (p Policy) Merge(data []byte) (Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Policy{}, errors.Join(ErrPolicyFile, err)
	}

	out := p
	out.Functions = unionStrings(p.Functions, truthy(f.Functions))
	out.Blacklist = unionStrings(p.Blacklist, truthy(f.Blacklist))

	namespaces := slices.Clone(p.Namespaces)
	for _, ns := range truthy(f.Namespaces) {
		if !slices.Contains(namespaces, ns) {
			namespaces = append(namespaces, ns)
		}
	}
	out.Namespaces = namespaces
	return out, nil
}

// Stylesheet builds the render policy.
func (p Policy) Stylesheet() *stylesheet.Policy {
	return stylesheet.NewPolicy(p.Functions, p.Blacklist)
}

// truthy returns the keys whose value is true, sorted for stable output.
func truthy[K string | int](m map[K]bool) []K {
	out := make([]K, 0, len(m))
	for k, ok := range m {
		if ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unionStrings(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// ParseNamespace converts a namespace given as text, as used in query
// strings and CLI flags.
func ParseNamespace(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
