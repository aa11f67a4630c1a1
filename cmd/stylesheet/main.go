// Command stylesheet sanitizes CSS files the way pages are sanitized by the
// server, or reports what sanitizing would drop.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dmitrymomot/templatestyles/pkg/config"
	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	prefix    string
	functions []string
	blacklist []string
	fromEnv   bool
	lint      bool
	tree      bool
}

type input struct {
	Name   string          `json:"source"`
	Source string          `json:"-"`
	Tree   stylesheet.Tree `json:"tree"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	flags := pflag.NewFlagSet("stylesheet", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.prefix, "prefix", "p", "", "Selector prepended to every rule, e.g. '#content '")
	flags.StringArrayVarP(&opts.functions, "allow-function", "f", nil, "CSS function allowed in values (repeatable)")
	flags.StringArrayVarP(&opts.blacklist, "deny-property", "d", nil, "Property always dropped (repeatable)")
	flags.BoolVar(&opts.fromEnv, "env", false, "Merge the STYLES_* policy from the environment and .env")
	flags.BoolVarP(&opts.lint, "lint", "l", false, "Report dropped input instead of printing CSS")
	flags.BoolVar(&opts.tree, "tree", false, "Print the parsed trees as JSON")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: stylesheet [flags] [files...]\n")
		fmt.Fprintln(stderr, "\nIf no file is given, CSS is read from stdin. Files are merged in order.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.fromEnv {
		p, err := config.LoadPolicy()
		if err != nil {
			fmt.Fprintf(stderr, "load policy: %v\n", err)
			return 1
		}
		opts.functions = append(opts.functions, p.Functions...)
		opts.blacklist = append(opts.blacklist, p.Blacklist...)
		if !flags.Changed("prefix") {
			opts.prefix = p.ScopeSelector
		}
	}

	inputs, err := readInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}

	policy := stylesheet.NewPolicy(opts.functions, opts.blacklist)

	switch {
	case opts.lint:
		return lint(inputs, policy, stdout)
	case opts.tree:
		for i := range inputs {
			inputs[i].Tree = stylesheet.Parse(inputs[i].Source, opts.prefix)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(inputs); err != nil {
			fmt.Fprintf(stderr, "encode tree: %v\n", err)
			return 1
		}
		return 0
	default:
		r := stylesheet.NewRenderer()
		for _, in := range inputs {
			r.Add(stylesheet.Parse(in.Source, opts.prefix))
		}
		fmt.Fprintln(stdout, r.Render(policy))
		return 0
	}
}

// lint prints one line per warning and exits 1 when any input has one.
func lint(inputs []input, policy *stylesheet.Policy, stdout io.Writer) int {
	code := 0
	for _, in := range inputs {
		for _, w := range stylesheet.Lint(in.Source, policy) {
			fmt.Fprintf(stdout, "%s:%s\n", in.Name, w)
			code = 1
		}
	}
	return code
}

func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []input{{Name: "<stdin>", Source: string(data)}}, nil
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{Name: path, Source: string(data)})
	}
	return inputs, nil
}
