// cmd/pulsarc/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pulsar/internal/addrgen"
	"pulsar/internal/backend"
	"pulsar/internal/diag"
	"pulsar/internal/frontend/ast"
	"pulsar/internal/frontend/lexer"
	"pulsar/internal/frontend/parser"
	"pulsar/internal/frontend/typecheck"
	"pulsar/internal/ir"
	"pulsar/internal/lowering"
	"pulsar/internal/poolstats"
	"pulsar/internal/target"
)

const version = "0.1.0"

const usage = `Usage: pulsarc <source.pulsar> [options]

Options:
  --target=<llvm|text>  emission target (default llvm)
  --out <path>          write output to a file instead of stdout
  --dump-addr           also emit the derived address-generator component
  --stats               print arena utilization to stderr after compiling
  --explain <code>      print the long-form explanation for a diagnostic code
  --version             print version and exit
  --help                print this message
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions is the parsed command line. Parsing is by hand over os.Args,
// since the surface is tiny.
type cliOptions struct {
	source      string
	targetID    string
	outPath     string
	explain     string
	dumpAddr    bool
	stats       bool
	showHelp    bool
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "pulsarc: %v\n", err)
		fmt.Fprint(stderr, usage)
		return 1
	}

	switch {
	case opts.showHelp:
		fmt.Fprint(stdout, usage)
		return 0
	case opts.showVersion:
		fmt.Fprintf(stdout, "pulsarc %s\n", version)
		return 0
	case opts.explain != "":
		text, ok := diag.Explain(opts.explain)
		if !ok {
			fmt.Fprintf(stderr, "pulsarc: no explanation for code %s\n", opts.explain)
			return 1
		}
		fmt.Fprintf(stdout, "%s: %s\n", opts.explain, text)
		return 0
	case opts.source == "":
		fmt.Fprint(stderr, usage)
		return 1
	}

	source, err := os.ReadFile(opts.source)
	if err != nil {
		fmt.Fprintf(stderr, "pulsarc: %v\n", err)
		return 1
	}

	m := diag.NewManager(stderr)
	decls, ok := parseAndCheck(string(source), opts.source, m)
	if !ok {
		m.Flush()
		return 1
	}

	pools := ir.NewPools()
	var comps []*ir.Component
	for _, decl := range decls {
		comps = append(comps, lowering.Lower(pools.Control, pools.Cells, decl, m))
		if m.HasErrors() {
			m.Flush()
			return 1
		}
	}

	sink := io.Writer(stdout)
	if opts.outPath != "" {
		f, err := target.FileSink(opts.outPath)
		if err != nil {
			fmt.Fprintf(stderr, "pulsarc: %v\n", err)
			return 1
		}
		defer f.Close()
		sink = f
	}

	tgt, err := selectTarget(opts.targetID)
	if err != nil {
		fmt.Fprintf(stderr, "pulsarc: %v\n", err)
		return 1
	}

	for _, comp := range comps {
		// The address generator must read the component before the main
		// emission's Lower recipe rewrites its Access ports away, so the
		// derived component is emitted first.
		if opts.dumpAddr {
			addr := func(c *ir.Component, p ir.Pools, dm *diag.Manager) *ir.Component {
				return addrgen.Transform(p.Control, p.Cells, c, dm)
			}
			if err := backend.New().Through(addr).To(tgt).Emit(comp, pools, m, sink); err != nil {
				fmt.Fprintf(stderr, "pulsarc: emitting address generator for %s: %v\n", comp.Label.Name, err)
				m.Flush()
				return 1
			}
		}
		if err := backend.New().To(tgt).Emit(comp, pools, m, sink); err != nil {
			fmt.Fprintf(stderr, "pulsarc: emitting %s: %v\n", comp.Label.Name, err)
			m.Flush()
			return 1
		}
	}

	// Flush any warnings recorded along the way (errors returned earlier).
	m.Flush()
	if opts.stats {
		fmt.Fprint(stderr, poolstats.Summary(pools))
	}
	return 0
}

func parseArgs(args []string) (*cliOptions, error) {
	opts := &cliOptions{targetID: "llvm"}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--help" || a == "-h" || a == "help":
			opts.showHelp = true
		case a == "--version" || a == "-v":
			opts.showVersion = true
		case a == "--dump-addr":
			opts.dumpAddr = true
		case a == "--stats":
			opts.stats = true
		case strings.HasPrefix(a, "--target="):
			opts.targetID = strings.TrimPrefix(a, "--target=")
		case a == "--target":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--target requires a value")
			}
			opts.targetID = args[i]
		case a == "--explain":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--explain requires a diagnostic code")
			}
			opts.explain = args[i]
		case strings.HasPrefix(a, "--out="):
			opts.outPath = strings.TrimPrefix(a, "--out=")
		case a == "--out":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--out requires a path")
			}
			opts.outPath = args[i]
		case strings.HasPrefix(a, "-"):
			return nil, fmt.Errorf("unknown option %s", a)
		default:
			if opts.source != "" {
				return nil, fmt.Errorf("multiple source files given (%s and %s)", opts.source, a)
			}
			opts.source = a
		}
	}
	return opts, nil
}

func selectTarget(id string) (target.Target, error) {
	switch id {
	case "llvm":
		return target.NewLLVM(), nil
	case "text":
		return target.NewText(), nil
	default:
		return nil, fmt.Errorf("unknown target %q (expected llvm or text)", id)
	}
}

// parseAndCheck runs the front-end collaborator chain: scan, parse,
// typecheck. Every failure is reported through m so --explain codes work
// uniformly for front-end and pass errors.
func parseAndCheck(source, path string, m *diag.Manager) ([]ast.FuncDecl, bool) {
	tokens := lexer.NewScanner(source).ScanTokens()
	p := parser.NewParser(tokens)
	decls := p.Parse()
	for _, err := range p.Errors {
		m.Record(diag.Diagnostic{
			Severity: diag.Error,
			Code:     "P0003",
			Message:  err.Error(),
			Primary:  diag.Span{File: path},
		})
	}
	if m.HasErrors() {
		return nil, false
	}

	checked, errs := typecheck.Check(decls)
	for _, err := range errs {
		code := "P0001"
		if strings.Contains(err.Error(), "undeclared") {
			code = "P0002"
		}
		m.Record(diag.Diagnostic{
			Severity: diag.Error,
			Code:     code,
			Message:  err.Error(),
			Primary:  diag.Span{File: path},
		})
	}
	return checked, !m.HasErrors()
}
