package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"exprcore/pkg/asm"
	"exprcore/pkg/batch"
	"exprcore/pkg/cpu"
	"exprcore/pkg/expr"
	"exprcore/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("exprcore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "convert", "operation: convert, eval, compile, run, deriv")
	inPath := fs.String("in", "", "input file with one expression per line")
	outPath := fs.String("out", "", "output file path (default: stdout)")
	form := fs.String("form", "named", "listing form for compile and deriv: named or relative")
	wrt := fs.String("wrt", "x", "variable to differentiate with respect to")
	varList := fs.String("vars", "", "variable bindings for run, e.g. x=1.5,y=2")
	listing := fs.Bool("listing", false, "treat -in as a compiled listing and run it")
	trace := fs.Bool("trace", false, "print each executed instruction (run)")
	jobs := fs.Int("j", 0, "maximum expressions processed at once (default: GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	vars, err := parseVars(*varList)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *listing {
		if *inPath == "" {
			fmt.Fprintln(stderr, "-listing requires -in")
			return 2
		}
		return runListing(*inPath, vars, *trace, stdout, stderr)
	}

	fn, err := operation(*mode, *form, *wrt, vars, *trace)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	inputs := fs.Args()
	if *inPath != "" {
		lines, err := readInputs(*inPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to read input file %q: %v\n", *inPath, err)
			return 1
		}
		inputs = append(inputs, lines...)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "nothing to do: pass expressions as arguments or use -in <file>")
		fs.Usage()
		return 2
	}

	results, err := batch.Run(context.Background(), inputs, fn, *jobs)
	if err != nil {
		fmt.Fprintf(stderr, "batch failed: %v\n", err)
		return 1
	}

	var out bytes.Buffer
	multi := len(inputs) > 1
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", r.Input, r.Err)
			continue
		}
		if multi && strings.Contains(r.Output, "\n") {
			fmt.Fprintf(&out, "; %s\n", r.Input)
		}
		out.WriteString(r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			out.WriteByte('\n')
		}
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, out.Bytes(), 0o644); err != nil {
			fmt.Fprintf(stderr, "failed to write output file %q: %v\n", *outPath, err)
			return 1
		}
	} else if _, err := stdout.Write(out.Bytes()); err != nil {
		return 1
	}

	if batch.Failed(results) > 0 {
		return 1
	}
	return 0
}

// operation returns the per-expression function for a mode.
func operation(mode, form, wrt string, vars map[string]float32, trace bool) (batch.Func, error) {
	render, err := renderer(form)
	if err != nil {
		return nil, err
	}

	switch mode {
	case "convert":
		return func(in string) (string, error) {
			p, err := expr.Convert(in)
			if err != nil {
				return "", err
			}
			return p.String(), nil
		}, nil
	case "eval":
		return func(in string) (string, error) {
			v, err := expr.Evaluate(in)
			if err != nil {
				return "", err
			}
			return formatResult(v), nil
		}, nil
	case "compile":
		return func(in string) (string, error) {
			prog, err := expr.Compile(in)
			if err != nil {
				return "", err
			}
			return render(prog), nil
		}, nil
	case "run":
		return func(in string) (string, error) {
			prog, err := expr.Compile(in)
			if err != nil {
				return "", err
			}
			return execute(prog, vars, trace)
		}, nil
	case "deriv":
		return func(in string) (string, error) {
			tokens, err := expr.Fields(in)
			if err != nil {
				return "", err
			}
			tree, err := expr.Parse(tokens)
			if err != nil {
				return "", err
			}
			d, err := expr.Derive(tree, wrt)
			if err != nil {
				return "", err
			}
			prog, err := expr.Generate(d)
			if err != nil {
				return "", err
			}
			return render(prog), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want convert, eval, compile, run or deriv)", mode)
	}
}

func renderer(form string) (func(expr.Program) string, error) {
	switch form {
	case "named":
		return expr.Program.String, nil
	case "relative":
		return expr.Program.Relative, nil
	default:
		return nil, fmt.Errorf("unknown listing form %q (want named or relative)", form)
	}
}

// execute runs prog and returns the result, preceded by the trace when
// requested.
func execute(prog expr.Program, vars map[string]float32, trace bool) (string, error) {
	var buf bytes.Buffer
	c := cpu.New(prog)
	c.Trace = trace
	c.Output = &buf
	v, err := c.Run(vars)
	if err != nil {
		return "", err
	}
	buf.WriteString(formatResult(v))
	return buf.String(), nil
}

func runListing(path string, vars map[string]float32, trace bool, stdout, stderr io.Writer) int {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		fmt.Fprintf(stderr, "invalid path %q: %v\n", path, err)
		return 1
	}
	src, err := os.ReadFile(fullPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read listing %q: %v\n", path, err)
		return 1
	}
	prog, err := asm.Assemble(string(src))
	if err != nil {
		fmt.Fprintf(stderr, "assembly failed: %v\n", err)
		return 1
	}
	out, err := execute(prog, vars, trace)
	if err != nil {
		fmt.Fprintf(stderr, "run failed for %q: %v\n", path, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func formatResult(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// parseVars reads "x=1,y=2.5" into a binding map.
func parseVars(s string) (map[string]float32, error) {
	vars := make(map[string]float32)
	if strings.TrimSpace(s) == "" {
		return vars, nil
	}
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q (want name=value)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %v", name, err)
		}
		vars[name] = float32(v)
	}
	return vars, nil
}

// readInputs returns the non-blank lines of a file.
func readInputs(path string) ([]string, error) {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
