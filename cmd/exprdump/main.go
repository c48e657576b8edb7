package main

import (
	"fmt"
	"os"
	"strings"

	"exprcore/pkg/expr"
)

const testSource = "( a + b ) * c - d / 2"

func main() {
	src := testSource
	if len(os.Args) > 1 {
		src = strings.Join(os.Args[1:], " ")
	}

	fmt.Printf("Source:\n%s\n\n", src)

	// Character scan (converter granularity)
	scanned, err := expr.Scan(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scan error:", err)
		os.Exit(1)
	}
	fmt.Printf("Scanned tokens (%d)\n", len(scanned))
	for _, tok := range scanned {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	postfix, err := expr.ToPostfix(scanned)
	if err != nil {
		fmt.Fprintln(os.Stderr, "convert error:", err)
		os.Exit(1)
	}
	fmt.Printf("Postfix\n  %s\n", postfix)
	if v, err := expr.Evaluate(postfix.String()); err == nil {
		fmt.Printf("  = %g\n", v)
	}
	fmt.Println()

	// Whitespace split (compiler granularity)
	fields, err := expr.Fields(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "split error:", err)
		os.Exit(1)
	}
	fmt.Printf("Fields (%d)\n", len(fields))
	for _, tok := range fields {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	tree, err := expr.Parse(fields)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	fmt.Println("Tree")
	fmt.Println(" ", tree)
	fmt.Println()

	prog, err := expr.Generate(tree)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}
	fmt.Println("Generated Code")
	fmt.Print(prog)
	fmt.Println()
	fmt.Println("Relative Form")
	fmt.Print(prog.Relative())
}
