package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"exprcore/pkg/host"
	"exprcore/pkg/utils"
)

const (
	stringSlots = 64
	memoryCells = 64
)

// console reads host lines and executes them against one machine. Besides
// the registered operations it understands HELP, STR <n> and MEM <n>.
type console struct {
	vm  *host.Machine
	out io.Writer
}

func (c *console) execLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], ";") {
		return nil
	}

	switch strings.ToUpper(fields[0]) {
	case "HELP":
		for _, name := range host.Operations() {
			op, _ := host.Lookup(name)
			fmt.Fprintf(c.out, "%-10s %-18s %s\n", name, fmt.Sprint(op.Arguments()), op.Help())
		}
		return nil
	case "STR", "MEM":
		if len(fields) != 2 {
			return fmt.Errorf("%s expects one index", strings.ToUpper(fields[0]))
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: %q is not an index", host.ErrBadArgument, fields[1])
		}
		if strings.ToUpper(fields[0]) == "STR" {
			s, err := c.vm.Slot(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "#%d = %q\n", n, s)
			return nil
		}
		if n < 0 || n >= len(c.vm.Memory) {
			return fmt.Errorf("%w: memory cell %d", host.ErrIndexOutOfRange, n)
		}
		fmt.Fprintf(c.out, "[%d] = %g\n", n, c.vm.Memory[n])
		return nil
	}

	return c.vm.Exec(line)
}

// run executes every line from r. Errors are reported and do not stop
// the session.
func (c *console) run(r io.Reader, prompt bool) int {
	failures := 0
	scanner := bufio.NewScanner(r)
	for {
		if prompt {
			fmt.Fprint(c.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if err := c.execLine(scanner.Text()); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			failures++
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("read error: %v", err)
		failures++
	}
	return failures
}

func main() {
	vm := host.NewMachine(stringSlots, memoryCells)
	c := &console{vm: vm, out: os.Stdout}

	if len(os.Args) > 1 {
		fullPath, _, err := utils.GetPathInfo(os.Args[1])
		if err != nil {
			log.Fatalf("Invalid script path: %v", err)
		}
		f, err := os.Open(fullPath)
		if err != nil {
			log.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		if c.run(f, false) > 0 {
			os.Exit(1)
		}
		return
	}

	fmt.Println("exprcore console: type HELP for operations, Ctrl-D to quit")
	c.run(os.Stdin, true)
}
