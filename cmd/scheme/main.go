// Command scheme is the REPL and file-loader front end for the bootstrap
// Scheme interpreter. It owns the collaborators spec.md §1 keeps out of the
// interpreter core, except banner/prompt framing, which interp.REPL prints:
// flag parsing, signal handling, and process exit codes — modeled on birowo-yaegi/yaegi.go's
// flag-based main that builds an interpreter and dispatches to REPL or
// file evaluation.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/petermichaux/bootstrap-scheme/interp"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage:", os.Args[0], "[file.scm]")
	}
	flag.Parse()

	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	i := interp.New(os.Stdin, os.Stdout, os.Stderr)

	if len(args) == 1 {
		_, err := i.Load(args[0])
		if err != nil {
			color.New(color.FgRed).Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	// Ctrl-C terminates the process outright, per the banner's own promise
	// ("Use ctrl-c to exit.") and spec.md §5's "only cancellation is
	// process termination". REPL itself suppresses the "> " prompt when
	// stdin is not a terminal (golang.org/x/term), the same boundary the
	// teacher's getPrompt draws; the banner and every evaluated result are
	// still printed unconditionally, so a piped script sees the full
	// transcript minus the interactive prompt noise.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Fprintln(os.Stdout, "Goodbye")
		os.Exit(0)
	}()

	return i.REPL()
}
