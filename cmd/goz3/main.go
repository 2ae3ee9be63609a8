// Command goz3 runs a Z-Machine version 3 story file in a terminal.
// Grounded on the teacher's main.go CLI/bubbletea wiring, narrowed to a
// single scrolling window (v3 has no meaningful upper-window use beyond
// the status line, which this host renders separately) per spec.md
// section 6's CLI surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gmadrid/goz3/zcore"
	"github.com/gmadrid/goz3/zvm"
)

func main() {
	startPC := flag.Uint("startpc", 0, "override the story file's starting PC (debugging)")
	stackSize := flag.Int("stacksize", 61440, "stack size in bytes (informational; the eval stack grows dynamically)")
	flag.IntVar(stackSize, "ss", 61440, "alias for -stacksize")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: goz3 [-startpc N] [-stacksize N] <story-file>")
		os.Exit(1)
	}
	storyPath := flag.Arg(0)

	storyBytes, err := os.ReadFile(storyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "goz3: %v\n", err)
		os.Exit(1)
	}

	mem, err := zcore.Load(storyBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "goz3: %v\n", err)
		os.Exit(1)
	}

	screen := newTeaScreen(80)
	rng := newOSRNG()
	saves := newFileSaveStore(storyPath)

	vm := zvm.New(mem, screen, rng, saves, uint32(*startPC))
	vm.Warnings = func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "goz3: "+format+"\n", args...)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- vm.Run()
	}()

	if err := screen.run(); err != nil {
		fmt.Fprintf(os.Stderr, "goz3: %v\n", err)
		os.Exit(1)
	}

	if err := <-runErr; err != nil {
		fmt.Fprintf(os.Stderr, "goz3: %v\n", err)
		os.Exit(1)
	}
}
