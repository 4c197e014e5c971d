package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/chazu/synacor/manifest"
	"github.com/chazu/synacor/vm"
)

// handlePlayCommand processes the `synacor play` subcommand.
// Usage:
//
//	synacor play                          # start from the image
//	synacor play -snapshot camp.save      # resume a saved session
//	synacor play -save camp.save          # snapshot on detach
func handlePlayCommand(args []string, m *manifest.Manifest) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	image := fs.String("image", "", "Program image (overrides the manifest)")
	snapshot := fs.String("snapshot", "", "Resume from a snapshot instead of the image")
	save := fs.String("save", "", "Write a snapshot here when input ends")
	fs.Parse(args)
	if *image != "" {
		abs, err := filepath.Abs(*image)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m.Program.Image = abs
	}

	in, out := vm.Terminal()
	machine, err := newMachine(m, *snapshot, in, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "interactive session: Ctrl-D detaches, leaving the machine resumable")
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Machine fault at pc=%d: %v\n", machine.PC, err)
		os.Exit(1)
	}

	// On input EOF the program counter still points at the pending read,
	// so a snapshot taken now resumes exactly where the player detached.
	if *save != "" {
		writeSnapshot(machine, *save)
	}
}

// handleRunCommand processes the `synacor run` subcommand: a headless
// run fed by a command script.
// Usage:
//
//	synacor run -script walkthrough.txt
//	synacor run -script walkthrough.txt -save after.save
func handleRunCommand(args []string, m *manifest.Manifest) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	image := fs.String("image", "", "Program image (overrides the manifest)")
	snapshot := fs.String("snapshot", "", "Resume from a snapshot instead of the image")
	script := fs.String("script", "", "File of commands to feed the machine")
	save := fs.String("save", "", "Write a snapshot here when the script runs out")
	fs.Parse(args)
	if *image != "" {
		abs, err := filepath.Abs(*image)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m.Program.Image = abs
	}

	var input []byte
	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
			os.Exit(1)
		}
		input = data
	}

	machine, err := newMachine(m, *snapshot, vm.NewBuffer(input), vm.NewWriterSink(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Machine fault at pc=%d: %v\n", machine.PC, err)
		os.Exit(1)
	}

	if *save != "" {
		writeSnapshot(machine, *save)
	}
}

func writeSnapshot(machine *vm.VM, path string) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := machine.SaveSnapshotFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Saved snapshot to %s\n", path)
}
