// Synacor CLI - the main entry point for running and solving the challenge machine
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/synacor/manifest"
	"github.com/chazu/synacor/vm"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: synacor [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the challenge machine described by synacor.toml.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  play        Run the machine on the terminal\n")
		fmt.Fprintf(os.Stderr, "  run         Run the machine on a command script\n")
		fmt.Fprintf(os.Stderr, "  coins       Solve the monument coin puzzle\n")
		fmt.Fprintf(os.Stderr, "  teleporter  Calibrate and patch the teleporter\n")
		fmt.Fprintf(os.Stderr, "  passages    Light the lantern and read the chiseled code\n")
		fmt.Fprintf(os.Stderr, "  vault       Find the orb path through the vault\n")
		fmt.Fprintf(os.Stderr, "  atlas       Inspect the discovered-rooms database\n")
		fmt.Fprintf(os.Stderr, "  init        Write a default synacor.toml\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  synacor play -save snapshots/camp.save\n")
		fmt.Fprintf(os.Stderr, "  synacor teleporter -snapshot snapshots/hq.save\n")
		fmt.Fprintf(os.Stderr, "  synacor atlas list\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m = manifest.Default(wd)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "play":
		handlePlayCommand(rest, m)
	case "run":
		handleRunCommand(rest, m)
	case "coins":
		handleCoinsCommand()
	case "teleporter":
		handleTeleporterCommand(rest, m)
	case "passages":
		handlePassagesCommand(rest, m)
	case "vault":
		handleVaultCommand(rest, m)
	case "atlas":
		handleAtlasCommand(rest, m)
	case "init":
		handleInitCommand(m)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

// newMachine builds a machine from the manifest image, or from a
// snapshot when one is given.
func newMachine(m *manifest.Manifest, snapshot string, in vm.Source, out vm.Sink) (*vm.VM, error) {
	if snapshot != "" {
		return vm.LoadSnapshotFile(snapshot, in, out)
	}
	return vm.NewFromFile(m.ImagePath(), in, out)
}

// newBufferedMachine builds a machine on buffer transports, which the
// solvers require so they can inspect and replay machine output.
func newBufferedMachine(m *manifest.Manifest, snapshot string) (*vm.VM, error) {
	return newMachine(m, snapshot, vm.NewBuffer(nil), vm.NewBuffer(nil))
}

func handleInitCommand(m *manifest.Manifest) {
	if err := manifest.Save(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", "synacor.toml")
}
