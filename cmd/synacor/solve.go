package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/synacor/atlas"
	"github.com/chazu/synacor/manifest"
	"github.com/chazu/synacor/room"
	"github.com/chazu/synacor/solve"
	"github.com/chazu/synacor/vm"
)

// handleCoinsCommand processes the `synacor coins` subcommand. The coin
// puzzle is closed-form, so no machine state is needed.
func handleCoinsCommand() {
	order, ok := solve.CoinOrder()
	if !ok {
		fmt.Fprintln(os.Stderr, "No coin ordering satisfies the monument equation")
		os.Exit(1)
	}
	// The names already carry the "coin" suffix.
	for _, coin := range order {
		fmt.Printf("use %s\n", coin)
	}
}

// handleTeleporterCommand processes the `synacor teleporter` subcommand.
// It needs a snapshot taken where the teleporter is in hand.
// Usage:
//
//	synacor teleporter -snapshot hq.save
//	synacor teleporter -snapshot hq.save -save beach.save
func handleTeleporterCommand(args []string, m *manifest.Manifest) {
	fs := flag.NewFlagSet("teleporter", flag.ExitOnError)
	snapshot := fs.String("snapshot", "", "Snapshot with the teleporter in hand (required)")
	save := fs.String("save", "", "Write a post-patch snapshot here")
	fs.Parse(args)

	machine := mustBufferedMachine(m, fs, *snapshot)

	r7, err := solve.PatchTeleporter(machine, m.Solve.TeleporterWorkers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("calibration value: %d\n", r7)

	if *save != "" {
		writeSnapshot(machine, *save)
	}
}

// handlePassagesCommand processes the `synacor passages` subcommand: it
// explores the dark passages, lights the lantern, and reads the code
// chiseled on the rock. Discovered rooms are recorded in the atlas.
// Usage:
//
//	synacor passages -snapshot passages.save
func handlePassagesCommand(args []string, m *manifest.Manifest) {
	fs := flag.NewFlagSet("passages", flag.ExitOnError)
	snapshot := fs.String("snapshot", "", "Snapshot at the passages entrance (required)")
	fs.Parse(args)

	machine := mustBufferedMachine(m, fs, *snapshot)
	store := openStore(m)
	defer store.Close()

	start := mustLook(machine)
	lit, litRoom, err := solve.LightLantern(machine, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error lighting lantern: %v\n", err)
		os.Exit(1)
	}

	code, err := solve.ChiseledCode(lit, litRoom, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(strings.TrimSpace(code))
}

// handleVaultCommand processes the `synacor vault` subcommand: it maps
// the vault grid and prints the command sequence that opens the door.
// Usage:
//
//	synacor vault -snapshot antechamber.save
func handleVaultCommand(args []string, m *manifest.Manifest) {
	fs := flag.NewFlagSet("vault", flag.ExitOnError)
	snapshot := fs.String("snapshot", "", "Snapshot in the vault antechamber (required)")
	fs.Parse(args)

	machine := mustBufferedMachine(m, fs, *snapshot)
	store := openStore(m)
	defer store.Close()

	path, err := solve.VaultPath(machine, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, step := range path {
		fmt.Printf("go %s\n", step)
	}
}

func mustBufferedMachine(m *manifest.Manifest, fs *flag.FlagSet, snapshot string) *vm.VM {
	if snapshot == "" {
		fmt.Fprintf(os.Stderr, "Error: -snapshot is required\n")
		fs.Usage()
		os.Exit(2)
	}
	machine, err := newBufferedMachine(m, snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return machine
}

// mustLook issues a look command so the machine reprints the room the
// snapshot was taken in.
func mustLook(machine *vm.VM) *room.Room {
	if err := machine.AppendInput("look\n"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_, r, err := room.Next(machine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading room: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintln(os.Stderr, "Error: machine did not describe a room")
		os.Exit(1)
	}
	return r
}

func openStore(m *manifest.Manifest) *atlas.Store {
	path := m.AtlasPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	store, err := atlas.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening atlas: %v\n", err)
		os.Exit(1)
	}
	return store
}
