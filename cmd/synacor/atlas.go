package main

import (
	"fmt"
	"os"

	"github.com/chazu/synacor/atlas"
	"github.com/chazu/synacor/manifest"
)

// handleAtlasCommand processes the `synacor atlas` subcommand.
// Usage:
//
//	synacor atlas list                # print discovered rooms
//	synacor atlas export rooms.atlas  # write the atlas to a file
//	synacor atlas import rooms.atlas  # merge a file into the atlas
func handleAtlasCommand(args []string, m *manifest.Manifest) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: synacor atlas <list|export|import> [file]")
		os.Exit(2)
	}

	store := openStore(m)
	defer store.Close()

	switch args[0] {
	case "list":
		recs, err := store.Rooms()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(recs) == 0 {
			fmt.Println("No rooms discovered yet")
			return
		}
		for _, rec := range recs {
			fmt.Printf("%s  %s\n", rec.DiscoveredAt.Format("2006-01-02 15:04"), rec.Title)
			if len(rec.Exits) > 0 {
				fmt.Printf("    exits: %v\n", rec.Exits)
			}
			if len(rec.Items) > 0 {
				fmt.Printf("    items: %v\n", rec.Items)
			}
		}

	case "export":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: synacor atlas export <file>")
			os.Exit(2)
		}
		a, err := store.Export()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		data, err := atlas.Marshal(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d rooms to %s\n", len(a.Rooms), args[1])

	case "import":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: synacor atlas import <file>")
			os.Exit(2)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a, err := atlas.Unmarshal(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.Import(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d rooms from %s\n", len(a.Rooms), args[1])

	default:
		fmt.Fprintf(os.Stderr, "Unknown atlas command: %s\n", args[0])
		os.Exit(2)
	}
}
