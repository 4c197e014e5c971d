// Package solve automates the guest program's puzzles.
//
// Each solver encodes domain knowledge about one puzzle (the coin
// monument equation, the teleporter's recursive confirmation function, the
// dark twisty passages, the vault grid) and drives the machine purely
// through the public vm and room APIs: stepping, cloning, scripted input,
// output scraping, register and memory inspection. None of them reach into
// execution internals.
package solve
