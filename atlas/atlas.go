// Package atlas persists the rooms discovered while exploring the guest
// program. Solver walkers feed it rooms as they find them; the store keeps
// them across runs so the world map can be inspected, exported and merged
// without replaying the exploration.
package atlas

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record is one discovered room plus how it was reached.
type Record struct {
	ID           string    `cbor:"1,keyasint"`
	Title        string    `cbor:"2,keyasint"`
	Description  string    `cbor:"3,keyasint"`
	Items        []string  `cbor:"4,keyasint"`
	Exits        []string  `cbor:"5,keyasint"`
	Transcript   string    `cbor:"6,keyasint"`
	DiscoveredAt time.Time `cbor:"7,keyasint"`
}

// Atlas is a complete exported room map.
type Atlas struct {
	Rooms []Record `cbor:"1,keyasint"`
}

// Fingerprint derives a room's stable identity from its description. Room
// titles repeat across the world (every twisty passage is "Twisty
// passages"); descriptions are unique.
func Fingerprint(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}
