package room

import (
	"testing"

	"github.com/chazu/synacor/vm"
)

const foothills = `== Foothills ==
You find yourself standing at the base of an enormous mountain.  At its base to the north, there is a massive doorway.  A sign nearby reads "Keep out!  Definitely no treasure within!"

Things of interest here:
- tablet

There are 2 exits:
- doorway
- south

What do you do?`

func TestParseFullRoom(t *testing.T) {
	b := vm.NewBufferString(foothills)
	prelude, r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if prelude != "" {
		t.Errorf("prelude = %q, want empty", prelude)
	}
	if r == nil {
		t.Fatal("Parse returned no room")
	}
	if r.Title != "Foothills" {
		t.Errorf("Title = %q, want %q", r.Title, "Foothills")
	}
	if want := `You find yourself standing at the base of an enormous mountain.  At its base to the north, there is a massive doorway.  A sign nearby reads "Keep out!  Definitely no treasure within!"`; r.Description != want {
		t.Errorf("Description = %q, want %q", r.Description, want)
	}
	if len(r.Items) != 1 || r.Items[0] != "tablet" {
		t.Errorf("Items = %v, want [tablet]", r.Items)
	}
	if len(r.Exits) != 2 || r.Exits[0] != "doorway" || r.Exits[1] != "south" {
		t.Errorf("Exits = %v, want [doorway south]", r.Exits)
	}
}

func TestParsePrelude(t *testing.T) {
	b := vm.NewBufferString("You take the tablet.\n\n== Cave ==\nDark in here.\n\nWhat do you do?")
	prelude, r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := "You take the tablet.\n\n"; prelude != want {
		t.Errorf("prelude = %q, want %q", prelude, want)
	}
	if r == nil || r.Title != "Cave" {
		t.Fatalf("room = %+v, want title Cave", r)
	}
	if r.Description != "Dark in here." {
		t.Errorf("Description = %q, want %q", r.Description, "Dark in here.")
	}
	if len(r.Items) != 0 || len(r.Exits) != 0 {
		t.Errorf("Items/Exits = %v/%v, want empty", r.Items, r.Exits)
	}
}

func TestParseNoRoomAtEOF(t *testing.T) {
	b := vm.NewBufferString("You have been eaten by a grue.\n")
	prelude, r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r != nil {
		t.Errorf("room = %+v, want nil", r)
	}
	if want := "You have been eaten by a grue.\n"; prelude != want {
		t.Errorf("prelude = %q, want %q", prelude, want)
	}
}

func TestParseExitsOnly(t *testing.T) {
	b := vm.NewBufferString("== Hall ==\nA long hall.\n\nThere are 2 exits:\n- north\n- south\n\nWhat do you do?\n")
	_, r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(r.Items) != 0 {
		t.Errorf("Items = %v, want empty", r.Items)
	}
	if len(r.Exits) != 2 {
		t.Errorf("Exits = %v, want 2 entries", r.Exits)
	}
}

func TestParseConsecutiveRooms(t *testing.T) {
	b := vm.NewBufferString("== A ==\nfirst.\n\nWhat do you do?\n== B ==\nsecond.\n\nWhat do you do?")
	_, r1, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	_, r2, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if r1 == nil || r1.Title != "A" || r2 == nil || r2.Title != "B" {
		t.Errorf("titles = %v, %v, want A, B", r1, r2)
	}
}

func TestParseMalformedHeader(t *testing.T) {
	b := vm.NewBufferString("=== broken\n")
	if _, _, err := Parse(b); err == nil {
		t.Error("Parse succeeded on malformed header, want error")
	}
}

// outProgram builds a guest program that prints s and then executes the
// trailing instructions.
func outProgram(s string, tail ...vm.Word) []vm.Word {
	var p []vm.Word
	for _, c := range []byte(s) {
		p = append(p, 19, vm.Word(c)) // out c
	}
	return append(p, tail...)
}

func wordsToImage(words []vm.Word) []byte {
	image := make([]byte, 2*len(words))
	for i, w := range words {
		image[2*i] = byte(w)
		image[2*i+1] = byte(w >> 8)
	}
	return image
}

func TestNextStopsAtPrompt(t *testing.T) {
	// The guest prints a room and its prompt, then blocks on input. Next
	// must stop at the prompt without consuming the in instruction.
	program := outProgram("== Den ==\ncozy.\n\nWhat do you do?", 20, 32768) // in r0
	m := vm.New(wordsToImage(program), vm.NewBuffer(nil), vm.NewBuffer(nil))

	prelude, r, err := Next(m)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if prelude != "" {
		t.Errorf("prelude = %q, want empty", prelude)
	}
	if r == nil || r.Title != "Den" {
		t.Fatalf("room = %+v, want title Den", r)
	}
	if r.Description != "cozy." {
		t.Errorf("Description = %q, want %q", r.Description, "cozy.")
	}
}

func TestNextOnHaltedGuest(t *testing.T) {
	program := outProgram("Game over.\n", 0) // halt
	m := vm.New(wordsToImage(program), vm.NewBuffer(nil), vm.NewBuffer(nil))

	prelude, r, err := Next(m)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if r != nil {
		t.Errorf("room = %+v, want nil", r)
	}
	if prelude != "Game over.\n" {
		t.Errorf("prelude = %q, want %q", prelude, "Game over.\n")
	}
}

func TestNextRequiresBufferedOutput(t *testing.T) {
	m := vm.New(nil, vm.NewBuffer(nil), vm.Discard)
	if _, _, err := Next(m); err != vm.ErrNotBuffered {
		t.Errorf("Next error = %v, want ErrNotBuffered", err)
	}
}
