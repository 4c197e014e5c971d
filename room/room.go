// Package room scrapes structured room records out of the guest program's
// accumulated output.
//
// The guest describes each location in a fixed textual shape: a
// "== Title ==" header, a description block terminated by a blank line, an
// optional "Things of interest here:" list, an optional "There are N
// exits:" list, and finally the literal command prompt. The parser
// recognizes those delimiters from a caller-held output cursor; it knows
// nothing about the machine's execution beyond the public stepping API.
package room

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/synacor/vm"
)

// Prompt is the literal string the guest prints when it is ready for a
// command.
const Prompt = "What do you do?"

// Room is one parsed location.
type Room struct {
	Title       string
	Description string
	Items       []string
	Exits       []string
}

// Parse extracts the next room block from the output cursor. Text before
// the header is returned as the prelude (item pickups, inscriptions, error
// chatter). If the stream ends before a header starts, the room is nil and
// the prelude carries whatever text was left.
func Parse(b *vm.Buffer) (prelude string, r *Room, err error) {
	// Everything up to the header's first '=' is prelude.
	prelude, preludeErr := b.ReadString('=')
	prelude = strings.TrimSuffix(prelude, "=")
	if preludeErr == io.EOF {
		return prelude, nil, nil
	}

	header, err := b.ReadString('\n')
	if err == io.EOF && header == "" {
		return prelude, nil, nil
	}
	line := strings.TrimSuffix(header, "\n")
	if !strings.HasPrefix(line, "= ") || !strings.HasSuffix(line, " ==") {
		return prelude, nil, fmt.Errorf("malformed room header %q", "="+line)
	}
	r = &Room{Title: line[2 : len(line)-3]}

	// Description runs until the prompt or a list header.
	var desc strings.Builder
	for {
		header, err = b.ReadString('\n')
		if isPrompt(header) || strings.HasSuffix(header, ":\n") {
			break
		}
		if err == io.EOF {
			return prelude, nil, fmt.Errorf("output ended inside room %q", r.Title)
		}
		desc.WriteString(header)
	}
	r.Description = strings.TrimSuffix(desc.String(), "\n\n")

	// List sections until the prompt.
	for !isPrompt(header) {
		var list *[]string
		switch {
		case strings.HasPrefix(header, "There"):
			list = &r.Exits
		case strings.HasPrefix(header, "Things"):
			list = &r.Items
		default:
			return prelude, nil, fmt.Errorf("unknown section header %q", header)
		}

		for {
			item, err := b.ReadString('\n')
			if item == "\n" {
				break
			}
			if err == io.EOF {
				return prelude, nil, fmt.Errorf("output ended inside a list in room %q", r.Title)
			}
			item = strings.TrimSuffix(strings.TrimPrefix(item, "- "), "\n")
			*list = append(*list, item)
		}

		if header, err = b.ReadString('\n'); err == io.EOF && !isPrompt(header) {
			return prelude, nil, fmt.Errorf("output ended inside room %q", r.Title)
		}
	}

	return prelude, r, nil
}

// isPrompt matches the prompt line whether or not the trailing newline has
// been emitted yet.
func isPrompt(line string) bool {
	return line == Prompt || line == Prompt+"\n"
}

// Next steps m until the guest has printed its command prompt, or until it
// halts (including running out of scripted input), then parses the next
// room block from the machine's output cursor. The machine must use
// buffered output.
func Next(m *vm.VM) (prelude string, r *Room, err error) {
	out := m.OutputBuffer()
	if out == nil {
		return "", nil, vm.ErrNotBuffered
	}
	for !promptPending(out) {
		if err := m.Step(); err != nil {
			if err == vm.ErrHalt {
				break
			}
			return "", nil, err
		}
	}
	return Parse(out)
}

func promptPending(out *vm.Buffer) bool {
	unread := out.Unread()
	return bytes.HasSuffix(unread, []byte(Prompt)) ||
		bytes.HasSuffix(unread, []byte(Prompt+"\n"))
}
