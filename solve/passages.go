package solve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/synacor/room"
	"github.com/chazu/synacor/vm"
)

// ---------------------------------------------------------------------------
// Twisty passages: find the can, light the lantern, read the wall
// ---------------------------------------------------------------------------

// ErrNoCan is returned when the passages search exhausts every branch
// without finding the can.
var ErrNoCan = errors.New("no can anywhere in the passages")

// passagesWalk carries the DFS state shared across branches. Rooms are
// keyed on their description: passage titles repeat, descriptions don't.
type passagesWalk struct {
	visited map[string]bool
	rec     Recorder
}

// LightLantern searches the twisty passages depth-first for the can, takes
// it, fuels the lantern and lights it. It returns the machine standing in
// the (now lit) room where the can was found, together with that room.
// The machine must use buffered transports; start is the room it currently
// stands in.
func LightLantern(m *vm.VM, start *room.Room) (*vm.VM, *room.Room, error) {
	w := &passagesWalk{visited: make(map[string]bool)}
	lit, err := w.findCan(m, start, "")
	if err != nil {
		return nil, nil, err
	}
	if lit == nil {
		return nil, nil, ErrNoCan
	}

	// Skip the take and fuel messages; lighting the lantern reprints the
	// room.
	if _, _, err := room.Next(lit); err != nil {
		return nil, nil, err
	}
	if _, _, err := room.Next(lit); err != nil {
		return nil, nil, err
	}
	_, here, err := room.Next(lit)
	if err != nil {
		return nil, nil, err
	}
	return lit, here, nil
}

func (w *passagesWalk) findCan(m *vm.VM, here *room.Room, transcript string) (*vm.VM, error) {
	if len(here.Items) > 0 {
		// The can is the only item down here.
		if err := m.AppendInput("take can\nuse can\nuse lantern\n"); err != nil {
			return nil, err
		}
		return m, nil
	}

	for _, exit := range here.Exits {
		// The ladder leads back out of the passages.
		if exit == "ladder" {
			continue
		}

		next := m.Clone()
		if err := next.AppendInput(exit + "\n"); err != nil {
			return nil, err
		}
		_, nextRoom, err := room.Next(next)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", exit, err)
		}
		if nextRoom == nil || w.visited[nextRoom.Description] {
			continue
		}
		w.visited[nextRoom.Description] = true
		record(w.rec, nextRoom, transcript+exit+"\n")

		found, err := w.findCan(next, nextRoom, transcript+exit+"\n")
		if err != nil || found != nil {
			return found, err
		}
	}

	return nil, nil
}

// ChiseledCode walks the lit passages depth-first and returns the first
// inscription chiseled on a cave wall, found as room prelude text; the
// search stops there rather than visiting the remaining branches. rec, if
// non-nil, receives every room discovered on the way.
func ChiseledCode(m *vm.VM, start *room.Room, rec Recorder) (string, error) {
	w := &passagesWalk{visited: make(map[string]bool), rec: rec}
	code, err := w.findChiseled(m, start, "")
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", errors.New("no chiseled inscription found")
	}
	return code, nil
}

func (w *passagesWalk) findChiseled(m *vm.VM, here *room.Room, transcript string) (string, error) {
	for _, exit := range here.Exits {
		if exit == "ladder" {
			continue
		}

		next := m.Clone()
		if err := next.AppendInput(exit + "\n"); err != nil {
			return "", err
		}
		prelude, nextRoom, err := room.Next(next)
		if err != nil {
			return "", fmt.Errorf("walking %s: %w", exit, err)
		}

		if p := strings.TrimSpace(prelude); p != "" {
			if !strings.HasPrefix(p, "Chiseled") {
				return "", fmt.Errorf("unexpected prelude %q", p)
			}
			log.Notice(p)
			return p, nil
		}

		if nextRoom == nil || w.visited[nextRoom.Description] {
			continue
		}
		w.visited[nextRoom.Description] = true
		record(w.rec, nextRoom, transcript+exit+"\n")

		code, err := w.findChiseled(next, nextRoom, transcript+exit+"\n")
		if err != nil || code != "" {
			return code, err
		}
	}

	return "", nil
}
