package solve

import (
	"container/heap"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/synacor/room"
	"github.com/chazu/synacor/vm"
)

// ---------------------------------------------------------------------------
// Vault: carry the orb across the grid to the door at the right weight
// ---------------------------------------------------------------------------
//
// The vault antechamber opens onto a 4x4 grid of rooms, each floor showing
// either a number or an operator. Walking the orb through them evaluates
// an expression left to right; the door at the far corner only opens if
// the orb arrives weighing exactly the target. The solver maps the grid by
// walking a cloned machine into every room, then runs Dijkstra over
// (position, weight) states to find the shortest valid walk.

const (
	vaultGridSide    = 4
	vaultStartWeight = 22 // the orb's weight in the antechamber
	vaultDoorWeight  = 30 // what the door demands
)

// vaultCell is one square of the grid: an operator, or a number (op 0).
type vaultCell struct {
	op byte
	n  int
}

// parseVaultCell extracts the floor marking from a room description. The
// number cells quote their digit; the operator cells mention the symbol.
func parseVaultCell(desc string) (vaultCell, error) {
	switch {
	case strings.Contains(desc, "+"):
		return vaultCell{op: '+'}, nil
	case strings.Contains(desc, "-"):
		return vaultCell{op: '-'}, nil
	case strings.Contains(desc, "*"):
		return vaultCell{op: '*'}, nil
	}
	start := strings.IndexByte(desc, '\'')
	if start < 0 {
		return vaultCell{}, fmt.Errorf("no floor marking in %q", desc)
	}
	rest := desc[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return vaultCell{}, fmt.Errorf("unterminated floor marking in %q", desc)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return vaultCell{}, fmt.Errorf("floor marking in %q: %w", desc, err)
	}
	return vaultCell{n: n}, nil
}

type gridPos struct {
	x, y int
}

var vaultDirections = map[gridPos]string{
	{1, 0}:  "east",
	{-1, 0}: "west",
	{0, 1}:  "north",
	{0, -1}: "south",
}

// VaultPath takes the orb, maps the vault grid, and returns the direction
// sequence that brings the orb to the vault door at the required weight.
// The machine must stand in the antechamber with buffered transports. rec,
// if non-nil, receives the grid rooms as they are discovered.
func VaultPath(m *vm.VM, rec Recorder) ([]string, error) {
	if err := m.AppendInput("take orb\nlook\n"); err != nil {
		return nil, err
	}
	// Flush the pickup message, then re-read the antechamber.
	if _, _, err := room.Next(m); err != nil {
		return nil, err
	}
	_, start, err := room.Next(m)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, errors.New("no room to start from")
	}

	grid := make(map[gridPos]vaultCell)
	w := &vaultWalk{grid: grid, rec: rec}
	if err := w.walk(gridPos{0, 0}, m, start, ""); err != nil {
		return nil, err
	}
	// The orb disappears at the door, so the walk never parses its floor.
	grid[gridPos{vaultGridSide - 1, vaultGridSide - 1}] = vaultCell{n: 1}
	log.Infof("mapped %d vault rooms", len(grid))

	path, ok := vaultPathfind(grid)
	if !ok {
		return nil, errors.New("no walk reaches the door at the required weight")
	}

	dirs := make([]string, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		d := gridPos{path[i].x - path[i-1].x, path[i].y - path[i-1].y}
		dirs = append(dirs, vaultDirections[d])
	}
	return dirs, nil
}

type vaultWalk struct {
	grid map[gridPos]vaultCell
	rec  Recorder
}

func (w *vaultWalk) walk(pos gridPos, m *vm.VM, here *room.Room, transcript string) error {
	if _, seen := w.grid[pos]; seen {
		return nil
	}
	cell, err := parseVaultCell(here.Description)
	if err != nil {
		return err
	}
	w.grid[pos] = cell
	record(w.rec, here, transcript)

	// The orb vanishes at the door; nothing to explore beyond it.
	if here.Title == "Vault Door" {
		return nil
	}

	for _, exit := range here.Exits {
		var next gridPos
		switch exit {
		case "east":
			next = gridPos{pos.x + 1, pos.y}
		case "west":
			next = gridPos{pos.x - 1, pos.y}
		case "north":
			next = gridPos{pos.x, pos.y + 1}
		case "south":
			next = gridPos{pos.x, pos.y - 1}
		case "vault":
			continue
		default:
			return fmt.Errorf("unexpected vault exit %q", exit)
		}

		branch := m.Clone()
		if err := branch.AppendInput(exit + "\n"); err != nil {
			return err
		}
		prelude, nextRoom, err := room.Next(branch)
		if err != nil {
			return fmt.Errorf("walking %s: %w", exit, err)
		}

		// A shattering orb means the expression went out of range.
		if strings.Contains(prelude, "shatter") {
			continue
		}
		if nextRoom == nil {
			continue
		}
		// Stay on the grid: its rooms are all "Vault ..." except the
		// antechamber, which would reset the orb.
		if !strings.HasPrefix(nextRoom.Title, "Vault") || nextRoom.Title == "Vault Antechamber" {
			continue
		}

		if err := w.walk(next, branch, nextRoom, transcript+exit+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Pathfinding over (position, weight) states
// ---------------------------------------------------------------------------

type vaultState struct {
	x, y, w int
}

type vaultQueueItem struct {
	state vaultState
	dist  int
}

type vaultQueue []vaultQueueItem

func (q vaultQueue) Len() int            { return len(q) }
func (q vaultQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q vaultQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *vaultQueue) Push(x interface{}) { *q = append(*q, x.(vaultQueueItem)) }
func (q *vaultQueue) Pop() interface{} {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// vaultPathfind runs Dijkstra from the antechamber corner to the door
// corner at the target weight. The weight rides along in the state: the
// same square is worth revisiting at a different accumulated weight.
func vaultPathfind(grid map[gridPos]vaultCell) ([]gridPos, bool) {
	door := gridPos{vaultGridSide - 1, vaultGridSide - 1}
	origin := vaultState{0, 0, vaultStartWeight}

	dist := map[vaultState]int{origin: 0}
	prev := make(map[vaultState]vaultState)

	q := &vaultQueue{{state: origin}}
	for q.Len() > 0 {
		item := heap.Pop(q).(vaultQueueItem)
		s := item.state
		if item.dist > dist[s] {
			continue // stale queue entry
		}

		if s == (vaultState{door.x, door.y, vaultDoorWeight}) {
			path := []gridPos{{s.x, s.y}}
			for {
				p, ok := prev[s]
				if !ok {
					break
				}
				path = append(path, gridPos{p.x, p.y})
				s = p
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}
		// At the door with the wrong weight the orb is gone.
		if (gridPos{s.x, s.y}) == door {
			continue
		}

		cell := grid[gridPos{s.x, s.y}]
		for delta := range vaultDirections {
			np := gridPos{s.x + delta.x, s.y + delta.y}
			// Returning to the antechamber resets the orb.
			if np == (gridPos{0, 0}) {
				continue
			}
			ncell, ok := grid[np]
			if !ok {
				continue
			}

			nw := s.w
			if cell.op != 0 {
				switch cell.op {
				case '+':
					nw = s.w + ncell.n
				case '-':
					nw = s.w - ncell.n
				case '*':
					nw = s.w * ncell.n
				}
			}
			if np.x < 0 || np.x >= vaultGridSide || np.y < 0 || np.y >= vaultGridSide {
				continue
			}
			if nw < 0 || nw >= vm.Modulus {
				continue
			}

			ns := vaultState{np.x, np.y, nw}
			alt := item.dist + 1
			if d, seen := dist[ns]; !seen || alt < d {
				dist[ns] = alt
				prev[ns] = s
				heap.Push(q, vaultQueueItem{state: ns, dist: alt})
			}
		}
	}

	return nil, false
}
