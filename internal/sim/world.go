package sim

import (
	"fmt"
	"sort"
)

// Evader is one mobile agent trying to reach the exit. ID is stable for the
// whole journey: an evader that escapes a map keeps its ID on the next one,
// and a captured ID is never reused.
type Evader struct {
	ID   int
	Name string
	Pos  Position
}

// World is the mutable simulation snapshot for the currently active map.
// Terrain is shared with the MapConfig and never written.
type World struct {
	Width   int
	Height  int
	Terrain Terrain
	Entry   Position
	Exit    Position

	evaders  []*Evader // active on this map, ascending ID order
	pursuers []Position

	MapIndex int
	Tick     int // per-map, resets on transition
	CumTick  int // whole journey, never resets

	Captured int // across the whole journey
}

// newWorld places evaders and pursuers for the given map stage. Evaders all
// spawn on the entry cell — stacking at spawn is permitted, the same policy
// as stacking at the exit.
func newWorld(mc MapConfig, mapIndex int, evaders []*Evader, spawns []Position) *World {
	w := &World{
		Width:    mc.Width,
		Height:   mc.Height,
		Terrain:  mc.terrainSet(),
		Entry:    mc.Entry,
		Exit:     mc.Exit,
		MapIndex: mapIndex,
		pursuers: append([]Position(nil), spawns...),
	}
	for _, e := range evaders {
		e.Pos = mc.Entry
		w.evaders = append(w.evaders, e)
	}
	sort.Slice(w.evaders, func(i, j int) bool { return w.evaders[i].ID < w.evaders[j].ID })
	return w
}

// Evaders returns the active evaders in ascending ID order. Callers must not
// reorder the slice.
func (w *World) Evaders() []*Evader {
	return w.evaders
}

// Pursuers returns the pursuer positions.
func (w *World) Pursuers() []Position {
	return w.pursuers
}

// EvaderByName finds an active evader by display name.
func (w *World) EvaderByName(name string) (*Evader, bool) {
	for _, e := range w.evaders {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// removeEvader drops the evader with the given ID from active tracking.
func (w *World) removeEvader(id int) *Evader {
	for i, e := range w.evaders {
		if e.ID == id {
			w.evaders = append(w.evaders[:i], w.evaders[i+1:]...)
			return e
		}
	}
	return nil
}

// checkInvariants verifies that every entity is in bounds and off terrain,
// and that no cell holds two pursuers or two evaders. Evaders may stack on
// the exit, and on the entry while the spawn queue drains. A violation is a
// logic bug, not a simulation outcome: the engine halts the run with the
// diagnostic rather than continuing corrupted.
func (w *World) checkInvariants() error {
	seenEv := make(map[Position]string, len(w.evaders))
	for _, e := range w.evaders {
		if !ValidPosition(e.Pos, w.Width, w.Height, w.Terrain) {
			return fmt.Errorf("tick %d: evader %s at illegal position (%d,%d)", w.Tick, e.Name, e.Pos.X, e.Pos.Y)
		}
		if other, ok := seenEv[e.Pos]; ok && e.Pos != w.Exit && e.Pos != w.Entry {
			return fmt.Errorf("tick %d: evaders %s and %s share cell (%d,%d)", w.Tick, other, e.Name, e.Pos.X, e.Pos.Y)
		}
		seenEv[e.Pos] = e.Name
	}
	seenPu := make(map[Position]int, len(w.pursuers))
	for i, p := range w.pursuers {
		if !ValidPosition(p, w.Width, w.Height, w.Terrain) {
			return fmt.Errorf("tick %d: pursuer %d at illegal position (%d,%d)", w.Tick, i, p.X, p.Y)
		}
		if other, ok := seenPu[p]; ok {
			return fmt.Errorf("tick %d: pursuers %d and %d share cell (%d,%d)", w.Tick, other, i, p.X, p.Y)
		}
		seenPu[p] = i
	}
	return nil
}
