package sim

// Position is one cell on the grid. Value type: comparable, usable as a map
// key for terrain and occupancy sets.
type Position struct {
	X int
	Y int
}

// Distance returns the Manhattan distance between two positions. All range
// checks in the simulation (danger radius, nearest-target search) use this
// metric so evasion and pursuit agree on what "close" means.
func Distance(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Terrain is the set of impassable cells for one map. Static per map stage;
// never mutated during a tick.
type Terrain map[Position]struct{}

// NewTerrain builds a terrain set from a list of blocked cells.
func NewTerrain(blocked ...Position) Terrain {
	t := make(Terrain, len(blocked))
	for _, p := range blocked {
		t[p] = struct{}{}
	}
	return t
}

// Blocked returns true if p is an impassable cell.
func (t Terrain) Blocked(p Position) bool {
	_, ok := t[p]
	return ok
}

// Wall adds a straight run of blocked cells starting at (x, y). dx/dy give
// the direction (one of them zero), n the length. Convenience for building
// scenario maps.
func (t Terrain) Wall(x, y, dx, dy, n int) Terrain {
	for i := 0; i < n; i++ {
		t[Position{X: x + dx*i, Y: y + dy*i}] = struct{}{}
	}
	return t
}

// ValidPosition returns true if p is inside the width x height grid and not
// on terrain. Pure; no side effects.
func ValidPosition(p Position, width, height int, terrain Terrain) bool {
	if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
		return false
	}
	return !terrain.Blocked(p)
}
