package sim

// nearestEvader returns the active evader closest to from by Manhattan
// distance. Evaders are scanned in ascending ID order, and a strict
// less-than comparison keeps the lowest ID on ties — the documented,
// deterministic tie-break.
func nearestEvader(from Position, evaders []*Evader) (*Evader, bool) {
	var (
		best     *Evader
		bestDist int
	)
	for _, e := range evaders {
		d := Distance(from, e.Pos)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// pursuerDestination applies the pursuer policy for one tick: chase the
// nearest active evader at pursuer speed. No lookahead, no path avoidance —
// a pursuer walks straight at its quarry and relies on evader mistakes.
// With no active evaders the pursuer idles in place.
//
// evaders is the fixed post-evader-phase snapshot; occupied holds the cells
// other pursuers sit on.
func (w *World) pursuerDestination(from Position, evaders []*Evader, occupied map[Position]struct{}, cfg RunConfig) Position {
	quarry, ok := nearestEvader(from, evaders)
	if !ok {
		return from
	}
	target := quarry.Pos
	toward := func(p Position) Position { return StepToward(p, target) }
	return MoveWithSpeed(from, toward, cfg.PursuerSpeed, w.Width, w.Height, w.Terrain, occupied)
}
