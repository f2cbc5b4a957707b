package sim

// nearestPursuer returns the pursuer closest to from by Manhattan distance.
// Ties break to the lowest slice index so runs are reproducible. ok is false
// when there are no pursuers.
func nearestPursuer(from Position, pursuers []Position) (nearest Position, dist int, ok bool) {
	for _, p := range pursuers {
		d := Distance(from, p)
		if !ok || d < dist {
			nearest, dist, ok = p, d, true
		}
	}
	return nearest, dist, ok
}

// evaderDestination applies the evader policy for one tick: flee the nearest
// pursuer inside the danger radius, otherwise head for the exit. When every
// flee sub-step is invalid (grid edge, terrain, occupied cell) the evader
// falls back to goal-seeking for this tick instead of freezing — fleeing
// straight into a wall is worse than slipping along it toward the exit.
//
// pursuers is the fixed previous-phase snapshot; occupied holds the cells
// other evaders sit on (exit excluded by the caller). Returns the destination
// and whether the evasion rule produced the move.
func (w *World) evaderDestination(e *Evader, pursuers []Position, occupied map[Position]struct{}, cfg RunConfig) (Position, bool) {
	threat, dist, ok := nearestPursuer(e.Pos, pursuers)
	if ok && dist <= cfg.DangerDistance {
		away := func(p Position) Position { return StepAway(p, threat) }
		dest := MoveWithSpeed(e.Pos, away, cfg.EvaderSpeed, w.Width, w.Height, w.Terrain, occupied)
		if dest != e.Pos {
			return dest, true
		}
		// Boxed in on the flee side; goal-seek instead.
	}
	toward := func(p Position) Position { return StepToward(p, w.Exit) }
	return MoveWithSpeed(e.Pos, toward, cfg.EvaderSpeed, w.Width, w.Height, w.Terrain, occupied), false
}
