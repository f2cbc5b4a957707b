package sim

// StepFunc produces the next single-cell step from current toward (or away
// from) some fixed reference point. Both StepToward and StepAway satisfy it.
type StepFunc func(current Position) Position

// StepToward returns the adjacent cell (diagonals included) that most reduces
// Manhattan distance to target. The step rule is deliberately not a straight
// diagonal: whichever axis has the larger remaining distance is stepped
// alone, and both axes step together only when the remaining distances are
// equal. The result is a staircase trajectory. StepToward(p, p) returns p.
func StepToward(current, target Position) Position {
	dx := target.X - current.X
	dy := target.Y - current.Y
	return stepBy(current, dx, dy)
}

// StepAway returns the adjacent cell stepping directly away from threat,
// using the same larger-axis / tie-diagonal rule as StepToward.
func StepAway(current, threat Position) Position {
	dx := current.X - threat.X
	dy := current.Y - threat.Y
	return stepBy(current, dx, dy)
}

func stepBy(current Position, dx, dy int) Position {
	switch {
	case abs(dx) > abs(dy):
		current.X += sign(dx)
	case abs(dy) > abs(dx):
		current.Y += sign(dy)
	default:
		// Tie: step both axes. Covers the dx == dy == 0 case too,
		// where the signs are zero and the position is unchanged.
		current.X += sign(dx)
		current.Y += sign(dy)
	}
	return current
}

// MoveWithSpeed applies up to speed single steps produced by step, validating
// each sub-step against bounds, terrain and the occupied set. The first
// invalid sub-step halts movement for this tick; no alternate directions are
// tried. A boxed-in entity simply returns its position unchanged — that is
// not an error.
//
// occupied may be nil. Inputs are never mutated.
func MoveWithSpeed(current Position, step StepFunc, speed, width, height int, terrain Terrain, occupied map[Position]struct{}) Position {
	pos := current
	for i := 0; i < speed; i++ {
		next := step(pos)
		if next == pos {
			break // already at the step target
		}
		if !ValidPosition(next, width, height, terrain) {
			break
		}
		if _, taken := occupied[next]; taken {
			break
		}
		pos = next
	}
	return pos
}
