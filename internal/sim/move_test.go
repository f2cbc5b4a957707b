package sim

import "testing"

func TestStepToward_LargerAxisFirst(t *testing.T) {
	// |dx| > |dy|: only the x axis steps — the staircase rule, not a
	// straight diagonal.
	got := StepToward(Position{X: 0, Y: 0}, Position{X: 5, Y: 2})
	if got != (Position{X: 1, Y: 0}) {
		t.Errorf("step = %v, want (1,0)", got)
	}

	// |dy| > |dx|: only the y axis steps.
	got = StepToward(Position{X: 0, Y: 0}, Position{X: 2, Y: 5})
	if got != (Position{X: 0, Y: 1}) {
		t.Errorf("step = %v, want (0,1)", got)
	}
}

func TestStepToward_TieStepsDiagonally(t *testing.T) {
	got := StepToward(Position{X: 0, Y: 0}, Position{X: 4, Y: 4})
	if got != (Position{X: 1, Y: 1}) {
		t.Errorf("step = %v, want (1,1)", got)
	}
	got = StepToward(Position{X: 4, Y: 0}, Position{X: 0, Y: 4})
	if got != (Position{X: 3, Y: 1}) {
		t.Errorf("step = %v, want (3,1)", got)
	}
}

func TestStepToward_AtTargetReturnsSame(t *testing.T) {
	p := Position{X: 7, Y: 7}
	if got := StepToward(p, p); got != p {
		t.Errorf("StepToward(p, p) = %v, want %v", got, p)
	}
}

func TestStepAway_MirrorsStepToward(t *testing.T) {
	cur := Position{X: 5, Y: 5}
	threat := Position{X: 5, Y: 9}
	if got := StepAway(cur, threat); got != (Position{X: 5, Y: 4}) {
		t.Errorf("flee north: got %v, want (5,4)", got)
	}
	// Equidistant threat: flee diagonally.
	threat = Position{X: 3, Y: 3}
	if got := StepAway(cur, threat); got != (Position{X: 6, Y: 6}) {
		t.Errorf("flee diagonal: got %v, want (6,6)", got)
	}
}

func TestMoveWithSpeed_AppliesUpToSpeedSteps(t *testing.T) {
	toward := func(p Position) Position { return StepToward(p, Position{X: 9, Y: 0}) }
	got := MoveWithSpeed(Position{X: 0, Y: 0}, toward, 3, 10, 10, nil, nil)
	if got != (Position{X: 3, Y: 0}) {
		t.Errorf("got %v, want (3,0)", got)
	}
}

func TestMoveWithSpeed_StopsAtTarget(t *testing.T) {
	target := Position{X: 1, Y: 0}
	toward := func(p Position) Position { return StepToward(p, target) }
	got := MoveWithSpeed(Position{X: 0, Y: 0}, toward, 5, 10, 10, nil, nil)
	if got != target {
		t.Errorf("got %v, want %v — must not overshoot the target", got, target)
	}
}

func TestMoveWithSpeed_HaltsOnTerrain(t *testing.T) {
	terrain := NewTerrain(Position{X: 2, Y: 0})
	toward := func(p Position) Position { return StepToward(p, Position{X: 9, Y: 0}) }
	got := MoveWithSpeed(Position{X: 0, Y: 0}, toward, 5, 10, 10, terrain, nil)
	if got != (Position{X: 1, Y: 0}) {
		t.Errorf("got %v, want (1,0) — movement halts at the blocked sub-step", got)
	}
}

func TestMoveWithSpeed_HaltsOnOccupiedCell(t *testing.T) {
	occupied := map[Position]struct{}{{X: 1, Y: 0}: {}}
	toward := func(p Position) Position { return StepToward(p, Position{X: 9, Y: 0}) }
	got := MoveWithSpeed(Position{X: 0, Y: 0}, toward, 2, 10, 10, nil, occupied)
	if got != (Position{X: 0, Y: 0}) {
		t.Errorf("got %v, want no movement past an occupied first step", got)
	}
}

func TestMoveWithSpeed_BoxedInReturnsUnchanged(t *testing.T) {
	// All eight neighbours of (1,1) blocked: consuming the whole speed
	// budget without moving is not an error.
	terrain := NewTerrain(
		Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 2, Y: 0},
		Position{X: 0, Y: 1}, Position{X: 2, Y: 1},
		Position{X: 0, Y: 2}, Position{X: 1, Y: 2}, Position{X: 2, Y: 2},
	)
	toward := func(p Position) Position { return StepToward(p, Position{X: 9, Y: 9}) }
	got := MoveWithSpeed(Position{X: 1, Y: 1}, toward, 4, 10, 10, terrain, nil)
	if got != (Position{X: 1, Y: 1}) {
		t.Errorf("got %v, want (1,1)", got)
	}
}

func TestMoveWithSpeed_NeverLeavesGrid(t *testing.T) {
	// Fleeing off the south edge: the invalid sub-step halts movement
	// rather than stepping out of bounds or panicking.
	threat := Position{X: 10, Y: 15}
	away := func(p Position) Position { return StepAway(p, threat) }
	got := MoveWithSpeed(Position{X: 10, Y: 19}, away, 2, 20, 20, nil, nil)
	if got != (Position{X: 10, Y: 19}) {
		t.Errorf("got %v, want (10,19) — flee direction is off-grid", got)
	}
}
