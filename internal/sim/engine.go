package sim

import (
	"fmt"
	"math/rand"
)

// Engine drives one simulation run through its journey: per-tick decide →
// move → resolve captures → terminal checks → map transitions. Fully
// synchronous and single-threaded; each Engine owns its World graph and
// shares nothing across runs.
type Engine struct {
	cfg       RunConfig
	rng       *rand.Rand
	world     *World
	sink      Sink
	collector *Collector

	// Evaders that reached the current map's exit, waiting to carry
	// forward (or to be counted as escaped on the final map).
	arrived []*Evader

	starting int
	outcome  Outcome
	done     bool
}

// NewEngine validates cfg and builds the first map's world. sink may be nil
// for a silent run; if it is (or contains, via Tee) a *Collector, the final
// Result carries the full event list.
func NewEngine(cfg RunConfig, sink Sink) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run config: %w", err)
	}
	e := &Engine{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- deterministic spawn scatter, not crypto
		sink:      sink,
		collector: findCollector(sink),
		starting:  cfg.Evaders,
	}
	evaders := make([]*Evader, cfg.Evaders)
	for i := range evaders {
		evaders[i] = &Evader{ID: i, Name: cfg.Roster[i]}
	}
	mc := cfg.Journey[0]
	e.world = newWorld(mc, 0, evaders, mc.spawnPositions(e.rng))
	return e, nil
}

// findCollector unwraps sink looking for a Collector, including inside a Tee.
func findCollector(sink Sink) *Collector {
	switch s := sink.(type) {
	case *Collector:
		return s
	case Tee:
		for _, member := range s {
			if c := findCollector(member); c != nil {
				return c
			}
		}
	}
	return nil
}

// World returns the active map's state for renderers and drivers. Read-only
// by convention; the engine owns all mutation.
func (e *Engine) World() *World {
	return e.world
}

// Done reports whether a terminal condition has fired.
func (e *Engine) Done() bool {
	return e.done
}

// Outcome returns the terminal outcome, or OutcomeNone while running.
func (e *Engine) Outcome() Outcome {
	return e.outcome
}

// ArrivedThisMap returns how many evaders are waiting at the current map's
// exit for the next transition.
func (e *Engine) ArrivedThisMap() int {
	return len(e.arrived)
}

// JourneyLength returns the number of map stages in the configured journey.
func (e *Engine) JourneyLength() int {
	return len(e.cfg.Journey)
}

func (e *Engine) emit(ev Event) {
	if e.sink == nil {
		return
	}
	ev.Tick = e.world.Tick
	ev.CumTick = e.world.CumTick
	ev.Map = e.world.MapIndex
	if ev.Kind != EventMapTransition {
		ev.FromMap = -1
		ev.ToMap = -1
	}
	e.sink.Record(ev)
}

// Step advances the simulation by one tick. It is a no-op once a terminal
// condition has fired. The only error path is an invariant violation, which
// indicates a logic bug and halts the run rather than corrupting state.
func (e *Engine) Step() error {
	if e.done {
		return nil
	}
	w := e.world
	w.Tick++
	w.CumTick++
	e.emit(Event{Kind: EventTurnStart})

	e.moveEvaders()
	e.movePursuers()
	e.resolveCaptures()

	if err := w.checkInvariants(); err != nil {
		return err
	}

	// Terminal checks, in priority order: victory, defeat, timeout, then
	// map transition.
	active := len(w.evaders)
	lastMap := w.MapIndex == len(e.cfg.Journey)-1
	switch {
	case active == 0 && len(e.arrived) > 0 && lastMap:
		return e.finish(OutcomeVictory, Event{Kind: EventVictory})
	case active == 0 && len(e.arrived) == 0:
		return e.finish(OutcomeDefeat, Event{Kind: EventDefeat})
	case w.CumTick >= e.cfg.MaxTicks:
		return e.finish(OutcomeTimeout, Event{Kind: EventTimeout})
	case active == 0:
		e.transition()
	}
	return nil
}

// moveEvaders runs the evader phase. Every evader decides against the same
// fixed snapshot of pursuer positions (end of the previous tick); moves are
// applied in ascending ID order, with the occupancy set updated as each
// evader lands so two evaders never end a sub-step on one cell. The exit is
// never marked occupied — stacking there is permitted.
func (e *Engine) moveEvaders() {
	w := e.world
	pursuerSnap := append([]Position(nil), w.pursuers...)

	occupied := make(map[Position]struct{}, len(w.evaders))
	for _, ev := range w.evaders {
		if ev.Pos != w.Exit {
			occupied[ev.Pos] = struct{}{}
		}
	}

	// Snapshot the order: arrivals mutate w.evaders mid-loop.
	order := append([]*Evader(nil), w.evaders...)
	for _, ev := range order {
		delete(occupied, ev.Pos)
		from := ev.Pos
		dest, evaded := w.evaderDestination(ev, pursuerSnap, occupied, e.cfg)
		ev.Pos = dest
		if dest != w.Exit {
			occupied[dest] = struct{}{}
		}
		if dest != from {
			kind := EventMoved
			if evaded {
				kind = EventEvaded
			}
			e.emit(Event{Kind: kind, Name: ev.Name, From: &from, To: &dest})
		}
		if dest == w.Exit {
			w.removeEvader(ev.ID)
			e.arrived = append(e.arrived, ev)
		}
	}
}

// movePursuers runs the pursuer phase against the post-evader-move snapshot
// of evader positions. Same sequential-occupancy discipline as the evader
// phase: one pursuer per cell, always.
func (e *Engine) movePursuers() {
	w := e.world
	evaderSnap := make([]*Evader, len(w.evaders))
	for i, ev := range w.evaders {
		snap := *ev
		evaderSnap[i] = &snap
	}

	occupied := make(map[Position]struct{}, len(w.pursuers))
	for _, p := range w.pursuers {
		occupied[p] = struct{}{}
	}
	for i, from := range w.pursuers {
		delete(occupied, from)
		dest := w.pursuerDestination(from, evaderSnap, occupied, e.cfg)
		w.pursuers[i] = dest
		occupied[dest] = struct{}{}
		if dest != from {
			e.emit(Event{Kind: EventMoved, Name: fmt.Sprintf("pursuer-%d", i), From: &from, To: &dest})
		}
	}
}

// resolveCaptures removes every evader standing on a pursuer's cell. Checked
// once per tick, after both movement phases — never interleaved.
func (e *Engine) resolveCaptures() {
	w := e.world
	pursuerCells := make(map[Position]struct{}, len(w.pursuers))
	for _, p := range w.pursuers {
		pursuerCells[p] = struct{}{}
	}
	for _, ev := range append([]*Evader(nil), w.evaders...) {
		if _, hit := pursuerCells[ev.Pos]; hit {
			w.removeEvader(ev.ID)
			w.Captured++
			pos := ev.Pos
			e.emit(Event{Kind: EventCaptured, Name: ev.Name, From: &pos, To: &pos})
		}
	}
}

// transition moves the journey to the next map, carrying forward only the
// evaders that reached this map's exit. The cumulative tick counter persists;
// the per-map counter resets. Calling past the last map would be a
// programming error — Step checks for the final map before coming here.
func (e *Engine) transition() {
	w := e.world
	next := w.MapIndex + 1
	mc := e.cfg.Journey[next]
	e.emit(Event{Kind: EventMapTransition, FromMap: w.MapIndex, ToMap: next})

	carried := e.arrived
	e.arrived = nil
	nw := newWorld(mc, next, carried, mc.spawnPositions(e.rng))
	nw.CumTick = w.CumTick
	nw.Captured = w.Captured
	e.world = nw
}

// finish records the terminal outcome and emits its event.
func (e *Engine) finish(outcome Outcome, ev Event) error {
	e.outcome = outcome
	e.done = true
	e.emit(ev)
	return nil
}

// Result assembles the terminal summary. Call after Done; while the run is
// in progress the outcome field reads OutcomeNone.
func (e *Engine) Result() Result {
	r := Result{
		Outcome:  e.outcome,
		Escaped:  len(e.arrived),
		Captured: e.world.Captured,
		Ticks:    e.world.CumTick,
	}
	if e.collector != nil {
		r.Events = e.collector.Events()
	}
	return r
}

// Run steps the engine to completion and returns the Result. The loop has no
// delay and no I/O beyond the sink — interactive pacing belongs to drivers.
func (e *Engine) Run() (Result, error) {
	for !e.done {
		if err := e.Step(); err != nil {
			return Result{}, err
		}
	}
	return e.Result(), nil
}
